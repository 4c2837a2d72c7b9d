package service

import (
	"context"
	"testing"

	"clinic-directory/internal/models"
	"clinic-directory/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDirectoryRepository is a mock implementation of the DirectoryRepository interface
type MockDirectoryRepository struct {
	mock.Mock
}

func (m *MockDirectoryRepository) SearchClinics(ctx context.Context, kind, query string, limit int) ([]models.Clinic, error) {
	args := m.Called(ctx, kind, query, limit)
	if clinics, ok := args.Get(0).([]models.Clinic); ok {
		return clinics, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectoryRepository) GetClinic(ctx context.Context, id int64) (*models.Clinic, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*models.Clinic); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectoryRepository) FindClinicByNameAddress(ctx context.Context, name, address string) (*models.Clinic, error) {
	args := m.Called(ctx, name, address)
	if c, ok := args.Get(0).(*models.Clinic); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectoryRepository) CreateClinic(ctx context.Context, c *models.Clinic) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDirectoryRepository) UpdateClinic(ctx context.Context, c *models.Clinic) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockDirectoryRepository) UpdateClinicCoords(ctx context.Context, id int64, lat, lon float64) error {
	args := m.Called(ctx, id, lat, lon)
	return args.Error(0)
}

func (m *MockDirectoryRepository) DeleteClinic(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestDirectoryService_Search_ViewFilter(t *testing.T) {
	tests := []struct {
		name         string
		view         string
		expectedKind string
	}{
		{"all clinics", "all", ""},
		{"ambassadors only", "ambassadors", models.KindAmbassadors},
		{"authorized only", "authorized", models.KindAuthorized},
		{"unknown view falls back to all", "gibberish", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDirectoryRepository)
			repo.On("SearchClinics", mock.Anything, tt.expectedKind, "kraków", 500).
				Return([]models.Clinic{}, nil)

			service := NewDirectoryService(repo, new(MockResolver))
			_, err := service.Search(context.Background(), tt.view, "  kraków  ", 500)

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestDirectoryService_Regeocode(t *testing.T) {
	clinic := &models.Clinic{ID: 5, Name: "Klinika", Address: "ul. Floriańska 44, Kraków"}

	t.Run("clinic not found", func(t *testing.T) {
		repo := new(MockDirectoryRepository)
		repo.On("GetClinic", mock.Anything, int64(5)).Return(nil, repository.ErrNotFound)

		service := NewDirectoryService(repo, new(MockResolver))
		_, err := service.Regeocode(context.Background(), 5)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("address does not resolve", func(t *testing.T) {
		repo := new(MockDirectoryRepository)
		resolver := new(MockResolver)
		repo.On("GetClinic", mock.Anything, int64(5)).Return(clinic, nil)
		resolver.On("Resolve", mock.Anything, clinic.Address).Return(nil)

		service := NewDirectoryService(repo, resolver)
		_, err := service.Regeocode(context.Background(), 5)

		assert.ErrorIs(t, err, ErrUnresolvedAddress)
		repo.AssertNotCalled(t, "UpdateClinicCoords", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success persists coordinates", func(t *testing.T) {
		repo := new(MockDirectoryRepository)
		resolver := new(MockResolver)
		repo.On("GetClinic", mock.Anything, int64(5)).Return(clinic, nil)
		resolver.On("Resolve", mock.Anything, clinic.Address).
			Return(&models.Coordinates{Lat: 50.0614, Lon: 19.9366})
		repo.On("UpdateClinicCoords", mock.Anything, int64(5), 50.0614, 19.9366).Return(nil)

		service := NewDirectoryService(repo, resolver)
		coords, err := service.Regeocode(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, &models.Coordinates{Lat: 50.0614, Lon: 19.9366}, coords)
		repo.AssertExpectations(t)
	})
}

func TestDirectoryService_BulkImport_ParsesAndCounts(t *testing.T) {
	raw := `
# header comment
Acme|Main St 1|Springfield||| amb
Nowa Klinika|ul. Prosta 5|Warszawa|+48 600 000 000|https://example.com
just-a-name
`

	repo := new(MockDirectoryRepository)
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything).Return(nil)

	repo.On("FindClinicByNameAddress", mock.Anything, "Acme", "Main St 1").
		Return(nil, repository.ErrNotFound)
	repo.On("CreateClinic", mock.Anything, mock.MatchedBy(func(c *models.Clinic) bool {
		return c.Name == "Acme" && c.Kind == models.KindAmbassadors && c.City == "Springfield"
	})).Return(int64(1), nil)

	repo.On("FindClinicByNameAddress", mock.Anything, "Nowa Klinika", "ul. Prosta 5").
		Return(nil, repository.ErrNotFound)
	repo.On("CreateClinic", mock.Anything, mock.MatchedBy(func(c *models.Clinic) bool {
		return c.Name == "Nowa Klinika" && c.Kind == models.KindAuthorized && c.Phone == "+48 600 000 000"
	})).Return(int64(2), nil)

	service := NewDirectoryService(repo, resolver)
	created, updated, skipped, err := service.BulkImport(context.Background(), raw, "")

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, updated)
	assert.Equal(t, 1, skipped)
	repo.AssertExpectations(t)
}

func TestDirectoryService_BulkImport_UpdatesExisting(t *testing.T) {
	// Re-importing the same name and address with a different phone updates
	// the existing record instead of duplicating it.
	existing := &models.Clinic{
		ID: 1, Kind: models.KindAuthorized, Name: "Acme", Address: "Main St 1",
		City: "Springfield", Notes: "kept", Lat: fptr(52.0), Lon: fptr(21.0),
	}

	repo := new(MockDirectoryRepository)
	resolver := new(MockResolver)
	repo.On("FindClinicByNameAddress", mock.Anything, "Acme", "Main St 1").Return(existing, nil)
	repo.On("UpdateClinic", mock.Anything, mock.MatchedBy(func(c *models.Clinic) bool {
		return c.ID == 1 &&
			c.Kind == models.KindAmbassadors &&
			c.Phone == "+48 700 000 000" &&
			c.Notes == "kept" &&
			c.Lat != nil && *c.Lat == 52.0
	})).Return(nil)

	service := NewDirectoryService(repo, resolver)
	created, updated, skipped, err := service.BulkImport(context.Background(),
		"Acme|Main St 1|Springfield|+48 700 000 000||amb", "")

	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 0, skipped)
	repo.AssertExpectations(t)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestDirectoryService_BulkImport_DefaultKind(t *testing.T) {
	repo := new(MockDirectoryRepository)
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything).Return(nil)
	repo.On("FindClinicByNameAddress", mock.Anything, "Acme", "Main St 1").
		Return(nil, repository.ErrNotFound)
	repo.On("CreateClinic", mock.Anything, mock.MatchedBy(func(c *models.Clinic) bool {
		return c.Kind == models.KindAmbassadors
	})).Return(int64(1), nil)

	service := NewDirectoryService(repo, resolver)
	created, _, _, err := service.BulkImport(context.Background(), "Acme|Main St 1", "ambassadors")

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	repo.AssertExpectations(t)
}

func TestDirectoryService_Create_GeocodesMissingCoordinates(t *testing.T) {
	repo := new(MockDirectoryRepository)
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, "ul. Długa 10, Gdańsk").
		Return(&models.Coordinates{Lat: 54.352, Lon: 18.6466})
	repo.On("CreateClinic", mock.Anything, mock.MatchedBy(func(c *models.Clinic) bool {
		return c.Lat != nil && *c.Lat == 54.352 && c.Lon != nil && *c.Lon == 18.6466
	})).Return(int64(3), nil)

	service := NewDirectoryService(repo, resolver)
	id, err := service.Create(context.Background(), &models.Clinic{
		Kind: "authorized", Name: "X-Levage Gdańsk", Address: "ul. Długa 10, Gdańsk",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	repo.AssertExpectations(t)
}

func TestDirectoryService_Create_UnresolvableAddressIsNotAnError(t *testing.T) {
	repo := new(MockDirectoryRepository)
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateClinic", mock.Anything, mock.MatchedBy(func(c *models.Clinic) bool {
		return c.Lat == nil && c.Lon == nil
	})).Return(int64(4), nil)

	service := NewDirectoryService(repo, resolver)
	id, err := service.Create(context.Background(), &models.Clinic{
		Kind: "authorized", Name: "Nieznana", Address: "Nieznana 1",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
}
