package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-directory/internal/models"
	"clinic-directory/internal/repository"
)

// ErrUnresolvedAddress is returned when a re-geocode request could not
// resolve the clinic's address. Nothing is persisted in that case.
var ErrUnresolvedAddress = errors.New("service: address could not be resolved")

// Directory views accepted by Search.
const (
	ViewAll         = "all"
	ViewAmbassadors = models.KindAmbassadors
	ViewAuthorized  = models.KindAuthorized
)

// DirectoryRepository is the slice of the storage layer serving directory
// reads and admin mutations.
type DirectoryRepository interface {
	SearchClinics(ctx context.Context, kind, query string, limit int) ([]models.Clinic, error)
	GetClinic(ctx context.Context, id int64) (*models.Clinic, error)
	FindClinicByNameAddress(ctx context.Context, name, address string) (*models.Clinic, error)
	CreateClinic(ctx context.Context, c *models.Clinic) (int64, error)
	UpdateClinic(ctx context.Context, c *models.Clinic) error
	UpdateClinicCoords(ctx context.Context, id int64, lat, lon float64) error
	DeleteClinic(ctx context.Context, id int64) error
}

// DirectoryService serves filtered directory reads and admin mutations.
type DirectoryService struct {
	repo     DirectoryRepository
	geocoder Resolver
}

// NewDirectoryService creates a new directory service.
func NewDirectoryService(repo DirectoryRepository, geocoder Resolver) *DirectoryService {
	return &DirectoryService{repo: repo, geocoder: geocoder}
}

// Search returns clinics for a view (all, ambassadors or authorized; anything
// else falls back to all) optionally narrowed by a free-text query matched
// case-insensitively against name, address and city.
func (s *DirectoryService) Search(ctx context.Context, view, query string, limit int) ([]models.Clinic, error) {
	kind := ""
	if view == ViewAmbassadors || view == ViewAuthorized {
		kind = view
	}
	clinics, err := s.repo.SearchClinics(ctx, kind, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search clinics: %w", err)
	}
	return clinics, nil
}

// Get returns one clinic by id; repository.ErrNotFound passes through.
func (s *DirectoryService) Get(ctx context.Context, id int64) (*models.Clinic, error) {
	return s.repo.GetClinic(ctx, id)
}

// Create inserts a new clinic. When coordinates are missing the address is
// geocoded first; an unresolvable address is not an error, the clinic is
// simply stored without coordinates.
func (s *DirectoryService) Create(ctx context.Context, c *models.Clinic) (int64, error) {
	c.Kind = models.NormalizeKind(c.Kind)
	s.geocodeIfMissing(ctx, c)
	id, err := s.repo.CreateClinic(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("service: failed to create clinic: %w", err)
	}
	return id, nil
}

// Update overwrites an existing clinic, geocoding the address first when
// coordinates are missing. repository.ErrNotFound passes through.
func (s *DirectoryService) Update(ctx context.Context, c *models.Clinic) error {
	c.Kind = models.NormalizeKind(c.Kind)
	s.geocodeIfMissing(ctx, c)
	return s.repo.UpdateClinic(ctx, c)
}

// Delete removes a clinic; repository.ErrNotFound passes through.
func (s *DirectoryService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteClinic(ctx, id)
}

// Regeocode re-resolves the clinic's address and persists the result only on
// success. It returns ErrUnresolvedAddress when the lookup finds nothing and
// repository.ErrNotFound when the clinic does not exist.
func (s *DirectoryService) Regeocode(ctx context.Context, id int64) (*models.Coordinates, error) {
	clinic, err := s.repo.GetClinic(ctx, id)
	if err != nil {
		return nil, err
	}
	coords := s.geocoder.Resolve(ctx, clinic.Address)
	if coords == nil {
		return nil, ErrUnresolvedAddress
	}
	if err := s.repo.UpdateClinicCoords(ctx, id, coords.Lat, coords.Lon); err != nil {
		return nil, fmt.Errorf("service: failed to store coordinates: %w", err)
	}
	return coords, nil
}

// BulkImport ingests clinics from a line-oriented text block, one clinic per
// line:
//
//	name | address | city | phone | website | kind
//
// Blank lines and lines starting with '#' are ignored; lines with fewer than
// two fields are counted as skipped. The kind column is optional and
// normalized by prefix ("amb..." means ambassadors). Lines matching an
// existing clinic on exact (name, address) update it, everything else is
// inserted.
func (s *DirectoryService) BulkImport(ctx context.Context, raw, defaultKind string) (created, updated, skipped int, err error) {
	if defaultKind == "" {
		defaultKind = models.KindAuthorized
	}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) < 2 {
			skipped++
			continue
		}

		field := func(i int) string {
			if i < len(parts) {
				return parts[i]
			}
			return ""
		}
		kind := field(5)
		if kind == "" {
			kind = defaultKind
		}

		entry := models.Clinic{
			Kind:    models.NormalizeKind(kind),
			Name:    field(0),
			Address: field(1),
			City:    field(2),
			Phone:   field(3),
			Website: field(4),
		}

		existing, findErr := s.repo.FindClinicByNameAddress(ctx, entry.Name, entry.Address)
		switch {
		case findErr == nil:
			entry.ID = existing.ID
			entry.Notes = existing.Notes
			entry.Lat, entry.Lon = existing.Lat, existing.Lon
			if updErr := s.Update(ctx, &entry); updErr != nil {
				return created, updated, skipped, fmt.Errorf("service: import failed to update %q: %w", entry.Name, updErr)
			}
			updated++
		case errors.Is(findErr, repository.ErrNotFound):
			if _, crtErr := s.Create(ctx, &entry); crtErr != nil {
				return created, updated, skipped, fmt.Errorf("service: import failed to create %q: %w", entry.Name, crtErr)
			}
			created++
		default:
			return created, updated, skipped, fmt.Errorf("service: import lookup failed for %q: %w", entry.Name, findErr)
		}
	}
	return created, updated, skipped, nil
}

func (s *DirectoryService) geocodeIfMissing(ctx context.Context, c *models.Clinic) {
	if c.Lat != nil && c.Lon != nil {
		return
	}
	if coords := s.geocoder.Resolve(ctx, c.Address); coords != nil {
		c.Lat, c.Lon = &coords.Lat, &coords.Lon
	}
}
