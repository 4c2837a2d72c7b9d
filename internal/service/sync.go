// Package service contains the business logic of the clinic directory: the
// startup reconciler, the geocoding client, directory queries and mutations,
// and lead intake.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"clinic-directory/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SyncRepository is the slice of the storage layer the reconciler mutates.
type SyncRepository interface {
	ListClinics(ctx context.Context) ([]models.Clinic, error)
	CreateClinic(ctx context.Context, c *models.Clinic) (int64, error)
	CorrectClinic(ctx context.Context, id int64, kind string, lat, lon *float64) error
	DeleteClinics(ctx context.Context, ids []int64) error
	UpdateClinicCoords(ctx context.Context, id int64, lat, lon float64) error
}

// Resolver resolves an address to coordinates, or nil when unknown.
type Resolver interface {
	Resolve(ctx context.Context, address string) *models.Coordinates
}

// SyncService reconciles the persisted directory against the authoritative
// clinic list. It runs once at startup, before any request is served.
type SyncService struct {
	repo     SyncRepository
	geocoder Resolver
	logger   zerolog.Logger
}

// NewSyncService creates a new directory reconciler.
func NewSyncService(repo SyncRepository, geocoder Resolver) *SyncService {
	return &SyncService{
		repo:     repo,
		geocoder: geocoder,
		logger:   log.With().Str("component", "sync").Logger(),
	}
}

// LoadAuthoritativeList reads the authoritative clinic list from a JSON file.
func LoadAuthoritativeList(path string) ([]models.AuthoritativeClinic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read clinic list: %w", err)
	}
	var list []models.AuthoritativeClinic
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("service: failed to parse clinic list: %w", err)
	}
	return list, nil
}

// Sync makes the clinics table match the authoritative list:
//
//  1. rows whose (name, address, city, phone) key is not on the list are
//     deleted in one batch,
//  2. matched rows get their kind and coordinates corrected — stored
//     coordinates are never nulled out just because the list entry lacks
//     them,
//  3. list entries with no matching row are inserted,
//  4. a best-effort second pass geocodes every row still missing
//     coordinates; per-row failures are logged and skipped.
//
// Storage errors in steps 1-3 abort the run; the caller decides whether the
// process may serve requests without a reconciled directory.
func (s *SyncService) Sync(ctx context.Context, list []models.AuthoritativeClinic) error {
	// Last entry wins when the list itself carries duplicate keys; the list
	// is trusted to be deduplicated upstream.
	desired := make(map[models.ClinicKey]models.AuthoritativeClinic, len(list))
	for _, entry := range list {
		desired[entry.Key()] = entry
	}

	rows, err := s.repo.ListClinics(ctx)
	if err != nil {
		return fmt.Errorf("service: failed to load directory: %w", err)
	}

	var stale []int64
	matched := make(map[models.ClinicKey]bool, len(rows))
	for i := range rows {
		row := &rows[i]
		entry, ok := desired[row.Key()]
		if !ok {
			stale = append(stale, row.ID)
			continue
		}
		matched[row.Key()] = true

		kindChanged := row.Kind != entry.Kind
		coordsChanged := entry.Lat != nil && entry.Lon != nil &&
			(row.Lat == nil || row.Lon == nil || *row.Lat != *entry.Lat || *row.Lon != *entry.Lon)
		if !kindChanged && !coordsChanged {
			continue
		}

		lat, lon := entry.Lat, entry.Lon
		if lat == nil || lon == nil {
			lat, lon = row.Lat, row.Lon
		}
		if err := s.repo.CorrectClinic(ctx, row.ID, entry.Kind, lat, lon); err != nil {
			return fmt.Errorf("service: failed to correct clinic %d: %w", row.ID, err)
		}
	}

	if len(stale) > 0 {
		if err := s.repo.DeleteClinics(ctx, stale); err != nil {
			return fmt.Errorf("service: failed to delete stale clinics: %w", err)
		}
	}

	inserted := make(map[models.ClinicKey]bool, len(list))
	for _, entry := range list {
		key := entry.Key()
		if matched[key] || inserted[key] {
			continue
		}
		inserted[key] = true

		entry = desired[key]
		clinic := models.Clinic{
			Kind:    entry.Kind,
			Name:    entry.Name,
			Address: entry.Address,
			City:    entry.City,
			Phone:   entry.Phone,
			Website: entry.Website,
			Notes:   entry.Notes,
			Lat:     entry.Lat,
			Lon:     entry.Lon,
		}
		if _, err := s.repo.CreateClinic(ctx, &clinic); err != nil {
			return fmt.Errorf("service: failed to insert clinic %q: %w", entry.Name, err)
		}
	}

	s.backfillCoordinates(ctx)
	return nil
}

// backfillCoordinates geocodes every clinic still lacking coordinates. A
// failure on one row must not abort the remaining rows.
func (s *SyncService) backfillCoordinates(ctx context.Context) {
	rows, err := s.repo.ListClinics(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("skipping coordinate backfill")
		return
	}

	for i := range rows {
		row := &rows[i]
		if row.Lat != nil && row.Lon != nil {
			continue
		}
		coords := s.geocoder.Resolve(ctx, row.Address)
		if coords == nil {
			s.logger.Debug().Int64("id", row.ID).Str("address", row.Address).Msg("address not resolved")
			continue
		}
		if err := s.repo.UpdateClinicCoords(ctx, row.ID, coords.Lat, coords.Lon); err != nil {
			s.logger.Warn().Err(err).Int64("id", row.ID).Msg("failed to store backfilled coordinates")
		}
	}
}
