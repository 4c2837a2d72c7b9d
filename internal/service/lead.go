package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-directory/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrNoContact is returned when a lead carries neither an email address nor
// a phone number.
var ErrNoContact = errors.New("service: lead needs an email or a phone number")

// LeadRepository persists contact-form submissions.
type LeadRepository interface {
	CreateLead(ctx context.Context, lead *models.Lead) (int64, error)
}

// LeadArchiver keeps a file-level copy of each lead. Failures are logged,
// never surfaced to the submitter.
type LeadArchiver interface {
	Archive(lead models.Lead) error
}

// LeadNotifier delivers a notification about a new lead. Same best-effort
// contract as LeadArchiver.
type LeadNotifier interface {
	Notify(lead models.Lead) error
}

// LeadService validates and stores contact-form submissions.
type LeadService struct {
	repo     LeadRepository
	archiver LeadArchiver
	notifier LeadNotifier
	logger   zerolog.Logger
}

// NewLeadService creates a lead service. Archiver and notifier may be nil.
func NewLeadService(repo LeadRepository, archiver LeadArchiver, notifier LeadNotifier) *LeadService {
	return &LeadService{
		repo:     repo,
		archiver: archiver,
		notifier: notifier,
		logger:   log.With().Str("component", "leads").Logger(),
	}
}

// Submit stores a lead and returns its id. It fails only when both email and
// phone are empty; the archival and notification collaborators run after the
// row is committed and cannot roll it back.
func (s *LeadService) Submit(ctx context.Context, name, email, phone, message string) (int64, error) {
	lead := models.Lead{
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now().UTC(),
	}
	if lead.Email == "" && lead.Phone == "" {
		return 0, ErrNoContact
	}

	id, err := s.repo.CreateLead(ctx, &lead)
	if err != nil {
		return 0, fmt.Errorf("service: failed to store lead: %w", err)
	}
	lead.ID = id

	if s.archiver != nil {
		if err := s.archiver.Archive(lead); err != nil {
			s.logger.Warn().Err(err).Int64("lead", id).Msg("failed to archive lead")
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Notify(lead); err != nil {
			s.logger.Warn().Err(err).Int64("lead", id).Msg("failed to send lead notification")
		}
	}

	return id, nil
}
