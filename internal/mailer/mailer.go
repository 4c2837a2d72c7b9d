// Package mailer sends contact-form notifications over SMTP.
package mailer

import (
	"fmt"
	"net"
	"net/smtp"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"clinic-directory/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds SMTP delivery settings. Delivery is skipped entirely unless
// Host, From and To are all set.
type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string

	// ArchiveDir, when set, receives a .eml copy of every notification.
	ArchiveDir string
}

// SMTPNotifier delivers lead notifications to a fixed recipient.
type SMTPNotifier struct {
	cfg    Config
	logger zerolog.Logger
}

// New creates a notifier from the given config.
func New(cfg Config) *SMTPNotifier {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPNotifier{
		cfg:    cfg,
		logger: log.With().Str("component", "mailer").Logger(),
	}
}

// Notify sends one plain-text email about the lead. When SMTP is not
// configured it is a silent no-op.
func (n *SMTPNotifier) Notify(lead models.Lead) error {
	if n.cfg.Host == "" || n.cfg.From == "" || n.cfg.To == "" {
		return nil
	}

	msg := n.buildMessage(lead)
	n.archiveMessage(lead, msg)

	var auth smtp.Auth
	if n.cfg.User != "" && n.cfg.Pass != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)
	}

	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{n.cfg.To}, msg); err != nil {
		return fmt.Errorf("mailer: failed to send notification: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) buildMessage(lead models.Lead) []byte {
	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	lines := []string{
		"Subject: New inquiry from the contact form",
		"From: " + n.cfg.From,
		"To: " + n.cfg.To,
		"",
		"New contact form submission:",
		"",
		"Name: " + orDash(lead.Name),
		"Email: " + orDash(lead.Email),
		"Phone: " + orDash(lead.Phone),
		"",
		"Message:",
		orDash(lead.Message),
		"",
		"Time (UTC): " + lead.CreatedAt.UTC().Format("2006-01-02T15:04:05"),
	}
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

// archiveMessage keeps a raw copy of the outgoing mail on disk, best-effort.
func (n *SMTPNotifier) archiveMessage(lead models.Lead, msg []byte) {
	if n.cfg.ArchiveDir == "" {
		return
	}
	if err := os.MkdirAll(n.cfg.ArchiveDir, 0o755); err != nil {
		n.logger.Warn().Err(err).Msg("failed to create mail archive directory")
		return
	}
	name := fmt.Sprintf("lead_%d_%s.eml", lead.ID, lead.CreatedAt.UTC().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(n.cfg.ArchiveDir, name), msg, 0o644); err != nil {
		n.logger.Warn().Err(err).Msg("failed to archive mail")
	}
}
