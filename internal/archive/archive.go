// Package archive writes contact-form leads to disk as JSON files, a simple
// file-level backup next to the database rows.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"clinic-directory/internal/models"
)

// DiskArchiver writes one JSON file per lead into a directory. An empty
// directory disables archiving.
type DiskArchiver struct {
	dir string
}

// NewDiskArchiver creates an archiver rooted at dir.
func NewDiskArchiver(dir string) *DiskArchiver {
	return &DiskArchiver{dir: dir}
}

// Archive writes the lead as lead_<id>_<timestamp>.json.
func (a *DiskArchiver) Archive(lead models.Lead) error {
	if a.dir == "" {
		return nil
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("archive: failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(lead, "", "  ")
	if err != nil {
		return fmt.Errorf("archive: failed to encode lead: %w", err)
	}

	name := fmt.Sprintf("lead_%d_%s.json", lead.ID, lead.CreatedAt.UTC().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(a.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("archive: failed to write lead file: %w", err)
	}
	return nil
}
