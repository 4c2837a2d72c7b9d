// Package repository implements PostgreSQL persistence for the clinic
// directory, the geocode cache and contact-form leads.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Handlers translate
// it into an HTTP 404; the geocoder uses it to tell "never attempted" apart
// from a cached negative result.
var ErrNotFound = errors.New("repository: not found")
