package models

import (
	"strings"
	"time"
)

// Clinic kinds stored in the directory.
const (
	KindAmbassadors = "ambassadors"
	KindAuthorized  = "authorized"
)

// NormalizeKind maps free-form kind input onto one of the two stored values.
// Anything starting with "amb" (case-insensitive) is an ambassador clinic,
// everything else is authorized.
func NormalizeKind(kind string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(kind)), "amb") {
		return KindAmbassadors
	}
	return KindAuthorized
}

// Clinic is a single directory entry: a treatment location shown on the
// public map, classified as either an ambassador or an authorized clinic.
// Lat/Lon are nil until the address has been geocoded.
type Clinic struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Phone     string    `json:"phone"`
	Website   string    `json:"website"`
	Notes     string    `json:"notes"`
	Lat       *float64  `json:"lat"`
	Lon       *float64  `json:"lon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClinicKey identifies a clinic for reconciliation purposes. Two records with
// the same key are the same location regardless of their row ids.
type ClinicKey struct {
	Name    string
	Address string
	City    string
	Phone   string
}

// Key returns the trimmed (name, address, city, phone) identity of the clinic.
func (c *Clinic) Key() ClinicKey {
	return ClinicKey{
		Name:    strings.TrimSpace(c.Name),
		Address: strings.TrimSpace(c.Address),
		City:    strings.TrimSpace(c.City),
		Phone:   strings.TrimSpace(c.Phone),
	}
}

// AuthoritativeClinic is one entry of the externally curated list of clinics
// that should exist in the directory. Coordinates are optional; entries
// without them are geocoded after reconciliation.
type AuthoritativeClinic struct {
	Kind    string   `json:"kind"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	City    string   `json:"city"`
	Phone   string   `json:"phone"`
	Website string   `json:"website"`
	Notes   string   `json:"notes"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns the same identity tuple as Clinic.Key.
func (a *AuthoritativeClinic) Key() ClinicKey {
	return ClinicKey{
		Name:    strings.TrimSpace(a.Name),
		Address: strings.TrimSpace(a.Address),
		City:    strings.TrimSpace(a.City),
		Phone:   strings.TrimSpace(a.Phone),
	}
}
