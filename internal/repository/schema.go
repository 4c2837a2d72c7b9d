package repository

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS clinics (
	id BIGSERIAL PRIMARY KEY,
	kind TEXT NOT NULL,
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	city TEXT,
	phone TEXT,
	website TEXT,
	notes TEXT,
	lat DOUBLE PRECISION,
	lon DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS geocode_cache (
	address TEXT PRIMARY KEY,
	lat DOUBLE PRECISION,
	lon DOUBLE PRECISION,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leads (
	id BIGSERIAL PRIMARY KEY,
	name TEXT,
	email TEXT,
	phone TEXT,
	message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the tables if they do not exist yet. It runs once at
// process start, before the reconciler touches the directory.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}
