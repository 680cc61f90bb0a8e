// Package store persists the application snapshot. The snapshot is a single
// whole value: every save replaces the previous state entirely, and a missing
// or unreadable snapshot loads as the default state rather than an error.
package store

import (
	"context"

	"github.com/moneymind/backend/internal/model"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// Store defines the snapshot persistence operations used by the service.
type Store interface {
	// Load returns the stored snapshot, or model.DefaultSnapshot when nothing
	// usable is stored. Missing or corrupt data is never an error; the
	// returned error is reserved for environmental failures the caller may
	// want to log.
	Load(ctx context.Context) (model.Snapshot, error)

	// Save replaces the stored snapshot with snap.
	Save(ctx context.Context, snap model.Snapshot) error
}
