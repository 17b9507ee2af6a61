// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package allocator

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/strata-survey/models"
)

// ErrEmptyCatalog is returned when an allocation is attempted against a
// catalog with no images or no axis values. Fatal: registration cannot
// proceed.
var ErrEmptyCatalog = errors.New("catalog is empty or has no axis values")

// Tx is one allocation transaction's view of the catalog and the
// assignment ledger. Selection reads must hold row-level exclusivity for
// the returned ids until the transaction ends, so that two concurrent
// allocations cannot both claim the last slot of a near-exhausted
// stratum.
type Tx interface {
	// DistinctAxes returns the stratification axis values present.
	DistinctAxes() (models.AxisValues, error)

	// AssignedImageIDs returns the participant's existing assignment in
	// ordinal order (empty if none).
	AssignedImageIDs(participantID string) ([]string, error)

	// AvailableInStratum returns up to limit image ids in the stratum
	// with exposure_count < cap, least-exposed first, id tie-break,
	// skipping rows locked by concurrent allocations.
	AvailableInStratum(category int, resolution string, distortion, cap, limit int) ([]string, error)

	// AvailableGlobal is the fill-pass read: up to limit ids across the
	// whole catalog with exposure_count < cap, excluding the given ids,
	// least-exposed first, skipping locked rows.
	AvailableGlobal(cap int, exclude []string, limit int) ([]string, error)

	// InsertAssignments appends the assignment rows.
	InsertAssignments(assignments []models.Assignment) error

	// IncrementExposure adds 1 to exposure_count for exactly the given
	// ids. Not idempotent: exactly one call per assignment event.
	IncrementExposure(imageIDs []string) error
}

// Store runs allocation transactions against a concrete backend and
// classifies its transient errors for the retry loop.
type Store interface {
	// RunAllocation executes fn inside one transaction, committing if fn
	// returns nil and rolling back otherwise.
	RunAllocation(fn func(Tx) error) error

	// Retryable reports whether err is transient contention (lock
	// timeout, busy database, serialization failure) worth retrying.
	Retryable(err error) bool
}

// NewStore returns the backend matching the configured database type.
func NewStore(dbType string, conn *sql.DB) (Store, error) {
	switch dbType {
	case "postgres":
		return NewPostgresStore(conn), nil
	case "sqlite":
		return NewSQLiteStore(conn), nil
	}
	return nil, fmt.Errorf("unknown database type %q", dbType)
}
