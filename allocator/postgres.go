// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package allocator

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/danielhkuo/strata-survey/catalog"
	"github.com/danielhkuo/strata-survey/models"
)

// PostgresStore runs allocations on postgres with row-level locking:
// selection reads use FOR UPDATE SKIP LOCKED, so concurrent allocations
// for different participants proceed in parallel and contended rows are
// simply passed over instead of blocking the whole pool.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(conn *sql.DB) *PostgresStore {
	return &PostgresStore{db: conn}
}

func (s *PostgresStore) RunAllocation(fn func(Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin allocation transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&postgresTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit allocation: %w", err)
	}
	return nil
}

// Retryable matches serialization failures, deadlocks, and lock
// timeouts.
func (s *PostgresStore) Retryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", // serialization_failure
		"40P01", // deadlock_detected
		"55P03": // lock_not_available
		return true
	}
	return false
}

type postgresTx struct {
	tx *sql.Tx
}

func (t *postgresTx) DistinctAxes() (models.AxisValues, error) {
	return catalog.DistinctAxes(t.tx)
}

func (t *postgresTx) AssignedImageIDs(participantID string) ([]string, error) {
	rows, err := t.tx.Query(`
		SELECT image_id FROM assignment
		WHERE participant_id = $1
		ORDER BY ord ASC
	`, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing assignment: %w", err)
	}
	return scanIDs(rows)
}

func (t *postgresTx) AvailableInStratum(category int, resolution string, distortion, cap, limit int) ([]string, error) {
	rows, err := t.tx.Query(`
		SELECT id FROM image
		WHERE category = $1 AND resolution = $2 AND distortion = $3 AND exposure_count < $4
		ORDER BY exposure_count ASC, id ASC
		LIMIT $5
		FOR UPDATE SKIP LOCKED
	`, category, resolution, distortion, cap, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stratum: %w", err)
	}
	return scanIDs(rows)
}

func (t *postgresTx) AvailableGlobal(cap int, exclude []string, limit int) ([]string, error) {
	if exclude == nil {
		exclude = []string{}
	}
	rows, err := t.tx.Query(`
		SELECT id FROM image
		WHERE exposure_count < $1 AND NOT (id = ANY($2))
		ORDER BY exposure_count ASC, id ASC
		LIMIT $3
		FOR UPDATE SKIP LOCKED
	`, cap, pq.Array(exclude), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fill pool: %w", err)
	}
	return scanIDs(rows)
}

func (t *postgresTx) InsertAssignments(assignments []models.Assignment) error {
	stmt, err := t.tx.Prepare(`
		INSERT INTO assignment (participant_id, image_id, ord, assigned_at)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare assignment insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.Exec(a.ParticipantID, a.ImageID, a.Ord, a.AssignedAt); err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}
	return nil
}

func (t *postgresTx) IncrementExposure(imageIDs []string) error {
	if len(imageIDs) == 0 {
		return nil
	}
	result, err := t.tx.Exec(`
		UPDATE image SET exposure_count = exposure_count + 1
		WHERE id = ANY($1)
	`, pq.Array(imageIDs))
	if err != nil {
		return fmt.Errorf("failed to increment exposure: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && int(n) != len(imageIDs) {
		return fmt.Errorf("exposure increment touched %d rows, expected %d", n, len(imageIDs))
	}
	return nil
}
