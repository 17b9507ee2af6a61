// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package allocator

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielhkuo/strata-survey/catalog"
	"github.com/danielhkuo/strata-survey/models"
)

// SQLiteStore runs allocations on sqlite. The connection is opened with
// _txlock=immediate (see db.Open), so Begin takes the write lock up
// front and concurrent allocations queue on the busy timeout instead of
// failing mid-transaction.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(conn *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: conn}
}

func (s *SQLiteStore) RunAllocation(fn func(Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin allocation transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit allocation: %w", err)
	}
	return nil
}

// Retryable matches sqlite's busy/locked conditions.
func (s *SQLiteStore) Retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "locked") || strings.Contains(msg, "busy")
}

type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) DistinctAxes() (models.AxisValues, error) {
	return catalog.DistinctAxes(t.tx)
}

func (t *sqliteTx) AssignedImageIDs(participantID string) ([]string, error) {
	rows, err := t.tx.Query(`
		SELECT image_id FROM assignment
		WHERE participant_id = ?
		ORDER BY ord ASC
	`, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing assignment: %w", err)
	}
	return scanIDs(rows)
}

func (t *sqliteTx) AvailableInStratum(category int, resolution string, distortion, cap, limit int) ([]string, error) {
	// The immediate transaction already holds the database write lock;
	// exclusivity is whole-database here rather than per-row.
	rows, err := t.tx.Query(`
		SELECT id FROM image
		WHERE category = ? AND resolution = ? AND distortion = ? AND exposure_count < ?
		ORDER BY exposure_count ASC, id ASC
		LIMIT ?
	`, category, resolution, distortion, cap, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stratum: %w", err)
	}
	return scanIDs(rows)
}

func (t *sqliteTx) AvailableGlobal(cap int, exclude []string, limit int) ([]string, error) {
	query := `
		SELECT id FROM image
		WHERE exposure_count < ?`
	args := []any{cap}

	if len(exclude) > 0 {
		query += ` AND id NOT IN (` + placeholders(len(exclude)) + `)`
		for _, id := range exclude {
			args = append(args, id)
		}
	}

	query += `
		ORDER BY exposure_count ASC, id ASC
		LIMIT ?`
	args = append(args, limit)

	rows, err := t.tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fill pool: %w", err)
	}
	return scanIDs(rows)
}

func (t *sqliteTx) InsertAssignments(assignments []models.Assignment) error {
	stmt, err := t.tx.Prepare(`
		INSERT INTO assignment (participant_id, image_id, ord, assigned_at)
		VALUES (?, ?, ?, ?)
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

func (t *sqliteTx) IncrementExposure(imageIDs []string) error {
	if len(imageIDs) == 0 {
		return nil
	}
	args := make([]any, len(imageIDs))
	for i, id := range imageIDs {
		args[i] = id
	}
	result, err := t.tx.Exec(
		`UPDATE image SET exposure_count = exposure_count + 1 WHERE id IN (`+placeholders(len(imageIDs))+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to increment exposure: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && int(n) != len(imageIDs) {
		return fmt.Errorf("exposure increment touched %d rows, expected %d", n, len(imageIDs))
	}
	return nil
}

// placeholders builds "?, ?, ?" of length n.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
