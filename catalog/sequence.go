// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"fmt"

	"github.com/danielhkuo/strata-survey/db"
)

// SequenceItem is one entry of a participant's assignment sequence.
type SequenceItem struct {
	ImageID string
	Ord     int
	RelPath string
}

// AssignmentSequence returns the participant's assigned images in ordinal
// order, exactly as the allocator committed them.
func (c *Catalog) AssignmentSequence(participantID string) ([]SequenceItem, error) {
	rows, err := c.db.Query(db.Rebind(c.dbType, `
		SELECT a.image_id, a.ord, i.rel_path
		FROM assignment a
		JOIN image i ON i.id = a.image_id
		WHERE a.participant_id = ?
		ORDER BY a.ord ASC
	`), participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignment sequence: %w", err)
	}
	defer rows.Close()

	var items []SequenceItem
	for rows.Next() {
		var it SequenceItem
		if err := rows.Scan(&it.ImageID, &it.Ord, &it.RelPath); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AssignedCount returns how many images are assigned to the participant.
func (c *Catalog) AssignedCount(participantID string) (int, error) {
	var n int
	err := c.db.QueryRow(db.Rebind(c.dbType,
		`SELECT COUNT(*) FROM assignment WHERE participant_id = ?`), participantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return n, nil
}

// RatedCount returns how many of the participant's images have ratings.
func (c *Catalog) RatedCount(participantID string) (int, error) {
	var n int
	err := c.db.QueryRow(db.Rebind(c.dbType,
		`SELECT COUNT(*) FROM rating WHERE participant_id = ?`), participantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return n, nil
}

// IsAssigned reports whether the image belongs to the participant's
// assignment. Ratings are only accepted for assigned images.
func (c *Catalog) IsAssigned(participantID, imageID string) (bool, error) {
	var exists bool
	err := c.db.QueryRow(db.Rebind(c.dbType, `
		SELECT EXISTS(
			SELECT 1 FROM assignment
			WHERE participant_id = ? AND image_id = ?
		)
	`), participantID, imageID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return exists, nil
}
