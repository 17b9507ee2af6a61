// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL is deliberately restricted to the dialect both engines share:
// timestamps are always supplied by the caller, never defaulted.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Participant registry (immutable after registration)
CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    respondent_hash TEXT NOT NULL,
    device TEXT,
    screen_resolution TEXT,
    registered_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_participant_respondent ON participant(respondent_hash);

-- Image catalog with live exposure counters
CREATE TABLE IF NOT EXISTS image (
    id TEXT PRIMARY KEY,
    rel_path TEXT NOT NULL,
    category INTEGER NOT NULL,
    category_name TEXT,
    resolution TEXT NOT NULL,
    distortion INTEGER NOT NULL,
    distortion_name TEXT,
    exposure_count INTEGER NOT NULL DEFAULT 0 CHECK (exposure_count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_image_stratum ON image(category, resolution, distortion, exposure_count);
CREATE INDEX IF NOT EXISTS idx_image_exposure ON image(exposure_count);

-- Assignment ledger (append-only, written in bulk by the allocator)
CREATE TABLE IF NOT EXISTS assignment (
    participant_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    image_id TEXT NOT NULL REFERENCES image(id) ON DELETE CASCADE,
    ord INTEGER NOT NULL,
    assigned_at TIMESTAMP NOT NULL,
    PRIMARY KEY (participant_id, image_id),
    UNIQUE (participant_id, ord)
);

CREATE INDEX IF NOT EXISTS idx_assignment_participant ON assignment(participant_id, ord);

-- Rating ledger (append-only, one row per image per participant)
CREATE TABLE IF NOT EXISTS rating (
    id TEXT PRIMARY KEY,
    participant_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    image_id TEXT NOT NULL REFERENCES image(id) ON DELETE CASCADE,
    score INTEGER NOT NULL CHECK (score BETWEEN 1 AND 5),
    label TEXT NOT NULL,
    text_clarity TEXT NOT NULL CHECK (text_clarity IN ('clear', 'not_clear', 'no_text')),
    submitted_at TIMESTAMP NOT NULL,
    UNIQUE (participant_id, image_id)
);

CREATE INDEX IF NOT EXISTS idx_rating_participant ON rating(participant_id);
CREATE INDEX IF NOT EXISTS idx_rating_image ON rating(image_id);
`
