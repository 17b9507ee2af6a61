// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"fmt"

	"github.com/danielhkuo/strata-survey/db"
	"github.com/danielhkuo/strata-survey/manifest"
)

// ImportIfEmpty bulk-loads manifest rows into the catalog. A non-empty
// catalog makes this a no-op: axis values must not change mid-experiment,
// so the corpus is loaded exactly once.
func (c *Catalog) ImportIfEmpty(rows []manifest.Row) (imported int, skipped bool, err error) {
	n, err := c.Count()
	if err != nil {
		return 0, false, err
	}
	if n > 0 {
		return 0, true, nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(db.Rebind(c.dbType, `
		INSERT INTO image (id, rel_path, category, category_name, resolution, distortion, distortion_name, exposure_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT (id) DO NOTHING
	`))
	if err != nil {
		return 0, false, fmt.Errorf("failed to prepare import statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if row.ImageID == "" || row.RelPath == "" {
			return 0, false, fmt.Errorf("manifest row missing image_id or rel_path")
		}
		if _, err := stmt.Exec(
			row.ImageID, row.RelPath, row.Category, row.CategoryName,
			row.Resolution, row.Distortion, row.DistortionName,
		); err != nil {
			return 0, false, fmt.Errorf("failed to insert image %s: %w", row.ImageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit import: %w", err)
	}

	imported, err = c.Count()
	if err != nil {
		return 0, false, err
	}
	return imported, false, nil
}
