// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"fmt"

	"github.com/danielhkuo/strata-survey/db"
	"github.com/danielhkuo/strata-survey/models"
)

// Stats summarizes corpus size, axis values, exposure spread, and how
// many participants ended up with fewer than kTarget images. The short
// count is the operator signal for revisiting corpus/quota sizing.
func (c *Catalog) Stats(kTarget int) (models.CorpusStats, error) {
	var stats models.CorpusStats

	axes, err := c.DistinctAxes()
	if err != nil {
		return stats, err
	}
	stats.Categories = axes.Categories
	stats.Resolutions = axes.Resolutions
	stats.Distortions = axes.Distortions

	err = c.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(MIN(exposure_count), 0),
		       COALESCE(MAX(exposure_count), 0),
		       COALESCE(AVG(exposure_count), 0)
		FROM image
	`).Scan(&stats.Images, &stats.ExposureMin, &stats.ExposureMax, &stats.ExposureMean)
	if err != nil {
		return stats, fmt.Errorf("failed to query exposure stats: %w", err)
	}

	err = c.db.QueryRow(`SELECT COUNT(*) FROM participant`).Scan(&stats.Participants)
	if err != nil {
		return stats, fmt.Errorf("failed to count participants: %w", err)
	}

	err = c.db.QueryRow(db.Rebind(c.dbType, `
		SELECT COUNT(*) FROM (
			SELECT participant_id
			FROM assignment
			GROUP BY participant_id
			HAVING COUNT(*) < ?
		) short
	`), kTarget).Scan(&stats.ShortAssignments)
	if err != nil {
		return stats, fmt.Errorf("failed to count short assignments: %w", err)
	}

	return stats, nil
}
