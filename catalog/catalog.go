// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"database/sql"
	"fmt"

	"github.com/danielhkuo/strata-survey/db"
	"github.com/danielhkuo/strata-survey/models"
)

// Catalog is the read/query layer over the image table. All mutation of
// exposure counts happens inside allocator transactions, never here.
type Catalog struct {
	db     *sql.DB
	dbType string
}

func New(conn *sql.DB, dbType string) *Catalog {
	return &Catalog{db: conn, dbType: dbType}
}

// Count returns the number of images in the catalog.
func (c *Catalog) Count() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM image`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return n, nil
}

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Axis reads run both standalone and inside allocator transactions.
type Querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// DistinctAxes returns the distinct category, resolution, and distortion
// values currently present. The allocator's coverage pass crosses these
// three sets rather than hard-coding axis cardinality.
func (c *Catalog) DistinctAxes() (models.AxisValues, error) {
	return DistinctAxes(c.db)
}

// DistinctAxes reads the axis value sets through q. The DISTINCT queries
// are identical on both backends (no placeholders, no locking).
func DistinctAxes(q Querier) (models.AxisValues, error) {
	var axes models.AxisValues

	rows, err := q.Query(`SELECT DISTINCT category FROM image ORDER BY category ASC`)
	if err != nil {
		return axes, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return axes, fmt.Errorf("failed to scan category: %w", err)
		}
		axes.Categories = append(axes.Categories, v)
	}
	if err := rows.Err(); err != nil {
		return axes, err
	}

	rows, err = q.Query(`SELECT DISTINCT resolution FROM image ORDER BY resolution ASC`)
	if err != nil {
		return axes, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return axes, fmt.Errorf("failed to scan resolution: %w", err)
		}
		axes.Resolutions = append(axes.Resolutions, v)
	}
	if err := rows.Err(); err != nil {
		return axes, err
	}

	rows, err = q.Query(`SELECT DISTINCT distortion FROM image ORDER BY distortion ASC`)
	if err != nil {
		return axes, fmt.Errorf("failed to query distortions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return axes, fmt.Errorf("failed to scan distortion: %w", err)
		}
		axes.Distortions = append(axes.Distortions, v)
	}
	if err := rows.Err(); err != nil {
		return axes, err
	}

	return axes, nil
}

// AvailableInStratum returns ids of images in one stratum whose exposure
// count is below cap, least-exposed first with id as the tie-break so
// repeated reads of the same state are reproducible. Read-only view; the
// allocator backends run the locked equivalent inside their transactions.
func (c *Catalog) AvailableInStratum(category int, resolution string, distortion, cap, limit int) ([]string, error) {
	rows, err := c.db.Query(db.Rebind(c.dbType, `
		SELECT id FROM image
		WHERE category = ? AND resolution = ? AND distortion = ? AND exposure_count < ?
		ORDER BY exposure_count ASC, id ASC
		LIMIT ?
	`), category, resolution, distortion, cap, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stratum: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan image id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
