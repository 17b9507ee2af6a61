// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Row is one manifest entry describing a corpus image.
type Row struct {
	ImageID        string
	RelPath        string
	Category       int
	CategoryName   string
	Resolution     string
	Distortion     int
	DistortionName string
}

var columns = []string{
	"image_id", "rel_path", "category", "category_name",
	"resolution", "distortion", "distortion_name",
}

// Read parses a manifest CSV. The header row is required; column order
// does not matter.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("manifest %s is empty", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, required := range []string{"image_id", "rel_path", "category", "resolution", "distortion"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("manifest %s missing column %q", path, required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	rows := make([]Row, 0, len(records)-1)
	for n, rec := range records[1:] {
		category, err := strconv.Atoi(field(rec, "category"))
		if err != nil {
			return nil, fmt.Errorf("manifest row %d: bad category: %w", n+2, err)
		}
		distortion, err := strconv.Atoi(field(rec, "distortion"))
		if err != nil {
			return nil, fmt.Errorf("manifest row %d: bad distortion: %w", n+2, err)
		}

		rows = append(rows, Row{
			ImageID:        field(rec, "image_id"),
			RelPath:        field(rec, "rel_path"),
			Category:       category,
			CategoryName:   field(rec, "category_name"),
			Resolution:     normalizeResolution(field(rec, "resolution")),
			Distortion:     distortion,
			DistortionName: field(rec, "distortion_name"),
		})
	}

	return rows, nil
}

// Write emits rows as a manifest CSV with the standard column order.
func Write(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("failed to write manifest header: %w", err)
	}
	for _, row := range rows {
		rec := []string{
			row.ImageID,
			row.RelPath,
			strconv.Itoa(row.Category),
			row.CategoryName,
			row.Resolution,
			strconv.Itoa(row.Distortion),
			row.DistortionName,
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write manifest row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush manifest: %w", err)
	}
	return nil
}

// normalizeResolution folds resolution spellings into the two canonical
// classes used by the study ("1080", "4K"); unknown values pass through.
func normalizeResolution(res string) string {
	switch res {
	case "4k", "4K":
		return "4K"
	case "1080", "1080p":
		return "1080"
	}
	return res
}
