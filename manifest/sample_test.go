// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package manifest

import (
	"fmt"
	"testing"
)

// buildPool creates count rows per (category, distortion, resolution) cell.
func buildPool(categories []string, distortions []string, count int) []Row {
	var rows []Row
	for ci, cat := range categories {
		for di, dist := range distortions {
			for _, res := range []string{"1080", "4K"} {
				for n := 0; n < count; n++ {
					id := fmt.Sprintf("%s/%s/%s/%d.png", res, cat, dist, n)
					rows = append(rows, Row{
						ImageID:        id,
						RelPath:        id,
						Category:       ci + 1,
						CategoryName:   cat,
						Resolution:     res,
						Distortion:     di + 1,
						DistortionName: dist,
					})
				}
			}
		}
	}
	return rows
}

func TestSample_ExactTotal(t *testing.T) {
	pool := buildPool([]string{"animals", "city", "plants"}, []string{"base", "M", "S"}, 50)

	picked, err := Sample(pool, 300, "4:1", 42)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if len(picked) != 300 {
		t.Fatalf("Sample() returned %d rows, want 300", len(picked))
	}

	// No duplicates
	seen := map[string]bool{}
	for _, r := range picked {
		if seen[r.ImageID] {
			t.Errorf("Sample() picked %s twice", r.ImageID)
		}
		seen[r.ImageID] = true
	}
}

func TestSample_RatioSplit(t *testing.T) {
	pool := buildPool([]string{"animals"}, []string{"base"}, 100)

	// One stratum, plenty of inventory on both sides: the 4:1 split
	// should hold exactly.
	picked, err := Sample(pool, 100, "4:1", 7)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}

	lo, hi := 0, 0
	for _, r := range picked {
		if r.Resolution == "1080" {
			lo++
		} else {
			hi++
		}
	}
	if lo != 80 || hi != 20 {
		t.Errorf("Sample() split = %d:%d, want 80:20", lo, hi)
	}
}

func TestSample_BackfillsShortInventory(t *testing.T) {
	// 1080 side has only 10 rows; a 4:1 split of 100 wants 80 of them.
	// The shortfall must come from the 4K side.
	var pool []Row
	for n := 0; n < 10; n++ {
		id := fmt.Sprintf("1080/animals/base/%d.png", n)
		pool = append(pool, Row{ImageID: id, RelPath: id, Category: 1, CategoryName: "animals", Resolution: "1080", Distortion: 1, DistortionName: "base"})
	}
	for n := 0; n < 120; n++ {
		id := fmt.Sprintf("4K/animals/base/%d.png", n)
		pool = append(pool, Row{ImageID: id, RelPath: id, Category: 1, CategoryName: "animals", Resolution: "4K", Distortion: 1, DistortionName: "base"})
	}

	picked, err := Sample(pool, 100, "4:1", 7)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if len(picked) != 100 {
		t.Fatalf("Sample() returned %d rows, want 100", len(picked))
	}

	lo := 0
	for _, r := range picked {
		if r.Resolution == "1080" {
			lo++
		}
	}
	if lo != 10 {
		t.Errorf("Sample() took %d 1080 rows, want all 10", lo)
	}
}

func TestSample_Deterministic(t *testing.T) {
	pool := buildPool([]string{"animals", "city"}, []string{"base", "S"}, 30)

	a, err := Sample(pool, 100, "4:1", 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Sample(pool, 100, "4:1", 42)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i].ImageID != b[i].ImageID {
			t.Fatalf("Sample() not deterministic at row %d: %s vs %s", i, a[i].ImageID, b[i].ImageID)
		}
	}
}

func TestSample_TotalExceedsPool(t *testing.T) {
	pool := buildPool([]string{"animals"}, []string{"base"}, 5)
	if _, err := Sample(pool, 100, "4:1", 1); err == nil {
		t.Error("Sample() accepted total larger than the pool")
	}
}

func TestLargestRemainder(t *testing.T) {
	quotas := largestRemainder(10, map[string]int{"a": 1, "b": 1, "c": 1})
	sum := 0
	for _, q := range quotas {
		sum += q
	}
	if sum != 10 {
		t.Errorf("quotas sum to %d, want 10", sum)
	}
	for k, q := range quotas {
		if q < 3 || q > 4 {
			t.Errorf("quota[%s] = %d, want 3 or 4", k, q)
		}
	}
}

func TestParseRatio(t *testing.T) {
	tests := []struct {
		ratio   string
		a, b    int
		wantErr bool
	}{
		{"4:1", 4, 1, false},
		{"1:1", 1, 1, false},
		{"0:1", 0, 1, false},
		{"4", 0, 0, true},
		{"0:0", 0, 0, true},
		{"a:b", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.ratio, func(t *testing.T) {
			a, b, err := parseRatio(tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRatio(%q) error = %v, wantErr %v", tt.ratio, err, tt.wantErr)
			}
			if !tt.wantErr && (a != tt.a || b != tt.b) {
				t.Errorf("parseRatio(%q) = %d, %d", tt.ratio, a, b)
			}
		})
	}
}
