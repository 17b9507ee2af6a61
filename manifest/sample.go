// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package manifest

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// Sample draws a stratified subset of total rows. Strata are
// (category, distortion) pairs; inside each stratum the 1080:4K split
// follows ratio (e.g. "4:1"), clamped to actual inventory with the
// shortfall backfilled from the other resolution. Stratum quotas are
// integer-allocated by largest remainder so they sum to total exactly.
// Deterministic for a fixed seed.
func Sample(rows []Row, total int, ratio string, seed int64) ([]Row, error) {
	a, b, err := parseRatio(ratio)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, fmt.Errorf("sample total must be positive, got %d", total)
	}

	pool := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Resolution == "1080" || r.Resolution == "4K" {
			pool = append(pool, r)
		}
	}
	if len(pool) < total {
		return nil, fmt.Errorf("corpus has %d usable rows, cannot sample %d", len(pool), total)
	}

	rng := rand.New(rand.NewSource(seed))

	type stratum struct {
		lo []Row // 1080
		hi []Row // 4K
	}
	strata := map[string]*stratum{}
	for _, r := range pool {
		key := r.CategoryName + "|" + r.DistortionName
		s, ok := strata[key]
		if !ok {
			s = &stratum{}
			strata[key] = s
		}
		if r.Resolution == "1080" {
			s.lo = append(s.lo, r)
		} else {
			s.hi = append(s.hi, r)
		}
	}

	weights := map[string]int{}
	for key, s := range strata {
		weights[key] = len(s.lo) + len(s.hi)
	}
	quotas := largestRemainder(total, weights)

	picked := make([]Row, 0, total)
	keys := make([]string, 0, len(strata))
	for key := range strata {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		need := quotas[key]
		if need <= 0 {
			continue
		}
		s := strata[key]

		needLo := int(math.Round(float64(need) * float64(a) / float64(a+b)))
		needHi := need - needLo

		takeLo := min(needLo, len(s.lo))
		takeHi := min(needHi, len(s.hi))

		// Backfill shortfall from whichever side has inventory left.
		if short := need - takeLo - takeHi; short > 0 {
			extra := min(short, len(s.lo)-takeLo)
			takeLo += extra
			short -= extra
			takeHi += min(short, len(s.hi)-takeHi)
		}

		rng.Shuffle(len(s.lo), func(i, j int) { s.lo[i], s.lo[j] = s.lo[j], s.lo[i] })
		rng.Shuffle(len(s.hi), func(i, j int) { s.hi[i], s.hi[j] = s.hi[j], s.hi[i] })
		picked = append(picked, s.lo[:takeLo]...)
		picked = append(picked, s.hi[:takeHi]...)
	}

	// Per-stratum clamping can leave a global shortfall; top up from the
	// remaining pool.
	if len(picked) < total {
		taken := make(map[string]bool, len(picked))
		for _, r := range picked {
			taken[r.ImageID] = true
		}
		var rest []Row
		for _, r := range pool {
			if !taken[r.ImageID] {
				rest = append(rest, r)
			}
		}
		rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		picked = append(picked, rest[:total-len(picked)]...)
	}

	picked = picked[:total]
	sort.Slice(picked, func(i, j int) bool { return picked[i].RelPath < picked[j].RelPath })
	return picked, nil
}

// largestRemainder splits total into integer quotas proportional to
// weights, handing the leftover units to the largest fractional parts.
func largestRemainder(total int, weights map[string]int) map[string]int {
	keys := make([]string, 0, len(weights))
	wsum := 0
	for k, w := range weights {
		keys = append(keys, k)
		wsum += w
	}
	sort.Strings(keys)

	quotas := make(map[string]int, len(weights))
	if wsum <= 0 {
		for _, k := range keys {
			quotas[k] = 0
		}
		return quotas
	}

	type frac struct {
		key string
		rem float64
	}
	fracs := make([]frac, 0, len(keys))
	assigned := 0
	for _, k := range keys {
		raw := float64(total) * float64(weights[k]) / float64(wsum)
		base := int(math.Floor(raw))
		quotas[k] = base
		assigned += base
		fracs = append(fracs, frac{key: k, rem: raw - float64(base)})
	}

	sort.SliceStable(fracs, func(i, j int) bool { return fracs[i].rem > fracs[j].rem })
	for i := 0; i < total-assigned; i++ {
		quotas[fracs[i%len(fracs)].key]++
	}
	return quotas
}

func parseRatio(ratio string) (int, int, error) {
	parts := strings.SplitN(ratio, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("ratio must look like 4:1, got %q", ratio)
	}
	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	if errA != nil || errB != nil || a < 0 || b < 0 || a+b == 0 {
		return 0, 0, fmt.Errorf("invalid ratio %q", ratio)
	}
	return a, b, nil
}
