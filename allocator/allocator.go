// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package allocator

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/danielhkuo/strata-survey/models"
)

// Params are the allocation constants, fixed for the whole experiment.
type Params struct {
	KTarget    int // images per participant
	RTarget    int // exposure ceiling per image
	CoverM     int // coverage-pack size per stratum
	MaxRetries int // attempts on transient contention (0 = default)
}

const defaultMaxRetries = 6

// Result is the outcome of one Assign call.
type Result struct {
	// ImageIDs is the participant's assignment in ordinal order.
	ImageIDs []string

	// Short is set when inventory ran out before KTarget. A warning
	// condition, not a failure: the participant proceeds with fewer
	// images.
	Short bool

	// AlreadyAssigned is set when the participant had an assignment and
	// the call was a no-op.
	AlreadyAssigned bool
}

// Allocator computes and durably records per-participant assignments.
// Safe for concurrent use; all cross-participant coordination happens
// through the backing store's row locking.
type Allocator struct {
	store  Store
	params Params

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

func New(store Store, params Params) *Allocator {
	if params.MaxRetries <= 0 {
		params.MaxRetries = defaultMaxRetries
	}
	return &Allocator{
		store:  store,
		params: params,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Assign computes a KTarget-image assignment for the participant and
// records it, with exposure counters, in one transaction. Idempotent per
// participant: an existing assignment is returned unchanged with no
// catalog mutation. Transient contention retries with bounded
// exponential backoff before surfacing a hard error.
func (a *Allocator) Assign(participantID string) (Result, error) {
	var res Result

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 150 * time.Millisecond

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		res = Result{}
		err := a.store.RunAllocation(func(tx Tx) error {
			return a.allocate(tx, participantID, &res)
		})
		if err == nil {
			return nil
		}
		if a.store.Retryable(err) {
			slog.Warn("allocation contention, retrying",
				"participant_id", participantID, "attempt", attempt, "error", err)
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithMaxRetries(bo, uint64(a.params.MaxRetries)))

	if err != nil {
		return Result{}, fmt.Errorf("allocation failed for participant %s: %w", participantID, err)
	}
	return res, nil
}

// allocate runs the two-pass selection inside one open transaction.
func (a *Allocator) allocate(tx Tx, participantID string, res *Result) error {
	existing, err := tx.AssignedImageIDs(participantID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		// Page retries and reloads land here; returning the committed
		// list without touching counters prevents double-charging
		// exposure.
		res.ImageIDs = existing
		res.AlreadyAssigned = true
		res.Short = len(existing) < a.params.KTarget
		return nil
	}

	axes, err := tx.DistinctAxes()
	if err != nil {
		return err
	}
	if axes.Empty() {
		return ErrEmptyCatalog
	}

	// Coverage pass: a few least-exposed images from every stratum in
	// the axis cross product. Combinations with zero inventory simply
	// contribute nothing.
	var chosen []string
	seen := make(map[string]bool)
	for _, cat := range axes.Categories {
		for _, resolution := range axes.Resolutions {
			for _, dist := range axes.Distortions {
				ids, err := tx.AvailableInStratum(cat, resolution, dist, a.params.RTarget, a.params.CoverM)
				if err != nil {
					return err
				}
				for _, id := range ids {
					if !seen[id] {
						seen[id] = true
						chosen = append(chosen, id)
					}
				}
			}
		}
	}

	// Fill pass: top up to KTarget from the whole catalog, least-exposed
	// first, under the same exposure ceiling as the coverage pass.
	if need := a.params.KTarget - len(chosen); need > 0 {
		ids, err := tx.AvailableGlobal(a.params.RTarget, chosen, need)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				chosen = append(chosen, id)
			}
		}
	}

	if len(chosen) < a.params.KTarget {
		res.Short = true
	}
	if len(chosen) == 0 {
		res.ImageIDs = []string{}
		return nil
	}

	// Presentation order must not correlate with stratum or exposure
	// rank.
	a.shuffle(chosen)

	now := time.Now()
	assignments := make([]models.Assignment, len(chosen))
	for i, id := range chosen {
		assignments[i] = models.Assignment{
			ParticipantID: participantID,
			ImageID:       id,
			Ord:           i,
			AssignedAt:    now,
		}
	}

	if err := tx.InsertAssignments(assignments); err != nil {
		return err
	}
	if err := tx.IncrementExposure(chosen); err != nil {
		return err
	}

	res.ImageIDs = chosen
	return nil
}

func (a *Allocator) shuffle(ids []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}
