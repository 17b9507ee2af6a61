// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package allocator assigns each participant a K-image subset of the corpus
and keeps per-image exposure balanced across the participant pool.

# Algorithm

One Assign call runs two passes inside a single transaction:

 1. Coverage pass: for every (category, resolution, distortion)
    combination present in the catalog, take up to COVER_M least-exposed
    images below the exposure ceiling. Every participant sees a
    representative slice of every stratum regardless of overall fill
    order. Combinations with no inventory contribute nothing.
 2. Fill pass: top up to K_TARGET from the whole catalog, least-exposed
    first, under the same ceiling.

The combined set is shuffled (presentation order must not leak stratum
or exposure rank), given contiguous 0-based ordinals, and committed
together with the exposure-count increments.

# Idempotency

Assign is idempotent per participant: if an assignment already exists it
is returned unchanged and no counter moves. It is NOT idempotent at the
catalog level - the increment runs exactly once per real assignment
event.

# Backends

The algorithm talks to a Store/Tx pair so the locking strategy is a
backend choice:

  - PostgresStore: FOR UPDATE SKIP LOCKED row selection; concurrent
    allocations run in parallel and contended rows are skipped, trading
    a slightly smaller fill slice for throughput.
  - SQLiteStore: BEGIN IMMEDIATE transactions (via _txlock=immediate);
    writers serialize on the database write lock with a busy timeout.

# Retries

Transient contention (busy database, serialization failure, deadlock)
retries the whole transaction with exponential backoff, capped at
Params.MaxRetries attempts. Anything else - including ErrEmptyCatalog -
fails immediately.

# Outcomes

A Result reports the ordinal-ordered image ids plus two flags: Short
(inventory ran out before K_TARGET; a warning, the participant proceeds
with fewer images) and AlreadyAssigned (the call was a no-op).
*/
package allocator
