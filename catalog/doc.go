// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog is the query layer over the image corpus.

# Responsibilities

  - Corpus membership and stratification axis values (DistinctAxes)
  - Per-stratum availability ordered by exposure then id
    (AvailableInStratum)
  - One-time bulk import from a manifest (ImportIfEmpty)
  - Assignment sequence reads for the rating flow (AssignmentSequence)
  - Operator statistics (Stats)

# What It Does Not Do

Exposure counters are mutated exclusively inside allocator transactions.
The catalog exposes only read paths plus the one-time import; there is no
API for touching exposure_count here.

# Stratification Index

A stratum is derived, never stored: it is whatever rows share one
(category, resolution, distortion) triple at read time. Ordering within a
stratum is exposure_count ascending with image id as the deterministic
tie-break, so repeated reads of identical state agree.
*/
package catalog
