// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Strata Survey API.

# Handler Types

Each handler is a struct with database, config, and service dependencies:

  - ParticipantHandler: Registration and assignment allocation
  - AssignmentHandler: Assignment sequence and progress retrieval
  - RatingHandler: Rating submission and training scale lookup
  - AdminHandler: Corpus statistics and manifest import

Handlers are created via constructor functions:

	ph := handlers.NewParticipantHandler(db, cfg, alloc)

# Participant Flow

A participant registers once and works through a fixed image sequence:

	POST /participants                    → Register (allocates the sequence)
	GET  /participants/{id}/assignments   → GetSequence
	POST /participants/{id}/ratings       → Submit (one rating per image)
	GET  /participants/{id}/progress      → GetProgress

Registration is the only operation that mutates exposure counters. It
runs the two-pass allocator inside a single transaction; if allocation
fails or yields nothing, the participant row is unwound so no
participant ever exists without assignments.

# Training

	GET /training → Training (static score scale for the intro walkthrough)

# Admin Operations

Admin operations require the X-Admin-Key header, validated against the
experiment's derived key:

	GET  /corpus/stats  → Stats
	POST /corpus/import → Import (no-op when the catalog is populated)
*/
package handlers
