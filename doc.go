// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Strata Survey API server.

Strata Survey backs a web-based image-quality survey: each participant is
assigned a fixed, shuffled sequence of images sampled across category,
resolution, and distortion strata, with exposure counts balanced so every
image is seen a similar number of times across the participant pool.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=survey.db ADMIN_KEY_SALT=... RESPONDENT_SALT=... go run .

Or with flags:

	go run . -p 3419 -d survey.db

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - RESPONDENT_SALT (--respondent-salt): Secret for respondent hashing

Optional settings:

  - PORT (-p): Server port (default: 3419)
  - DATABASE_TYPE: "sqlite" (default) or "postgres"
  - MANIFEST_CSV: Corpus manifest to import on startup
  - IMAGE_BASE_URL: Prefix for assignment image URLs
  - POOL_SIZE, R_TARGET, N_TARGET, K_TARGET, COVER_M: Allocation parameters

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (participants, assignments, ratings, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - allocator: Two-pass exposure-balanced assignment allocation
  - catalog: Image corpus queries and manifest import
  - manifest: Manifest CSV read/write, directory scanning, sampling
  - auth: Admin key and respondent hashing
  - db: Connection setup and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
