// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Backends

The server runs on either SQLite (modernc.org/sqlite, pure Go) or
PostgreSQL (lib/pq). Open selects the driver from the configured type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections are opened with WAL journaling, an 8s busy timeout,
and foreign keys enabled.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - participant: registry of raters (immutable after registration)
  - image: corpus catalog with stratification axes and exposure counters
  - assignment: per-participant ordered image sequence
  - rating: collected scores and text-clarity judgments

# Relationships

	participant 1──* assignment
	participant 1──* rating
	image 1──* assignment
	image 1──* rating

All foreign keys use ON DELETE CASCADE.

# Placeholders

Shared query text uses ? placeholders; Rebind rewrites them to $n for
postgres. Backend-specific statements (row locking) live with their
backend.
*/
package db
