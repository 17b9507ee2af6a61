// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database. dbType is "sqlite" or
// "postgres".
//
// SQLite connections get WAL journaling and a busy timeout so concurrent
// allocation transactions queue instead of failing immediately with
// SQLITE_BUSY.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case "postgres":
		conn, err := sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return conn, nil

	case "sqlite":
		conn, err := sql.Open("sqlite", sqliteDSN(url))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return conn, nil

	default:
		return nil, fmt.Errorf("unknown database type %q", dbType)
	}
}

// sqliteDSN appends the pragma settings to a sqlite path or DSN.
// _txlock=immediate makes Begin take the write lock up front, which the
// allocator relies on for its read-select-increment sequence.
func sqliteDSN(url string) string {
	pragmas := "_txlock=immediate" +
		"&_pragma=busy_timeout(8000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)"

	if strings.Contains(url, "?") {
		return url + "&" + pragmas
	}
	return url + "?" + pragmas
}

// Rebind rewrites ? placeholders to $1..$n for the postgres driver.
// Shared query text is written with ? and rebound per backend.
func Rebind(dbType, query string) string {
	if dbType != "postgres" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}
