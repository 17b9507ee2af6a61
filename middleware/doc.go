// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP cross-cutting helpers.

  - WithLogging: slog request start/completion with duration
  - JSONResponse / ErrorResponse: JSON body writers
  - ParseJSONBody: request body decoding
  - CORS: cross-origin headers for the survey frontend (allows the
    X-Admin-Key header used by operator endpoints)
  - GetClientIP: X-Forwarded-For / X-Real-IP / RemoteAddr resolution,
    used in registration logs
*/
package middleware
