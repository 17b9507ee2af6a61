// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and identifier hashing.

# Admin Keys

The operator endpoints authenticate with an HMAC key derived from the
experiment name and ADMIN_KEY_SALT:

	key := auth.GenerateAdminKey(cfg.ExperimentName, cfg.AdminKeySalt)

Validation is constant-time via hmac.Equal.

# Respondent Anonymization

Student ids are never stored raw. HashRespondent produces a salted
one-way hash so the registry can detect repeat registrations without
holding identifying data.

# Random IDs

GenerateID returns crypto/rand hex strings, used for rating ids.
*/
package auth
