// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment
variables.

# Precedence

CLI flags win over environment variables; environment variables win over
defaults. Secrets should come from the environment in production.

# Settings

Network and storage:

  - PORT (-p): server port (default 3419)
  - DATABASE_URL (-d): connection string (required)
  - DATABASE_TYPE (-t): sqlite or postgres (default sqlite)

Corpus:

  - MANIFEST_CSV (-manifest): manifest imported at startup when the
    catalog is empty
  - IMAGE_BASE_URL (-image-base-url): public prefix for image rel_paths
  - EXPERIMENT_NAME (-experiment): keys the admin key HMAC

Allocation parameters (defaults from the 6000-image study design):

  - POOL_SIZE (-pool): expected participant count P (300)
  - R_TARGET (-r-target): target exposure per image (25)
  - N_TARGET (-n-target): expected corpus size (6000)
  - K_TARGET (-k-target): images per participant; 0 derives N*R/P (500)
  - COVER_M (-cover-m): coverage-pack size per stratum (2)

Secrets (required):

  - ADMIN_KEY_SALT (-admin-salt)
  - RESPONDENT_SALT (-respondent-salt)
*/
package cliparse
