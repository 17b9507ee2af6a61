package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Secrets
	AdminKeySalt   string
	RespondentSalt string

	// Experiment identity (keys the admin HMAC)
	ExperimentName string

	// Corpus
	ManifestPath string
	ImageBaseURL string

	// Allocation parameters
	Participants int // P: expected participant pool size
	RTarget      int // target exposure per image across the pool
	NTarget      int // expected corpus size
	KTarget      int // images per participant (0 = derive N*R/P)
	CoverM       int // coverage-pack size per stratum
}

// ParseFlags validates flags, applies environment fallbacks, and derives
// K_TARGET when it is not set explicitly.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("strata-survey", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Corpus
	fs.StringVar(&cfg.ManifestPath, "manifest", "", "Manifest CSV to import at startup if the catalog is empty")
	fs.StringVar(&cfg.ImageBaseURL, "image-base-url", "", "Public base URL prefixed to image rel_paths (optional)")
	fs.StringVar(&cfg.ExperimentName, "experiment", "", "Experiment name (keys the admin key)")

	// Allocation parameters
	fs.IntVar(&cfg.Participants, "pool", 0, "Expected participant pool size P")
	fs.IntVar(&cfg.RTarget, "r-target", 0, "Target exposure per image")
	fs.IntVar(&cfg.NTarget, "n-target", 0, "Expected corpus size")
	fs.IntVar(&cfg.KTarget, "k-target", 0, "Images per participant (0 = derive N*R/P)")
	fs.IntVar(&cfg.CoverM, "cover-m", 0, "Coverage-pack size per stratum")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.RespondentSalt, "respondent-salt", "", "Respondent id hashing salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3419 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	cfg.DatabaseType = strings.ToLower(cfg.DatabaseType)
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.ManifestPath == "" {
		cfg.ManifestPath = os.Getenv("MANIFEST_CSV")
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = os.Getenv("IMAGE_BASE_URL")
	}
	cfg.ImageBaseURL = strings.TrimRight(cfg.ImageBaseURL, "/")

	if cfg.ExperimentName == "" {
		cfg.ExperimentName = os.Getenv("EXPERIMENT_NAME")
		if cfg.ExperimentName == "" {
			cfg.ExperimentName = "iqa-survey"
		}
	}

	// Allocation parameters: env fallback, then defaults from the
	// 6000-image / 300-participant study design.
	var err error
	if cfg.Participants, err = intEnv(cfg.Participants, "POOL_SIZE", 300); err != nil {
		return Config{}, err
	}
	if cfg.RTarget, err = intEnv(cfg.RTarget, "R_TARGET", 25); err != nil {
		return Config{}, err
	}
	if cfg.NTarget, err = intEnv(cfg.NTarget, "N_TARGET", 6000); err != nil {
		return Config{}, err
	}
	if cfg.KTarget, err = intEnv(cfg.KTarget, "K_TARGET", 0); err != nil {
		return Config{}, err
	}
	if cfg.CoverM, err = intEnv(cfg.CoverM, "COVER_M", 2); err != nil {
		return Config{}, err
	}

	if cfg.Participants <= 0 || cfg.RTarget <= 0 || cfg.NTarget <= 0 || cfg.CoverM <= 0 {
		return Config{}, errors.New("pool, r-target, n-target, and cover-m must be positive")
	}

	if cfg.KTarget == 0 {
		cfg.KTarget = cfg.NTarget * cfg.RTarget / cfg.Participants
	}
	if cfg.KTarget <= 0 {
		return Config{}, errors.New("derived K_TARGET is zero; check pool/r-target/n-target")
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.RespondentSalt == "" {
		cfg.RespondentSalt = os.Getenv("RESPONDENT_SALT")
	}
	if cfg.RespondentSalt == "" {
		return Config{}, errors.New("RESPONDENT_SALT required")
	}

	return cfg, nil
}

// intEnv resolves an integer setting: explicit flag value wins, then the
// named env variable, then the default.
func intEnv(flagVal int, envName string, def int) (int, error) {
	if flagVal != 0 {
		return flagVal, nil
	}
	if s := os.Getenv(envName); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, errors.New("invalid " + envName + " env variable")
		}
		return v, nil
	}
	return def, nil
}
