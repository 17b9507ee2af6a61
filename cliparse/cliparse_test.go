// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("DATABASE_URL", "survey.db")
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	os.Setenv("RESPONDENT_SALT", "test-respondent-salt")
}

func TestParseFlags_EnvVars(t *testing.T) {
	os.Setenv("PORT", "9000")
	setRequiredEnv(t)
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	setRequiredEnv(t)
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-respondent-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.AdminKeySalt != "s1" {
		t.Errorf("CLI should override env: expected s1, got %s", cfg.AdminKeySalt)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	setRequiredEnv(t)
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3419 {
		t.Errorf("expected default port 3419, got %d", cfg.Port)
	}
	if cfg.Participants != 300 {
		t.Errorf("expected default pool size 300, got %d", cfg.Participants)
	}
	if cfg.RTarget != 25 {
		t.Errorf("expected default R target 25, got %d", cfg.RTarget)
	}
	if cfg.NTarget != 6000 {
		t.Errorf("expected default N target 6000, got %d", cfg.NTarget)
	}
	if cfg.CoverM != 2 {
		t.Errorf("expected default cover-m 2, got %d", cfg.CoverM)
	}
	if cfg.ExperimentName != "iqa-survey" {
		t.Errorf("expected default experiment name, got %s", cfg.ExperimentName)
	}
}

func TestParseFlags_DerivesKTarget(t *testing.T) {
	setRequiredEnv(t)
	defer os.Clearenv()

	// K = N * R / P with the study defaults: 6000 * 25 / 300 = 500
	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.KTarget != 500 {
		t.Errorf("expected derived K target 500, got %d", cfg.KTarget)
	}

	// Explicit K wins over derivation
	cfg, err = ParseFlags([]string{"-k-target", "120"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.KTarget != 120 {
		t.Errorf("expected explicit K target 120, got %d", cfg.KTarget)
	}
}

func TestParseFlags_MissingDatabaseURL(t *testing.T) {
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	os.Setenv("RESPONDENT_SALT", "test-respondent-salt")
	defer os.Clearenv()

	_, err := ParseFlags([]string{})
	if err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestParseFlags_MissingSalts(t *testing.T) {
	os.Setenv("DATABASE_URL", "survey.db")
	defer os.Clearenv()

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected error when ADMIN_KEY_SALT is missing")
	}

	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected error when RESPONDENT_SALT is missing")
	}
}

func TestParseFlags_InvalidDatabaseType(t *testing.T) {
	setRequiredEnv(t)
	defer os.Clearenv()

	_, err := ParseFlags([]string{"-t", "mysql"})
	if err == nil {
		t.Error("expected error for unsupported database type")
	}
}

func TestParseFlags_TrimsImageBaseURL(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("IMAGE_BASE_URL", "https://cdn.example.com/images/")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ImageBaseURL != "https://cdn.example.com/images" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.ImageBaseURL)
	}
}
