// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/strata-survey/auth"
	"github.com/danielhkuo/strata-survey/cliparse"
	"github.com/danielhkuo/strata-survey/db"
	"github.com/google/uuid"
)

// SetupTestDB creates a fresh sqlite database with the full schema.
// The file lives in a per-test temp dir so tests need no external service
// and never interfere with each other.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "strata_test.db")
	conn, err := db.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3419,
		DatabaseType:   "sqlite",
		AdminKeySalt:   "test-admin-salt",
		RespondentSalt: "test-respondent-salt",
		ExperimentName: "test-experiment",
		ImageBaseURL:   "https://cdn.example.com/images",
		Participants:   300,
		RTarget:        25,
		NTarget:        6000,
		KTarget:        500,
		CoverM:         2,
	}
}

// TestAdminKey returns the admin key matching GetTestConfig
func TestAdminKey() string {
	cfg := GetTestConfig()
	return auth.GenerateAdminKey(cfg.ExperimentName, cfg.AdminKeySalt)
}

// SeedCatalog inserts perStratum images for every combination of the
// given axis values. Image IDs follow the pattern
// "cat<C>/<res>/<dist>/img<N>.png" so tests can reconstruct strata.
// Returns the inserted image IDs in insertion order.
func SeedCatalog(t *testing.T, conn *sql.DB, categories []int, resolutions []string, distortions []int, perStratum int) []string {
	t.Helper()

	var ids []string
	for _, cat := range categories {
		for _, res := range resolutions {
			for _, dist := range distortions {
				for n := 0; n < perStratum; n++ {
					id := fmt.Sprintf("cat%d/%s/%d/img%d.png", cat, res, dist, n)
					_, err := conn.Exec(`
						INSERT INTO image (id, rel_path, category, category_name, resolution, distortion, distortion_name, exposure_count)
						VALUES (?, ?, ?, ?, ?, ?, ?, 0)
					`, id, id, cat, fmt.Sprintf("category-%d", cat), res, dist, fmt.Sprintf("level-%d", dist))
					if err != nil {
						t.Fatalf("Failed to seed image %s: %v", id, err)
					}
					ids = append(ids, id)
				}
			}
		}
	}
	return ids
}

// CreateTestParticipant inserts a participant row directly and returns its ID.
// Use this to test endpoints that require an existing participant without
// going through the registration/allocation path.
func CreateTestParticipant(t *testing.T, conn *sql.DB, cfg cliparse.Config, studentID string) string {
	t.Helper()

	pid := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO participant (id, respondent_hash, device, screen_resolution, registered_at)
		VALUES (?, ?, 'desktop', '1920x1080', ?)
	`, pid, auth.HashRespondent(studentID, cfg.RespondentSalt), time.Now())
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}
	return pid
}

// AssignImages inserts assignment rows for a participant with contiguous
// ordinals, bumping each image's exposure counter the way the allocator does.
func AssignImages(t *testing.T, conn *sql.DB, participantID string, imageIDs []string) {
	t.Helper()

	for i, imgID := range imageIDs {
		_, err := conn.Exec(`
			INSERT INTO assignment (participant_id, image_id, ord, assigned_at)
			VALUES (?, ?, ?, ?)
		`, participantID, imgID, i, time.Now())
		if err != nil {
			t.Fatalf("Failed to assign image %s: %v", imgID, err)
		}
		_, err = conn.Exec(`UPDATE image SET exposure_count = exposure_count + 1 WHERE id = ?`, imgID)
		if err != nil {
			t.Fatalf("Failed to bump exposure for %s: %v", imgID, err)
		}
	}
}

// ExposureCount reads an image's exposure counter
func ExposureCount(t *testing.T, conn *sql.DB, imageID string) int {
	t.Helper()

	var count int
	err := conn.QueryRow(`SELECT exposure_count FROM image WHERE id = ?`, imageID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to read exposure count for %s: %v", imageID, err)
	}
	return count
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
