// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/strata-survey/models"
	"github.com/danielhkuo/strata-survey/testutil"
)

func adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Key": testutil.TestAdminKey()}
}

func TestStats(t *testing.T) {
	conn, cfg, cat, _ := setupHandlers(t)
	testutil.SeedCatalog(t, conn, []int{1, 2}, []string{"1080", "4K"}, []int{1}, 2)

	h := NewAdminHandler(conn, cfg, cat)

	req := testutil.MakeRequest("GET", "/corpus/stats", nil, adminHeaders())
	w := httptest.NewRecorder()

	h.Stats(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.CorpusStats
	testutil.AssertJSON(t, w, &stats)
	if stats.Images != 8 {
		t.Errorf("Images = %d, want 8", stats.Images)
	}
	if len(stats.Categories) != 2 || len(stats.Resolutions) != 2 || len(stats.Distortions) != 1 {
		t.Errorf("axes = %v / %v / %v", stats.Categories, stats.Resolutions, stats.Distortions)
	}
}

func TestStats_RequiresAdminKey(t *testing.T) {
	conn, cfg, cat, _ := setupHandlers(t)
	h := NewAdminHandler(conn, cfg, cat)

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"missing key", nil},
		{"wrong key", map[string]string{"X-Admin-Key": "not-the-key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/corpus/stats", nil, tt.headers)
			w := httptest.NewRecorder()

			h.Stats(w, req)

			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}

func TestImport(t *testing.T) {
	conn, cfg, cat, _ := setupHandlers(t)

	manifestPath := filepath.Join(t.TempDir(), "manifest.csv")
	csv := `image_id,rel_path,category,category_name,resolution,distortion,distortion_name
4k/animals/0001.png,4k/animals/0001.png,1,animals,4K,1,base
1080_s/city/0002.png,1080_s/city/0002.png,2,city,1080,3,S
`
	if err := os.WriteFile(manifestPath, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.ManifestPath = manifestPath
	cfg.NTarget = 2

	h := NewAdminHandler(conn, cfg, cat)

	req := testutil.MakeRequest("POST", "/corpus/import", nil, adminHeaders())
	w := httptest.NewRecorder()

	h.Import(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ImportResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Imported != 2 || resp.Skipped {
		t.Errorf("import = %+v, want 2 imported", resp)
	}

	// A second import is a no-op
	req = testutil.MakeRequest("POST", "/corpus/import", nil, adminHeaders())
	w = httptest.NewRecorder()

	h.Import(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &resp)
	if !resp.Skipped {
		t.Error("repeat import not skipped")
	}
}

func TestImport_NoManifestConfigured(t *testing.T) {
	conn, cfg, cat, _ := setupHandlers(t)
	cfg.ManifestPath = ""

	h := NewAdminHandler(conn, cfg, cat)

	req := testutil.MakeRequest("POST", "/corpus/import", nil, adminHeaders())
	w := httptest.NewRecorder()

	h.Import(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestImport_RequiresAdminKey(t *testing.T) {
	conn, cfg, cat, _ := setupHandlers(t)
	h := NewAdminHandler(conn, cfg, cat)

	req := testutil.MakeRequest("POST", "/corpus/import", nil, nil)
	w := httptest.NewRecorder()

	h.Import(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
