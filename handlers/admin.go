// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/strata-survey/auth"
	"github.com/danielhkuo/strata-survey/catalog"
	"github.com/danielhkuo/strata-survey/cliparse"
	"github.com/danielhkuo/strata-survey/manifest"
	"github.com/danielhkuo/strata-survey/middleware"
	"github.com/danielhkuo/strata-survey/models"
)

type AdminHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	cat *catalog.Catalog
}

func NewAdminHandler(conn *sql.DB, cfg cliparse.Config, cat *catalog.Catalog) *AdminHandler {
	return &AdminHandler{db: conn, cfg: cfg, cat: cat}
}

func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(h.cfg.ExperimentName, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// Stats handles GET /corpus/stats
//
// Operator view: corpus size, axis values, exposure spread, and the
// short-assignment count that signals quota sizing problems.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	stats, err := h.cat.Stats(h.cfg.KTarget)
	if err != nil {
		slog.Error("failed to compute corpus stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// Import handles POST /corpus/import
//
// Loads the configured manifest into an empty catalog. No-op (skipped)
// when the catalog already has images: axis values must not change
// mid-experiment.
func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	if h.cfg.ManifestPath == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No manifest configured (set MANIFEST_CSV)")
		return
	}

	imported, skipped, err := ImportManifest(h.cat, h.cfg)
	if err != nil {
		slog.Error("manifest import failed", "error", err, "manifest", h.cfg.ManifestPath)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Manifest import failed")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ImportResponse{
		Imported: imported,
		Skipped:  skipped,
	})
}

// ImportManifest reads the configured manifest CSV and loads it into an
// empty catalog. Shared by the admin endpoint and server startup.
func ImportManifest(cat *catalog.Catalog, cfg cliparse.Config) (imported int, skipped bool, err error) {
	rows, err := manifest.Read(cfg.ManifestPath)
	if err != nil {
		return 0, false, err
	}

	imported, skipped, err = cat.ImportIfEmpty(rows)
	if err != nil {
		return 0, false, err
	}

	if skipped {
		slog.Info("manifest import skipped: catalog already populated", "manifest", cfg.ManifestPath)
		return imported, skipped, nil
	}

	slog.Info("manifest imported", "manifest", cfg.ManifestPath, "images", imported)
	if imported != cfg.NTarget {
		slog.Warn("imported image count differs from N_TARGET",
			"imported", imported, "n_target", cfg.NTarget)
	}
	return imported, skipped, nil
}
