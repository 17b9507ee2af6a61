// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/strata-survey/catalog"
	"github.com/danielhkuo/strata-survey/cliparse"
	"github.com/danielhkuo/strata-survey/middleware"
	"github.com/danielhkuo/strata-survey/models"
)

type AssignmentHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	cat *catalog.Catalog
}

func NewAssignmentHandler(conn *sql.DB, cfg cliparse.Config, cat *catalog.Catalog) *AssignmentHandler {
	return &AssignmentHandler{db: conn, cfg: cfg, cat: cat}
}

// GetSequence handles GET /participants/{id}/assignments
//
// Returns the assignment in ordinal order, exactly as the allocator
// committed it. The rating UI walks this list front to back.
func (h *AssignmentHandler) GetSequence(w http.ResponseWriter, r *http.Request) {
	participantID := r.PathValue("id")
	if participantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant id is required")
		return
	}

	exists, err := participantExists(h.db, h.cfg, participantID)
	if err != nil {
		slog.Error("failed to query participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
		return
	}

	items, err := h.cat.AssignmentSequence(participantID)
	if err != nil {
		slog.Error("failed to query assignment sequence", "error", err, "participant_id", participantID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	entries := make([]models.AssignmentEntry, len(items))
	for i, it := range items {
		url := it.RelPath
		if h.cfg.ImageBaseURL != "" {
			url = h.cfg.ImageBaseURL + "/" + it.RelPath
		}
		entries[i] = models.AssignmentEntry{
			ImageID: it.ImageID,
			Ord:     it.Ord,
			URL:     url,
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.AssignmentSequenceResponse{
		ParticipantID: participantID,
		Assignments:   entries,
	})
}

// GetProgress handles GET /participants/{id}/progress
func (h *AssignmentHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	participantID := r.PathValue("id")
	if participantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant id is required")
		return
	}

	exists, err := participantExists(h.db, h.cfg, participantID)
	if err != nil {
		slog.Error("failed to query participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
		return
	}

	assigned, err := h.cat.AssignedCount(participantID)
	if err != nil {
		slog.Error("failed to count assignments", "error", err, "participant_id", participantID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rated, err := h.cat.RatedCount(participantID)
	if err != nil {
		slog.Error("failed to count ratings", "error", err, "participant_id", participantID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProgressResponse{
		Assigned: assigned,
		Rated:    rated,
	})
}
