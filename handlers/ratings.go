// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/danielhkuo/strata-survey/auth"
	"github.com/danielhkuo/strata-survey/catalog"
	"github.com/danielhkuo/strata-survey/cliparse"
	"github.com/danielhkuo/strata-survey/db"
	"github.com/danielhkuo/strata-survey/middleware"
	"github.com/danielhkuo/strata-survey/models"
)

type RatingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	cat *catalog.Catalog
}

func NewRatingHandler(conn *sql.DB, cfg cliparse.Config, cat *catalog.Catalog) *RatingHandler {
	return &RatingHandler{db: conn, cfg: cfg, cat: cat}
}

// Submit handles POST /participants/{id}/ratings
//
// Append-only: one rating per assigned image per participant. Ratings
// for images outside the participant's assignment are rejected.
func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	participantID := r.PathValue("id")
	if participantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant id is required")
		return
	}

	var req models.SubmitRatingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ImageID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "image_id is required")
		return
	}
	label, ok := models.ScoreLabels[req.Score]
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "score must be between 1 and 5")
		return
	}
	if !models.ValidClarity(req.TextClarity) {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"text_clarity must be clear, not_clear, or no_text")
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

	assigned, err := h.cat.IsAssigned(participantID, req.ImageID)
	if err != nil {
		slog.Error("failed to check assignment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !assigned {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Image is not in this participant's assignment")
		return
	}

	ratingID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate rating ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save rating")
		return
	}

	_, err = h.db.Exec(db.Rebind(h.cfg.DatabaseType, `
		INSERT INTO rating (id, participant_id, image_id, score, label, text_clarity, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), ratingID, participantID, req.ImageID, req.Score, label, req.TextClarity, time.Now())

	if err != nil {
		// Check if it's a uniqueness violation
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			middleware.ErrorResponse(w, http.StatusConflict, "Image already rated by this participant")
			return
		}
		slog.Error("failed to insert rating", "error", err, "participant_id", participantID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save rating")
		return
	}

	slog.Info("rating submitted",
		"participant_id", participantID,
		"image_id", req.ImageID,
		"score", req.Score)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitRatingResponse{
		RatingID: ratingID,
		Message:  "Rating recorded",
	})
}

// Training handles GET /training
//
// Returns the five score levels with their descriptive labels for the
// training carousel. Nothing is recorded here.
func (h *RatingHandler) Training(w http.ResponseWriter, r *http.Request) {
	levels := make([]models.TrainingLevel, 0, len(models.ScoreLabels))
	for score, label := range models.ScoreLabels {
		levels = append(levels, models.TrainingLevel{Score: score, Label: label})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Score < levels[j].Score })

	middleware.JSONResponse(w, http.StatusOK, levels)
}
