// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/strata-survey/allocator"
	"github.com/danielhkuo/strata-survey/auth"
	"github.com/danielhkuo/strata-survey/cliparse"
	"github.com/danielhkuo/strata-survey/db"
	"github.com/danielhkuo/strata-survey/middleware"
	"github.com/danielhkuo/strata-survey/models"
)

type ParticipantHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	alloc *allocator.Allocator
}

func NewParticipantHandler(conn *sql.DB, cfg cliparse.Config, alloc *allocator.Allocator) *ParticipantHandler {
	return &ParticipantHandler{db: conn, cfg: cfg, alloc: alloc}
}

// Register handles POST /participants
//
// Creates the registry row and immediately runs the allocator. A
// participant never advances to the rating phase without a non-empty
// committed assignment, so any allocation failure unwinds the
// registration.
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.StudentID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "student_id is required")
		return
	}
	if len(req.StudentID) > 64 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "student_id must be at most 64 characters")
		return
	}

	participantID := uuid.NewString()
	respondentHash := auth.HashRespondent(req.StudentID, h.cfg.RespondentSalt)

	_, err := h.db.Exec(db.Rebind(h.cfg.DatabaseType, `
		INSERT INTO participant (id, respondent_hash, device, screen_resolution, registered_at)
		VALUES (?, ?, ?, ?, ?)
	`), participantID, respondentHash, req.Device, req.ScreenResolution, time.Now())

	if err != nil {
		slog.Error("failed to insert participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	result, err := h.alloc.Assign(participantID)
	if err != nil {
		h.unwind(participantID)
		if errors.Is(err, allocator.ErrEmptyCatalog) {
			slog.Error("registration rejected: empty catalog", "participant_id", participantID)
			middleware.ErrorResponse(w, http.StatusServiceUnavailable,
				"Image catalog is empty or not imported; registration cannot proceed")
			return
		}
		slog.Error("allocation failed", "participant_id", participantID, "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Allocation failed, please retry")
		return
	}

	if len(result.ImageIDs) == 0 {
		// Catalog exists but every image hit the exposure ceiling.
		h.unwind(participantID)
		slog.Warn("registration rejected: no assignable images",
			"participant_id", participantID, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusServiceUnavailable,
			"No images available for assignment; the participant quota may be exhausted")
		return
	}

	if result.Short {
		// Operator signal: corpus/quota sizing needs revisiting.
		slog.Warn("short assignment",
			"participant_id", participantID,
			"assigned", len(result.ImageIDs),
			"k_target", h.cfg.KTarget)
	}

	slog.Info("participant registered",
		"participant_id", participantID,
		"assigned", len(result.ImageIDs),
		"device", req.Device,
		"remote", middleware.GetClientIP(r))

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterParticipantResponse{
		ParticipantID: participantID,
		AssignedCount: len(result.ImageIDs),
		Short:         result.Short,
	})
}

// unwind removes a registration whose allocation did not produce a
// usable assignment. Best effort: a leftover row without assignments is
// harmless but would skew registry counts.
func (h *ParticipantHandler) unwind(participantID string) {
	_, err := h.db.Exec(db.Rebind(h.cfg.DatabaseType,
		`DELETE FROM participant WHERE id = ?`), participantID)
	if err != nil {
		slog.Warn("failed to remove unallocated participant", "participant_id", participantID, "error", err)
	}
}

// participantExists checks the registry for the given id.
func participantExists(conn *sql.DB, cfg cliparse.Config, participantID string) (bool, error) {
	var exists bool
	err := conn.QueryRow(db.Rebind(cfg.DatabaseType, `
		SELECT EXISTS(SELECT 1 FROM participant WHERE id = ?)
	`), participantID).Scan(&exists)
	return exists, err
}
