// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/strata-survey/allocator"
	"github.com/danielhkuo/strata-survey/catalog"
	"github.com/danielhkuo/strata-survey/cliparse"
	"github.com/danielhkuo/strata-survey/handlers"
	"github.com/danielhkuo/strata-survey/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, cat *catalog.Catalog, alloc *allocator.Allocator) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	participantHandler := handlers.NewParticipantHandler(db, cfg, alloc)
	assignmentHandler := handlers.NewAssignmentHandler(db, cfg, cat)
	ratingHandler := handlers.NewRatingHandler(db, cfg, cat)
	adminHandler := handlers.NewAdminHandler(db, cfg, cat)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Participant flow (public)
	mux.HandleFunc("POST /participants", middleware.WithLogging(participantHandler.Register))
	mux.HandleFunc("GET /participants/{id}/assignments", middleware.WithLogging(assignmentHandler.GetSequence))
	mux.HandleFunc("POST /participants/{id}/ratings", middleware.WithLogging(ratingHandler.Submit))
	mux.HandleFunc("GET /participants/{id}/progress", middleware.WithLogging(assignmentHandler.GetProgress))

	// Training walkthrough (public, static)
	mux.HandleFunc("GET /training", middleware.WithLogging(ratingHandler.Training))

	// Corpus administration (requires X-Admin-Key)
	mux.HandleFunc("GET /corpus/stats", middleware.WithLogging(adminHandler.Stats))
	mux.HandleFunc("POST /corpus/import", middleware.WithLogging(adminHandler.Import))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("strata-survey API v1"))
	})

	return mux
}
