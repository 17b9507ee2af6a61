// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Strata Survey API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, cat, alloc)

# Endpoints

Health:

	GET /health

Participant flow (public):

	POST /participants                  - Register and allocate sequence
	GET  /participants/{id}/assignments - Ordered assignment sequence
	POST /participants/{id}/ratings     - Submit a rating
	GET  /participants/{id}/progress    - Assigned vs rated counts

Training (public):

	GET /training - Score scale for the intro walkthrough

Corpus administration (requires X-Admin-Key):

	GET  /corpus/stats  - Corpus and exposure statistics
	POST /corpus/import - Load the configured manifest

# Handler Initialization

The router creates handler instances with dependency injection:

	participantHandler := handlers.NewParticipantHandler(db, cfg, alloc)
	assignmentHandler := handlers.NewAssignmentHandler(db, cfg, cat)
	ratingHandler := handlers.NewRatingHandler(db, cfg, cat)
	adminHandler := handlers.NewAdminHandler(db, cfg, cat)
*/
package router
