// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/strata-survey/models"
	"github.com/danielhkuo/strata-survey/testutil"
)

func TestSubmitRating(t *testing.T) {
	conn, cfg, cat, _ := setupHandlers(t)
	ids := testutil.SeedCatalog(t, conn, []int{1}, []string{"1080"}, []int{1}, 2)
	pid := testutil.CreateTestParticipant(t, conn, cfg, "student-001")
	testutil.AssignImages(t, conn, pid, ids)

	h := NewRatingHandler(conn, cfg, cat)

	req := testutil.MakeRequest("POST", "/participants/"+pid+"/ratings", models.SubmitRatingRequest{
		ImageID:     ids[0],
		Score:       4,
		TextClarity: models.ClarityClear,
	}, nil)
	req.SetPathValue("id", pid)
	w := httptest.NewRecorder()

	h.Submit(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.SubmitRatingResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.RatingID == "" {
		t.Error("Submit() returned empty rating id")
	}

	// The stored row carries the label text for the score
	var score int
	var label string
	err := conn.QueryRow(`SELECT score, label FROM rating WHERE id = ?`, resp.RatingID).Scan(&score, &label)
	if err != nil {
		t.Fatalf("rating row missing: %v", err)
	}
	if score != 4 || label != models.ScoreLabels[4] {
		t.Errorf("stored rating = (%d, %q)", score, label)
	}
}

func TestSubmitRating_DuplicateRejected(t *testing.T) {
	conn, cfg, cat, _ := setupHandlers(t)
	ids := testutil.SeedCatalog(t, conn, []int{1}, []string{"1080"}, []int{1}, 2)
	pid := testutil.CreateTestParticipant(t, conn, cfg, "student-001")
	testutil.AssignImages(t, conn, pid, ids)

	h := NewRatingHandler(conn, cfg, cat)

	submit := func() *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/participants/"+pid+"/ratings", models.SubmitRatingRequest{
			ImageID:     ids[0],
			Score:       3,
			TextClarity: models.ClarityNoText,
		}, nil)
		req.SetPathValue("id", pid)
		w := httptest.NewRecorder()
		h.Submit(w, req)
		return w
	}

	testutil.AssertStatus(t, submit(), http.StatusCreated)
	testutil.AssertStatus(t, submit(), http.StatusConflict)

	// Only the first rating is recorded
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM rating WHERE participant_id = ?`, pid).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("rating count = %d, want 1", n)
	}
}

func TestSubmitRating_Validation(t *testing.T) {
	conn, cfg, cat, _ := setupHandlers(t)
	ids := testutil.SeedCatalog(t, conn, []int{1}, []string{"1080"}, []int{1}, 2)
	pid := testutil.CreateTestParticipant(t, conn, cfg, "student-001")
	testutil.AssignImages(t, conn, pid, ids)

	h := NewRatingHandler(conn, cfg, cat)

	tests := []struct {
		name string
		body models.SubmitRatingRequest
	}{
		{"missing image_id", models.SubmitRatingRequest{Score: 3, TextClarity: "clear"}},
		{"score too low", models.SubmitRatingRequest{ImageID: ids[0], Score: 0, TextClarity: "clear"}},
		{"score too high", models.SubmitRatingRequest{ImageID: ids[0], Score: 6, TextClarity: "clear"}},
		{"bad clarity", models.SubmitRatingRequest{ImageID: ids[0], Score: 3, TextClarity: "somewhat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/participants/"+pid+"/ratings", tt.body, nil)
			req.SetPathValue("id", pid)
			w := httptest.NewRecorder()

			h.Submit(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestSubmitRating_UnassignedImage(t *testing.T) {
	conn, cfg, cat, _ := setupHandlers(t)
	ids := testutil.SeedCatalog(t, conn, []int{1}, []string{"1080"}, []int{1}, 3)
	pid := testutil.CreateTestParticipant(t, conn, cfg, "student-001")
	testutil.AssignImages(t, conn, pid, ids[:2])

	h := NewRatingHandler(conn, cfg, cat)

	// ids[2] exists in the catalog but is not in this assignment
	req := testutil.MakeRequest("POST", "/participants/"+pid+"/ratings", models.SubmitRatingRequest{
		ImageID:     ids[2],
		Score:       3,
		TextClarity: models.ClarityClear,
	}, nil)
	req.SetPathValue("id", pid)
	w := httptest.NewRecorder()

	h.Submit(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestSubmitRating_UnknownParticipant(t *testing.T) {
	conn, cfg, cat, _ := setupHandlers(t)
	testutil.SeedCatalog(t, conn, []int{1}, []string{"1080"}, []int{1}, 1)

	h := NewRatingHandler(conn, cfg, cat)

	req := testutil.MakeRequest("POST", "/participants/nope/ratings", models.SubmitRatingRequest{
		ImageID:     "cat1/1080/1/img0.png",
		Score:       3,
		TextClarity: models.ClarityClear,
	}, nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()

	h.Submit(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestTraining(t *testing.T) {
	conn, cfg, cat, _ := setupHandlers(t)
	h := NewRatingHandler(conn, cfg, cat)

	req := testutil.MakeRequest("GET", "/training", nil, nil)
	w := httptest.NewRecorder()

	h.Training(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var levels []models.TrainingLevel
	testutil.AssertJSON(t, w, &levels)

	if len(levels) != 5 {
		t.Fatalf("Training() returned %d levels, want 5", len(levels))
	}
	for i, lvl := range levels {
		if lvl.Score != i+1 {
			t.Errorf("level %d has score %d, want ascending 1-5", i, lvl.Score)
		}
		if lvl.Label != models.ScoreLabels[lvl.Score] {
			t.Errorf("level %d label = %q", i, lvl.Label)
		}
	}
}
