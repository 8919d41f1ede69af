package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi"

	"zetaexams/internal/importer"
	models "zetaexams/internal/models"
	"zetaexams/internal/scoring"
	"zetaexams/internal/store"
	http2 "zetaexams/internal/utility/http"
)

// GetMockTests lists tests without their questions, newest first.
func (h *Handler) GetMockTests(w http.ResponseWriter, r *http.Request) {
	tests, err := h.MockTests.List(r.Context())
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"tests": tests})
}

func (h *Handler) loadTest(r *http.Request) (*models.MockTest, error) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return h.MockTests.Get(r.Context(), id)
}

func (h *Handler) GetMockTest(w http.ResponseWriter, r *http.Request) {
	test, err := h.loadTest(r)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"test": test})
}

// SubmitMockTest scores a submission against the stored answer key and
// records it as an attempt. A failed write is reported, never retried.
func (h *Handler) SubmitMockTest(w http.ResponseWriter, r *http.Request) {
	test, err := h.loadTest(r)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	var sub models.Submission
	if err := decodeJSON(r, &sub); err != nil {
		http2.RespondWithError(w, err)
		return
	}

	result := scoring.Score(test, sub.Answers, sub.TimeTaken)
	if result.Ignored > 0 {
		log.Printf("Submission for test %s carried %d answers with unknown question numbers", test.ID.Hex(), result.Ignored)
	}

	now := h.now()
	attempt := &models.Attempt{
		TestID:      test.ID,
		Answers:     result.Answers,
		Score:       result.Score,
		TimeTaken:   result.TimeTaken,
		CompletedAt: now,
		CreatedAt:   now,
	}
	if err := h.Attempts.Record(r.Context(), attempt); err != nil {
		http2.RespondWithError(w, err)
		return
	}

	http2.RespondStatus(w, http.StatusOK, "Test submitted successfully", map[string]interface{}{
		"attemptId": attempt.ID.Hex(),
		"result":    result,
	})
}

// ReviewMockTest pairs each question with the posted selection. Nothing is stored.
func (h *Handler) ReviewMockTest(w http.ResponseWriter, r *http.Request) {
	test, err := h.loadTest(r)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	var sub models.Submission
	if err := decodeJSON(r, &sub); err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"review": scoring.BuildReview(test, sub.Answers)})
}

// CreateMockTest builds a test from delimited text and stores it whole.
func (h *Handler) CreateMockTest(w http.ResponseWriter, r *http.Request) {
	var req models.MockTestRequest
	if err := decodeJSON(r, &req); err != nil {
		http2.RespondWithError(w, err)
		return
	}
	test, skipped, err := importer.BuildMockTest(req, h.now())
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	if err := h.MockTests.Create(r.Context(), test); err != nil {
		http2.RespondWithError(w, fmt.Errorf("test %q: %w", test.TestName, err))
		return
	}
	http2.RespondStatus(w, http.StatusCreated, "Mock test created successfully", map[string]interface{}{
		"test": models.MockTestAdminSummary{
			ID:             test.ID,
			TestName:       test.TestName,
			TotalQuestions: len(test.Questions),
			Duration:       test.Duration,
			CreatedAt:      test.CreatedAt,
		},
		"skipped": skipped,
	})
}

func (h *Handler) GetAdminMockTests(w http.ResponseWriter, r *http.Request) {
	tests, err := h.MockTests.AdminList(r.Context())
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"tests": tests})
}

func (h *Handler) GetMockTestAttempts(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	attempts, err := h.Attempts.ListForTest(r.Context(), id)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"attempts": attempts})
}

// DeleteMockTest removes the test and then every attempt referencing it.
func (h *Handler) DeleteMockTest(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	if err := h.MockTests.Delete(r.Context(), id); err != nil {
		http2.RespondWithError(w, err)
		return
	}
	removed, err := h.Attempts.DeleteForTest(r.Context(), id)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondStatus(w, http.StatusOK, "Mock test deleted successfully", map[string]interface{}{
		"attemptsDeleted": removed,
	})
}
