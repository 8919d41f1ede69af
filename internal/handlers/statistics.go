package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"zetaexams/internal/utility"
	http2 "zetaexams/internal/utility/http"
)

// GetMockTestStats reports how a test's attempts went. With ?score= it also
// ranks that score against them, ties sharing a rank.
func (h *Handler) GetMockTestStats(w http.ResponseWriter, r *http.Request) {
	test, err := h.loadTest(r)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}

	stats, err := h.Attempts.Stats(r.Context(), test.ID)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	data := map[string]interface{}{"testName": test.TestName, "stats": stats}

	if raw := r.URL.Query().Get("score"); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http2.RespondWithError(w, fmt.Errorf("invalid score %q: %w", raw, utility.ErrValidation))
			return
		}
		rank, err := h.Attempts.Rank(r.Context(), test.ID, score)
		if err != nil {
			http2.RespondWithError(w, err)
			return
		}
		data["rank"] = rank
	}
	http2.RespondSuccess(w, data)
}
