package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/radar/internal/domain/types"
)

type leaderboardResponse struct {
	Category string              `json:"category"`
	Entries  []types.RankedEntry `json:"entries"`
}

// HandleGetLeaderboard handles GET /api/leaderboard?category=C&limit=N.
// Both parameters are optional.
func (s *Server) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	if category == "" {
		category = s.deps.DefaultCategory().String()
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		limit = n
	}

	entries, err := s.deps.Top(r.Context(), category, limit)
	if err != nil {
		status, code, msg := s.fail(r, err)
		writeJSON(w, status, errorResponse{Code: code, Message: msg})
		return
	}
	if entries == nil {
		entries = []types.RankedEntry{}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Category: category, Entries: entries})
}
