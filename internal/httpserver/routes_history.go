// internal/httpserver/routes_history.go
//
// Read-only endpoints:
//   - GET /history/mine → caller's recent solved rounds
//   - GET /history/best → fastest solves across players
//   - GET /policy       → learned hint-policy table, states in numeric order

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/MuraliDhar-731/WordPuzzle/internal/history"
	"github.com/MuraliDhar-731/WordPuzzle/internal/policy"
)

// maxLimit bounds ?limit= on list endpoints.
const maxLimit = 100

func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return 0 // store default
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

func (s *Server) handleHistoryMine(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []history.Record{})
		return
	}
	recs, err := s.history.Recent(r.Context(), s.playerID(w, r), queryLimit(r))
	if err != nil {
		log.Error().Err(err).Msg("history mine")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleHistoryBest(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []history.Record{})
		return
	}
	recs, err := s.history.Best(r.Context(), queryLimit(r))
	if err != nil {
		log.Error().Err(err).Msg("history best")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

type policyRow struct {
	State  policy.State              `json:"state"`
	Values map[policy.Action]float64 `json:"values"`
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	t := s.orch.Policy()
	rows := make([]policyRow, 0, len(t))
	for _, st := range t.States() {
		rows = append(rows, policyRow{State: st, Values: t[st]})
	}
	writeJSON(w, http.StatusOK, rows)
}
