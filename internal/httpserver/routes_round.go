// internal/httpserver/routes_round.go
//
// Round endpoints:
//   - POST /round/new          → start a round (random word, or "word" for testing)
//   - GET  /round/{id}         → current view
//   - POST /round/{id}/guess   → apply a letter or word guess
//   - POST /round/{id}/hint    → explicit hint request
//
// Rounds belong to the player that started them; other callers get 404.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/MuraliDhar-731/WordPuzzle/internal/lexicon"
	"github.com/MuraliDhar-731/WordPuzzle/internal/puzzle"
	"github.com/MuraliDhar-731/WordPuzzle/internal/session"
)

type newRoundReq struct {
	Word string `json:"word"` // optional fixed word (testing)
}

func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if !decodeOptional(w, r, &req) {
		return
	}
	pid := s.playerID(w, r)

	var (
		rd  *session.Round
		err error
	)
	if req.Word != "" {
		rd, err = s.orch.NewRoundWithWord(r.Context(), pid, req.Word)
	} else {
		rd, err = s.orch.NewRound(r.Context(), pid)
	}
	switch {
	case errors.Is(err, session.ErrInvalidWord):
		writeError(w, http.StatusBadRequest, "invalid_word")
		return
	case errors.Is(err, lexicon.ErrNoCandidates):
		writeError(w, http.StatusServiceUnavailable, "no_words")
		return
	case err != nil:
		log.Error().Err(err).Msg("new round")
		writeError(w, http.StatusInternalServerError, "new_round_failed")
		return
	}

	if err := s.rounds.Save(r.Context(), rd); err != nil {
		log.Error().Err(err).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, s.orch.View(rd))
}

// loadRound fetches the {id} round owned by the caller, writing a 404
// otherwise.
func (s *Server) loadRound(w http.ResponseWriter, r *http.Request) (*session.Round, bool) {
	rd, err := s.rounds.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || rd.PlayerID != s.playerID(w, r) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return rd, true
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.orch.View(rd))
}

type guessReq struct {
	Guess string `json:"guess"`
}

type guessRes struct {
	Result session.GuessResult `json:"result"`
	Round  session.View        `json:"round"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	var req guessReq
	if !decodeOptional(w, r, &req) {
		return
	}

	res, err := s.orch.Guess(r.Context(), rd, req.Guess)
	switch {
	case errors.Is(err, puzzle.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, "invalid_guess")
		return
	case errors.Is(err, puzzle.ErrSolved):
		writeError(w, http.StatusConflict, "already_solved")
		return
	case err != nil:
		log.Error().Err(err).Str("round", rd.ID).Msg("guess")
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}

	if res.Solved && s.daily != nil {
		s.daily.finish(r.Context(), rd)
	}
	writeJSON(w, http.StatusOK, guessRes{Result: res, Round: s.orch.View(rd)})
}

type hintReq struct {
	Class puzzle.HintClass `json:"class"`
}

type hintRes struct {
	Shown bool         `json:"shown"`
	Round session.View `json:"round"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	var req hintReq
	if !decodeOptional(w, r, &req) {
		return
	}

	shown, err := s.orch.RequestHint(rd, req.Class)
	switch {
	case errors.Is(err, session.ErrUnknownHint):
		writeError(w, http.StatusBadRequest, "unknown_hint")
		return
	case errors.Is(err, puzzle.ErrSolved):
		writeError(w, http.StatusConflict, "already_solved")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "hint_failed")
		return
	}
	writeJSON(w, http.StatusOK, hintRes{Shown: shown, Round: s.orch.View(rd)})
}
