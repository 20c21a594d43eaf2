// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily word.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's round
//   - GET  /daily/leaderboard → fastest solves for today (or ?date=)
//
// Guesses and hints go through the ordinary /round/{id} endpoints; a solve
// on a daily round is recorded in daily_results. Each player gets one
// result per date, enforced by the DB and the in-memory session map.

package httpserver

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/MuraliDhar-731/WordPuzzle/internal/daily"
	"github.com/MuraliDhar-731/WordPuzzle/internal/lexicon"
	"github.com/MuraliDhar-731/WordPuzzle/internal/session"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	lex      lexicon.Provider
	minLen   int
	maxLen   int
	salt     string
	mu       sync.Mutex               // guards sessions, byRound
	sessions map[string]*dailySession // keyed by playerID|date
	byRound  map[string]*dailySession // keyed by round ID
}

// dailySession links a player's daily round to its date.
type dailySession struct {
	RoundID   string
	PlayerID  string
	Date      string
	WordIndex int
	Finished  bool
}

func newDailyServer(s *Server, d Deps) *dailyServer {
	salt := d.DailySalt
	if salt == "" {
		salt = "local_dev_salt"
	}
	minLen, maxLen := d.MinLen, d.MaxLen
	if minLen <= 0 {
		minLen = lexicon.DefaultMinLen
	}
	if maxLen <= 0 {
		maxLen = lexicon.DefaultMaxLen
	}
	return &dailyServer{
		srv:      s,
		store:    d.Daily,
		lex:      d.Lexicon,
		minLen:   minLen,
		maxLen:   maxLen,
		salt:     salt,
		sessions: make(map[string]*dailySession),
		byRound:  make(map[string]*dailySession),
	}
}

// mount registers all /daily routes.
func (d *dailyServer) mount(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", d.handleNew)
		r.Get("/leaderboard", d.handleLeaderboard)
	})
}

// today returns today's date key, word index, and word.
func (d *dailyServer) today() (date string, idx int, word string, ok bool) {
	now := d.srv.clock.Now()
	date = daily.DateKey(now)
	if d.lex == nil {
		return date, 0, "", false
	}
	idx, word, ok = daily.Word(now, d.salt, d.lex.Candidates(d.minLen, d.maxLen))
	return date, idx, word, ok
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	Date   string        `json:"date"`
	Played bool          `json:"played"`
	Round  *session.View `json:"round,omitempty"`
}

// handleNew starts or resumes today's round.
//   - A stored result for today → Played=true, no round.
//   - A live round from earlier today → that round.
//   - Otherwise a new round on today's word.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	pid := d.srv.playerID(w, r)
	date, idx, word, ok := d.today()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no_words")
		return
	}

	if played, err := d.store.AlreadyPlayed(r.Context(), pid, date); err != nil {
		log.Warn().Err(err).Msg("daily already played")
	} else if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := pid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(date)

	if sess, ok := d.sessions[key]; ok {
		if rd, err := d.srv.rounds.Get(r.Context(), sess.RoundID); err == nil {
			v := d.srv.orch.View(rd)
			writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: sess.Finished, Round: &v})
			return
		}
		delete(d.byRound, sess.RoundID)
	}

	rd, err := d.srv.orch.NewRoundWithWord(r.Context(), pid, word)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily round")
		writeError(w, http.StatusInternalServerError, "new_round_failed")
		return
	}
	if err := d.srv.rounds.Save(r.Context(), rd); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	sess := &dailySession{RoundID: rd.ID, PlayerID: pid, Date: date, WordIndex: idx}
	d.sessions[key] = sess
	d.byRound[rd.ID] = sess

	v := d.srv.orch.View(rd)
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Round: &v})
}

// pruneLocked forgets sessions from other dates.
func (d *dailyServer) pruneLocked(date string) {
	for k, sess := range d.sessions {
		if sess.Date != date {
			delete(d.sessions, k)
			delete(d.byRound, sess.RoundID)
		}
	}
}

// finish records a solved daily round. Non-daily rounds are ignored.
func (d *dailyServer) finish(ctx context.Context, rd *session.Round) {
	d.mu.Lock()
	sess, ok := d.byRound[rd.ID]
	if !ok || sess.Finished {
		d.mu.Unlock()
		return
	}
	sess.Finished = true
	d.mu.Unlock()

	err := d.store.InsertResult(ctx, daily.Result{
		PlayerID:  sess.PlayerID,
		Date:      sess.Date,
		RoundID:   rd.ID,
		WordIndex: sess.WordIndex,
		Attempts:  rd.Puzzle.Attempts,
		HintsUsed: rd.Puzzle.HintsUsed,
		ElapsedMs: rd.Puzzle.Elapsed().Milliseconds(),
	})
	if err != nil {
		log.Warn().Err(err).Str("round", rd.ID).Msg("insert daily result")
	}
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.clock.Now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, queryLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
