// internal/httpserver/server.go
//
// HTTP surface for the WordPuzzle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Player tokens: POST /player/token.
//   - Round endpoints (optional auth): /round/new, /round/{id}, guess, hint.
//   - Daily word endpoints (optional auth): mounted under /daily.
//   - History and policy inspection: /history/*, /policy.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with the player from a valid token;
//     guests are identified by an anonymous cookie instead.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/MuraliDhar-731/WordPuzzle/internal/daily"
	"github.com/MuraliDhar-731/WordPuzzle/internal/history"
	"github.com/MuraliDhar-731/WordPuzzle/internal/lexicon"
	"github.com/MuraliDhar-731/WordPuzzle/internal/session"
	"github.com/MuraliDhar-731/WordPuzzle/internal/store"
)

// HistoryReader is the read side of round history. *history.Store satisfies it.
type HistoryReader interface {
	Recent(ctx context.Context, playerID string, limit int) ([]history.Record, error)
	Best(ctx context.Context, limit int) ([]history.Record, error)
}

// Deps wires a Server. Orchestrator and Rounds are required.
type Deps struct {
	Orchestrator *session.Orchestrator
	Rounds       store.Rounds
	History      HistoryReader // optional
	Daily        *daily.Store  // optional; nil disables /daily

	// Daily word selection.
	Lexicon   lexicon.Provider
	MinLen    int
	MaxLen    int
	DailySalt string

	Tokens       TokenConfig
	ClientOrigin string
	Gatherer     prometheus.Gatherer // defaults to prometheus.DefaultGatherer
	Clock        quartz.Clock        // defaults to the wall clock
}

// Server bundles the router and its collaborators.
type Server struct {
	r       *chi.Mux
	orch    *session.Orchestrator
	rounds  store.Rounds
	history HistoryReader
	tokens  TokenConfig
	clock   quartz.Clock
	daily   *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Clock == nil {
		d.Clock = quartz.NewReal()
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		r:       chi.NewRouter(),
		orch:    d.Orchestrator,
		rounds:  d.Rounds,
		history: d.History,
		tokens:  d.Tokens.withDefaults(),
		clock:   d.Clock,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(corsFor(d.ClientOrigin))         // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		r.Use(s.withOptionalAuth())

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"wordpuzzle","endpoints":["/health","/metrics","POST /round/new","POST /round/{id}/guess","POST /round/{id}/hint","/daily/*","/history/*","/policy"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		r.Post("/player/token", s.handlePlayerToken)
		r.Get("/player/me", s.handleMe)

		r.Route("/round", func(r chi.Router) {
			r.Post("/new", s.handleNewRound)
			r.Get("/{id}", s.handleGetRound)
			r.Post("/{id}/guess", s.handleGuess)
			r.Post("/{id}/hint", s.handleHint)
		})

		if d.Daily != nil {
			s.daily = newDailyServer(s, d)
			s.daily.mount(r)
		}

		r.Get("/history/mine", s.handleHistoryMine)
		r.Get("/history/best", s.handleHistoryBest)
		r.Get("/policy", s.handlePolicy)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
		})
	})

	return s
}

// Router exposes the internal router (useful for tests and custom listeners).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs method, path, status, and latency at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

// ------------------------------- small util --------------------------------

// decodeOptional decodes a JSON body into v, accepting an empty body. It
// writes a 400 and returns false on malformed input.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
