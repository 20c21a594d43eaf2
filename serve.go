package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MuraliDhar-731/WordPuzzle/internal/daily"
	"github.com/MuraliDhar-731/WordPuzzle/internal/history"
	"github.com/MuraliDhar-731/WordPuzzle/internal/httpserver"
	"github.com/MuraliDhar-731/WordPuzzle/internal/lexicon"
	"github.com/MuraliDhar-731/WordPuzzle/internal/metrics"
	"github.com/MuraliDhar-731/WordPuzzle/internal/session"
	"github.com/MuraliDhar-731/WordPuzzle/internal/store"
)

const (
	roundTTL      = 6 * time.Hour
	sweepInterval = 10 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API on PORT",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lex, err := lexicon.Load(cfg.LexiconFile)
	if err != nil {
		return err
	}
	log.Info().Int("words", lex.Len()).Msg("lexicon loaded")

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	st, closeStore, err := openPolicyStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStore()

	seed := seedOr(cfg)
	eng, err := loadEngine(ctx, cfg, st, seed)
	if err != nil {
		return err
	}

	clock := quartz.NewReal()
	orch, err := session.New(session.Options{
		Lexicon: lex,
		Engine:  eng,
		Store:   st,
		History: history.NewStore(db),
		Metrics: metrics.New(prometheus.DefaultRegisterer),
		Clock:   clock,
		Rand:    wordRand(seed),
		MinLen:  cfg.WordMinLen,
		MaxLen:  cfg.WordMaxLen,
	})
	if err != nil {
		return err
	}

	rounds := store.NewMemoryStore(clock)
	srv := httpserver.New(httpserver.Deps{
		Orchestrator: orch,
		Rounds:       rounds,
		History:      history.NewStore(db),
		Daily:        daily.NewStore(db),
		Lexicon:      lex,
		MinLen:       cfg.WordMinLen,
		MaxLen:       cfg.WordMaxLen,
		DailySalt:    cfg.DailySalt,
		Tokens: httpserver.TokenConfig{
			Secret: cfg.JWTSecret,
			TTL:    time.Duration(cfg.TokenDays) * 24 * time.Hour,
			Secure: cfg.SecureCookies,
		},
		ClientOrigin: cfg.ClientOrigin,
		Clock:        clock,
	})

	sweeper := clock.TickerFunc(ctx, sweepInterval, func() error {
		if n := rounds.Sweep(clock.Now().Add(-roundTTL)); n > 0 {
			log.Debug().Int("evicted", n).Int("live", rounds.Len()).Msg("round sweep")
		}
		return nil
	}, "sweep")

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()

	log.Info().Str("port", cfg.Port).Str("store", st.Name()).Msg("starting server")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	_ = sweeper.Wait()
	log.Info().Msg("server stopped")
	return nil
}
