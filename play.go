package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MuraliDhar-731/WordPuzzle/internal/history"
	"github.com/MuraliDhar-731/WordPuzzle/internal/lexicon"
	"github.com/MuraliDhar-731/WordPuzzle/internal/policy"
	"github.com/MuraliDhar-731/WordPuzzle/internal/puzzle"
	"github.com/MuraliDhar-731/WordPuzzle/internal/reward"
	"github.com/MuraliDhar-731/WordPuzzle/internal/session"
)

var (
	playEphemeral bool
	playSeed      int64
	playWord      string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play rounds in the terminal",
	Long: `Play rounds in the terminal. Type a letter or a whole word to guess,
?s for a synonym hint, ?e for an example hint, quit to stop.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playEphemeral, "ephemeral", false, "keep the policy in memory only")
	playCmd.Flags().Int64Var(&playSeed, "seed", 0, "fix the random seed (default RL_SEED or the clock)")
	playCmd.Flags().StringVar(&playWord, "word", "", "play a fixed word")
}

func runPlay(cmd *cobra.Command, args []string) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	ctx := cmd.Context()

	lex, err := lexicon.Load(cfg.LexiconFile)
	if err != nil {
		return err
	}

	opts := session.Options{Lexicon: lex, MinLen: cfg.WordMinLen, MaxLen: cfg.WordMaxLen}
	if playEphemeral {
		opts.Store = policy.NewMemoryStore()
	} else {
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
		opts.Store = st
		opts.History = history.NewStore(db)
	}

	seed := seedOr(cfg)
	if cmd.Flags().Changed("seed") {
		seed = playSeed
	}
	if opts.Engine, err = loadEngine(ctx, cfg, opts.Store, seed); err != nil {
		return err
	}
	opts.Rand = wordRand(seed)

	orch, err := session.New(opts)
	if err != nil {
		return err
	}
	return playLoop(ctx, orch, cmd.InOrStdin(), cmd.OutOrStdout(), playWord)
}

// playLoop runs rounds until quit or end of input. A non-empty word fixes
// the target of every round.
func playLoop(ctx context.Context, orch *session.Orchestrator, in io.Reader, out io.Writer, word string) error {
	sc := bufio.NewScanner(in)
	for {
		var (
			rd  *session.Round
			err error
		)
		if word != "" {
			rd, err = orch.NewRoundWithWord(ctx, "local", word)
		} else {
			rd, err = orch.NewRound(ctx, "local")
		}
		if err != nil {
			return err
		}
		printView(out, orch.View(rd))

		for !rd.Puzzle.Solved {
			fmt.Fprint(out, "> ")
			if !sc.Scan() {
				fmt.Fprintf(out, "\nThe word was %q.\n", rd.Puzzle.Word)
				return sc.Err()
			}
			line := strings.TrimSpace(sc.Text())
			switch strings.ToLower(line) {
			case "":
				continue
			case "quit", "exit":
				fmt.Fprintf(out, "The word was %q.\n", rd.Puzzle.Word)
				return nil
			case "?s":
				requestHint(out, orch, rd, puzzle.HintSynonym)
				continue
			case "?e":
				requestHint(out, orch, rd, puzzle.HintExample)
				continue
			}

			res, err := orch.Guess(ctx, rd, line)
			if errors.Is(err, puzzle.ErrInvalidGuess) {
				fmt.Fprintln(out, "Letters only, please.")
				continue
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, outcomeText(res.Outcome))
			if !res.PolicySaved {
				fmt.Fprintln(out, "(policy not saved, see log)")
			}
			if !res.Solved {
				printView(out, orch.View(rd))
			}
		}

		v := orch.View(rd)
		fmt.Fprintf(out, "Solved %q in %d attempts, %s. Difficulty: %s.\n",
			v.Word, v.Attempts, time.Duration(v.ElapsedMs)*time.Millisecond, v.Difficulty)
		fmt.Fprint(out, "Another? [Y/n] ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		if a := strings.ToLower(strings.TrimSpace(sc.Text())); a == "n" || a == "no" {
			return nil
		}
	}
}

func requestHint(out io.Writer, orch *session.Orchestrator, rd *session.Round, class puzzle.HintClass) {
	shown, err := orch.RequestHint(rd, class)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	if !shown {
		fmt.Fprintf(out, "No new %s hint.\n", class)
	}
	printView(out, orch.View(rd))
}

func outcomeText(o reward.Outcome) string {
	switch o {
	case reward.WordCorrect:
		return "Correct!"
	case reward.LetterPresent:
		return "Yes, that letter is in the word."
	case reward.LetterAbsent:
		return "No such letter."
	default:
		return "Not the word."
	}
}

func printView(out io.Writer, v session.View) {
	fmt.Fprintf(out, "\n%s  (%d letters)\n", v.Masked, v.Length)
	fmt.Fprintf(out, "Definition: %s\n", v.Definition)
	if v.Category != "" {
		fmt.Fprintf(out, "Category: %s\n", v.Category)
	}
	if len(v.Synonyms) > 0 {
		fmt.Fprintf(out, "Synonyms: %s\n", strings.Join(v.Synonyms, ", "))
	}
	if v.Example != "" {
		fmt.Fprintf(out, "Example: %s\n", v.Example)
	}
	if len(v.Guessed) > 0 {
		fmt.Fprintf(out, "Guessed: %s\n", strings.Join(v.Guessed, " "))
	}
	fmt.Fprintf(out, "Attempts: %d\n", v.Attempts)
}
