// main.go
//
// WordPuzzle command line.
//   - serve          HTTP API on PORT
//   - play           terminal rounds on stdin/stdout
//   - policy show    print the learned hint table
//   - policy reset   overwrite the stored table with an empty one
//
// Settings come from the environment (see internal/config); a local .env is
// loaded first.

package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MuraliDhar-731/WordPuzzle/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "wordpuzzle",
	Short:         "Word-guessing game with a learned hint pacer",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		c, err := config.FromEnv()
		if err != nil {
			return err
		}
		cfg = c
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, playCmd, policyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("wordpuzzle")
	}
}
