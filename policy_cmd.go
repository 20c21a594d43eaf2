package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MuraliDhar-731/WordPuzzle/internal/config"
	"github.com/MuraliDhar-731/WordPuzzle/internal/policy"
)

var (
	policyFormat string
	policyYes    bool
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect or reset the learned hint policy",
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored table, states in numeric order",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, closeAll, err := openConfiguredStore(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		t, err := policy.Load(cmd.Context(), st)
		if err != nil {
			return err
		}
		return writeTable(cmd.OutOrStdout(), t, policyFormat)
	},
}

var policyResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the stored table with an empty one",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !policyYes {
			return errors.New("refusing to reset without --yes")
		}
		st, closeAll, err := openConfiguredStore(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		if err := policy.Save(cmd.Context(), st, policy.NewTable()); err != nil {
			return err
		}
		log.Info().Str("store", st.Name()).Msg("policy reset")
		fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", st.Name())
		return nil
	},
}

func init() {
	policyShowCmd.Flags().StringVarP(&policyFormat, "format", "f", "text", "text, json, or yaml")
	policyResetCmd.Flags().BoolVar(&policyYes, "yes", false, "confirm the reset")
	policyCmd.AddCommand(policyShowCmd, policyResetCmd)
}

// openConfiguredStore opens the configured policy store, plus the database
// when the store lives in it.
func openConfiguredStore(cmd *cobra.Command) (policy.Store, func(), error) {
	ctx := cmd.Context()
	if cfg.PolicyStore != config.StoreSQLite {
		return openPolicyStore(ctx, cfg, nil)
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, func() {}, err
	}
	st, closeStore, err := openPolicyStore(ctx, cfg, db)
	return st, func() { closeStore(); db.Close() }, err
}

// writeTable renders t in the given format.
func writeTable(out io.Writer, t policy.Table, format string) error {
	switch format {
	case "json":
		data, err := policy.Encode(t)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err

	case "yaml":
		rows := make([]map[string]any, 0, len(t))
		for _, s := range t.States() {
			row := map[string]any{"state": string(s)}
			for a, v := range t[s] {
				row[string(a)] = v
			}
			rows = append(rows, row)
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()

	case "text", "":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		head := []string{"state"}
		for _, a := range policy.Actions {
			head = append(head, string(a))
		}
		fmt.Fprintln(tw, strings.Join(head, "\t"))
		for _, s := range t.States() {
			cols := []string{string(s)}
			for _, a := range policy.Actions {
				if v, ok := t[s][a]; ok {
					cols = append(cols, fmt.Sprintf("%.4f", v))
				} else {
					cols = append(cols, "-")
				}
			}
			fmt.Fprintln(tw, strings.Join(cols, "\t"))
		}
		if len(t) == 0 {
			fmt.Fprintln(tw, "(empty)")
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown format %q", format)
}
