package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/playperu/geoquiz/internal/scoreboard"
	"github.com/playperu/geoquiz/internal/storage"
	"github.com/playperu/geoquiz/internal/view"
)

func newListCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the ranked leaderboard.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(cmd.Context(), cfg.storageOptions())
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Backend.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading leaderboard: %w", err)
			}
			slices.SortStableFunc(entries, scoreboard.Compare)
			if len(entries) > cfg.capacity {
				entries = entries[:cfg.capacity]
			}

			out := cmd.OutOrStdout()
			if cfg.json {
				if entries == nil {
					entries = []scoreboard.Entry{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, view.FormatLeaderboard(nil))
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tSCORE\tTIME\tRECORDED")
			for i, e := range entries {
				elapsed := "-"
				if e.TimeSeconds != nil {
					elapsed = view.FormatSeconds(*e.TimeSeconds)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, view.FormatScore(e.Correct, e.Total), elapsed,
					e.Timestamp.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&cfg.json, "json", false, "print entries as JSON")
	return cmd
}

func newResetCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every leaderboard entry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.yes {
				return errNotConfirmed
			}

			store, err := storage.Open(cmd.Context(), cfg.storageOptions())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Backend.Save(cmd.Context(), nil); err != nil {
				return fmt.Errorf("clearing leaderboard: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "leaderboard cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&cfg.yes, "yes", false, "confirm the reset")
	return cmd
}
