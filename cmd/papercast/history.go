// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/papercast/internal/library"
	"github.com/pdiddy/papercast/internal/search"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded search runs",
	Long: `History lists the most recent runs recorded in the library, newest first.
Use "history show <id>" to print the papers of one run.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the papers of one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of runs to list")
	historyShowCmd.Flags().Bool("json", false, "output the run as JSON")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	printRuns(cmd.OutOrStdout(), runs)
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	fmt.Fprintf(w, "Run %s (%s, %s)\nInput: %s\n\n", run.ID, run.Variant,
		run.CreatedAt.Local().Format("2006-01-02 15:04"), run.Input)
	search.FormatTable(search.Output{Title: run.Title, Papers: run.Papers, DupsRemoved: run.DupsRemoved}, w)
	if len(run.Errors) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, e := range run.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.Source, e.Message)
		}
	}
	return nil
}

func printRuns(w io.Writer, runs []library.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-16s  %-7s  %6s  %s\n", "ID", "When", "Variant", "Papers", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-16s  %-7s  %6d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Variant, r.PaperCount, r.Title)
	}
}
