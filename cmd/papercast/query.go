// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papercast/internal/search"
)

var queryCmd = &cobra.Command{
	Use:   "query <topic|url>",
	Short: "Search for papers related to a topic or a URL",
	Long: `Query searches Exa for content about the input, condenses it into a search
title, then queries arXiv and Semantic Scholar with that title. Results are
deduplicated, filtered to the titles closest to the search title and ordered
newest first.

A connector that fails is reported as a warning; the remaining sources still
produce results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	queryCmd.Flags().Bool("csl", false, "output results as a CSL-YAML bibliography")
	queryCmd.Flags().String("save", "", "also write a YAML query file to this path")
	queryCmd.Flags().Int("max-results", 0, "maximum number of papers to return (default 10)")
	queryCmd.Flags().Bool("no-record", false, "do not record the run in the library")

	_ = viper.BindPFlag("search.max_results", queryCmd.Flags().Lookup("max-results"))

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	asCSL, _ := cmd.Flags().GetBool("csl")
	savePath, _ := cmd.Flags().GetString("save")
	noRecord, _ := cmd.Flags().GetBool("no-record")
	if asJSON && asCSL {
		return fmt.Errorf("--json and --csl are mutually exclusive")
	}

	ctx := cmd.Context()
	c, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}

	input := strings.Join(args, " ")
	out, err := c.pipeline.Run(ctx, input, search.VariantQuery)
	if err != nil {
		var pe *search.ProcessingError
		if asJSON && errors.As(err, &pe) {
			fmt.Fprintln(cmd.OutOrStdout(), pe.JSON())
		}
		return err
	}

	if !noRecord {
		record(ctx, cfg.Library, out, search.VariantQuery, log)
	}

	if savePath != "" {
		if err := search.WriteQueryFile(savePath, out, search.VariantQuery, cfg.Search); err != nil {
			return err
		}
		log.WithField("path", savePath).Info("query file written")
	}

	w := cmd.OutOrStdout()
	switch {
	case asJSON:
		return search.FormatJSON(out, w)
	case asCSL:
		return search.FormatCSL(out, w)
	default:
		search.FormatTable(out, w)
		return nil
	}
}
