// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papercast/internal/podcast"
)

var podcastCmd = &cobra.Command{
	Use:   "podcast <url>",
	Short: "Write a two-host podcast script about a paper",
	Long: `Podcast resolves the paper behind a URL (arXiv metadata for arXiv links,
the readable page text otherwise) and asks the configured LLM for a podcast
script between two hosts. The validated script is saved to the output
directory and its path printed.

Requires an LLM API key (llm.api_key, LLM_API_KEY or .secrets/llm-api-key).`,
	Args: cobra.ExactArgs(1),
	RunE: runPodcast,
}

func init() {
	podcastCmd.Flags().String("out", "", "output directory (default output)")
	podcastCmd.Flags().String("format", "json", "script format: json, yaml, markdown or html")
	podcastCmd.Flags().Bool("related", false, "mention related papers found by the search pipeline")

	_ = viper.BindPFlag("podcast.output_dir", podcastCmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("podcast.include_related", podcastCmd.Flags().Lookup("related"))

	rootCmd.AddCommand(podcastCmd)
}

func runPodcast(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := podcast.ParseFormat(formatName)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	c, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}

	script, err := c.podcastGenerator(cfg.Podcast, log).Generate(ctx, args[0])
	if err != nil {
		return err
	}

	path, err := podcast.Save(cfg.Podcast.OutputDir, script, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
