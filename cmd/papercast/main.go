// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the papercast CLI: topic or URL
// search across arXiv, Semantic Scholar and Exa, podcast scripts for a
// paper, and the history of recorded runs.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papercast/internal/config"
	"github.com/pdiddy/papercast/internal/logger"
	"github.com/pdiddy/papercast/internal/secrets"
	"github.com/pdiddy/papercast/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	dotEnvFile = ".env"
	secretsDir = ".secrets/"
)

var (
	// cfg is the resolved configuration, set before any subcommand runs.
	cfg types.Config

	// log is the process logger, set alongside cfg.
	log *logrus.Logger
)

// rootCmd is the base command for the papercast CLI.
var rootCmd = &cobra.Command{
	Use:   "papercast",
	Short: "Find research papers and turn them into podcast scripts",
	Long: `papercast searches arXiv, Semantic Scholar and Exa for papers related to a
research topic or a URL, removes duplicates, keeps the titles closest to the
query and orders them newest first.

Given a paper URL it can also write a two-host podcast script about the paper.
Completed searches are recorded in a local SQLite library (see "history").`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./papercast.yaml or ~/.config/papercast/papercast.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// setup resolves configuration and the logger. Sources, highest first:
// flags, environment (.env included), config file, .secrets/, defaults.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return err
	}

	s, err := secrets.Load(secretsDir, logrus.StandardLogger())
	if err != nil {
		return err
	}

	v := viper.GetViper()
	cfgFile, _ := cmd.Flags().GetString("config")
	config.Init(v, cfgFile)
	used, err := config.ReadFile(v)
	if err != nil {
		return err
	}

	cfg, err = config.Load(v, s)
	if err != nil {
		return err
	}

	log, err = logger.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	if used != "" {
		log.WithField("file", used).Debug("using config file")
	}
	if keys := s.Keys(); len(keys) > 0 {
		log.WithField("keys", keys).Debug("loaded secrets")
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
