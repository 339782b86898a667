// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papercast/internal/config"
	"github.com/pdiddy/papercast/internal/library"
	"github.com/pdiddy/papercast/internal/search"
	"github.com/pdiddy/papercast/internal/secrets"
	"github.com/pdiddy/papercast/pkg/types"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func defaultConfig(t *testing.T) types.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	c, err := config.Load(v, secrets.Set{})
	require.NoError(t, err)
	return c
}

func TestBuildWithoutKeys(t *testing.T) {
	c := defaultConfig(t)

	comps, err := build(context.Background(), c, quietLogger())
	require.NoError(t, err)

	assert.Nil(t, comps.llm)
	require.Len(t, comps.pipeline.Papers, 2)
	assert.Equal(t, types.SourceArxiv, comps.pipeline.Papers[0].Name())
	assert.Equal(t, types.SourceSemanticScholar, comps.pipeline.Papers[1].Name())

	exa, ok := comps.pipeline.Content.(*search.ExaConnector)
	require.True(t, ok)
	assert.False(t, exa.Enabled())
	assert.Equal(t, 60, comps.arxiv.MaxResults)
}

func TestBuildDisabledConnectors(t *testing.T) {
	c := defaultConfig(t)
	c.Search.EnableArxiv = false
	c.Search.ExaAPIKey = "exa-key"

	comps, err := build(context.Background(), c, quietLogger())
	require.NoError(t, err)
	require.Len(t, comps.pipeline.Papers, 1)
	assert.Equal(t, types.SourceSemanticScholar, comps.pipeline.Papers[0].Name())
	assert.True(t, comps.pipeline.Content.(*search.ExaConnector).Enabled())

	// The podcast resolver still looks papers up on arXiv.
	gen := comps.podcastGenerator(c.Podcast, quietLogger())
	assert.Same(t, comps.arxiv, gen.Resolver.Arxiv)
	assert.Nil(t, gen.LLM)
}

func TestRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	out := search.Output{Input: "transformers", Title: "transformers"}

	record(context.Background(), types.LibraryConfig{Path: path}, out, search.VariantQuery, quietLogger())

	store, err := library.Open(types.LibraryConfig{Path: path})
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "transformers", runs[0].Input)
}

func TestRecordDisabled(t *testing.T) {
	assert.NotPanics(t, func() {
		record(context.Background(), types.LibraryConfig{}, search.Output{}, search.VariantQuery, quietLogger())
	})
}
