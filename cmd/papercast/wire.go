// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/papercast/internal/httputil"
	"github.com/pdiddy/papercast/internal/library"
	"github.com/pdiddy/papercast/internal/llm"
	"github.com/pdiddy/papercast/internal/podcast"
	"github.com/pdiddy/papercast/internal/search"
	"github.com/pdiddy/papercast/internal/titlegen"
	"github.com/pdiddy/papercast/pkg/types"
)

// components holds everything built from one Config.
type components struct {
	pipeline *search.Pipeline
	arxiv    *search.ArxivConnector
	llm      llm.Generator
}

// build wires connectors, the title normalizer and the LLM from c. A
// missing LLM key is not an error: titles fall back to the trimmed input
// and c.llm stays nil.
func build(ctx context.Context, c types.Config, log logrus.FieldLogger) (*components, error) {
	sc := c.Search
	client := httputil.NewClient(sc.HTTPConfig)

	arxiv := &search.ArxivConnector{
		Client:     client,
		Limiter:    httputil.NewLimiter(sc.RequestsPerSecond),
		UserAgent:  sc.UserAgent,
		MaxResults: sc.ArxivMaxResults,
	}

	var papers []search.Connector
	if sc.EnableArxiv {
		papers = append(papers, arxiv)
	}
	if sc.EnableSemanticScholar {
		papers = append(papers, &search.SemanticScholarConnector{
			Client:    client,
			Limiter:   httputil.NewLimiter(sc.RequestsPerSecond),
			UserAgent: sc.UserAgent,
			APIKey:    sc.SemanticScholarAPIKey,
			Limit:     sc.SemanticScholarLimit,
		})
	}

	exa := search.NewExaConnector(sc.ExaAPIKey, client, httputil.NewLimiter(sc.RequestsPerSecond), sc)
	if !exa.Enabled() {
		log.Debug("exa api key not set; content search disabled")
	}

	gen, err := llm.New(ctx, c.LLM)
	switch {
	case errors.Is(err, llm.ErrNoAPIKey):
		log.Warn("llm api key not set; using the raw input as the search title")
		gen = nil
	case err != nil:
		return nil, err
	}

	return &components{
		pipeline: &search.Pipeline{
			Content: exa,
			Papers:  papers,
			Titler:  titlegen.New(gen, log),
			Config:  sc,
			Log:     log,
		},
		arxiv: arxiv,
		llm:   gen,
	}, nil
}

// podcastGenerator builds a script generator that shares the pipeline's
// HTTP client and arXiv connector.
func (c *components) podcastGenerator(pc types.PodcastConfig, log logrus.FieldLogger) *podcast.Generator {
	return &podcast.Generator{
		LLM: c.llm,
		Resolver: &podcast.Resolver{
			Arxiv:     c.arxiv,
			Client:    c.arxiv.Client,
			Limiter:   c.arxiv.Limiter,
			UserAgent: c.arxiv.UserAgent,
		},
		Related: c.pipeline,
		Config:  pc,
		Log:     log,
	}
}

// record stores out in the run library. Failures are logged, never
// returned, so a broken library cannot fail a search.
func record(ctx context.Context, lc types.LibraryConfig, out search.Output, variant search.Variant, log logrus.FieldLogger) {
	store, err := library.Open(lc)
	if errors.Is(err, library.ErrDisabled) {
		return
	}
	if err != nil {
		log.WithError(err).Warn("run library unavailable")
		return
	}
	defer store.Close()

	id, err := store.Record(ctx, out, variant)
	if err != nil {
		log.WithError(err).Warn("recording run failed")
		return
	}
	log.WithField("run", id).Debug("run recorded")
}
