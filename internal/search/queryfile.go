// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/papercast/pkg/types"
)

// QueryFile is the on-disk snapshot of one pipeline run. It can be
// reloaded and re-rendered without querying any service.
type QueryFile struct {
	Query   QueryParams         `yaml:"query"`
	Config  QueryFileConfig     `yaml:"config"`
	Papers  []types.PaperRecord `yaml:"papers"`
	Summary QuerySummary        `yaml:"summary"`
}

// QueryParams stores what was asked and the title searched for.
type QueryParams struct {
	Input   string  `yaml:"input"`
	Title   string  `yaml:"title"`
	Variant Variant `yaml:"variant"`
}

// QueryFileConfig stores the settings that shaped the results.
type QueryFileConfig struct {
	MaxResults     int     `yaml:"max_results"`
	MatchLimit     int     `yaml:"match_limit"`
	MatchCutoff    float64 `yaml:"match_cutoff"`
	KeepMissingIDs bool    `yaml:"keep_missing_ids"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total             int       `yaml:"total"`
	Candidates        int       `yaml:"candidates"`
	DuplicatesRemoved int       `yaml:"duplicates_removed"`
	ConnectorErrors   []string  `yaml:"connector_errors,omitempty"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a run to a YAML file.
func WriteQueryFile(path string, out Output, variant Variant, cfg types.SearchConfig) error {
	qf := QueryFile{
		Query: QueryParams{
			Input:   out.Input,
			Title:   out.Title,
			Variant: variant,
		},
		Config: QueryFileConfig{
			MaxResults:     cfg.MaxResults,
			MatchLimit:     cfg.MatchLimit,
			MatchCutoff:    cfg.MatchCutoff,
			KeepMissingIDs: cfg.KeepMissingIDs,
		},
		Papers: out.Papers,
		Summary: QuerySummary{
			Total:             len(out.Papers),
			Candidates:        out.Candidates,
			DuplicatesRemoved: out.DupsRemoved,
			ConnectorErrors:   errorMessages(out.Errors),
			Timestamp:         time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Output rebuilds the run's Output so it can be rendered again.
// Connector errors are restored as upstream errors with unknown source.
func (qf *QueryFile) Output() Output {
	out := Output{
		Input:       qf.Query.Input,
		Title:       qf.Query.Title,
		Papers:      qf.Papers,
		DupsRemoved: qf.Summary.DuplicatesRemoved,
		Candidates:  qf.Summary.Candidates,
	}
	for _, msg := range qf.Summary.ConnectorErrors {
		out.Errors = append(out.Errors, &ConnectorError{
			Source:  types.SourceUnknown,
			Kind:    KindUpstream,
			Message: msg,
		})
	}
	return out
}

func errorMessages(errs []*ConnectorError) []string {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return msgs
}
