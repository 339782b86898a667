// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package podcast turns a research paper into a two-host podcast script.
// It resolves the paper (arXiv metadata or page text), asks the model
// for a sectioned dialogue, validates it and renders transcripts.
package podcast

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Host names used in generated scripts.
const (
	HostOne = "Host 1 (UK)"
	HostTwo = "Host 2 (India)"
)

// Line is one spoken turn.
type Line struct {
	Speaker  string `json:"speaker" yaml:"speaker"`
	Dialogue string `json:"dialogue" yaml:"dialogue"`
}

// Script is a complete episode. Every section except KeyInsights is a
// list of turns; KeyInsights holds one list of turns per insight.
type Script struct {
	Title                 string   `json:"title" yaml:"title"`
	HostIntro             []Line   `json:"host_intro" yaml:"host_intro"`
	PaperOverview         []Line   `json:"paper_overview" yaml:"paper_overview"`
	KeyInsights           [][]Line `json:"key_insights" yaml:"key_insights"`
	Methodology           []Line   `json:"methodology" yaml:"methodology"`
	Results               []Line   `json:"results" yaml:"results"`
	RealWorldApplications []Line   `json:"real_world_applications" yaml:"real_world_applications"`
	Limitations           []Line   `json:"limitations" yaml:"limitations"`
	Conclusion            []Line   `json:"conclusion" yaml:"conclusion"`
	Outro                 []Line   `json:"outro" yaml:"outro"`
}

// Section is a named run of turns in broadcast order.
type Section struct {
	Name  string
	Lines []Line
}

// Sections returns the script's sections in broadcast order. Each key
// insight is its own section.
func (s *Script) Sections() []Section {
	sections := []Section{
		{"Introduction", s.HostIntro},
		{"Paper Overview", s.PaperOverview},
	}
	for i, insight := range s.KeyInsights {
		sections = append(sections, Section{fmt.Sprintf("Key Insight %d", i+1), insight})
	}
	return append(sections,
		Section{"Methodology", s.Methodology},
		Section{"Results", s.Results},
		Section{"Real-World Applications", s.RealWorldApplications},
		Section{"Limitations", s.Limitations},
		Section{"Conclusion", s.Conclusion},
		Section{"Outro", s.Outro},
	)
}

// Turns flattens the script into broadcast order.
func (s *Script) Turns() []Line {
	var lines []Line
	for _, sec := range s.Sections() {
		lines = append(lines, sec.Lines...)
	}
	return lines
}

// WordCount counts the words spoken across all turns.
func (s *Script) WordCount() int {
	n := 0
	for _, l := range s.Turns() {
		n += len(strings.Fields(l.Dialogue))
	}
	return n
}

// ErrInvalidScript wraps every validation failure.
var ErrInvalidScript = errors.New("invalid podcast script")

// Validate checks that the script has a title, at least one turn, and
// that every turn names a speaker and says something.
func (s *Script) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidScript)
	}
	turns := 0
	for _, sec := range s.Sections() {
		for i, l := range sec.Lines {
			if strings.TrimSpace(l.Speaker) == "" {
				return fmt.Errorf("%w: %s line %d has no speaker", ErrInvalidScript, sec.Name, i+1)
			}
			if strings.TrimSpace(l.Dialogue) == "" {
				return fmt.Errorf("%w: %s line %d has no dialogue", ErrInvalidScript, sec.Name, i+1)
			}
			turns++
		}
	}
	if turns == 0 {
		return fmt.Errorf("%w: no dialogue", ErrInvalidScript)
	}
	return nil
}

var jsonFence = regexp.MustCompile("(?s)```json\\s*(.*?)```")

// ExtractJSON returns the body of the first ```json fence in s, or s
// trimmed when there is no fence.
func ExtractJSON(s string) string {
	if m := jsonFence.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}

// ParseScript decodes and validates a model reply.
func ParseScript(reply string) (*Script, error) {
	var s Script
	if err := json.Unmarshal([]byte(ExtractJSON(reply)), &s); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
