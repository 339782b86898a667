// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package podcast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.yaml.in/yaml/v3"
)

// Format is a script output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts a format name or a common alias ("md", "yml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, yaml, markdown or html)", s)
	}
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	default:
		return ".json"
	}
}

// Render writes s to w in format f.
func Render(w io.Writer, s *Script, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(s)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(s))
		return err
	case FormatHTML:
		return renderHTML(w, s)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// Markdown renders the script as a transcript with one heading per section.
func Markdown(s *Script) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", s.Title)
	for _, sec := range s.Sections() {
		if len(sec.Lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", sec.Name)
		for _, l := range sec.Lines {
			fmt.Fprintf(&b, "**%s:** %s\n\n", l.Speaker, strings.TrimSpace(l.Dialogue))
		}
	}
	return b.String()
}

func renderHTML(w io.Writer, s *Script) error {
	var body bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(Markdown(s)), &body); err != nil {
		return fmt.Errorf("markdown convert: %w", err)
	}
	_, err := fmt.Fprintf(w, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>"+
		"<style>body{max-width:760px;margin:2rem auto;font-family:Georgia,serif;line-height:1.55;padding:0 1rem;} h2{margin-top:2rem;}</style>"+
		"</head><body>%s</body></html>\n", html.EscapeString(s.Title), body.String())
	return err
}

// Save writes s into dir as <slug-of-title><ext> and returns the path.
func Save(dir string, s *Script, f Format) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(dir, Slug(s.Title)+f.Ext())

	var buf bytes.Buffer
	if err := Render(&buf, s, f); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing script: %w", err)
	}
	return path, nil
}

// Slug lowercases title and joins its alphanumeric runs with hyphens,
// capped at 80 characters.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if r := []rune(slug); len(r) > 80 {
		slug = strings.TrimRight(string(r[:80]), "-")
	}
	if slug == "" {
		return "podcast-script"
	}
	return slug
}
