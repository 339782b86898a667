// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory is one secret: the filename is the key name
// and the trimmed file contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Key files recognized by papercast.
const (
	ExaAPIKey             = "exa-api-key"
	SemanticScholarAPIKey = "semantic-scholar-api-key"
	LLMAPIKey             = "llm-api-key"
	AnthropicAPIKey       = "anthropic-api-key"
)

// Set maps key names to secret values.
type Set map[string]string

// Get returns the secret for key, or "" when absent.
func (s Set) Get(key string) string {
	return s[key]
}

// Keys returns the loaded key names in sorted order. Values are never
// exposed so the list is safe to log.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads every regular, non-hidden file in dir. A missing directory
// is not an error; Load returns an empty Set. Unreadable files are
// logged at warn level and skipped.
func Load(dir string, log logrus.FieldLogger) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			if log != nil {
				log.WithField("secret", entry.Name()).WithError(err).Warn("could not read secret")
			}
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			set[entry.Name()] = value
		}
	}
	return set, nil
}
