// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "github.com/pdiddy/papercast/pkg/types"

// DedupPolicy selects how records without an id are treated.
type DedupPolicy int

const (
	// DropMissingID keeps a record only when its id is non-empty and
	// unseen and its title is unseen.
	DropMissingID DedupPolicy = iota
	// KeepMissingID keys records on id when present and on exact title
	// otherwise. Repeated titles are still rejected.
	KeepMissingID
)

// PolicyFor maps the keep_missing_ids setting to a policy.
func PolicyFor(cfg types.SearchConfig) DedupPolicy {
	if cfg.KeepMissingIDs {
		return KeepMissingID
	}
	return DropMissingID
}

// Deduplicate removes id and title collisions, keeping the first record
// seen. It returns the kept records in encounter order and how many were
// removed.
func Deduplicate(records []types.PaperRecord, policy DedupPolicy) ([]types.PaperRecord, int) {
	seenIDs := make(map[string]struct{})
	seenTitles := make(map[string]struct{})
	kept := make([]types.PaperRecord, 0, len(records))

	for _, r := range records {
		if r.ID == "" && policy == DropMissingID {
			continue
		}
		if r.ID != "" {
			if _, dup := seenIDs[r.ID]; dup {
				continue
			}
		}
		if _, dup := seenTitles[r.Title]; dup {
			continue
		}

		if r.ID != "" {
			seenIDs[r.ID] = struct{}{}
		}
		seenTitles[r.Title] = struct{}{}
		kept = append(kept, r)
	}
	return kept, len(records) - len(kept)
}
