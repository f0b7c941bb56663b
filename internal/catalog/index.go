// Copyright 2024 World Journey AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"sort"
	"strings"

	"github.com/worldjourney/travel-assistant/internal/match"
	"github.com/worldjourney/travel-assistant/internal/textnorm"
)

// Fuzzy score weights. Sequence similarity over the whole haystack carries
// the most signal, token overlap refines it, and the best single-token
// similarity rescues one-word typo queries.
const (
	sequenceWeight  = 0.5
	jaccardWeight   = 0.35
	bestTokenWeight = 0.15
)

// DefaultFuzzyCutoff is the minimum weighted score a destination needs to
// appear in fuzzy results.
const DefaultFuzzyCutoff = 0.55

type indexedDestination struct {
	destination Destination
	haystack    string
	tokens      []string
}

// Index is a read-only search index over the destination catalog. Searching
// is safe for concurrent use because the index is never mutated after New.
type Index struct {
	entries     []indexedDestination
	fuzzyCutoff float64
}

// NewIndex builds the search index. Destinations without a name are skipped;
// entries keep catalog order, which is also the tie-break order for equal
// fuzzy scores.
func NewIndex(destinations []Destination, fuzzyCutoff float64) *Index {
	if fuzzyCutoff <= 0 {
		fuzzyCutoff = DefaultFuzzyCutoff
	}

	entries := make([]indexedDestination, 0, len(destinations))
	for _, destination := range destinations {
		if strings.TrimSpace(destination.Name) == "" {
			continue
		}
		haystack := textnorm.Normalize(
			destination.Name + " " + destination.City + " " + destination.Description)
		entries = append(entries, indexedDestination{
			destination: destination,
			haystack:    haystack,
			tokens:      strings.Fields(haystack),
		})
	}

	return &Index{entries: entries, fuzzyCutoff: fuzzyCutoff}
}

// Len returns the number of indexed destinations.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Destinations returns the indexed destinations in catalog order.
func (idx *Index) Destinations() []Destination {
	out := make([]Destination, len(idx.entries))
	for i, entry := range idx.entries {
		out[i] = entry.destination
	}
	return out
}

// Search runs the two-tier strategy: substring containment first, then the
// weighted fuzzy ranking when no substring hit exists. limit <= 0 means
// unlimited.
func (idx *Index) Search(query string, limit int) []Destination {
	hits := idx.SubstringSearch(query, limit)
	if len(hits) > 0 {
		return hits
	}
	return idx.FuzzySearch(query, limit, idx.fuzzyCutoff)
}

// SubstringSearch returns destinations whose normalized haystack contains
// the normalized query, or vice versa. Hits keep catalog order.
func (idx *Index) SubstringSearch(query string, limit int) []Destination {
	normalized := textnorm.Normalize(query)
	if normalized == "" {
		return nil
	}

	var hits []Destination
	for _, entry := range idx.entries {
		if match.ContainsEither(entry.haystack, normalized) {
			hits = append(hits, entry.destination)
			if limit > 0 && len(hits) >= limit {
				break
			}
		}
	}
	return hits
}

// FuzzySearch ranks destinations by the weighted fuzzy score and keeps those
// at or above cutoff, best first. Equal scores keep catalog order.
func (idx *Index) FuzzySearch(query string, limit int, cutoff float64) []Destination {
	normalized := textnorm.Normalize(query)
	if normalized == "" {
		return nil
	}
	queryTokens := strings.Fields(normalized)

	type scored struct {
		destination Destination
		score       float64
	}
	var candidates []scored
	for _, entry := range idx.entries {
		score := sequenceWeight*match.Similarity(normalized, entry.haystack) +
			jaccardWeight*match.TokenJaccard(queryTokens, entry.tokens) +
			bestTokenWeight*match.BestTokenSimilarity(queryTokens, entry.tokens)
		if score >= cutoff {
			candidates = append(candidates, scored{destination: entry.destination, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	results := make([]Destination, len(candidates))
	for i, c := range candidates {
		results[i] = c.destination
	}
	return results
}
