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

// Package alias resolves free-text mentions of Thai provinces to their
// canonical names using a synonym table, substring matching, and a fuzzy
// fallback that refuses ambiguous candidates.
package alias

import (
	"sort"
	"unicode/utf8"

	"github.com/worldjourney/travel-assistant/internal/match"
	"github.com/worldjourney/travel-assistant/internal/textnorm"
)

// Options holds the tunable thresholds of the fuzzy fallback. The two bands
// trade confidence against margin: a very similar candidate needs only a
// small lead over the runner-up, a moderately similar one needs a large lead.
type Options struct {
	// MinSubstringLen is the minimum alias length for the substring pass.
	// Short aliases produce too many accidental containments.
	MinSubstringLen int

	HighSimilarity float64
	HighLead       float64
	LowSimilarity  float64
	LowLead        float64
}

// DefaultOptions returns the production thresholds.
func DefaultOptions() Options {
	return Options{
		MinSubstringLen: 4,
		HighSimilarity:  0.8,
		HighLead:        0.1,
		LowSimilarity:   0.7,
		LowLead:         0.2,
	}
}

type aliasEntry struct {
	normalized string
	canonical  string
}

// Resolver maps normalized input text to a canonical province name. Build it
// once from the synonym table and share it; Resolve is read-only.
type Resolver struct {
	entries []aliasEntry
	opts    Options
}

// NewResolver builds a resolver from a province-to-synonyms table. Every
// canonical province name is registered as its own alias, so resolving a
// canonical name always returns that name.
func NewResolver(synonyms map[string][]string, opts Options) *Resolver {
	provinces := make([]string, 0, len(synonyms))
	for province := range synonyms {
		provinces = append(provinces, province)
	}
	sort.Strings(provinces)

	entries := make([]aliasEntry, 0, len(synonyms)*2)
	seen := make(map[string]struct{})

	add := func(alias, canonical string) {
		normalized := textnorm.Normalize(alias)
		if normalized == "" {
			return
		}
		if _, dup := seen[normalized]; dup {
			return
		}
		seen[normalized] = struct{}{}
		entries = append(entries, aliasEntry{normalized: normalized, canonical: canonical})
	}

	for _, province := range provinces {
		add(province, province)
		for _, synonym := range synonyms[province] {
			add(synonym, province)
		}
	}

	// Longer aliases first so the substring pass prefers the most specific
	// containment when several aliases appear in one utterance.
	sort.SliceStable(entries, func(i, j int) bool {
		return utf8.RuneCountInString(entries[i].normalized) > utf8.RuneCountInString(entries[j].normalized)
	})

	return &Resolver{entries: entries, opts: opts}
}

// Resolve returns the canonical province name for text, or false when no
// alias matches confidently. Substring containment of an alias wins outright;
// otherwise the fuzzy fallback accepts the best-similarity alias only when it
// clears one of the two confidence bands and leads the runner-up by the
// band's margin. Ties are refused rather than guessed.
func (r *Resolver) Resolve(text string) (string, bool) {
	normalized := textnorm.Normalize(text)
	if normalized == "" || len(r.entries) == 0 {
		return "", false
	}

	for _, entry := range r.entries {
		if entry.normalized == normalized {
			return entry.canonical, true
		}
		if utf8.RuneCountInString(entry.normalized) >= r.opts.MinSubstringLen &&
			match.ContainsEither(normalized, entry.normalized) {
			return entry.canonical, true
		}
	}

	var (
		best       = -1.0
		second     = -1.0
		bestEntry  aliasEntry
		foundAlias bool
	)
	for _, entry := range r.entries {
		score := match.Similarity(normalized, entry.normalized)
		switch {
		case score > best:
			second = best
			best = score
			bestEntry = entry
			foundAlias = true
		case score > second:
			second = score
		}
	}
	if !foundAlias {
		return "", false
	}
	if second < 0 {
		second = 0
	}

	lead := best - second
	if best >= r.opts.HighSimilarity && lead >= r.opts.HighLead {
		return bestEntry.canonical, true
	}
	if best >= r.opts.LowSimilarity && lead >= r.opts.LowLead {
		return bestEntry.canonical, true
	}
	return "", false
}

// Canonical reports whether name (after normalization) is one of the
// canonical province names the resolver was built from.
func (r *Resolver) Canonical(name string) bool {
	normalized := textnorm.Normalize(name)
	for _, entry := range r.entries {
		if textnorm.Normalize(entry.canonical) == normalized {
			return true
		}
	}
	return false
}
