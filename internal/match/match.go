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

// Package match provides edit-distance and sequence-similarity scoring for
// fuzzy matching of normalized query text. Inputs are expected to be
// normalized already (see textnorm); this package compares runes as given.
package match

import (
	"strings"
)

// Distance computes the Levenshtein edit distance between a and b, bounded by
// maxDistance. When the length difference alone exceeds the bound, the
// computation is skipped and maxDistance+1 is returned as a "too far"
// sentinel. Callers must treat any value greater than maxDistance as no
// match, not as a literal distance.
func Distance(a, b string, maxDistance int) int {
	if a == b {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)

	diff := len(ra) - len(rb)
	if diff < 0 {
		diff = -diff
	}
	if diff > maxDistance {
		return maxDistance + 1
	}

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	previous := make([]int, len(rb)+1)
	current := make([]int, len(rb)+1)
	for j := range previous {
		previous[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		current[0] = i
		for j := 1; j <= len(rb); j++ {
			insertCost := current[j-1] + 1
			deleteCost := previous[j] + 1
			substituteCost := previous[j-1]
			if ra[i-1] != rb[j-1] {
				substituteCost++
			}
			current[j] = minInt(insertCost, deleteCost, substituteCost)
		}
		previous, current = current, previous
	}

	return previous[len(rb)]
}

// Similarity returns a sequence-similarity ratio in [0,1] between a and b,
// computed as 2*LCS(a,b) / (len(a)+len(b)). Identical strings score 1.0,
// strings with no common subsequence score 0.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	lcs := longestCommonSubsequence(ra, rb)
	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}

// TokenJaccard returns the Jaccard coefficient between two token sets:
// |intersection| / |union|. Two empty sets score 0.
func TokenJaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := make(map[string]struct{}, len(a))
	for _, token := range a {
		setA[token] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, token := range b {
		setB[token] = struct{}{}
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// BestTokenSimilarity returns the highest Similarity between any query token
// and any haystack token. Used as a soft signal for single-token typos.
func BestTokenSimilarity(queryTokens, haystackTokens []string) float64 {
	best := 0.0
	for _, q := range queryTokens {
		for _, h := range haystackTokens {
			if s := Similarity(q, h); s > best {
				best = s
			}
		}
	}
	return best
}

// ContainsEither reports whether either normalized string contains the other.
// Both-direction containment is how Tier 1 substring search treats a hit.
func ContainsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// longestCommonSubsequence computes LCS length with a rolling two-row table.
func longestCommonSubsequence(a, b []rune) int {
	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				current[j] = previous[j-1] + 1
			} else if previous[j] >= current[j-1] {
				current[j] = previous[j]
			} else {
				current[j] = current[j-1]
			}
		}
		previous, current = current, previous
		for j := range current {
			current[j] = 0
		}
	}

	return previous[len(b)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
