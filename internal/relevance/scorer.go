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

// Package relevance estimates how likely an utterance is a travel query.
// The score is a heuristic, not a calibrated probability; downstream
// thresholds are policy constants.
package relevance

import (
	"strings"

	"github.com/worldjourney/travel-assistant/internal/textnorm"
)

// Signal weights. Destination mentions are the strongest travel signal, a
// keyword hit contributes its share of the keyword list, and an
// interrogative pattern adds a small fixed bonus. The sum is divided by
// maxSignal and clamped to [0,1]. The question bonus is deliberately below
// 0.5 so a bare question with no travel content stays under the refusal
// threshold.
const (
	destinationWeight = 2.0
	questionBonus     = 0.4
	maxSignal         = 5.0
)

// Keywords is the consolidated bilingual keyword configuration:
// language -> category -> keyword list.
type Keywords map[string]map[string][]string

// DefaultKeywords returns the curated Thai/English travel vocabulary.
func DefaultKeywords() Keywords {
	return Keywords{
		"th": {
			"travel": {
				"เที่ยว", "ทริป", "ท่องเที่ยว", "เดินทาง", "ไปเที่ยว",
				"อยากไป", "ที่เที่ยว", "พาไป", "แวะ",
			},
			"place": {
				"ทะเล", "ภูเขา", "น้ำตก", "วัด", "ตลาดน้ำ", "ชายหาด",
				"เกาะ", "อุทยาน", "คาเฟ่",
			},
			"logistics": {
				"ที่พัก", "โรงแรม", "รีสอร์ท", "ร้านอาหาร", "ของกิน",
				"แผนเที่ยว", "เส้นทาง",
			},
		},
		"en": {
			"travel": {
				"travel", "trip", "visit", "vacation", "holiday",
				"itinerary", "sightseeing", "tour",
			},
			"place": {
				"beach", "temple", "market", "island", "waterfall",
				"mountain", "cafe",
			},
			"logistics": {
				"hotel", "resort", "restaurant", "homestay", "route",
			},
		},
	}
}

// Interrogative patterns checked against the normalized text.
var questionMarkers = []string{
	"ไหน", "อะไร", "ยังไง", "อย่างไร", "เมื่อไหร่", "กี่", "ทำไม", "ใคร",
	"what", "where", "when", "how", "why", "who", "which",
	"?",
}

// Scorer computes travel-relevance scores from the keyword configuration
// and the known destination names. Build once, safe for concurrent use.
type Scorer struct {
	keywords         []string
	destinationNames []string
}

// NewScorer flattens the keyword configuration across languages and
// categories and normalizes the destination names.
func NewScorer(keywords Keywords, destinationNames []string) *Scorer {
	var flat []string
	seen := make(map[string]struct{})
	for _, categories := range keywords {
		for _, list := range categories {
			for _, keyword := range list {
				normalized := textnorm.Normalize(keyword)
				if normalized == "" {
					continue
				}
				if _, dup := seen[normalized]; dup {
					continue
				}
				seen[normalized] = struct{}{}
				flat = append(flat, normalized)
			}
		}
	}

	names := make([]string, 0, len(destinationNames))
	for _, name := range destinationNames {
		if normalized := textnorm.Normalize(name); normalized != "" {
			names = append(names, normalized)
		}
	}

	return &Scorer{keywords: flat, destinationNames: names}
}

// Score returns the travel-relevance confidence for text, always in [0,1].
func (s *Scorer) Score(text string) float64 {
	normalized := textnorm.Normalize(text)
	if normalized == "" {
		return 0.0
	}

	signal := 0.0

	if len(s.keywords) > 0 {
		hits := 0
		for _, keyword := range s.keywords {
			if strings.Contains(normalized, keyword) {
				hits++
			}
		}
		signal += float64(hits) / float64(len(s.keywords))
	}

	for _, name := range s.destinationNames {
		if strings.Contains(normalized, name) {
			signal += destinationWeight
		}
	}

	for _, marker := range questionMarkers {
		if strings.Contains(normalized, marker) {
			signal += questionBonus
			break
		}
	}

	score := signal / maxSignal
	if score > 1.0 {
		return 1.0
	}
	if score < 0.0 {
		return 0.0
	}
	return score
}
