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

// Package optimizer classifies query intent, extracts coarse entities, and
// rewrites the query with contextual tags for the generation prompt.
// Extraction is regex and substring based, best effort only; it is not a
// general entity recognizer.
package optimizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/worldjourney/travel-assistant/internal/textnorm"
)

// Intents in classification priority order. The first matching set wins.
const (
	IntentPlanning       = "planning"
	IntentRecommendation = "recommendation"
	IntentInformation    = "information"
	IntentComparison     = "comparison"
	IntentGeneral        = "general"
)

var intentTags = map[string]string{
	IntentPlanning:       "[TRIP PLANNING]",
	IntentRecommendation: "[RECOMMENDATION]",
	IntentInformation:    "[INFORMATION]",
	IntentComparison:     "[COMPARISON]",
}

var intentPatterns = []struct {
	intent   string
	patterns []*regexp.Regexp
}{
	{IntentPlanning, []*regexp.Regexp{
		regexp.MustCompile(`วางแผน|จัดทริป|แพลน|โปรแกรมเที่ยว|กี่วัน`),
		regexp.MustCompile(`(?i)\bplan\b|\bitinerary\b|\bschedule\b`),
		regexp.MustCompile(`(?i)\d+\s*(วัน|คืน|days?|nights?)`),
	}},
	{IntentRecommendation, []*regexp.Regexp{
		regexp.MustCompile(`แนะนำ|ที่ไหนดี|น่าเที่ยว|น่าไป|ควรไป`),
		regexp.MustCompile(`(?i)\brecommend|\bsuggest|\bbest\b|\bworth\b`),
	}},
	{IntentInformation, []*regexp.Regexp{
		regexp.MustCompile(`ข้อมูล|ประวัติ|คืออะไร|อยู่ที่ไหน|เปิดกี่โมง|ค่าเข้า`),
		regexp.MustCompile(`(?i)\bwhat is\b|\btell me about\b|\bhistory of\b|\bopening\b`),
	}},
	{IntentComparison, []*regexp.Regexp{
		regexp.MustCompile(`เปรียบเทียบ|ดีกว่า|ต่างกัน|หรือว่า`),
		regexp.MustCompile(`(?i)\bcompare\b|\bversus\b|\bvs\b|\bbetter than\b`),
	}},
}

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s*(วัน|คืน|ชั่วโมง|สัปดาห์|เดือน)`),
	regexp.MustCompile(`(?i)\d+\s*(days?|nights?|hours?|weeks?|months?)`),
	regexp.MustCompile(`วันหยุด|สุดสัปดาห์|เสาร์|อาทิตย์|ปีใหม่|สงกรานต์`),
	regexp.MustCompile(`(?i)\bweekend\b|\bholiday\b|\btonight\b|\btomorrow\b`),
}

var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+[,.]?\d*\s*(บาท|baht|thb)`),
	regexp.MustCompile(`งบ|ประหยัด|ราคาถูก|ราคาแพง|ฟรี`),
	regexp.MustCompile(`(?i)\bbudget\b|\bcheap\b|\bexpensive\b|\bfree\b|\bprice\b`),
}

// Activity vocabulary, bilingual. Matched as substrings on normalized text.
var activityKeywords = []string{
	"ล่องเรือ", "ถ่ายรูป", "เดินเล่น", "ช้อปปิ้ง", "ตกปลา", "ปั่นจักรยาน",
	"ดูหิ่งห้อย", "กินอาหาร", "คาเฟ่", "ไหว้พระ", "ทำบุญ",
	"boat", "photo", "shopping", "cycling", "firefly", "cafe", "kayak",
	"swim", "hiking",
}

// Patterns that mark a structurally complex question.
var complexPatterns = []*regexp.Regexp{
	regexp.MustCompile(`เปรียบเทียบ|ดีกว่า|ทั้งหมด|กี่แห่ง|กี่ที่`),
	regexp.MustCompile(`(?i)\bcompare\b|\bhow many\b|\ball of\b|\bboth\b`),
}

// Complexity blend weights.
const (
	wordCountWeight    = 0.4
	entityCountWeight  = 0.4
	complexFormWeight  = 0.2
	wordCountCeiling   = 20.0
	entityCountCeiling = 6.0
)

// Entities is the best-effort extraction result. Slices are nil when nothing
// matched.
type Entities struct {
	Locations  []string
	Time       []string
	Budget     []string
	Activities []string
}

// Count returns the total number of extracted entities.
func (e Entities) Count() int {
	return len(e.Locations) + len(e.Time) + len(e.Budget) + len(e.Activities)
}

// Analysis is the per-request optimization result.
type Analysis struct {
	Intent         string
	Entities       Entities
	Complexity     float64
	OptimizedQuery string
}

// Optimizer rewrites queries for the generation prompt. Built once from the
// known location names; read-only afterwards.
type Optimizer struct {
	locations []location
}

type location struct {
	display    string
	normalized string
}

// New builds an optimizer that recognizes the given location names
// (destination names and canonical provinces).
func New(locationNames []string) *Optimizer {
	locations := make([]location, 0, len(locationNames))
	seen := make(map[string]struct{})
	for _, name := range locationNames {
		normalized := textnorm.Normalize(name)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		locations = append(locations, location{display: name, normalized: normalized})
	}
	return &Optimizer{locations: locations}
}

// Optimize analyzes text and produces the rewritten query. The rewrite is
// not idempotent (tags would compound), so callers apply it exactly once per
// request.
func (o *Optimizer) Optimize(text string) Analysis {
	// Patterns are written in natural Thai spelling, so they run against
	// lowercased raw text. Location matching alone is tone-insensitive.
	lowered := strings.ToLower(strings.TrimSpace(text))
	normalized := textnorm.Normalize(text)

	analysis := Analysis{
		Intent:   classifyIntent(lowered),
		Entities: o.extractEntities(lowered, normalized),
	}
	analysis.Complexity = complexity(lowered, analysis.Entities)
	analysis.OptimizedQuery = o.rewrite(text, analysis)
	return analysis
}

func classifyIntent(lowered string) string {
	for _, set := range intentPatterns {
		for _, pattern := range set.patterns {
			if pattern.MatchString(lowered) {
				return set.intent
			}
		}
	}
	return IntentGeneral
}

func (o *Optimizer) extractEntities(lowered, normalized string) Entities {
	var entities Entities

	for _, loc := range o.locations {
		if strings.Contains(normalized, loc.normalized) {
			entities.Locations = append(entities.Locations, loc.display)
		}
	}
	entities.Time = collectMatches(lowered, timePatterns)
	entities.Budget = collectMatches(lowered, budgetPatterns)
	for _, keyword := range activityKeywords {
		if strings.Contains(lowered, keyword) {
			entities.Activities = append(entities.Activities, keyword)
		}
	}
	return entities
}

func collectMatches(lowered string, patterns []*regexp.Regexp) []string {
	var found []string
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		for _, m := range pattern.FindAllString(lowered, -1) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			found = append(found, m)
		}
	}
	return found
}

func complexity(lowered string, entities Entities) float64 {
	words := float64(len(strings.Fields(lowered))) / wordCountCeiling
	if words > 1.0 {
		words = 1.0
	}
	entitySignal := float64(entities.Count()) / entityCountCeiling
	if entitySignal > 1.0 {
		entitySignal = 1.0
	}
	complexForm := 0.0
	for _, pattern := range complexPatterns {
		if pattern.MatchString(lowered) {
			complexForm = 1.0
			break
		}
	}

	score := wordCountWeight*words + entityCountWeight*entitySignal + complexFormWeight*complexForm
	if score > 1.0 {
		return 1.0
	}
	return score
}

// rewrite prefixes the intent tag and appends the primary location when it
// is not already spelled verbatim in the query.
func (o *Optimizer) rewrite(text string, analysis Analysis) string {
	rewritten := strings.TrimSpace(text)

	if tag, ok := intentTags[analysis.Intent]; ok {
		rewritten = fmt.Sprintf("%s %s", tag, rewritten)
	}
	if len(analysis.Entities.Locations) > 0 {
		primary := analysis.Entities.Locations[0]
		if !strings.Contains(text, primary) {
			rewritten = fmt.Sprintf("%s (%s)", rewritten, primary)
		}
	}
	return rewritten
}
