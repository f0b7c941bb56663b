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

package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/worldjourney/travel-assistant/internal/alias"
	"github.com/worldjourney/travel-assistant/internal/cache"
	"github.com/worldjourney/travel-assistant/internal/catalog"
	"github.com/worldjourney/travel-assistant/internal/genai"
	"github.com/worldjourney/travel-assistant/internal/optimizer"
	"github.com/worldjourney/travel-assistant/internal/relevance"
	"github.com/worldjourney/travel-assistant/internal/session"
	"github.com/worldjourney/travel-assistant/internal/textnorm"
)

// cacheMode tags chat replies in the response cache key.
const cacheMode = "chat"

// Generator produces a raw model answer for the given messages.
type Generator interface {
	Generate(ctx context.Context, messages []openai.ChatCompletionMessage, opts genai.Options) (string, error)
}

// PlaceSearcher is the auxiliary keyword-search source merged with index
// results.
type PlaceSearcher interface {
	SearchByKeyword(ctx context.Context, text string, limit int) ([]catalog.Destination, error)
}

// Policy carries the orchestrator thresholds from config.
type Policy struct {
	MaxMessageLength int
	MaxSuggestions   int
	RefuseBelow      float64
	CategoriesBelow  float64
	DidYouMeanCutoff float64
	Generation       genai.Options
}

// Engine is the chat orchestrator. Each Handle call walks the decision
// sequence validate, scope, resolve, answer; no step is revisited within a
// request.
type Engine struct {
	policy    Policy
	resolver  *alias.Resolver
	index     *catalog.Index
	scorer    *relevance.Scorer
	optimizer *optimizer.Optimizer
	cache     *cache.Cache
	memory    *session.Memory
	generator Generator
	places    PlaceSearcher
	logger    *zap.Logger
}

// New assembles the orchestrator. generator and places may be nil; the
// corresponding paths degrade to templated fallbacks and index-only search.
func New(
	policy Policy,
	resolver *alias.Resolver,
	index *catalog.Index,
	scorer *relevance.Scorer,
	opt *optimizer.Optimizer,
	responseCache *cache.Cache,
	memory *session.Memory,
	generator Generator,
	places PlaceSearcher,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		policy:    policy,
		resolver:  resolver,
		index:     index,
		scorer:    scorer,
		optimizer: opt,
		cache:     responseCache,
		memory:    memory,
		generator: generator,
		places:    places,
		logger:    logger,
	}
}

var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on(error|load|click)\s*=`),
	regexp.MustCompile(`(?i)<\s*iframe`),
}

// maxRepeatedRun is the longest run of one repeated rune accepted before a
// message is treated as spam.
const maxRepeatedRun = 14

// greetings are matched against normalized input, so the set is built from
// normalized forms.
var greetings = func() map[string]struct{} {
	words := []string{
		"สวัสดี", "สวัสดีคะ", "สวัสดีค่ะ", "สวัสดีครับ", "หวัดดี", "ดีจ้า",
		"hello", "hi", "hey", "good morning",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[textnorm.Normalize(w)] = struct{}{}
	}
	return set
}()

// adminLevelKeywords map administrative-level mentions to a search hint.
var adminLevelKeywords = []string{"จังหวัด", "อำเภอ", "ตำบล"}

// Handle answers one user message. It never returns an error to the caller;
// every failure path ends in a localized template.
func (e *Engine) Handle(ctx context.Context, sessionID, userText string) ReplyPayload {
	lang := textnorm.DetectLanguage(userText)
	t := templatesFor(lang)
	trimmed := strings.TrimSpace(userText)

	// Start -> Rejected: basic validation.
	if trimmed == "" {
		return ReplyPayload{Text: t.emptyInput, Confidence: ConfidenceLow}
	}
	if len([]rune(trimmed)) > e.policy.MaxMessageLength {
		return ReplyPayload{Text: t.tooLong, Confidence: ConfidenceLow}
	}
	if e.looksUnsafe(trimmed) {
		e.logger.Warn("Rejected unsafe message", zap.String("session_id", sessionID))
		return ReplyPayload{Text: t.unsafeInput, Confidence: ConfidenceLow}
	}

	// Duplicate request within the replay window: answer from the buffer.
	dedupKey := textnorm.Token(trimmed)
	if payload, ok := e.memory.ReplayDuplicate(sessionID, dedupKey); ok {
		if reply, valid := payload.(ReplyPayload); valid {
			return reply
		}
	}

	reply := e.answer(ctx, sessionID, trimmed, lang, t)

	e.memory.Append(sessionID, session.Turn{Role: session.RoleUser, Text: trimmed})
	e.memory.Append(sessionID, session.Turn{Role: session.RoleAssistant, Text: reply.Text})
	e.memory.RememberReply(sessionID, dedupKey, reply)
	return reply
}

func (e *Engine) answer(ctx context.Context, sessionID, text, lang string, t messageSet) ReplyPayload {
	// Greeting short-circuit before the relevance gate; greetings score
	// near zero but deserve a welcome, not a refusal.
	if _, ok := greetings[textnorm.Normalize(text)]; ok {
		return ReplyPayload{Text: t.greeting, Confidence: ConfidenceHigh}
	}

	// Validated -> Rejected (soft) / Scoped: the relevance gate.
	score := e.scorer.Score(text)
	if score < e.policy.RefuseBelow {
		return ReplyPayload{Text: t.scopeRefusal, Confidence: ConfidenceLow}
	}
	if score < e.policy.CategoriesBelow {
		return ReplyPayload{Text: t.categoryOffer, Confidence: ConfidenceLow}
	}

	// Scoped: administrative-level keywords sharpen the search query.
	searchText := text
	if province, ok := e.resolver.Resolve(text); ok {
		if hint := adminLevelHint(text); hint != "" {
			searchText = fmt.Sprintf("%s %s%s", text, hint, province)
		}
	}

	// Scoped -> Resolved: substring search plus the keyword store.
	matches := e.index.SubstringSearch(searchText, e.policy.MaxSuggestions)
	matches = e.mergeStoreResults(ctx, searchText, matches)
	if len(matches) > 0 {
		return ReplyPayload{
			Text:       t.suggestionsFor,
			HTML:       renderSuggestionCards(matches),
			Confidence: ConfidenceHigh,
		}
	}

	// Fuzzy path with the stricter cutoff: "did you mean" framing.
	fuzzy := e.index.FuzzySearch(searchText, e.policy.MaxSuggestions, e.policy.DidYouMeanCutoff)
	if len(fuzzy) > 0 {
		return ReplyPayload{
			Text:       t.didYouMean,
			HTML:       renderSuggestionCards(fuzzy),
			Confidence: ConfidenceMedium,
		}
	}

	// Resolved -> Answered: generation with cache, then fallbacks.
	return e.generate(ctx, sessionID, text, lang, score, t)
}

func (e *Engine) generate(ctx context.Context, sessionID, text, lang string, score float64, t messageSet) ReplyPayload {
	if e.generator == nil {
		return e.fallback(score, t)
	}

	key := cache.MakeKey(text, lang, cacheMode)
	if cached, ok := e.cache.Get(key); ok {
		if reply, valid := cached.(ReplyPayload); valid {
			return reply
		}
	}

	analysis := e.optimizer.Optimize(text)
	messages := genai.BuildMessages(analysis.OptimizedQuery, lang, analysis.Intent, nil)

	opts := e.policy.Generation
	if analysis.Complexity > 0.7 {
		// Complex questions get more room to answer.
		opts.MaxTokens = opts.MaxTokens * 3 / 2
	}

	raw, err := e.generator.Generate(ctx, messages, opts)
	if err != nil {
		e.logger.Error("Generation failed, using fallback template",
			zap.String("session_id", sessionID),
			zap.String("intent", analysis.Intent),
			zap.Error(err),
		)
		return e.fallback(score, t)
	}

	reply := e.renderGenerated(raw, text)
	e.cache.Put(key, reply)
	return reply
}

func (e *Engine) renderGenerated(raw, query string) ReplyPayload {
	parsed := genai.ParseReply(raw)
	if parsed.IsStructured() {
		text := parsed.Structured.Summary
		if text == "" {
			text = query
		}
		return ReplyPayload{
			Text:       text,
			HTML:       renderStructuredReply(parsed.Structured),
			Confidence: ConfidenceMedium,
		}
	}

	text := parsed.Plain
	if len([]rune(text)) > 200 {
		text = string([]rune(text)[:200]) + "..."
	}
	return ReplyPayload{
		Text:       text,
		HTML:       renderPlainReply(parsed.Plain),
		Confidence: ConfidenceMedium,
	}
}

// fallback picks the templated answer for the relevance band after
// generation is unavailable or exhausted.
func (e *Engine) fallback(score float64, t messageSet) ReplyPayload {
	switch {
	case score >= 0.5:
		return ReplyPayload{Text: t.fallbackHigh, Confidence: ConfidenceLow}
	case score >= e.policy.CategoriesBelow:
		return ReplyPayload{Text: t.fallbackMid, Confidence: ConfidenceLow}
	default:
		return ReplyPayload{Text: t.fallbackLow, Confidence: ConfidenceLow}
	}
}

func (e *Engine) mergeStoreResults(ctx context.Context, text string, matches []catalog.Destination) []catalog.Destination {
	if e.places == nil {
		return matches
	}

	stored, err := e.places.SearchByKeyword(ctx, text, e.policy.MaxSuggestions)
	if err != nil {
		e.logger.Warn("Keyword store search failed", zap.Error(err))
		return matches
	}

	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		seen[textnorm.Token(m.Name)] = struct{}{}
	}
	for _, s := range stored {
		key := textnorm.Token(s.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		matches = append(matches, s)
	}

	if e.policy.MaxSuggestions > 0 && len(matches) > e.policy.MaxSuggestions {
		matches = matches[:e.policy.MaxSuggestions]
	}
	return matches
}

func (e *Engine) looksUnsafe(text string) bool {
	for _, pattern := range unsafePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return hasLongRun(text, maxRepeatedRun)
}

// hasLongRun reports whether text repeats any single rune more than limit
// times in a row.
func hasLongRun(text string, limit int) bool {
	var last rune
	run := 0
	for _, r := range text {
		if r == last {
			run++
			if run > limit {
				return true
			}
			continue
		}
		last = r
		run = 1
	}
	return false
}

// adminLevelHint returns the administrative prefix mentioned in the text.
func adminLevelHint(text string) string {
	for _, keyword := range adminLevelKeywords {
		if strings.Contains(text, keyword) {
			return keyword
		}
	}
	return ""
}
