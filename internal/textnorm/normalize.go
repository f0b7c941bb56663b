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

// Package textnorm provides Unicode normalization for bilingual (Thai/English)
// query text. Every other matching component assumes its input has already
// been passed through Normalize.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases the input, applies NFKD decomposition, and strips all
// nonspacing marks (Thai tone marks, combining diacritics). The result is
// trimmed of surrounding whitespace. Normalize is idempotent: applying it to
// its own output returns the same string.
func Normalize(text string) string {
	decomposed := norm.NFKD.String(strings.ToLower(strings.TrimSpace(text)))

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Token reduces text to a compact identifier key: normalized, with every rune
// outside [0-9a-z] and the Thai block removed. Used for catalog identifiers
// and duplicate-request keys where spacing and punctuation must not matter.
func Token(text string) string {
	normalized := Normalize(text)

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 0x0E00 && r <= 0x0E7F:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokens splits normalized text into whitespace-separated tokens.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

// DetectLanguage returns "th" when Thai codepoints make up more than 30% of
// the runes in text, otherwise "en". Mirrors how the assistant decides which
// localized template set to answer from.
func DetectLanguage(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return "en"
	}

	thai := 0
	for _, r := range runes {
		if r >= 0x0E00 && r <= 0x0E7F {
			thai++
		}
	}

	if float64(thai) > float64(len(runes))*0.3 {
		return "th"
	}
	return "en"
}
