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

package genai

import (
	"encoding/json"
	"strings"
)

// Attraction is one suggested place inside a structured reply.
type Attraction struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// StructuredReply is the JSON document the model is prompted to produce.
type StructuredReply struct {
	Location    string       `json:"location"`
	Attractions []Attraction `json:"attractions"`
	Summary     string       `json:"summary"`
}

// ParsedReply is the two-variant parse result: either a structured document
// or the raw text. Exactly one variant is set; renderers branch on
// IsStructured rather than on parse errors.
type ParsedReply struct {
	Structured *StructuredReply
	Plain      string
}

// IsStructured reports whether the structured variant is populated.
func (r ParsedReply) IsStructured() bool {
	return r.Structured != nil
}

// ParseReply extracts the first JSON object span from raw and decodes it.
// Models often wrap the document in prose or code fences, so the span runs
// from the first '{' to the last '}'. Any decode failure degrades to the
// plain-text variant; the user still gets the raw answer.
func ParseReply(raw string) ParsedReply {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		var structured StructuredReply
		if err := json.Unmarshal([]byte(raw[start:end+1]), &structured); err == nil {
			if structured.Summary != "" || len(structured.Attractions) > 0 {
				return ParsedReply{Structured: &structured}
			}
		}
	}
	return ParsedReply{Plain: strings.TrimSpace(raw)}
}
