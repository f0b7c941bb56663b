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

// Package engine composes normalization, matching, relevance scoring, and
// generation into the chat orchestrator. Each request is a fresh traversal
// of a fixed decision sequence that ends in exactly one reply; the user
// never sees a raw error.
package engine

// Confidence labels attached to replies.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ReplyPayload is the engine's answer to one user message. HTML is optional
// and carries suggestion cards when present.
type ReplyPayload struct {
	Text       string `json:"text"`
	HTML       string `json:"html,omitempty"`
	Confidence string `json:"confidence"`
}
