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

// Package session keeps per-session conversation state: a bounded window of
// recent turns and a short replay buffer that answers duplicate requests
// without re-running the pipeline.
package session

import (
	"sync"
	"time"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Defaults for the production configuration.
const (
	DefaultMaxTurns     = 10
	DefaultReplayWindow = 15 * time.Second
)

// Turn is one utterance in a conversation.
type Turn struct {
	Role      string
	Text      string
	Topics    []string
	Timestamp time.Time
}

type recentReply struct {
	key     string
	payload any
	at      time.Time
}

// Memory holds state for all live sessions. Safe for concurrent use; it is
// owned by the orchestrator and passed in, never a package global.
type Memory struct {
	mu           sync.Mutex
	maxTurns     int
	replayWindow time.Duration
	turns        map[string][]Turn
	replies      map[string]recentReply
	now          func() time.Time
}

// NewMemory creates session memory with the given turn window size and
// duplicate replay window. Non-positive arguments fall back to the defaults.
func NewMemory(maxTurns int, replayWindow time.Duration) *Memory {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if replayWindow <= 0 {
		replayWindow = DefaultReplayWindow
	}
	return &Memory{
		maxTurns:     maxTurns,
		replayWindow: replayWindow,
		turns:        make(map[string][]Turn),
		replies:      make(map[string]recentReply),
		now:          time.Now,
	}
}

// Append records a turn for the session, trimming the window to the
// most-recent-N turns.
func (m *Memory) Append(sessionID string, turn Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if turn.Timestamp.IsZero() {
		turn.Timestamp = m.now()
	}
	window := append(m.turns[sessionID], turn)
	if len(window) > m.maxTurns {
		window = window[len(window)-m.maxTurns:]
	}
	m.turns[sessionID] = window
}

// Recent returns a copy of the session's turn window, oldest first.
func (m *Memory) Recent(sessionID string) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	window := m.turns[sessionID]
	out := make([]Turn, len(window))
	copy(out, window)
	return out
}

// RememberReply stores the reply payload for a request key so an immediate
// duplicate can be replayed.
func (m *Memory) RememberReply(sessionID, key string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[sessionID] = recentReply{key: key, payload: payload, at: m.now()}
}

// ReplayDuplicate returns the stored payload when the session's previous
// request had the same key and arrived within the replay window. Expired
// buffers are dropped on read.
func (m *Memory) ReplayDuplicate(sessionID, key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reply, ok := m.replies[sessionID]
	if !ok {
		return nil, false
	}
	if m.now().Sub(reply.at) >= m.replayWindow {
		delete(m.replies, sessionID)
		return nil, false
	}
	if reply.key != key {
		return nil, false
	}
	return reply.payload, true
}

// Reset drops all state for a session.
func (m *Memory) Reset(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.turns, sessionID)
	delete(m.replies, sessionID)
}
