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

// Package cache provides the TTL and capacity bounded store for generated
// reply payloads. Eviction is LRU-by-insertion: when full, the
// oldest-inserted entry goes, regardless of how recently it was read.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"

	"github.com/worldjourney/travel-assistant/internal/textnorm"
)

// Defaults for the production configuration.
const (
	DefaultTTL        = time.Hour
	DefaultMaxEntries = 1000
)

// MakeKey derives the cache key for a query in a given language and reply
// mode. The query is normalized first so spelling variants share an entry.
// MD5 collisions across distinct inputs are accepted as a documented risk of
// the 128-bit key space, not handled specially.
func MakeKey(query, lang, mode string) string {
	sum := md5.Sum([]byte(textnorm.Normalize(query) + "|" + lang + "|" + mode))
	return hex.EncodeToString(sum[:])
}

type entry struct {
	value     any
	createdAt time.Time
	seq       uint64
}

type orderItem struct {
	key string
	seq uint64
}

// Cache is safe for concurrent use. All operations hold the mutex; reads on
// expired entries delete them (lazy expiry, no background sweep).
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	order      []orderItem
	nextSeq    uint64
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New creates a cache with the given TTL and capacity. Non-positive
// arguments fall back to the defaults.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the payload stored under key, or false when the key is absent
// or its entry has outlived the TTL. Expired entries are removed on read.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Put stores value under key, evicting the oldest-inserted entry first when
// the cache is at capacity. Re-putting an existing key refreshes its
// insertion time.
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.nextSeq++
	c.entries[key] = entry{value: value, createdAt: c.now(), seq: c.nextSeq}
	c.order = append(c.order, orderItem{key: key, seq: c.nextSeq})
}

// Len returns the number of stored entries, including any not yet lazily
// expired.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldestLocked pops insertion-order candidates until one still maps to
// a live entry from that same insertion. Keys re-put or lazily expired leave
// stale positions in the queue; those are skipped.
func (c *Cache) evictOldestLocked() {
	for len(c.order) > 0 {
		item := c.order[0]
		c.order = c.order[1:]
		e, ok := c.entries[item.key]
		if !ok || e.seq != item.seq {
			continue
		}
		delete(c.entries, item.key)
		return
	}
}
