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

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldjourney/travel-assistant/internal/catalog"
)

func seededStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	err = store.Seed(context.Background(), []catalog.Destination{
		{Name: "ตลาดน้ำอัมพวา", City: "สมุทรสงคราม", Description: "ตลาดน้ำยามเย็นริมคลอง", MapURL: "https://maps.google.com/?q=amphawa"},
		{Name: "วัดบางกุ้ง", City: "สมุทรสงคราม", Description: "โบสถ์ในต้นไม้"},
		{Name: "หาดชะอำ", City: "เพชรบุรี", Description: "ชายหาดยอดนิยม"},
		{Name: "", Description: "nameless, must be skipped"},
	})
	require.NoError(t, err)
	return store
}

func TestStore_SeedSkipsNameless(t *testing.T) {
	store := seededStore(t)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_SearchByKeyword(t *testing.T) {
	store := seededStore(t)

	results, err := store.SearchByKeyword(context.Background(), "อัมพวา", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ตลาดน้ำอัมพวา", results[0].Name)
	assert.Equal(t, "สมุทรสงคราม", results[0].City)
}

func TestStore_SearchByKeywordMatchesCity(t *testing.T) {
	store := seededStore(t)

	results, err := store.SearchByKeyword(context.Background(), "สมุทรสงคราม", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestStore_SearchByKeywordLimit(t *testing.T) {
	store := seededStore(t)

	results, err := store.SearchByKeyword(context.Background(), "สมุทรสงคราม", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestStore_SearchByKeywordNoMatch(t *testing.T) {
	store := seededStore(t)

	results, err := store.SearchByKeyword(context.Background(), "เชียงใหม่", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = store.SearchByKeyword(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_SeedReplacesExisting(t *testing.T) {
	store := seededStore(t)

	err := store.Seed(context.Background(), []catalog.Destination{{Name: "ดอนหอยหลอด"}})
	require.NoError(t, err)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
