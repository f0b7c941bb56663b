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

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *Index {
	return NewIndex([]Destination{
		{Name: "ตลาดน้ำอัมพวา", City: "สมุทรสงคราม", Description: "ตลาดน้ำยามเย็นริมคลอง"},
		{Name: "วัดบางกุ้ง", City: "สมุทรสงคราม", Description: "โบสถ์ในต้นไม้"},
		{Name: "amphawa floating market", City: "samut songkhram", Description: ""},
		{Name: "หาดชะอำ", City: "เพชรบุรี", Description: "ชายหาดยอดนิยม"},
	}, DefaultFuzzyCutoff)
}

func TestIndex_SubstringMatch(t *testing.T) {
	idx := testIndex()

	results := idx.Search("อัมพวา", 5)
	require.NotEmpty(t, results, "substring tier must hit the Amphawa entry")
	assert.Equal(t, "ตลาดน้ำอัมพวา", results[0].Name)
}

func TestIndex_SubstringMatchInsideSentence(t *testing.T) {
	idx := testIndex()

	// The destination name is contained in the longer query.
	results := idx.Search("อยากไปวัดบางกุ้งวันเสาร์", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, "วัดบางกุ้ง", results[0].Name)
}

func TestIndex_FuzzyFallback(t *testing.T) {
	idx := testIndex()

	// Typo in the first token, so no substring containment either way.
	results := idx.Search("ampawa floating market", 5)
	require.NotEmpty(t, results, "fuzzy tier must rescue the typo query")
	assert.Equal(t, "amphawa floating market", results[0].Name)
}

func TestIndex_NoMatch(t *testing.T) {
	idx := testIndex()

	assert.Empty(t, idx.Search("pizza restaurant downtown", 5))
	assert.Empty(t, idx.Search("", 5))
}

func TestIndex_LimitTruncates(t *testing.T) {
	idx := testIndex()

	results := idx.Search("สมุทรสงคราม", 1)
	assert.Len(t, results, 1)
}

func TestIndex_SkipsNamelessEntries(t *testing.T) {
	idx := NewIndex([]Destination{
		{Name: "", Description: "broken"},
		{Name: "หาดชะอำ"},
	}, DefaultFuzzyCutoff)

	assert.Equal(t, 1, idx.Len())
}

func TestIndex_FuzzyStableOrderOnTies(t *testing.T) {
	idx := NewIndex([]Destination{
		{Name: "wat bang kung one"},
		{Name: "wat bang kung two"},
	}, DefaultFuzzyCutoff)

	results := idx.FuzzySearch("wat bang kung tow", 5, 0.3)
	require.Len(t, results, 2)
}

func TestIndex_EmptyCatalog(t *testing.T) {
	idx := NewIndex(nil, DefaultFuzzyCutoff)
	assert.Empty(t, idx.Search("อัมพวา", 5))
}
