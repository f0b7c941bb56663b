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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCatalogDocument = `{
	"สมุทรสงคราม": [
		{"name": "ตลาดน้ำอัมพวา", "description": "ตลาดน้ำยามเย็นริมคลอง", "map_url": "https://maps.google.com/?q=amphawa"},
		{"name": "วัดบางกุ้ง", "city": "บางคนที", "description": "โบสถ์ในต้นไม้"},
		{"description": "record without a name"}
	],
	"เพชรบุรี": [
		{"name": "หาดชะอำ", "description": "ชายหาดยอดนิยม"}
	]
}`

func TestLoad(t *testing.T) {
	destinations, err := Load(strings.NewReader(testCatalogDocument), zap.NewNop())
	require.NoError(t, err)

	// The nameless record is skipped.
	require.Len(t, destinations, 3)

	byName := make(map[string]Destination)
	for _, d := range destinations {
		byName[d.Name] = d
	}

	// City defaults to the province key.
	assert.Equal(t, "สมุทรสงคราม", byName["ตลาดน้ำอัมพวา"].City)
	// An explicit city is kept.
	assert.Equal(t, "บางคนที", byName["วัดบางกุ้ง"].City)
	assert.Equal(t, "https://maps.google.com/?q=amphawa", byName["ตลาดน้ำอัมพวา"].MapURL)
}

func TestLoad_MalformedDocument(t *testing.T) {
	_, err := Load(strings.NewReader(`{"province": "not a list"}`), zap.NewNop())
	assert.Error(t, err)
}
