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

package alias

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadSynonyms reads a province-keyed synonym document:
//
//	{ "สมุทรสงคราม": ["อัมพวา", "แม่กลอง"], ... }
func LoadSynonyms(r io.Reader) (map[string][]string, error) {
	var document map[string][]string
	if err := json.NewDecoder(r).Decode(&document); err != nil {
		return nil, fmt.Errorf("failed to decode synonym document: %w", err)
	}
	return document, nil
}

// LoadSynonymsFile loads a synonym document from disk.
func LoadSynonymsFile(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open synonym file: %w", err)
	}
	defer f.Close()

	synonyms, err := LoadSynonyms(f)
	if err != nil {
		return nil, fmt.Errorf("synonym file %s: %w", path, err)
	}
	return synonyms, nil
}
