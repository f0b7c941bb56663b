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

// Package catalog holds the immutable destination catalog and its two-tier
// search index. Destinations are loaded once at startup from a province-keyed
// JSON document and never mutated afterwards.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Destination is one named place. Name is required; the other fields may be
// empty. Instances are read-only after load.
type Destination struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	Description string `json:"description"`
	MapURL      string `json:"map_url"`
}

// Load reads a province-keyed catalog document:
//
//	{ "สมุทรสงคราม": [ {"name": "...", "description": "..."}, ... ], ... }
//
// Records without a name are skipped with a warning rather than failing the
// whole load. A record with no city inherits its province key as City.
func Load(r io.Reader, logger *zap.Logger) ([]Destination, error) {
	var document map[string][]Destination
	if err := json.NewDecoder(r).Decode(&document); err != nil {
		return nil, fmt.Errorf("failed to decode catalog document: %w", err)
	}

	provinces := make([]string, 0, len(document))
	for province := range document {
		provinces = append(provinces, province)
	}
	sort.Strings(provinces)

	var destinations []Destination
	skipped := 0
	for _, province := range provinces {
		for _, record := range document[province] {
			if strings.TrimSpace(record.Name) == "" {
				skipped++
				continue
			}
			if strings.TrimSpace(record.City) == "" {
				record.City = province
			}
			destinations = append(destinations, record)
		}
	}

	if skipped > 0 {
		logger.Warn("Skipped catalog records without a name",
			zap.Int("skipped", skipped),
			zap.Int("loaded", len(destinations)))
	}
	return destinations, nil
}

// LoadFile loads a catalog document from disk.
func LoadFile(path string, logger *zap.Logger) ([]Destination, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	destinations, err := Load(f, logger)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return destinations, nil
}
