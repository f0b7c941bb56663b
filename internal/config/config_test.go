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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, "openai:\n  apikey: sk-test\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4", cfg.OpenAI.Model)
	assert.Equal(t, 800, cfg.OpenAI.MaxTokens)
	assert.InDelta(t, 0.7, cfg.OpenAI.Temperature, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.OpenAI.Timeout)

	assert.InDelta(t, 0.55, cfg.Matching.FuzzyCutoff, 1e-9)
	assert.Equal(t, 4, cfg.Matching.AliasMinSubstring)
	assert.InDelta(t, 0.8, cfg.Matching.AliasHighSimilarity, 1e-9)
	assert.InDelta(t, 0.1, cfg.Matching.AliasHighLead, 1e-9)
	assert.InDelta(t, 0.7, cfg.Matching.AliasLowSimilarity, 1e-9)
	assert.InDelta(t, 0.2, cfg.Matching.AliasLowLead, 1e-9)

	assert.InDelta(t, 0.1, cfg.Relevance.RefuseBelow, 1e-9)
	assert.InDelta(t, 0.2, cfg.Relevance.CategoriesBelow, 1e-9)

	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)

	assert.Equal(t, 15*time.Second, cfg.Session.ReplayWindow)
	assert.Equal(t, 1000, cfg.Chat.MaxMessageLength)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
openai:
  apikey: sk-test
matching:
  fuzzy_cutoff: 0.6
cache:
  max_entries: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, cfg.Matching.FuzzyCutoff, 1e-9)
	assert.Equal(t, 50, cfg.Cache.MaxEntries)
}

func TestLoad_MissingAPIKeyFails(t *testing.T) {
	path := writeConfigFile(t, "logging:\n  level: info\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai.apikey")
}

func TestLoad_InvalidThresholdFails(t *testing.T) {
	path := writeConfigFile(t, `
openai:
  apikey: sk-test
relevance:
  refuse_below: 1.5
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RefuseAboveCategoriesFails(t *testing.T) {
	path := writeConfigFile(t, `
openai:
  apikey: sk-test
relevance:
  refuse_below: 0.3
  categories_below: 0.2
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvMapping(t *testing.T) {
	path := writeConfigFile(t, "logging:\n  level: info\n")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.OpenAI.APIKey)
}

func TestMaskSensitiveValues(t *testing.T) {
	cfg := &Config{OpenAI: OpenAIConfig{APIKey: "sk-abcdef1234567890"}}

	masked := cfg.MaskSensitiveValues()
	assert.NotEqual(t, cfg.OpenAI.APIKey, masked.OpenAI.APIKey)
	assert.Contains(t, masked.OpenAI.APIKey, "*")
	// Original is untouched.
	assert.Equal(t, "sk-abcdef1234567890", cfg.OpenAI.APIKey)
}
