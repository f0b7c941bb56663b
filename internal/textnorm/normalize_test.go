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

package textnorm

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lower-cases ASCII",
			input:    "Amphawa Floating Market",
			expected: "amphawa floating market",
		},
		{
			name:     "trims whitespace",
			input:    "  bangkok  ",
			expected: "bangkok",
		},
		{
			name:     "strips Latin diacritics",
			input:    "Café",
			expected: "cafe",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   \t\n",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalize_StripsThaiToneMarks(t *testing.T) {
	// Same word with and without tone marks must normalize identically.
	with := Normalize("ก๋วยเตี๋ยว")
	without := Normalize("กวยเตียว")
	if with != without {
		t.Errorf("tone-marked form %q != bare form %q", with, without)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Amphawa",
		"ตลาดน้ำอัมพวา",
		"  Mixed ไทย English  ",
		"Café au lait",
		"",
		"1+1=?",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestToken(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Wat Bang Kung (วัดบางกุ้ง)", "watbangkungวดบางกง"},
		{"hello, world!", "helloworld"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := Token(tc.input); got != tc.expected {
			t.Errorf("Token(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"อยากไปเที่ยวอัมพวา", "th"},
		{"where should I go this weekend", "en"},
		{"", "en"},
		{"ไป Amphawa", "th"},
	}

	for _, tc := range testCases {
		if got := DetectLanguage(tc.input); got != tc.expected {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
