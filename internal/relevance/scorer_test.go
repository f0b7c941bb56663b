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

package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testScorer() *Scorer {
	return NewScorer(DefaultKeywords(), []string{
		"ตลาดน้ำอัมพวา", "วัดบางกุ้ง", "หาดชะอำ", "Amphawa Floating Market",
	})
}

func TestScore_Bounds(t *testing.T) {
	scorer := testScorer()

	inputs := []string{
		"",
		"1+1=?",
		"อยากไปเที่ยวตลาดน้ำอัมพวา วัดบางกุ้ง หาดชะอำ ที่พัก โรงแรม ทะเล ยังไงดี?",
		"completely unrelated text about compilers",
		"amphawa floating market hotel beach temple trip travel itinerary where how",
	}

	for _, input := range inputs {
		score := scorer.Score(input)
		if score < 0.0 || score > 1.0 {
			t.Errorf("Score(%q) = %f out of [0,1]", input, score)
		}
	}
}

func TestScore_ArithmeticProbeFallsInRefusalBand(t *testing.T) {
	scorer := testScorer()

	// No travel keywords, no destinations, only a question mark: must stay
	// below the scope-refusal threshold.
	score := scorer.Score("1+1=?")
	assert.Less(t, score, 0.1)
}

func TestScore_DestinationMentionDominates(t *testing.T) {
	scorer := testScorer()

	withDestination := scorer.Score("อยากไปตลาดน้ำอัมพวา")
	withoutDestination := scorer.Score("อยากไปเดินเล่น")

	assert.Greater(t, withDestination, withoutDestination)
	assert.GreaterOrEqual(t, withDestination, 0.2, "destination mention must clear the generation gate")
}

func TestScore_EmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, testScorer().Score("   "))
}

func TestScore_NoDestinations(t *testing.T) {
	scorer := NewScorer(DefaultKeywords(), nil)
	score := scorer.Score("ไปเที่ยวทะเลกัน")
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}
