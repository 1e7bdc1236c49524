// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package captions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

var testWords = []model.WordTiming{
	{Word: "one", Start: 0.0, End: 0.5},
	{Word: "two", Start: 0.5, End: 1.0},
	{Word: "three", Start: 1.2, End: 1.7},
	{Word: "four", Start: 1.7, End: 2.0},
	{Word: "five", Start: 2.0, End: 2.4},
	{Word: "six", Start: 2.4, End: 2.9},
	{Word: "seven", Start: 2.9, End: 3.3},
	{Word: "eight", Start: 3.3, End: 3.8},
}

func TestStateAt(t *testing.T) {
	w := model.WordTiming{Word: "hello", Start: 1.0, End: 1.5}

	assert.Equal(t, WordBefore, StateAt(w, 0.9, 0.2))
	assert.Equal(t, WordActive, StateAt(w, 1.0, 0.2))
	assert.Equal(t, WordActive, StateAt(w, 1.5, 0.2))
	assert.Equal(t, WordTrailing, StateAt(w, 1.6, 0.2))
	assert.Equal(t, WordGone, StateAt(w, 1.8, 0.2))

	// Zero window: active goes straight to gone.
	assert.Equal(t, WordGone, StateAt(w, 1.51, 0))
}

func TestActiveWordIndex(t *testing.T) {
	// Before anything starts.
	assert.Equal(t, -1, ActiveWordIndex(testWords, -0.1, 0.2))

	// Mid-word.
	assert.Equal(t, 0, ActiveWordIndex(testWords, 0.25, 0.2))
	assert.Equal(t, 2, ActiveWordIndex(testWords, 1.4, 0.2))

	// In the gap between "two" (ends 1.0) and "three" (starts 1.2): the
	// trailing previous word still renders inside its fade window.
	assert.Equal(t, 1, ActiveWordIndex(testWords, 1.1, 0.2))

	// Same gap with no fade window: blank frame.
	assert.Equal(t, -1, ActiveWordIndex(testWords, 1.1, 0))

	// A newly started word beats its trailing predecessor.
	assert.Equal(t, 2, ActiveWordIndex(testWords, 1.2, 0.5))

	// After the last word's fade runs out.
	assert.Equal(t, -1, ActiveWordIndex(testWords, 4.1, 0.2))
}

func TestRollingWindowGrowsThenSlides(t *testing.T) {
	// Second word active: window holds words 0..1.
	assert.Equal(t, []int{0, 1}, RollingWindow(testWords, 0.7, 0.2))

	// Last word active: the window is capped at seven entries, oldest
	// dropped.
	window := RollingWindow(testWords, 3.5, 0.2)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, window)
	assert.Len(t, window, RollingWindowSize)

	// Blank frame yields no window.
	assert.Nil(t, RollingWindow(testWords, 10.0, 0.2))
}
