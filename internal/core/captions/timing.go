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

// Package captions renders per-frame, word-timing-synchronized caption
// overlays. This file implements the word-activation state machine: for a
// rendering timestamp it decides which word (if any) is on screen and in
// which lifecycle phase. The state is purely a function of time and the
// word list; nothing here is mutated between frames, and time only moves
// forward within one render pass.
package captions

import "github.com/jaycherian/go-video-assembly/internal/core/model"

// WordState is the lifecycle phase of one word relative to a timestamp.
type WordState int

const (
	// WordBefore: the timestamp precedes the word's start.
	WordBefore WordState = iota
	// WordActive: the word is being spoken (start <= t <= end).
	WordActive
	// WordTrailing: the word ended but is still fading out
	// (end < t <= end + fadeOutWindow).
	WordTrailing
	// WordGone: the fade-out window has elapsed.
	WordGone
)

// StateAt classifies a single word against timestamp t. fadeOutWindow is
// the post-end span during which the word still renders while fading; a
// zero window sends the word straight from active to gone.
func StateAt(w model.WordTiming, t, fadeOutWindow float64) WordState {
	switch {
	case t < w.Start:
		return WordBefore
	case t <= w.End:
		return WordActive
	case t <= w.End+fadeOutWindow:
		return WordTrailing
	default:
		return WordGone
	}
}

// ActiveWordIndex returns the index of the word that is active or trailing
// at t, or -1 when no word qualifies (the frame renders a fully
// transparent caption). Words are non-overlapping with non-decreasing
// starts, so at most one word can qualify; when a trailing word's window
// overlaps the next word's start, the newly active word wins and the
// previous one is treated as gone.
func ActiveWordIndex(words []model.WordTiming, t, fadeOutWindow float64) int {
	// Walk back from the last started word: the first candidate found is
	// the most recent, which is the one the viewer should see.
	for i := len(words) - 1; i >= 0; i-- {
		if words[i].Start > t {
			continue
		}
		switch StateAt(words[i], t, fadeOutWindow) {
		case WordActive:
			return i
		case WordTrailing:
			return i
		default:
			return -1
		}
	}
	return -1
}

// RollingWindowSize bounds how many recent words the word-by-word display
// mode accumulates into one caption line.
const RollingWindowSize = 7

// RollingWindow returns the indices of the words shown in word-by-word
// mode at timestamp t: the active (or trailing) word plus up to six of its
// predecessors, oldest first. An empty slice means the caption is blank
// for this frame.
func RollingWindow(words []model.WordTiming, t, fadeOutWindow float64) []int {
	active := ActiveWordIndex(words, t, fadeOutWindow)
	if active < 0 {
		return nil
	}
	start := active - (RollingWindowSize - 1)
	if start < 0 {
		start = 0
	}
	out := make([]int, 0, RollingWindowSize)
	for i := start; i <= active; i++ {
		out = append(out, i)
	}
	return out
}
