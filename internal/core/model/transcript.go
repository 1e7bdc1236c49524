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

package model

// WordTiming is one timestamped word from the external transcription
// engine. Times are seconds from the start of the final timeline. The
// transcription contract guarantees non-overlapping words with
// non-decreasing Start values; the captioning engine relies on that and
// does not re-sort.
type WordTiming struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the spoken length of the word in seconds.
func (w WordTiming) Duration() float64 {
	return w.End - w.Start
}

// SentenceTiming is an optional sentence-level span, used only by the
// non-word-by-word caption display mode.
type SentenceTiming struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the full output of one transcription pass over the final
// timeline. Sentences may be empty; Words drive both display modes.
type Transcript struct {
	Words     []WordTiming     `json:"words"`
	Sentences []SentenceTiming `json:"sentences,omitempty"`
}
