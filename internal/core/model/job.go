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

// RenderJob is the full input of one assembly run: the segment status
// maps produced upstream, the transcript to composite, the caption style
// to apply and where the finished video goes. It is the unit of work the
// render workflow consumes, typically decoded from a JSON manifest.
type RenderJob struct {
	ID         string     `json:"id"`
	ARoll      StatusMap  `json:"aroll"`
	BRoll      StatusMap  `json:"broll"`
	Transcript Transcript `json:"transcript"`
	Style      string     `json:"style"`
	OutputPath string     `json:"output_path"`
}
