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

import "fmt"

// UnitKind tags the two variants of an AssemblyUnit.
type UnitKind string

const (
	// UnitARollFull uses an A-Roll clip verbatim: its own video and audio.
	UnitARollFull UnitKind = "aroll_full"
	// UnitBRollWithARollAudio shows a B-Roll visual while playing the
	// audio extracted from the paired A-Roll clip.
	UnitBRollWithARollAudio UnitKind = "broll_with_aroll_audio"
)

// AssemblyUnit is one timeline position of a planned render. It is a tagged
// variant: for UnitARollFull only the ARoll* fields are meaningful, for
// UnitBRollWithARollAudio both the BRoll* (visual) and ARoll* (audio
// source) fields are set.
type AssemblyUnit struct {
	Kind UnitKind `json:"kind"`

	ARollIndex int    `json:"aroll_index"`
	ARollPath  string `json:"aroll_path"`

	BRollIndex int    `json:"broll_index,omitempty"`
	BRollPath  string `json:"broll_path,omitempty"`
}

// String renders a compact description of the unit for logs and errors.
func (u AssemblyUnit) String() string {
	switch u.Kind {
	case UnitARollFull:
		return fmt.Sprintf("aroll[%d] %s", u.ARollIndex, u.ARollPath)
	case UnitBRollWithARollAudio:
		return fmt.Sprintf("broll[%d] %s + audio of aroll[%d] %s",
			u.BRollIndex, u.BRollPath, u.ARollIndex, u.ARollPath)
	default:
		return fmt.Sprintf("unknown unit kind %q", u.Kind)
	}
}

// Sequence is the ordered list of assembly units for one final video. It is
// immutable once planned for a render pass: the planner builds it, every
// later component only reads it.
type Sequence []AssemblyUnit

// Valid reports whether the sequence satisfies the structural invariant of
// a planned script: non-empty, opening on a full A-Roll unit, and closing
// on a unit backed by A-Roll audio (every unit kind qualifies, so the tail
// check is that an A-Roll is actually attached).
func (s Sequence) Valid() bool {
	if len(s) == 0 {
		return false
	}
	last := s[len(s)-1]
	return s[0].Kind == UnitARollFull && last.ARollPath != ""
}
