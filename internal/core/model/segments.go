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

// Package model defines the core data structures shared between the
// assembly pipeline's components. This file contains the input contract
// owned by the external segmentation/generation pipeline: the ordered
// script segments and the per-segment generation status records. The
// assembly core only ever reads these structures; it never mutates them.
//
// Indexing contract: A-Roll and B-Roll segments are numbered independently,
// starting at zero in script order. A ContentStatus map is therefore keyed
// "segment_0", "segment_1", ... within its own namespace ("aroll" or
// "broll"), mirroring how the generation pipeline tracks its work.
package model

import "fmt"

// SegmentKind distinguishes on-camera talking-head footage (A-Roll) from
// supplementary visual footage (B-Roll).
type SegmentKind string

const (
	SegmentARoll SegmentKind = "aroll"
	SegmentBRoll SegmentKind = "broll"
)

// Segment is one entry of the segmented script. The A-B-A...-A interleaving
// is the caller's contract and is not enforced here.
type Segment struct {
	Kind    SegmentKind `json:"kind"`    // Whether this is an A-Roll or B-Roll segment.
	Content string      `json:"content"` // The script text for this segment.
}

// ContentState describes where a segment's media generation currently stands.
// The assembly core only consumes entries in StateComplete.
type ContentState string

const (
	StatePending    ContentState = "pending"
	StateProcessing ContentState = "processing"
	StateComplete   ContentState = "complete"
	StateError      ContentState = "error"
)

// ContentType describes what kind of media file a completed segment produced.
type ContentType string

const (
	ContentVideo ContentType = "video"
	ContentImage ContentType = "image"
)

// ContentStatus is the per-segment record maintained by the external
// generation pipeline. MediaPath is only meaningful when State is
// StateComplete.
type ContentStatus struct {
	State       ContentState `json:"status"`
	MediaPath   string       `json:"file_path,omitempty"`
	ContentType ContentType  `json:"content_type,omitempty"`
}

// StatusMap holds the generation records for one segment namespace
// ("aroll" or "broll"), keyed by SegmentKey(i).
type StatusMap map[string]ContentStatus

// SegmentKey builds the canonical status-map key for a per-type segment
// index, e.g. SegmentKey(2) == "segment_2".
func SegmentKey(index int) string {
	return fmt.Sprintf("segment_%d", index)
}

// Completed returns the indices of all completed segments in the map, in
// ascending (script) order. Entries with a non-complete state or an empty
// media path are ignored.
//
// Inputs:
//   - statuses: The status map for one segment namespace.
//
// Outputs:
//   - []int: Sorted indices of segments that are ready for assembly.
func Completed(statuses StatusMap) []int {
	out := make([]int, 0, len(statuses))
	for i := 0; ; i++ {
		status, ok := statuses[SegmentKey(i)]
		if !ok {
			// Keys are dense per the generation pipeline's contract; the
			// first gap marks the end of the namespace.
			break
		}
		if status.State == StateComplete && status.MediaPath != "" {
			out = append(out, i)
		}
	}
	return out
}
