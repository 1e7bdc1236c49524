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

// Package plan decides the order and pairing of completed A-Roll and B-Roll
// media for one final video. It is the only component that understands the
// script's A-B-A...-A alternation; everything downstream just walks the
// Sequence it produces.
//
// Logic Flow:
//  1. Collect the completed A-Roll and B-Roll indices in script order.
//  2. Reject the whole render when no A-Roll is complete: a video needs at
//     least one talking-head clip to carry audio.
//  3. Open with the first completed A-Roll used verbatim.
//  4. Pair each completed B-Roll visual, in order, with the audio of the
//     next not-yet-consumed A-Roll.
//  5. Append any A-Roll clips left over after pairing as full units.
//
// The planner performs no file I/O and holds no state: the same status
// maps always produce the same Sequence.
package plan

import (
	"errors"
	"log/slog"

	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// ErrNoCompletedARoll is returned when planning cannot produce a valid
// sequence because not a single A-Roll segment has finished generating.
// It is surfaced to the caller before any rendering work begins.
var ErrNoCompletedARoll = errors.New("no completed A-Roll segments available")

// Plan computes the render sequence from the generation status of both
// segment namespaces. B-Roll entries beyond what the available A-Roll
// audio can cover are dropped from the sequence; the drop is logged as a
// warning because it loses caller data silently otherwise.
//
// Inputs:
//   - aroll: Status map for the A-Roll namespace, keyed segment_<i>.
//   - broll: Status map for the B-Roll namespace, keyed segment_<i>.
//
// Outputs:
//   - model.Sequence: The ordered assembly units for the final video.
//   - error: ErrNoCompletedARoll when no completed A-Roll exists.
func Plan(aroll, broll model.StatusMap) (model.Sequence, error) {
	arollAvailable := model.Completed(aroll)
	brollAvailable := model.Completed(broll)

	if len(arollAvailable) == 0 {
		return nil, ErrNoCompletedARoll
	}

	// Each B-Roll unit borrows the audio of one A-Roll beyond the opener,
	// so at most len(aroll)-1 B-Roll clips fit.
	pairCount := len(brollAvailable)
	if max := len(arollAvailable) - 1; pairCount > max {
		slog.Warn("dropping excess completed B-Roll segments from sequence",
			"dropped_indices", brollAvailable[max:],
			"aroll_count", len(arollAvailable),
			"broll_count", len(brollAvailable))
		pairCount = max
	}

	sequence := make(model.Sequence, 0, len(arollAvailable)+pairCount)

	first := arollAvailable[0]
	sequence = append(sequence, model.AssemblyUnit{
		Kind:       model.UnitARollFull,
		ARollIndex: first,
		ARollPath:  aroll[model.SegmentKey(first)].MediaPath,
	})

	for i := 0; i < pairCount; i++ {
		brollIdx := brollAvailable[i]
		arollIdx := arollAvailable[i+1]
		sequence = append(sequence, model.AssemblyUnit{
			Kind:       model.UnitBRollWithARollAudio,
			BRollIndex: brollIdx,
			BRollPath:  broll[model.SegmentKey(brollIdx)].MediaPath,
			ARollIndex: arollIdx,
			ARollPath:  aroll[model.SegmentKey(arollIdx)].MediaPath,
		})
	}

	// A-Roll clips not consumed as B-Roll audio play in full.
	for _, arollIdx := range arollAvailable[pairCount+1:] {
		sequence = append(sequence, model.AssemblyUnit{
			Kind:       model.UnitARollFull,
			ARollIndex: arollIdx,
			ARollPath:  aroll[model.SegmentKey(arollIdx)].MediaPath,
		})
	}

	return sequence, nil
}
