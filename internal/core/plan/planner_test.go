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

package plan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// statuses builds a dense map of n completed segments.
func statuses(n int, prefix string) model.StatusMap {
	out := make(model.StatusMap, n)
	for i := 0; i < n; i++ {
		out[model.SegmentKey(i)] = model.ContentStatus{
			State:       model.StateComplete,
			MediaPath:   fmt.Sprintf("/media/%s-%d.mp4", prefix, i),
			ContentType: model.ContentVideo,
		}
	}
	return out
}

func TestPlanAlternatesARollAndBRoll(t *testing.T) {
	sequence, err := Plan(statuses(3, "aroll"), statuses(2, "broll"))
	require.NoError(t, err)
	require.Len(t, sequence, 3)

	assert.Equal(t, model.UnitARollFull, sequence[0].Kind)
	assert.Equal(t, 0, sequence[0].ARollIndex)

	assert.Equal(t, model.UnitBRollWithARollAudio, sequence[1].Kind)
	assert.Equal(t, 0, sequence[1].BRollIndex)
	assert.Equal(t, 1, sequence[1].ARollIndex)

	assert.Equal(t, model.UnitBRollWithARollAudio, sequence[2].Kind)
	assert.Equal(t, 1, sequence[2].BRollIndex)
	assert.Equal(t, 2, sequence[2].ARollIndex)

	assert.True(t, sequence.Valid())
}

func TestPlanAppendsLeftoverARoll(t *testing.T) {
	sequence, err := Plan(statuses(4, "aroll"), statuses(1, "broll"))
	require.NoError(t, err)
	require.Len(t, sequence, 4)

	assert.Equal(t, model.UnitARollFull, sequence[0].Kind)
	assert.Equal(t, model.UnitBRollWithARollAudio, sequence[1].Kind)
	assert.Equal(t, model.UnitARollFull, sequence[2].Kind)
	assert.Equal(t, 2, sequence[2].ARollIndex)
	assert.Equal(t, model.UnitARollFull, sequence[3].Kind)
	assert.Equal(t, 3, sequence[3].ARollIndex)
}

func TestPlanDropsExcessBRoll(t *testing.T) {
	// Two A-Roll clips can carry at most one B-Roll unit.
	sequence, err := Plan(statuses(2, "aroll"), statuses(5, "broll"))
	require.NoError(t, err)
	require.Len(t, sequence, 2)

	assert.Equal(t, model.UnitARollFull, sequence[0].Kind)
	assert.Equal(t, model.UnitBRollWithARollAudio, sequence[1].Kind)
	assert.Equal(t, 0, sequence[1].BRollIndex)
}

func TestPlanSingleARollNoBRoll(t *testing.T) {
	sequence, err := Plan(statuses(1, "aroll"), model.StatusMap{})
	require.NoError(t, err)
	require.Len(t, sequence, 1)
	assert.Equal(t, model.UnitARollFull, sequence[0].Kind)
	assert.True(t, sequence.Valid())
}

func TestPlanFailsWithoutCompletedARoll(t *testing.T) {
	_, err := Plan(model.StatusMap{}, statuses(3, "broll"))
	assert.ErrorIs(t, err, ErrNoCompletedARoll)

	// Pending segments do not count as available.
	pending := model.StatusMap{
		model.SegmentKey(0): {State: model.StateProcessing, MediaPath: "/media/a.mp4"},
	}
	_, err = Plan(pending, nil)
	assert.ErrorIs(t, err, ErrNoCompletedARoll)
}

func TestPlanStopsAtFirstGap(t *testing.T) {
	// segment_1 is incomplete, so segment_2 must not be used even though
	// it is complete: script order is a contiguous prefix.
	aroll := statuses(3, "aroll")
	broken := aroll[model.SegmentKey(1)]
	broken.State = model.StateError
	aroll[model.SegmentKey(1)] = broken

	sequence, err := Plan(aroll, model.StatusMap{})
	require.NoError(t, err)
	require.Len(t, sequence, 1)
	assert.Equal(t, 0, sequence[0].ARollIndex)
}

func TestPlanIsDeterministic(t *testing.T) {
	aroll := statuses(5, "aroll")
	broll := statuses(3, "broll")

	first, err := Plan(aroll, broll)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Plan(aroll, broll)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPlanLeavesStatusMapsUntouched(t *testing.T) {
	aroll := statuses(3, "aroll")
	broll := statuses(2, "broll")
	arollBefore := make(model.StatusMap, len(aroll))
	for k, v := range aroll {
		arollBefore[k] = v
	}
	brollBefore := make(model.StatusMap, len(broll))
	for k, v := range broll {
		brollBefore[k] = v
	}

	_, err := Plan(aroll, broll)
	require.NoError(t, err)
	assert.Equal(t, arollBefore, aroll)
	assert.Equal(t, brollBefore, broll)
}
