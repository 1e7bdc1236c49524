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

package media

import (
	"testing"

	"github.com/zeebo/assert"
)

func TestFitSizeLandscapeIntoPortrait(t *testing.T) {
	// 1920x1080 into a 1080x1920 frame: width constrains, letterboxed.
	w, h, err := FitSize(1920, 1080, 1080, 1920)
	assert.NoError(t, err)
	assert.Equal(t, w, 1080)
	assert.Equal(t, h, 606)
}

func TestFitSizePortraitIntoPortrait(t *testing.T) {
	w, h, err := FitSize(1080, 1920, 1080, 1920)
	assert.NoError(t, err)
	assert.Equal(t, w, 1080)
	assert.Equal(t, h, 1920)
}

func TestFitSizeTallSourcePillarboxes(t *testing.T) {
	// Taller than the target ratio: height constrains.
	w, h, err := FitSize(1080, 4000, 1080, 1920)
	assert.NoError(t, err)
	assert.Equal(t, h, 1920)
	assert.Equal(t, w, 518)
}

func TestFitSizeForcesEvenDimensions(t *testing.T) {
	w, h, err := FitSize(101, 100, 1080, 1920)
	assert.NoError(t, err)
	assert.Equal(t, w%2, 0)
	assert.Equal(t, h%2, 0)
}

func TestFitSizeRejectsDegenerateSources(t *testing.T) {
	_, _, err := FitSize(0, 1080, 1080, 1920)
	assert.Error(t, err)

	_, _, err = FitSize(1920, -1, 1080, 1920)
	assert.Error(t, err)

	_, _, err = FitSize(1920, 1080, 0, 0)
	assert.Error(t, err)

	// A 1x10000 sliver scales to zero width.
	_, _, err = FitSize(1, 10000, 1080, 1920)
	assert.Error(t, err)
}

func TestNormalizeFilter(t *testing.T) {
	filter := NormalizeFilter(1080, 1920)
	assert.Equal(t, filter,
		"scale=1080:1920:force_original_aspect_ratio=decrease,pad=1080:1920:(ow-iw)/2:(oh-ih)/2:black,setsar=1")
}
