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

import "fmt"

// FitSize computes the dimensions a source scales to inside the target
// frame with its aspect ratio preserved: the constraining dimension fills
// the target, the other is letterboxed/pillarboxed by the pad filter.
// Results are forced even (codec requirement). A degenerate source that
// would scale to a zero-sized image fails explicitly: silently producing a
// corrupt clip is worse than aborting the unit.
//
// Inputs:
//   - srcW, srcH: Source dimensions as probed.
//   - dstW, dstH: Target resolution.
//
// Outputs:
//   - int, int: The scaled width and height (<= target, > 0).
//   - error: When any input is non-positive or the fit rounds to zero.
func FitSize(srcW, srcH, dstW, dstH int) (int, int, error) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, fmt.Errorf("fit: invalid source dimensions %dx%d", srcW, srcH)
	}
	if dstW <= 0 || dstH <= 0 {
		return 0, 0, fmt.Errorf("fit: invalid target resolution %dx%d", dstW, dstH)
	}

	w, h := dstW, srcH*dstW/srcW
	if h > dstH {
		w, h = srcW*dstH/srcH, dstH
	}
	// Even dimensions for yuv420p.
	w -= w % 2
	h -= h % 2
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("fit: source %dx%d degenerates to %dx%d at target %dx%d",
			srcW, srcH, w, h, dstW, dstH)
	}
	return w, h, nil
}

// NormalizeFilter renders the ffmpeg video filter that letterboxes any
// input into the target resolution: scale preserving aspect ratio, pad
// centered on black, square pixels.
func NormalizeFilter(width, height int) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black,setsar=1",
		width, height, width, height)
}
