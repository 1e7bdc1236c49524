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

// This file implements audio reconciliation: extracting a reusable audio
// track from an A-Roll clip and fitting a B-Roll visual (image or video)
// to that track's duration. The final unit clip's video and audio
// durations are equal by construction and re-verified by the renderer
// before concatenation.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// AudioSource is one extracted (or substituted) A-Roll audio track.
type AudioSource struct {
	Path     string
	Duration float64
	// Degraded marks a silent substitute for missing/corrupt source audio.
	Degraded bool
}

// Reconciler owns the per-render audio extraction cache and the ffmpeg
// operations that fit visuals to audio. It is scoped to a single render
// call; the files it creates live in tempDir and are tracked by the
// caller for cleanup.
type Reconciler struct {
	tools   *Toolchain
	opts    EncodeOptions
	tempDir string
	cache   map[string]AudioSource
}

// NewReconciler builds a reconciler writing its intermediates to tempDir.
func NewReconciler(tools *Toolchain, opts EncodeOptions, tempDir string) *Reconciler {
	return &Reconciler{
		tools:   tools,
		opts:    opts,
		tempDir: tempDir,
		cache:   make(map[string]AudioSource),
	}
}

// AudioFor returns the extracted audio track for an A-Roll clip,
// extracting on first use and serving every later request for the same
// path from the cache, so one A-Roll backing several B-Roll units is decoded
// exactly once. A clip with no usable audio degrades to a silent track of
// the same duration with a warning; it never fails the unit.
//
// Inputs:
//   - ctx: Cancellation context.
//   - arollPath: The A-Roll clip to source audio from.
//
// Outputs:
//   - AudioSource: Path, duration and degradation flag of the track.
//   - error: Only for failures silence cannot paper over (unprobeable clip).
func (r *Reconciler) AudioFor(ctx context.Context, arollPath string) (AudioSource, error) {
	if cached, ok := r.cache[arollPath]; ok {
		return cached, nil
	}

	info, err := r.tools.Probe(ctx, arollPath)
	if err != nil {
		return AudioSource{}, err
	}
	if info.Duration <= 0 {
		return AudioSource{}, fmt.Errorf("aroll %s has zero duration", arollPath)
	}

	out := filepath.Join(r.tempDir, fmt.Sprintf("audio-%s.m4a", uuid.NewString()))
	source := AudioSource{Path: out, Duration: info.Duration}

	if info.HasAudio {
		_, err = r.tools.Runner.Run(ctx, r.tools.FFmpeg, ExtractAudioArgs(arollPath, out, r.opts)...)
	}
	if !info.HasAudio || err != nil {
		if err != nil {
			slog.Warn("audio extraction failed, substituting silence",
				"aroll", arollPath, "error", err)
		} else {
			slog.Warn("aroll has no audio stream, substituting silence", "aroll", arollPath)
		}
		if _, serr := r.tools.Runner.Run(ctx, r.tools.FFmpeg, SilentAudioArgs(info.Duration, out, r.opts)...); serr != nil {
			// The failed extraction or synthesis may have written a
			// partial track; the caller never learns this path, so it
			// has to go now.
			_ = os.Remove(out)
			return AudioSource{}, fmt.Errorf("silent track synthesis for %s: %w", arollPath, serr)
		}
		source.Degraded = true
	}

	r.cache[arollPath] = source
	return source, nil
}

// ExtractAudioArgs builds the ffmpeg invocation that pulls a standalone
// audio track out of a clip.
func ExtractAudioArgs(in, out string, opts EncodeOptions) []string {
	args := []string{"-y", "-hide_banner", "-i", in, "-vn"}
	args = append(args, opts.audioArgs()...)
	return append(args, out)
}

// SilentAudioArgs builds the ffmpeg invocation that synthesizes a silent
// track of the given duration.
func SilentAudioArgs(duration float64, out string, opts EncodeOptions) []string {
	args := []string{
		"-y", "-hide_banner",
		"-f", "lavfi",
		"-i", "anullsrc=r=44100:cl=stereo",
		"-t", fmt.Sprintf("%.3f", duration),
	}
	args = append(args, opts.audioArgs()...)
	return append(args, out)
}

// ReconcilePlan is the pure decision of how a B-Roll visual gets fitted to
// an audio duration. Computed up front so the decision logic is testable
// without ffmpeg.
type ReconcilePlan struct {
	AudioDuration float64
	IsImage       bool
	// ExtraLoops is the -stream_loop value: how many additional times the
	// visual repeats before trimming. Zero means play once and trim.
	ExtraLoops int
}

// PlanReconcile decides looping and trimming for one B-Roll visual.
//
// Inputs:
//   - visualDuration: The B-Roll's native duration; ignored for images.
//   - audioDuration: The paired A-Roll audio duration (> 0).
//   - isImage: Whether the visual is a still image.
//
// Outputs:
//   - ReconcilePlan: The fitting decision.
//   - error: Zero/negative durations that cannot be fitted.
func PlanReconcile(visualDuration, audioDuration float64, isImage bool) (ReconcilePlan, error) {
	if audioDuration <= 0 {
		return ReconcilePlan{}, fmt.Errorf("reconcile: non-positive audio duration %.3f", audioDuration)
	}
	plan := ReconcilePlan{AudioDuration: audioDuration, IsImage: isImage}
	if isImage {
		return plan, nil
	}
	if visualDuration <= 0 {
		return ReconcilePlan{}, fmt.Errorf("reconcile: non-positive visual duration %.3f", visualDuration)
	}
	if visualDuration < audioDuration {
		// Total plays = ExtraLoops + 1 must cover the audio span.
		plan.ExtraLoops = int(math.Ceil(audioDuration/visualDuration)) - 1
	}
	return plan, nil
}

// BRollUnitArgs builds the single ffmpeg invocation that produces a
// finished B-Roll unit clip: the visual looped or trimmed to the audio
// duration, normalized to the target resolution, with the extracted
// A-Roll audio attached. `-t` bounds the output, so video and audio
// durations come out equal.
func BRollUnitArgs(plan ReconcilePlan, visual, audio, out string, opts EncodeOptions) []string {
	args := []string{"-y", "-hide_banner"}
	switch {
	case plan.IsImage:
		args = append(args, "-loop", "1")
	case plan.ExtraLoops > 0:
		args = append(args, "-stream_loop", fmt.Sprintf("%d", plan.ExtraLoops))
	}
	args = append(args,
		"-i", visual,
		"-i", audio,
		"-map", "0:v",
		"-map", "1:a",
		"-t", fmt.Sprintf("%.3f", plan.AudioDuration),
		"-vf", NormalizeFilter(opts.Width, opts.Height),
	)
	args = append(args, opts.videoArgs()...)
	args = append(args, opts.audioArgs()...)
	return append(args, out)
}

// ARollUnitArgs builds the ffmpeg invocation that normalizes a full A-Roll
// clip: own video letterboxed to the target resolution, own audio
// re-encoded to the uniform track layout so concatenation can stream-copy.
func ARollUnitArgs(in, out string, opts EncodeOptions) []string {
	args := []string{
		"-y", "-hide_banner",
		"-i", in,
		"-vf", NormalizeFilter(opts.Width, opts.Height),
	}
	args = append(args, opts.videoArgs()...)
	args = append(args, opts.audioArgs()...)
	return append(args, out)
}

// AttachSilenceArgs builds the invocation that muxes a silent track onto a
// clip that reached the pre-concat stage without audio. The video stream
// is copied untouched; -shortest bounds the silence to the clip length.
func AttachSilenceArgs(in, out string, opts EncodeOptions) []string {
	args := []string{
		"-y", "-hide_banner",
		"-i", in,
		"-f", "lavfi",
		"-i", "anullsrc=r=44100:cl=stereo",
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "copy",
		"-shortest",
	}
	args = append(args, opts.audioArgs()...)
	return append(args, out)
}
