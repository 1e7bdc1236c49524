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

// Package media wraps every interaction with the ffmpeg toolchain: probing
// clip metadata, classifying files, and the normalize/reconcile/concat
// operations the renderer is built from. Argument lists are constructed by
// pure functions so the decision logic is testable without the binaries;
// execution goes through the Executor interface so the whole pipeline can
// run against a scripted fake in tests.
package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Executor runs an external tool and returns its combined output. The
// context carries the caller's cancellation and timeout: the core never
// imposes its own deadline on an encode.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner is the production Executor, shelling out via os/exec.
type ExecRunner struct{}

// Run executes the tool and wraps failures with a trailing slice of the
// tool's output, which for ffmpeg carries the actual cause.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s failed: %w: %s", name, err, tail(string(out), 512))
	}
	return out, nil
}

// tail returns the last n bytes of s, trimmed; ffmpeg prints the relevant
// error at the end of a long banner.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

// Toolchain bundles the executor with the resolved tool paths. A zero
// value is not usable; construct with NewToolchain.
type Toolchain struct {
	Runner  Executor
	FFmpeg  string
	FFprobe string
}

// NewToolchain builds a toolchain, defaulting the binaries to whatever
// "ffmpeg"/"ffprobe" resolve to on PATH when paths are empty.
func NewToolchain(runner Executor, ffmpeg, ffprobe string) *Toolchain {
	if runner == nil {
		runner = ExecRunner{}
	}
	if strings.TrimSpace(ffmpeg) == "" {
		ffmpeg = "ffmpeg"
	}
	if strings.TrimSpace(ffprobe) == "" {
		ffprobe = "ffprobe"
	}
	return &Toolchain{Runner: runner, FFmpeg: ffmpeg, FFprobe: ffprobe}
}

// EncodeOptions are the caller-configurable output parameters. They apply
// to every intermediate unit clip as well as the final encode so that
// concatenation can stream-copy.
type EncodeOptions struct {
	Width        int
	Height       int
	FPS          int
	VideoCodec   string
	Preset       string
	CRF          int
	AudioCodec   string
	AudioBitrate string
}

// videoArgs renders the shared video-encoding argument block.
func (o EncodeOptions) videoArgs() []string {
	return []string{
		"-c:v", o.VideoCodec,
		"-preset", o.Preset,
		"-crf", fmt.Sprintf("%d", o.CRF),
		"-r", fmt.Sprintf("%d", o.FPS),
		"-pix_fmt", "yuv420p",
	}
}

// audioArgs renders the shared audio-encoding argument block.
func (o EncodeOptions) audioArgs() []string {
	return []string{
		"-c:a", o.AudioCodec,
		"-b:a", o.AudioBitrate,
		"-ar", "44100",
		"-ac", "2",
	}
}
