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

// This file defines the command that enforces the pre-concatenation
// audio invariant: every clip entering the concat list carries an audio
// stream. A clip without one would shift every later track and desync
// the captions. B-Roll units get audio by construction; an A-Roll whose
// source had no audio track can reach this point silent, and gets a
// silent track muxed on with the video stream copied untouched.
package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jaycherian/go-video-assembly/internal/core/cor"
	"github.com/jaycherian/go-video-assembly/internal/core/media"
)

// AudioGuard probes every rendered unit clip and attaches silence to any
// clip that has no audio stream.
type AudioGuard struct {
	cor.BaseCommand
	tools   *media.Toolchain
	opts    media.EncodeOptions
	tempDir string
}

// NewAudioGuard is the constructor for the AudioGuard command.
func NewAudioGuard(name string, tools *media.Toolchain, opts media.EncodeOptions, tempDir string) *AudioGuard {
	return &AudioGuard{
		BaseCommand: *cor.NewBaseCommand(name),
		tools:       tools,
		opts:        opts,
		tempDir:     tempDir,
	}
}

// Execute verifies the audio invariant clip by clip, repairing in place.
func (c *AudioGuard) Execute(context cor.Context) {
	clips := context.Get(c.GetInputParam()).([]string)

	for i, clip := range clips {
		info, err := c.tools.Probe(context.GetContext(), clip)
		if err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), fmt.Errorf("probing unit clip %d: %w", i, err))
			return
		}
		if info.HasAudio {
			continue
		}

		slog.Warn("unit clip has no audio stream, attaching silence", "index", i, "clip", clip)
		out := filepath.Join(c.tempDir, fmt.Sprintf("unit-%03d-silenced-%s.mp4", i, uuid.NewString()))
		context.AddTempFile(out)
		if _, err := c.tools.Runner.Run(context.GetContext(), c.tools.FFmpeg, media.AttachSilenceArgs(clip, out, c.opts)...); err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), fmt.Errorf("attaching silence to unit clip %d: %w", i, err))
			return
		}
		clips[i] = out
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetClipListParameterName(), clips)
	context.Add(cor.CtxOut, clips)
}
