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

// This file defines the final command of the render chain: moving the
// finished video to the job's output path with the moov atom relocated
// for streaming playback. The output path is the only artifact of a run
// that survives context cleanup, and on failure even it is removed so a
// truncated file is never mistaken for a finished render.
package commands

import (
	"log/slog"
	"os"

	"github.com/jaycherian/go-video-assembly/internal/core/cor"
	"github.com/jaycherian/go-video-assembly/internal/core/media"
	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// OutputFinalizer stream-copies the working video to its final location.
type OutputFinalizer struct {
	cor.BaseCommand
	tools *media.Toolchain
}

// NewOutputFinalizer is the constructor for the OutputFinalizer command.
func NewOutputFinalizer(name string, tools *media.Toolchain) *OutputFinalizer {
	return &OutputFinalizer{BaseCommand: *cor.NewBaseCommand(name), tools: tools}
}

// IsExecutable requires the working video and the render job.
func (c *OutputFinalizer) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(c.GetInputParam()) != nil &&
		context.Get(GetRenderJobParameterName()) != nil
}

// Execute produces the final deliverable at the job's output path.
func (c *OutputFinalizer) Execute(context cor.Context) {
	working := context.Get(c.GetInputParam()).(string)
	job := context.Get(GetRenderJobParameterName()).(*model.RenderJob)

	if _, err := c.tools.Runner.Run(context.GetContext(), c.tools.FFmpeg, media.FinalizeArgs(working, job.OutputPath)...); err != nil {
		if rmErr := os.Remove(job.OutputPath); rmErr != nil && !os.IsNotExist(rmErr) {
			slog.Warn("failed to remove partial output", "path", job.OutputPath, "error", rmErr)
		}
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), &EncodeError{Stage: "finalize", Err: err})
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	slog.Info("render complete", "job", job.ID, "output", job.OutputPath)
	context.Add(cor.CtxOut, job.OutputPath)
}
