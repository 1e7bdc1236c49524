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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the end-to-end render workflow: validate sources, plan the assembly
// order, encode each unit, enforce the audio invariant, concatenate, burn
// captions and finalize the output.
package workflow

import (
	"context"
	"fmt"

	"github.com/jaycherian/go-video-assembly/internal/config"
	"github.com/jaycherian/go-video-assembly/internal/core/commands"
	"github.com/jaycherian/go-video-assembly/internal/core/cor"
	"github.com/jaycherian/go-video-assembly/internal/core/media"
	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// DefaultUnitWorkers is the worker pool size for unit encodes. The
// default keeps the render sequential: ffmpeg is already multithreaded
// internally, and callers that want to fan units out can construct a
// UnitRenderer with a wider pool.
const DefaultUnitWorkers = 1

// RenderWorkflow orchestrates one complete video assembly run. It is
// built once per configuration and can execute any number of jobs.
type RenderWorkflow struct {
	cor.BaseCommand
	cfg   *config.Config
	tools *media.Toolchain
	chain cor.Chain
}

// Execute runs the render chain against the shared context.
//
// Inputs:
//   - context: The chain of responsibility context for this execution,
//     carrying the render job and passing state between commands.
func (w *RenderWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain constructs the fixed command sequence of a render.
func (w *RenderWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	opts := w.cfg.EncodeOptions()
	tempDir := w.cfg.TempDir()

	// Step 1: Verify every completed source file before any encoding work.
	out.AddCommand(commands.NewMediaValidator("media-validator", w.tools))

	// Step 2: Pair B-Roll visuals with A-Roll anchors into an ordered sequence.
	out.AddCommand(commands.NewSequencePlanner("sequence-planner"))

	// Step 3: Encode each unit into a normalized clip.
	out.AddCommand(commands.NewUnitRenderer("unit-renderer", w.tools, opts, tempDir, DefaultUnitWorkers))

	// Step 4: Guarantee every clip carries an audio stream before joining.
	out.AddCommand(commands.NewAudioGuard("audio-guard", w.tools, opts, tempDir))

	// Step 5: Stream-copy the clips into one continuous video.
	out.AddCommand(commands.NewClipConcatenator("clip-concatenator", w.tools, tempDir))

	// Step 6: Burn the timed captions, if the job carries a transcript.
	out.AddCommand(commands.NewCaptionBurner("caption-burner", w.tools, w.cfg, tempDir))

	// Step 7: Deliver to the output path with streaming-friendly layout.
	out.AddCommand(commands.NewOutputFinalizer("output-finalizer", w.tools))

	w.chain = out
}

// Render is the programmatic entry point: it executes the workflow for
// one job with a fresh context, cleans up every intermediate artifact,
// and returns the first error the chain recorded.
//
// Inputs:
//   - ctx: Cancellation context for the whole run.
//   - job: The render job to execute.
//
// Outputs:
//   - string: The finished output path on success.
//   - error: The first command failure, or nil.
func (w *RenderWorkflow) Render(ctx context.Context, job *model.RenderJob) (string, error) {
	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()

	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, job)
	w.Execute(chainCtx)

	if chainCtx.HasErrors() {
		for name, err := range chainCtx.GetErrors() {
			return "", fmt.Errorf("%s: %w", name, err)
		}
	}

	// The chain pipes each command's CtxOut into CtxIn, so the final
	// output path ends up under the input key.
	out, ok := chainCtx.Get(cor.CtxIn).(string)
	if !ok {
		return "", fmt.Errorf("render chain produced no output")
	}
	return out, nil
}

// NewRenderWorkflow is the constructor for the RenderWorkflow.
//
// Inputs:
//   - cfg: The application configuration (tool paths, output encode
//     settings, caption styles, temp directory).
//   - tools: The ffmpeg/ffprobe toolchain; pass nil to use the
//     executables named in the config via the default runner.
//
// Returns:
//   - A pointer to a newly created and fully initialized RenderWorkflow.
func NewRenderWorkflow(cfg *config.Config, tools *media.Toolchain) *RenderWorkflow {
	if tools == nil {
		tools = media.NewToolchain(nil, cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	}
	out := &RenderWorkflow{
		BaseCommand: *cor.NewBaseCommand("render-workflow"),
		cfg:         cfg,
		tools:       tools,
	}
	out.initializeChain()
	return out
}
