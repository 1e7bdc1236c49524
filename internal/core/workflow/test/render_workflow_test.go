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

// This file tests the end-to-end render workflow: the happy path over
// mixed A-Roll/B-Roll media, up-front validation of missing sources,
// abort-on-unit-failure, the caption skip for transcript-less jobs, and
// partial output removal when the final encode fails.
package workflow_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/go-video-assembly/internal/config"
	"github.com/jaycherian/go-video-assembly/internal/core/commands"
	"github.com/jaycherian/go-video-assembly/internal/core/media"
	"github.com/jaycherian/go-video-assembly/internal/core/model"
	"github.com/jaycherian/go-video-assembly/internal/core/workflow"
	test "github.com/jaycherian/go-video-assembly/internal/testutil"
)

// buildJob lays out three A-Roll videos plus a B-Roll video and a B-Roll
// image on disk and scripts the runner's probe answers for them.
func buildJob(t *testing.T, cfg *config.Config, runner *test.FakeRunner) *model.RenderJob {
	t.Helper()
	srcDir := t.TempDir()

	aroll := []string{
		test.WriteVideoFixture(t, srcDir, "aroll-0.mp4"),
		test.WriteVideoFixture(t, srcDir, "aroll-1.mp4"),
		test.WriteVideoFixture(t, srcDir, "aroll-2.mp4"),
	}
	brollVideo := test.WriteVideoFixture(t, srcDir, "broll-0.mp4")
	brollImage := test.WriteImageFixture(t, srcDir, "broll-1.png")

	for _, p := range aroll {
		runner.ProbeOutputs[p] = test.ProbeJSON(5.0, 1920, 1080, true)
	}
	// Shorter than its paired audio, so it must loop.
	runner.ProbeOutputs[brollVideo] = test.ProbeJSON(2.0, 1280, 720, false)

	broll := model.StatusMap{
		model.SegmentKey(0): {State: model.StateComplete, MediaPath: brollVideo},
		model.SegmentKey(1): {State: model.StateComplete, MediaPath: brollImage},
	}

	return &model.RenderJob{
		ID:         "render-test-001",
		ARoll:      test.StatusMapFor(aroll...),
		BRoll:      broll,
		Transcript: test.Transcript(),
		Style:      "default",
		OutputPath: filepath.Join(t.TempDir(), "final.mp4"),
	}
}

func TestRenderWorkflowEndToEnd(t *testing.T) {
	traceContext, span := tracer.Start(ctx, "render-workflow-test")
	defer span.End()

	cfg := test.GetConfig(t)
	runner := test.NewFakeRunner(cfg.Output.Width, cfg.Output.Height)
	tools := media.NewToolchain(runner, cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	job := buildJob(t, cfg, runner)

	render := workflow.NewRenderWorkflow(cfg, tools)
	out, err := render.Render(traceContext, job)
	require.NoError(t, err)
	assert.Equal(t, job.OutputPath, out)

	// The deliverable exists and survived cleanup.
	_, statErr := os.Stat(job.OutputPath)
	assert.NoError(t, statErr)

	// Three units plus silence handling: the short B-Roll video looped,
	// the image used -loop.
	assert.Equal(t, 1, runner.CallCount("-stream_loop"))
	assert.Equal(t, 1, runner.CallCount("-loop"))

	// One concat pass and one caption burn.
	assert.Equal(t, 1, runner.CallCount("concat-"))
	assert.Equal(t, 1, runner.CallCount(".ass"))

	// Every intermediate was cleaned up with the chain context.
	leftovers, globErr := filepath.Glob(filepath.Join(cfg.TempDir(), "*"))
	require.NoError(t, globErr)
	assert.Empty(t, leftovers)
}

func TestRenderAggregatesMissingMedia(t *testing.T) {
	traceContext, span := tracer.Start(ctx, "render-missing-media-test")
	defer span.End()

	cfg := test.GetConfig(t)
	runner := test.NewFakeRunner(cfg.Output.Width, cfg.Output.Height)
	tools := media.NewToolchain(runner, cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	job := buildJob(t, cfg, runner)

	// Break two sources: both must be reported in one pass.
	missing := job.ARoll[model.SegmentKey(1)]
	missing.MediaPath = filepath.Join(t.TempDir(), "gone-1.mp4")
	job.ARoll[model.SegmentKey(1)] = missing

	missing = job.BRoll[model.SegmentKey(0)]
	missing.MediaPath = filepath.Join(t.TempDir(), "gone-2.mp4")
	job.BRoll[model.SegmentKey(0)] = missing

	render := workflow.NewRenderWorkflow(cfg, tools)
	_, err := render.Render(traceContext, job)
	require.Error(t, err)

	var mediaErr *commands.MissingMediaError
	require.True(t, errors.As(err, &mediaErr))
	assert.Len(t, mediaErr.Missing, 2)

	// Validation failed before any encoding started.
	assert.Equal(t, 0, runner.CallCount("unit-"))
}

func TestRenderAbortsOnUnitFailure(t *testing.T) {
	traceContext, span := tracer.Start(ctx, "render-unit-failure-test")
	defer span.End()

	cfg := test.GetConfig(t)
	runner := test.NewFakeRunner(cfg.Output.Width, cfg.Output.Height)
	tools := media.NewToolchain(runner, cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	job := buildJob(t, cfg, runner)

	runner.FailWhen["unit-"] = errors.New("encoder exploded")

	render := workflow.NewRenderWorkflow(cfg, tools)
	_, err := render.Render(traceContext, job)
	require.Error(t, err)

	var clipErr *commands.ClipProcessingError
	require.True(t, errors.As(err, &clipErr))

	// A failed unit never reaches concatenation.
	assert.Equal(t, 0, runner.CallCount("concat-"))
	_, statErr := os.Stat(job.OutputPath)
	assert.True(t, os.IsNotExist(statErr))

	// The dying encodes left partial clip files behind; cleanup removes
	// them along with the successfully rendered intermediates.
	leftovers, globErr := filepath.Glob(filepath.Join(cfg.TempDir(), "*"))
	require.NoError(t, globErr)
	assert.Empty(t, leftovers)
}

func TestRenderRejectsDegenerateSourceBeforeEncoding(t *testing.T) {
	traceContext, span := tracer.Start(ctx, "render-degenerate-source-test")
	defer span.End()

	cfg := test.GetConfig(t)
	runner := test.NewFakeRunner(cfg.Output.Width, cfg.Output.Height)
	tools := media.NewToolchain(runner, cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	job := buildJob(t, cfg, runner)

	// A sliver of a video whose width scales to zero inside the target
	// frame. It probes fine, so only the fit check can catch it.
	sliver := job.ARoll[model.SegmentKey(0)].MediaPath
	runner.ProbeOutputs[sliver] = test.ProbeJSON(5.0, 2, 4000, true)

	render := workflow.NewRenderWorkflow(cfg, tools)
	_, err := render.Render(traceContext, job)
	require.Error(t, err)

	var clipErr *commands.ClipProcessingError
	require.True(t, errors.As(err, &clipErr))
	assert.Equal(t, 0, clipErr.Index)

	// Rejected before a single encode was attempted on it.
	assert.Equal(t, 0, runner.CallCount("unit-"))
}

func TestRenderLeavesJobStatusMapsUntouched(t *testing.T) {
	traceContext, span := tracer.Start(ctx, "render-read-only-input-test")
	defer span.End()

	cfg := test.GetConfig(t)
	runner := test.NewFakeRunner(cfg.Output.Width, cfg.Output.Height)
	tools := media.NewToolchain(runner, cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	job := buildJob(t, cfg, runner)

	arollBefore := make(model.StatusMap, len(job.ARoll))
	for k, v := range job.ARoll {
		arollBefore[k] = v
	}
	brollBefore := make(model.StatusMap, len(job.BRoll))
	for k, v := range job.BRoll {
		brollBefore[k] = v
	}

	render := workflow.NewRenderWorkflow(cfg, tools)
	_, err := render.Render(traceContext, job)
	require.NoError(t, err)

	// The caller owns the status maps; the render only reads them. In
	// particular validation keeps its sniffed content types to itself.
	assert.Equal(t, arollBefore, job.ARoll)
	assert.Equal(t, brollBefore, job.BRoll)
}

func TestRenderSkipsCaptionsWithoutTranscript(t *testing.T) {
	traceContext, span := tracer.Start(ctx, "render-no-transcript-test")
	defer span.End()

	cfg := test.GetConfig(t)
	runner := test.NewFakeRunner(cfg.Output.Width, cfg.Output.Height)
	tools := media.NewToolchain(runner, cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	job := buildJob(t, cfg, runner)
	job.Transcript = model.Transcript{}

	render := workflow.NewRenderWorkflow(cfg, tools)
	out, err := render.Render(traceContext, job)
	require.NoError(t, err)
	assert.Equal(t, job.OutputPath, out)

	// No subtitle document, no burn pass.
	assert.Equal(t, 0, runner.CallCount(".ass"))
}

func TestRenderRemovesPartialOutputOnFinalizeFailure(t *testing.T) {
	traceContext, span := tracer.Start(ctx, "render-finalize-failure-test")
	defer span.End()

	cfg := test.GetConfig(t)
	runner := test.NewFakeRunner(cfg.Output.Width, cfg.Output.Height)
	tools := media.NewToolchain(runner, cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	job := buildJob(t, cfg, runner)

	runner.FailWhen["final.mp4"] = errors.New("disk full")

	render := workflow.NewRenderWorkflow(cfg, tools)
	_, err := render.Render(traceContext, job)
	require.Error(t, err)

	var encErr *commands.EncodeError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, "finalize", encErr.Stage)

	_, statErr := os.Stat(job.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}
