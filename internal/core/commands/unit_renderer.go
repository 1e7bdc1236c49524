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

// This file defines the command that renders every assembly unit into a
// normalized, audio-complete intermediate clip.
//
// Logic Flow:
// Unit rendering is the expensive part of a run: one ffmpeg encode per
// unit. Units are independent of each other, so they are processed by a
// worker pool:
//
//  1. Receive the planned `Sequence` and the probe results from the
//     context.
//  2. Build every unit's ffmpeg invocation (letterbox normalization,
//     loop/trim fitting, audio attachment). This pass is serial on
//     purpose: the reconciler's audio cache guarantees each A-Roll is
//     decoded once, and the extracted tracks are shared inputs for the
//     encode stage. Each probed source is checked against the target
//     frame here, so a degenerate clip fails by name instead of deep
//     inside a filter graph, and every planned output path is registered
//     as a temp file before its encode starts: ffmpeg leaves a partial
//     file behind when it dies mid-encode, and that partial must not
//     outlive the render.
//  3. Abort on the first pre-flight failure in sequence order; otherwise
//     feed the jobs to a pool of `unitWorker` goroutines, each running
//     its invocations and sending a `unitResult` back.
//  4. Collect results and reassemble them in sequence order.
//  5. Any unit failure aborts the chain with a `ClipProcessingError`
//     naming the unit; a partial sequence is never passed downstream.
package commands

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jaycherian/go-video-assembly/internal/core/cor"
	"github.com/jaycherian/go-video-assembly/internal/core/media"
	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// UnitRenderer encodes each assembly unit into a uniform intermediate
// clip using a bounded pool of ffmpeg workers.
type UnitRenderer struct {
	cor.BaseCommand
	tools           *media.Toolchain
	opts            media.EncodeOptions
	tempDir         string
	numberOfWorkers int
}

// NewUnitRenderer is the constructor for the UnitRenderer command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - tools: The ffmpeg/ffprobe toolchain.
//   - opts: The uniform encode settings every unit is rendered with.
//   - tempDir: Directory for intermediate clips and audio tracks.
//   - numberOfWorkers: The size of the worker pool. A size of 1 renders
//     units strictly in sequence.
//
// Outputs:
//   - *UnitRenderer: A pointer to the newly instantiated command.
func NewUnitRenderer(name string, tools *media.Toolchain, opts media.EncodeOptions, tempDir string, numberOfWorkers int) *UnitRenderer {
	if numberOfWorkers < 1 {
		numberOfWorkers = 1
	}
	return &UnitRenderer{
		BaseCommand:     *cor.NewBaseCommand(name),
		tools:           tools,
		opts:            opts,
		tempDir:         tempDir,
		numberOfWorkers: numberOfWorkers,
	}
}

// unitJob carries everything one worker needs to encode one unit.
type unitJob struct {
	index int
	unit  model.AssemblyUnit
	args  []string
	out   string
	err   error
}

// unitResult reports one finished (or failed) unit encode.
type unitResult struct {
	index int
	out   string
	err   error
}

// IsExecutable requires both the planned sequence and the probe results.
func (c *UnitRenderer) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(c.GetInputParam()) != nil &&
		context.Get(GetMediaInfoParameterName()) != nil
}

// Execute renders every unit through the worker pool and publishes the
// ordered clip list.
func (c *UnitRenderer) Execute(context cor.Context) {
	sequence := context.Get(c.GetInputParam()).(model.Sequence)
	infos := context.Get(GetMediaInfoParameterName()).(map[string]media.Info)

	reconciler := media.NewReconciler(c.tools, c.opts, c.tempDir)

	// Build all jobs up front. Audio extraction happens here, serially,
	// so the reconciler cache is never written from two goroutines. The
	// output path is registered for cleanup before the encode runs so a
	// failed encode cannot strand its partial file.
	jobList := make([]*unitJob, 0, len(sequence))
	for i, unit := range sequence {
		job := &unitJob{
			index: i,
			unit:  unit,
			out:   filepath.Join(c.tempDir, fmt.Sprintf("unit-%03d-%s.mp4", i, uuid.NewString())),
		}
		context.AddTempFile(job.out)
		switch unit.Kind {
		case model.UnitARollFull:
			if err := c.fitCheck(infos[unit.ARollPath]); err != nil {
				job.err = fmt.Errorf("aroll %s: %w", unit.ARollPath, err)
				break
			}
			job.args = media.ARollUnitArgs(unit.ARollPath, job.out, c.opts)
		case model.UnitBRollWithARollAudio:
			visual := infos[unit.BRollPath]
			isImage := visual.ContentType == model.ContentImage
			if !isImage {
				if err := c.fitCheck(visual); err != nil {
					job.err = fmt.Errorf("broll %s: %w", unit.BRollPath, err)
					break
				}
			}
			audio, err := reconciler.AudioFor(context.GetContext(), unit.ARollPath)
			if err != nil {
				job.err = err
				break
			}
			context.AddTempFile(audio.Path)
			plan, err := media.PlanReconcile(visual.Duration, audio.Duration, isImage)
			if err != nil {
				job.err = err
				break
			}
			job.args = media.BRollUnitArgs(plan, unit.BRollPath, audio.Path, job.out, c.opts)
		default:
			job.err = fmt.Errorf("unknown unit kind %q", unit.Kind)
		}
		jobList = append(jobList, job)
	}

	// Pre-flight failures (degenerate dimensions, unextractable audio,
	// unfittable durations) are all known here; abort on the first one
	// in sequence order rather than spending encode time on the rest.
	for _, job := range jobList {
		if job.err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), &ClipProcessingError{
				Index: job.index,
				Unit:  job.unit,
				Err:   job.err,
			})
			return
		}
	}

	var wg sync.WaitGroup
	jobs := make(chan *unitJob, len(jobList))
	results := make(chan *unitResult, len(jobList))

	for w := 0; w < c.numberOfWorkers; w++ {
		wg.Add(1)
		go c.unitWorker(context, jobs, results, &wg)
	}

	for _, job := range jobList {
		jobs <- job
	}
	close(jobs)

	wg.Wait()
	close(results)

	clips := make([]string, len(jobList))
	var firstFailure *unitResult
	for r := range results {
		if r.err != nil {
			if firstFailure == nil || r.index < firstFailure.index {
				firstFailure = r
			}
			continue
		}
		clips[r.index] = r.out
	}

	if firstFailure != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), &ClipProcessingError{
			Index: firstFailure.index,
			Unit:  sequence[firstFailure.index],
			Err:   firstFailure.err,
		})
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetClipListParameterName(), clips)
	context.Add(cor.CtxOut, clips)
}

// fitCheck rejects a probed source whose aspect ratio degenerates to a
// zero-sized image at the target resolution, before any encode time is
// spent on it. ffmpeg's scale filter would fail on such a source anyway,
// but with an error naming a filter graph instead of the offending clip.
func (c *UnitRenderer) fitCheck(info media.Info) error {
	_, _, err := media.FitSize(info.Width, info.Height, c.opts.Width, c.opts.Height)
	return err
}

// unitWorker pulls unit jobs off the channel and runs their ffmpeg
// invocations until the channel is closed.
func (c *UnitRenderer) unitWorker(context cor.Context, jobs <-chan *unitJob, results chan<- *unitResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for j := range jobs {
		ctx, span := c.GetTracer().Start(context.GetContext(), fmt.Sprintf("%s_unit_%d", c.GetName(), j.index))
		span.SetAttributes(
			attribute.Int("sequence", j.index),
			attribute.String("kind", string(j.unit.Kind)),
		)

		if _, err := c.tools.Runner.Run(ctx, c.tools.FFmpeg, j.args...); err != nil {
			span.SetStatus(codes.Error, "unit encode failed")
			span.End()
			results <- &unitResult{index: j.index, err: err}
			continue
		}

		span.SetStatus(codes.Ok, "unit encoded")
		span.End()
		results <- &unitResult{index: j.index, out: j.out}
	}
}
