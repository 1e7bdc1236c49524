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

// This file defines the command that composites timed captions onto the
// assembled video.
//
// Logic Flow:
//  1. Receive the assembled video path and the job's transcript.
//  2. A job without word or sentence timings skips captioning entirely
//     and passes the assembled video through: the caption burn is the
//     only re-encode in the pipeline and is not paid for nothing.
//  3. Resolve the named caption style, build the subtitle compositor,
//     and render the transcript with its configured effects into an ASS
//     subtitle document.
//  4. Write the document to a temp file and burn it in with ffmpeg's
//     `ass` filter. The audio stream is copied untouched.
package commands

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jaycherian/go-video-assembly/internal/config"
	"github.com/jaycherian/go-video-assembly/internal/core/captions"
	"github.com/jaycherian/go-video-assembly/internal/core/cor"
	"github.com/jaycherian/go-video-assembly/internal/core/media"
	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// CaptionBurner renders the job transcript to an ASS subtitle document
// and burns it onto the assembled video.
type CaptionBurner struct {
	cor.BaseCommand
	tools   *media.Toolchain
	cfg     *config.Config
	tempDir string
}

// NewCaptionBurner is the constructor for the CaptionBurner command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - tools: The ffmpeg/ffprobe toolchain.
//   - cfg: Application config; supplies output geometry and the named
//     caption styles.
//   - tempDir: Directory for the subtitle document and captioned video.
//
// Outputs:
//   - *CaptionBurner: A pointer to the newly instantiated command.
func NewCaptionBurner(name string, tools *media.Toolchain, cfg *config.Config, tempDir string) *CaptionBurner {
	return &CaptionBurner{
		BaseCommand: *cor.NewBaseCommand(name),
		tools:       tools,
		cfg:         cfg,
		tempDir:     tempDir,
	}
}

// IsExecutable requires the assembled video and the render job.
func (c *CaptionBurner) IsExecutable(context cor.Context) bool {
	return context != nil &&
		context.Get(c.GetInputParam()) != nil &&
		context.Get(GetRenderJobParameterName()) != nil
}

// Execute burns captions, or passes the assembled video through when the
// transcript is empty.
func (c *CaptionBurner) Execute(context cor.Context) {
	assembled := context.Get(c.GetInputParam()).(string)
	job := context.Get(GetRenderJobParameterName()).(*model.RenderJob)

	if len(job.Transcript.Words) == 0 && len(job.Transcript.Sentences) == 0 {
		c.GetSuccessCounter().Add(context.GetContext(), 1)
		context.Add(cor.CtxOut, assembled)
		return
	}

	style, err := c.cfg.Style(job.Style)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	opts := c.cfg.EncodeOptions()
	compositor := captions.NewCompositor(style, opts.Width, opts.Height, opts.FPS)
	doc := compositor.Render(job.Transcript)

	assFile := filepath.Join(c.tempDir, uuid.NewString()+".ass")
	if err := os.WriteFile(assFile, []byte(doc), 0o644); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	context.AddTempFile(assFile)

	// Registered before the run so a burn that dies mid-encode cannot
	// strand its partial output.
	out := filepath.Join(c.tempDir, "captioned-"+uuid.NewString()+".mp4")
	context.AddTempFile(out)
	if _, err := c.tools.Runner.Run(context.GetContext(), c.tools.FFmpeg, media.BurnSubtitlesArgs(assembled, assFile, out, opts)...); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), &EncodeError{Stage: "caption burn", Err: err})
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, out)
}
