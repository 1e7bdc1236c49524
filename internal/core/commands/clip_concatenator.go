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

// This file defines the command that joins the rendered unit clips into
// one continuous video using ffmpeg's concat demuxer. Every unit was
// encoded with identical codec, resolution, frame rate and track layout,
// so the join is a stream copy with no re-encode.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jaycherian/go-video-assembly/internal/core/cor"
	"github.com/jaycherian/go-video-assembly/internal/core/media"
)

// ClipConcatenator stream-copies the ordered unit clips into a single
// assembled video.
type ClipConcatenator struct {
	cor.BaseCommand
	tools   *media.Toolchain
	tempDir string
}

// NewClipConcatenator is the constructor for the ClipConcatenator command.
func NewClipConcatenator(name string, tools *media.Toolchain, tempDir string) *ClipConcatenator {
	return &ClipConcatenator{
		BaseCommand: *cor.NewBaseCommand(name),
		tools:       tools,
		tempDir:     tempDir,
	}
}

// Execute writes the concat list file, runs the demuxer, and publishes
// the assembled video path.
func (c *ClipConcatenator) Execute(context cor.Context) {
	clips := context.Get(c.GetInputParam()).([]string)
	if len(clips) == 0 {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("no unit clips to concatenate"))
		return
	}

	listFile := filepath.Join(c.tempDir, fmt.Sprintf("concat-%s.txt", uuid.NewString()))
	if err := os.WriteFile(listFile, []byte(media.ConcatListContent(clips)), 0o644); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("writing concat list: %w", err))
		return
	}
	context.AddTempFile(listFile)

	// Registered before the run: a demuxer failure mid-copy still leaves
	// a partial output file that must be cleaned up with the rest.
	out := filepath.Join(c.tempDir, fmt.Sprintf("assembled-%s.mp4", uuid.NewString()))
	context.AddTempFile(out)
	if _, err := c.tools.Runner.Run(context.GetContext(), c.tools.FFmpeg, media.ConcatArgs(listFile, out)...); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), &EncodeError{Stage: "concatenation", Err: err})
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetAssembledFileParameterName(), out)
	context.Add(cor.CtxOut, out)
}
