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

// This file defines the command that verifies every completed source file
// before any ffmpeg work starts.
//
// Logic Flow:
// The validator is the gatekeeper of the render chain. A missing or
// corrupt source discovered mid-assembly wastes every clip encoded before
// it, so all validation happens up front and all failures are reported
// together:
//
//  1. Receive the `RenderJob` from the context and walk the completed
//     A-Roll and B-Roll segments in order.
//  2. For each media path: confirm the file exists, sniff its magic bytes
//     to classify it as video or image, and probe videos with ffprobe to
//     capture duration and dimensions for the downstream renderer.
//  3. A-Roll entries must be videos; an A-Roll image is a validation
//     failure, not a degradation.
//  4. Every failure is collected rather than returned immediately. If any
//     were found, a single `MissingMediaError` naming all of them aborts
//     the chain.
//  5. On success the classification and probe results are placed in the
//     context as a `media.Info` map so later commands never probe the
//     same source twice. The job's own status maps are caller-owned,
//     read-only input and are never written to.
package commands

import (
	"fmt"
	"os"

	"github.com/jaycherian/go-video-assembly/internal/core/cor"
	"github.com/jaycherian/go-video-assembly/internal/core/media"
	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// MediaValidator checks existence, type and probe-ability of every
// completed source file in a render job.
type MediaValidator struct {
	cor.BaseCommand
	tools *media.Toolchain
}

// NewMediaValidator is the constructor for the MediaValidator command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - tools: The ffmpeg/ffprobe toolchain used for probing.
//
// Outputs:
//   - *MediaValidator: A pointer to the newly instantiated command.
func NewMediaValidator(name string, tools *media.Toolchain) *MediaValidator {
	return &MediaValidator{BaseCommand: *cor.NewBaseCommand(name), tools: tools}
}

// Execute validates all completed segments and publishes the probe results.
func (c *MediaValidator) Execute(context cor.Context) {
	job := context.Get(c.GetInputParam()).(*model.RenderJob)

	var missing []string
	infos := make(map[string]media.Info)

	validate := func(statuses model.StatusMap, kind model.SegmentKind) {
		for _, idx := range model.Completed(statuses) {
			key := model.SegmentKey(idx)
			path := statuses[key].MediaPath

			if _, err := os.Stat(path); err != nil {
				missing = append(missing, fmt.Sprintf("%s %s: %v", kind, key, err))
				continue
			}

			contentType, err := media.Classify(path)
			if err != nil {
				missing = append(missing, fmt.Sprintf("%s %s: %v", kind, key, err))
				continue
			}
			if kind == model.SegmentARoll && contentType != model.ContentVideo {
				missing = append(missing, fmt.Sprintf("%s %s: %s is not a video", kind, key, path))
				continue
			}
			// The sniffed type travels in the info map: the job's status
			// maps belong to the caller and are never written to.
			if contentType != model.ContentVideo {
				infos[path] = media.Info{ContentType: contentType}
				continue
			}
			info, err := c.tools.Probe(context.GetContext(), path)
			if err != nil {
				missing = append(missing, fmt.Sprintf("%s %s: %v", kind, key, err))
				continue
			}
			info.ContentType = contentType
			infos[path] = info
		}
	}

	validate(job.ARoll, model.SegmentARoll)
	validate(job.BRoll, model.SegmentBRoll)

	if len(missing) > 0 {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), &MissingMediaError{Missing: missing})
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetRenderJobParameterName(), job)
	context.Add(GetMediaInfoParameterName(), infos)
	context.Add(cor.CtxOut, job)
}
