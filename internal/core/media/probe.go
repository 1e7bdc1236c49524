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

package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// Info is the metadata the pipeline needs from one media file.
type Info struct {
	// ContentType is the sniffed classification, filled in by the
	// validation pass rather than by ffprobe.
	ContentType model.ContentType
	Duration    float64 // seconds; 0 for still images
	Width       int
	Height      int
	HasAudio    bool
}

// probeOutput mirrors the subset of ffprobe's JSON output we consume.
type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads duration, dimensions and audio presence from a media file.
//
// Inputs:
//   - ctx: Cancellation context for the ffprobe invocation.
//   - path: The media file to inspect.
//
// Outputs:
//   - Info: Parsed metadata.
//   - error: When ffprobe fails or its output names no video stream.
func (t *Toolchain) Probe(ctx context.Context, path string) (Info, error) {
	out, err := t.Runner.Run(ctx, t.FFprobe, ProbeArgs(path)...)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return ParseProbeOutput(out, path)
}

// ProbeArgs builds the ffprobe argument list for one file.
func ProbeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
}

// ParseProbeOutput decodes ffprobe JSON into Info. Split from Probe so the
// parser is testable against canned output.
func ParseProbeOutput(raw []byte, path string) (Info, error) {
	var decoded probeOutput
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Info{}, fmt.Errorf("probe %s: unparseable ffprobe output: %w", path, err)
	}

	info := Info{}
	for _, stream := range decoded.Streams {
		switch stream.CodecType {
		case "video":
			info.Width = stream.Width
			info.Height = stream.Height
		case "audio":
			info.HasAudio = true
		}
	}
	if info.Width == 0 || info.Height == 0 {
		return Info{}, fmt.Errorf("probe %s: no video stream with valid dimensions", path)
	}
	if d := decoded.Format.Duration; d != "" {
		parsed, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return Info{}, fmt.Errorf("probe %s: bad duration %q: %w", path, d, err)
		}
		info.Duration = parsed
	}
	return info, nil
}
