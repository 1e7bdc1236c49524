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

// Package test provides utility functions and mock data to support the
// application's test suite: a ready-made test configuration, media file
// fixtures with real magic bytes so type sniffing works, and a scripted
// ffmpeg/ffprobe stand-in so workflows run without the binaries installed.
package test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/go-video-assembly/internal/config"
	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// HandleErr is a simple test helper function that checks if an error is
// not nil. If an error exists, it fails the test immediately.
//
// Inputs:
//   - err: The error to check.
//   - t: The *testing.T object from the current test.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetConfig returns a fully populated configuration for tests, with the
// temp directory pointed at the given test's temp dir and a pair of
// caption styles exercising every effect.
func GetConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Application.Name = "video-assembly-test"
	cfg.Application.TempDir = t.TempDir()
	cfg.CaptionStyles = map[string]model.CaptionStyle{
		"default": {
			Font:           "Arial",
			FontSize:       64,
			TextColor:      "#FFFFFF",
			HighlightColor: "#FFD700",
			Position:       model.PositionBottom,
			Padding:        120,
			WordByWord:     true,
			Effects:        []string{"fade", "scale"},
		},
		"karaoke": {
			Font:           "Impact",
			FontSize:       72,
			TextColor:      "#FFFFFF",
			HighlightColor: "#FF4500",
			Position:       model.PositionCenter,
			WordByWord:     true,
			Effects:        []string{"fade", "color_shift", "wave", "typewriter"},
		},
	}
	return cfg
}

// mp4Header is a minimal ISO base media file header: a 24-byte ftyp box
// announcing the isom brand. Enough for magic-byte sniffing to classify
// the file as a video.
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
	'i', 's', 'o', 'm', 'i', 's', 'o', '2',
}

// pngHeader is the fixed 8-byte PNG signature.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// WriteVideoFixture creates a file that sniffs as an MP4 video.
func WriteVideoFixture(t *testing.T, dir, name string) string {
	t.Helper()
	return writeFixture(t, dir, name, mp4Header)
}

// WriteImageFixture creates a file that sniffs as a PNG image.
func WriteImageFixture(t *testing.T, dir, name string) string {
	t.Helper()
	return writeFixture(t, dir, name, pngHeader)
}

func writeFixture(t *testing.T, dir, name string, header []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, header, 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}

// ProbeJSON builds the ffprobe output the real tool would emit for a
// clip with the given duration, dimensions and audio presence.
func ProbeJSON(duration float64, width, height int, hasAudio bool) string {
	audio := ""
	if hasAudio {
		audio = `,{"codec_type":"audio","sample_rate":"44100","channels":2}`
	}
	return fmt.Sprintf(`{
  "streams": [
    {"codec_type":"video","width":%d,"height":%d}%s
  ],
  "format": {"duration":"%.3f"}
}`, width, height, audio, duration)
}

// StatusMapFor builds a dense StatusMap of completed video segments from
// the given paths, matching the shape upstream stages produce.
func StatusMapFor(paths ...string) model.StatusMap {
	statuses := make(model.StatusMap, len(paths))
	for i, p := range paths {
		statuses[model.SegmentKey(i)] = model.ContentStatus{
			State:       model.StateComplete,
			MediaPath:   p,
			ContentType: model.ContentVideo,
		}
	}
	return statuses
}

// Transcript returns a short word-timed transcript used across caption
// and workflow tests.
func Transcript() model.Transcript {
	return model.Transcript{
		Words: []model.WordTiming{
			{Word: "making", Start: 0.00, End: 0.40},
			{Word: "videos", Start: 0.40, End: 0.85},
			{Word: "is", Start: 0.85, End: 1.00},
			{Word: "really", Start: 1.00, End: 1.45},
			{Word: "fun", Start: 1.45, End: 1.90},
		},
		Sentences: []model.SentenceTiming{
			{Text: "making videos is really fun", Start: 0.00, End: 1.90},
		},
	}
}
