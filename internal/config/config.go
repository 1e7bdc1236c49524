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

// Package config defines the application configuration, loaded from TOML
// files. It covers the toolchain paths, the output encoding parameters,
// and the named caption styles a render job can reference.
//
// Structs:
//   - Application: General application settings (name, temp directory).
//   - Tools: Paths to the ffmpeg and ffprobe executables.
//   - Output: Target resolution, frame rate, codecs and container.
//   - Transcription: Settings passed through to the external transcriber.
//   - Config: The top-level aggregate, including the caption style map.
package config

import (
	"fmt"
	"os"

	"github.com/jaycherian/go-video-assembly/internal/core/media"
	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// Application holds general application settings.
type Application struct {
	Name    string `toml:"name"`     // The application name, used in logs and telemetry.
	TempDir string `toml:"temp_dir"` // Directory for render-scoped intermediates; empty = os.TempDir().
}

// Tools holds the toolchain executable paths. Empty values resolve from PATH.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Output holds the caller-configurable encoding parameters for the final
// video. These are parameters, not contracts: a job may override them.
type Output struct {
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	FPS          int    `toml:"fps"`
	VideoCodec   string `toml:"video_codec"`
	Preset       string `toml:"preset"`
	CRF          int    `toml:"crf"`
	AudioCodec   string `toml:"audio_codec"`
	AudioBitrate string `toml:"audio_bitrate"`
	Container    string `toml:"container"`
}

// Transcription holds settings owned by the external speech-to-text
// engine. The assembly core never interprets them; they ride along so the
// orchestration layer has one configuration surface.
type Transcription struct {
	ModelSize string `toml:"model_size"`
}

// Config is the root configuration aggregate.
type Config struct {
	Application   Application                   `toml:"application"`
	Tools         Tools                         `toml:"tools"`
	Output        Output                        `toml:"output"`
	Transcription Transcription                 `toml:"transcription"`
	CaptionStyles map[string]model.CaptionStyle `toml:"caption_styles"`
}

// NewConfig creates a Config with initialized maps and the encoding
// defaults applied, so a partial TOML file still yields a usable setup.
func NewConfig() *Config {
	return &Config{
		Output: Output{
			Width:        1080,
			Height:       1920,
			FPS:          30,
			VideoCodec:   "libx264",
			Preset:       "fast",
			CRF:          22,
			AudioCodec:   "aac",
			AudioBitrate: "128k",
			Container:    "mp4",
		},
		CaptionStyles: make(map[string]model.CaptionStyle),
	}
}

// EncodeOptions converts the output section into the media layer's
// encoding options.
func (c *Config) EncodeOptions() media.EncodeOptions {
	return media.EncodeOptions{
		Width:        c.Output.Width,
		Height:       c.Output.Height,
		FPS:          c.Output.FPS,
		VideoCodec:   c.Output.VideoCodec,
		Preset:       c.Output.Preset,
		CRF:          c.Output.CRF,
		AudioCodec:   c.Output.AudioCodec,
		AudioBitrate: c.Output.AudioBitrate,
	}
}

// TempDir resolves the intermediates directory, falling back to the
// system temp directory when unconfigured.
func (c *Config) TempDir() string {
	if c.Application.TempDir == "" {
		return os.TempDir()
	}
	return c.Application.TempDir
}

// Style resolves a named caption style. The empty name resolves to the
// style named "default" when present.
func (c *Config) Style(name string) (model.CaptionStyle, error) {
	if name == "" {
		name = "default"
	}
	style, ok := c.CaptionStyles[name]
	if !ok {
		return model.CaptionStyle{}, fmt.Errorf("unknown caption style %q", name)
	}
	return style, nil
}
