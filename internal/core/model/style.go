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

package model

// CaptionPosition places the caption block vertically on the frame.
type CaptionPosition string

const (
	PositionTop    CaptionPosition = "top"
	PositionBottom CaptionPosition = "bottom"
	PositionCenter CaptionPosition = "center"
)

// CaptionStyle is the full typographic description of a caption track. It
// is normally loaded from the configuration's named style tables, but a
// caller may also pass an explicit style object. Effect names are kept as
// plain strings here: the caption compositor resolves them to its closed
// effect set and skips (with a warning) any name it does not recognize.
type CaptionStyle struct {
	Font           string          `json:"font" toml:"font"`
	FontSize       int             `json:"font_size" toml:"font_size"`
	TextColor      string          `json:"text_color" toml:"text_color"`           // #RRGGBB
	HighlightColor string          `json:"highlight_color" toml:"highlight_color"` // #RRGGBB, empty = no highlight
	Padding        int             `json:"padding" toml:"padding"`
	Position       CaptionPosition `json:"position" toml:"position"`
	Shadow         bool            `json:"shadow" toml:"shadow"`
	WordByWord     bool            `json:"word_by_word" toml:"word_by_word"`
	Effects        []string        `json:"effects" toml:"effects"`
	EffectParams   EffectParams    `json:"effect_params" toml:"effect_params"`
}

// EffectParams carries the tunable parameters for every effect the
// compositor knows. Zero values mean "use the effect's default"; the
// compositor, not this struct, owns the defaulting rules.
type EffectParams struct {
	Fade       FadeParams       `json:"fade" toml:"fade"`
	Scale      ScaleParams      `json:"scale" toml:"scale"`
	ColorShift ColorShiftParams `json:"color_shift" toml:"color_shift"`
	Wave       WaveParams       `json:"wave" toml:"wave"`
	Typewriter TypewriterParams `json:"typewriter" toml:"typewriter"`
}

// FadeParams controls the per-word opacity envelope.
type FadeParams struct {
	FadeInDuration  float64 `json:"fade_in_duration" toml:"fade_in_duration"`   // seconds
	FadeOutDuration float64 `json:"fade_out_duration" toml:"fade_out_duration"` // seconds
	MinOpacity      float64 `json:"min_opacity" toml:"min_opacity"`
	MaxOpacity      float64 `json:"max_opacity" toml:"max_opacity"`
}

// ScaleParams controls the triangular grow/shrink curve over a word's span.
type ScaleParams struct {
	MinScale      float64  `json:"min_scale" toml:"min_scale"`
	MaxScale      float64  `json:"max_scale" toml:"max_scale"`
	EmphasisScale float64  `json:"emphasis_scale" toml:"emphasis_scale"`
	Keywords      []string `json:"keywords" toml:"keywords"` // case-insensitive substring match
}

// ColorShiftParams selects a word color by keyword-list membership. Colors
// are #RRGGBB.
type ColorShiftParams struct {
	RegularColor        string   `json:"regular_color" toml:"regular_color"`
	EmphasisColor       string   `json:"emphasis_color" toml:"emphasis_color"`
	StrongEmphasisColor string   `json:"strong_emphasis_color" toml:"strong_emphasis_color"`
	EmphasisKeywords    []string `json:"emphasis_keywords" toml:"emphasis_keywords"`
	StrongKeywords      []string `json:"strong_keywords" toml:"strong_keywords"`
}

// WaveParams controls the decorative vertical oscillation.
type WaveParams struct {
	Amplitude float64 `json:"amplitude" toml:"amplitude"` // pixels
	Frequency float64 `json:"frequency" toml:"frequency"` // cycles per second
}

// TypewriterParams controls the character-reveal speed.
type TypewriterParams struct {
	CharsPerSecond float64 `json:"chars_per_second" toml:"chars_per_second"`
}
