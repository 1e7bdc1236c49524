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

// This file implements the typography effect functions. Every effect is a
// pure function from (word timing, current time, parameters) to a visual
// modifier; the effect kinds form a closed enum so the compositor's
// dispatch is an exhaustive switch rather than a name-keyed map.
package captions

import (
	"log/slog"
	"math"
	"strings"

	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// EffectKind enumerates the supported typography effects.
type EffectKind int

const (
	EffectFade EffectKind = iota
	EffectScale
	EffectColorShift
	EffectWave
	EffectTypewriter
)

// effectNames maps the configuration-facing names to kinds. Unknown names
// are not an error: ParseEffects skips them so a stale style file can
// never fail a frame.
var effectNames = map[string]EffectKind{
	"fade":        EffectFade,
	"scale":       EffectScale,
	"color_shift": EffectColorShift,
	"wave":        EffectWave,
	"typewriter":  EffectTypewriter,
}

// ParseEffects resolves the ordered effect-name list of a caption style to
// effect kinds, preserving order and dropping unrecognized names with a
// warning.
func ParseEffects(names []string) []EffectKind {
	out := make([]EffectKind, 0, len(names))
	for _, name := range names {
		kind, ok := effectNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			slog.Warn("skipping unknown caption effect", "effect", name)
			continue
		}
		out = append(out, kind)
	}
	return out
}

// Modifier is the composed visual state of one word at one timestamp.
// AllRunes as VisibleRunes means the whole word renders.
type Modifier struct {
	Opacity      float64 // 0..1 multiplier
	Scale        float64 // 1.0 = unscaled
	OffsetX      float64 // pixels
	OffsetY      float64 // pixels
	Color        string  // #RRGGBB, empty = style default
	VisibleRunes int     // prefix length, AllRunes = full word
}

// AllRunes marks a modifier that does not truncate the word.
const AllRunes = -1

func identity() Modifier {
	return Modifier{Opacity: 1, Scale: 1, VisibleRunes: AllRunes}
}

// Effect parameter defaults, applied when the corresponding configuration
// value is zero.
const (
	defaultFadeIn     = 0.2
	defaultFadeOut    = 0.2
	defaultMaxOpacity = 1.0
	defaultMinScale   = 1.0
	defaultMaxScale   = 1.2
	defaultEmphScale  = 1.3
	defaultAmplitude  = 10.0
	defaultFrequency  = 2.0
	defaultCharsPerS  = 15.0
)

const (
	defaultRegularColor  = "#FFFFFF"
	defaultEmphasisColor = "#FFD700"
	defaultStrongColor   = "#FF4500"
)

// fadeOpacity computes the fade effect's opacity for word w at time t.
// The envelope ramps 0..1 over the fade-in window at the word start and
// back down over the fade-out window after the word end, then is mapped
// into [minOpacity, maxOpacity]. When the next word starts within the
// fade-out window, the opacity is additionally capped by an anticipatory
// ramp toward the next word's start so two words are never fully opaque
// together.
func fadeOpacity(w model.WordTiming, next *model.WordTiming, t float64, p model.FadeParams) float64 {
	fadeIn := orDefault(p.FadeInDuration, defaultFadeIn)
	fadeOut := orDefault(p.FadeOutDuration, defaultFadeOut)
	maxOp := orDefault(p.MaxOpacity, defaultMaxOpacity)
	minOp := p.MinOpacity

	var raw float64
	switch {
	case t < w.Start:
		raw = 0
	case t <= w.End:
		raw = clamp((t-w.Start)/fadeIn, 0, 1)
	default:
		raw = clamp(1-(t-w.End)/fadeOut, 0, 1)
	}

	if next != nil && next.Start-t < fadeOut {
		anticipatory := clamp((next.Start-t)/fadeOut, 0, 1)
		raw = math.Min(raw, anticipatory)
	}

	return minOp + raw*(maxOp-minOp)
}

// scaleFactor computes the triangular scale curve: grow to maxScale over
// the first half of the word, shrink back over the second half. Keyword
// matches multiply the result by the emphasis factor.
func scaleFactor(w model.WordTiming, t float64, p model.ScaleParams) float64 {
	minScale := orDefault(p.MinScale, defaultMinScale)
	maxScale := orDefault(p.MaxScale, defaultMaxScale)

	duration := w.Duration()
	scale := minScale
	if duration > 0 {
		progress := clamp((t-w.Start)/duration, 0, 1)
		// Triangular: peak exactly at the word midpoint.
		peak := 1 - math.Abs(2*progress-1)
		scale = minScale + peak*(maxScale-minScale)
	}

	if matchesKeyword(w.Word, p.Keywords) {
		scale *= orDefault(p.EmphasisScale, defaultEmphScale)
	}
	return scale
}

// shiftColor picks the word color by keyword-list membership. It is
// evaluated once per active word; there is no time-based interpolation.
func shiftColor(w model.WordTiming, p model.ColorShiftParams) string {
	switch {
	case matchesKeyword(w.Word, p.StrongKeywords):
		return orDefaultStr(p.StrongEmphasisColor, defaultStrongColor)
	case matchesKeyword(w.Word, p.EmphasisKeywords):
		return orDefaultStr(p.EmphasisColor, defaultEmphasisColor)
	default:
		return orDefaultStr(p.RegularColor, defaultRegularColor)
	}
}

// waveOffset is purely decorative vertical motion, a function of absolute
// time and independent of word boundaries.
func waveOffset(t float64, p model.WaveParams) float64 {
	amplitude := orDefault(p.Amplitude, defaultAmplitude)
	frequency := orDefault(p.Frequency, defaultFrequency)
	return amplitude * math.Sin(2*math.Pi*frequency*t)
}

// typewriterVisible returns how many runes of the word are revealed at t,
// clamped to the word's length. The count is non-decreasing in t and
// reaches the full length by wordStart + len/charsPerSecond.
func typewriterVisible(w model.WordTiming, t float64, p model.TypewriterParams) int {
	cps := orDefault(p.CharsPerSecond, defaultCharsPerS)
	length := len([]rune(w.Word))
	if t < w.Start {
		return 0
	}
	visible := int(math.Floor((t - w.Start) * cps))
	if visible > length {
		visible = length
	}
	return visible
}

// Evaluate composes the configured effect stack for one word at one
// timestamp. Modifiers combine per the compositor rules: opacity and scale
// multiply, offsets add, color is last-writer-wins in list order, and the
// visible-prefix length is the smallest any effect requests.
//
// Inputs:
//   - effects: The ordered, already-parsed effect kinds of the style.
//   - params: The style's effect parameter tables.
//   - w: The word being rendered.
//   - next: The following word, or nil for the last word (fade uses it for
//     the anticipatory cap).
//   - t: The render timestamp in timeline seconds.
//
// Outputs:
//   - Modifier: The composed visual state for this frame.
func Evaluate(effects []EffectKind, params model.EffectParams, w model.WordTiming, next *model.WordTiming, t float64) Modifier {
	m := identity()
	for _, kind := range effects {
		switch kind {
		case EffectFade:
			m.Opacity *= fadeOpacity(w, next, t, params.Fade)
		case EffectScale:
			m.Scale *= scaleFactor(w, t, params.Scale)
		case EffectColorShift:
			m.Color = shiftColor(w, params.ColorShift)
		case EffectWave:
			m.OffsetY += waveOffset(t, params.Wave)
		case EffectTypewriter:
			visible := typewriterVisible(w, t, params.Typewriter)
			if m.VisibleRunes == AllRunes || visible < m.VisibleRunes {
				m.VisibleRunes = visible
			}
		}
	}
	return m
}

// FadeOutWindow returns how long a word keeps rendering after its end for
// the given style: the fade effect's fade-out duration when fade is in the
// stack, zero otherwise (the word disappears immediately).
func FadeOutWindow(effects []EffectKind, params model.EffectParams) float64 {
	for _, kind := range effects {
		if kind == EffectFade {
			return orDefault(params.Fade.FadeOutDuration, defaultFadeOut)
		}
	}
	return 0
}

func matchesKeyword(word string, keywords []string) bool {
	lower := strings.ToLower(word)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func orDefault(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

func orDefaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
