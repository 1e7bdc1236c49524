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

package captions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

func TestParseEffectsSkipsUnknownNames(t *testing.T) {
	kinds := ParseEffects([]string{"fade", "sparkle", "SCALE", " wave "})
	assert.Equal(t, []EffectKind{EffectFade, EffectScale, EffectWave}, kinds)

	assert.Empty(t, ParseEffects(nil))
}

func TestFadeOpacityEnvelope(t *testing.T) {
	w := model.WordTiming{Word: "hello", Start: 1.0, End: 2.0}
	p := model.FadeParams{FadeInDuration: 0.2, FadeOutDuration: 0.2, MaxOpacity: 1.0}

	// Zero before the start, full after the fade-in completes.
	assert.Equal(t, 0.0, fadeOpacity(w, nil, 0.5, p))
	assert.InDelta(t, 0.5, fadeOpacity(w, nil, 1.1, p), 1e-9)
	assert.Equal(t, 1.0, fadeOpacity(w, nil, 1.2, p))
	assert.Equal(t, 1.0, fadeOpacity(w, nil, 1.9, p))

	// Ramps back down over the fade-out window after the end.
	assert.InDelta(t, 0.5, fadeOpacity(w, nil, 2.1, p), 1e-9)
	assert.Equal(t, 0.0, fadeOpacity(w, nil, 2.3, p))
}

func TestFadeOpacityStaysWithinBounds(t *testing.T) {
	w := model.WordTiming{Word: "hello", Start: 1.0, End: 2.0}
	p := model.FadeParams{FadeInDuration: 0.2, FadeOutDuration: 0.2, MinOpacity: 0.3, MaxOpacity: 0.9}

	for ts := 0.0; ts <= 3.0; ts += 0.01 {
		op := fadeOpacity(w, nil, ts, p)
		assert.GreaterOrEqual(t, op, 0.3)
		assert.LessOrEqual(t, op, 0.9)
	}
}

func TestFadeOpacityAnticipatesNextWord(t *testing.T) {
	// "hello" trails into the start of "world"; as t approaches the next
	// start the opacity is capped so both words are never fully opaque.
	w := model.WordTiming{Word: "hello", Start: 0.0, End: 1.0}
	next := model.WordTiming{Word: "world", Start: 1.1, End: 1.5}
	p := model.FadeParams{FadeInDuration: 0.2, FadeOutDuration: 0.2, MaxOpacity: 1.0}

	unconstrained := fadeOpacity(w, nil, 1.05, p)
	capped := fadeOpacity(w, &next, 1.05, p)
	assert.Less(t, capped, unconstrained)
	assert.InDelta(t, 0.25, capped, 1e-9)
}

func TestScaleFactorPeaksAtMidpoint(t *testing.T) {
	w := model.WordTiming{Word: "hello", Start: 0.0, End: 1.0}
	p := model.ScaleParams{MinScale: 1.0, MaxScale: 1.2}

	assert.InDelta(t, 1.0, scaleFactor(w, 0.0, p), 1e-9)
	assert.InDelta(t, 1.2, scaleFactor(w, 0.5, p), 1e-9)
	assert.InDelta(t, 1.0, scaleFactor(w, 1.0, p), 1e-9)

	// Symmetric around the midpoint.
	assert.InDelta(t, scaleFactor(w, 0.25, p), scaleFactor(w, 0.75, p), 1e-9)
}

func TestScaleFactorEmphasizesKeywords(t *testing.T) {
	p := model.ScaleParams{MinScale: 1.0, MaxScale: 1.2, EmphasisScale: 1.5, Keywords: []string{"amazing"}}

	plain := model.WordTiming{Word: "okay", Start: 0.0, End: 1.0}
	keyword := model.WordTiming{Word: "Amazing!", Start: 0.0, End: 1.0}

	assert.InDelta(t, 1.2, scaleFactor(plain, 0.5, p), 1e-9)
	assert.InDelta(t, 1.8, scaleFactor(keyword, 0.5, p), 1e-9)
}

func TestScaleFactorZeroDurationWord(t *testing.T) {
	w := model.WordTiming{Word: "uh", Start: 1.0, End: 1.0}
	p := model.ScaleParams{MinScale: 1.0, MaxScale: 1.2}
	assert.InDelta(t, 1.0, scaleFactor(w, 1.0, p), 1e-9)
}

func TestShiftColorKeywordTiers(t *testing.T) {
	p := model.ColorShiftParams{
		RegularColor:        "#FFFFFF",
		EmphasisColor:       "#FFD700",
		StrongEmphasisColor: "#FF4500",
		EmphasisKeywords:    []string{"you"},
		StrongKeywords:      []string{"free"},
	}

	assert.Equal(t, "#FFFFFF", shiftColor(model.WordTiming{Word: "hello"}, p))
	assert.Equal(t, "#FFD700", shiftColor(model.WordTiming{Word: "You're"}, p))
	// Strong wins over emphasis when both lists match.
	p.EmphasisKeywords = append(p.EmphasisKeywords, "free")
	assert.Equal(t, "#FF4500", shiftColor(model.WordTiming{Word: "FREE"}, p))
}

func TestTypewriterVisibleIsMonotonic(t *testing.T) {
	w := model.WordTiming{Word: "attention", Start: 1.0, End: 2.0}
	p := model.TypewriterParams{CharsPerSecond: 20}

	assert.Equal(t, 0, typewriterVisible(w, 0.5, p))

	previous := 0
	for ts := 1.0; ts <= 2.5; ts += 0.02 {
		visible := typewriterVisible(w, ts, p)
		assert.GreaterOrEqual(t, visible, previous)
		previous = visible
	}
	// Fully revealed by the end.
	assert.Equal(t, len("attention"), typewriterVisible(w, 2.5, p))
}

func TestEvaluateComposesModifiers(t *testing.T) {
	w := model.WordTiming{Word: "free", Start: 0.0, End: 1.0}
	effects := []EffectKind{EffectFade, EffectScale, EffectColorShift, EffectWave, EffectTypewriter}
	params := model.EffectParams{
		Fade:       model.FadeParams{FadeInDuration: 0.2, FadeOutDuration: 0.2, MaxOpacity: 1.0},
		Scale:      model.ScaleParams{MinScale: 1.0, MaxScale: 1.2},
		ColorShift: model.ColorShiftParams{StrongKeywords: []string{"free"}, StrongEmphasisColor: "#FF4500"},
		Wave:       model.WaveParams{Amplitude: 10, Frequency: 2},
		Typewriter: model.TypewriterParams{CharsPerSecond: 100},
	}

	m := Evaluate(effects, params, w, nil, 0.5)
	assert.InDelta(t, 1.0, m.Opacity, 1e-9)
	assert.InDelta(t, 1.2, m.Scale, 1e-9)
	assert.Equal(t, "#FF4500", m.Color)
	// sin(2*pi) == 0 at t=0.5 with frequency 2.
	assert.InDelta(t, 0.0, m.OffsetY, 1e-9)
	assert.Equal(t, len("free"), m.VisibleRunes)
}

func TestEvaluateIdentityWithoutEffects(t *testing.T) {
	m := Evaluate(nil, model.EffectParams{}, model.WordTiming{Word: "x", Start: 0, End: 1}, nil, 0.5)
	assert.Equal(t, 1.0, m.Opacity)
	assert.Equal(t, 1.0, m.Scale)
	assert.Equal(t, AllRunes, m.VisibleRunes)
	assert.Empty(t, m.Color)
}

func TestFadeOutWindow(t *testing.T) {
	params := model.EffectParams{Fade: model.FadeParams{FadeOutDuration: 0.35}}
	assert.InDelta(t, 0.35, FadeOutWindow([]EffectKind{EffectFade}, params), 1e-9)
	assert.InDelta(t, defaultFadeOut, FadeOutWindow([]EffectKind{EffectFade}, model.EffectParams{}), 1e-9)
	assert.Equal(t, 0.0, FadeOutWindow([]EffectKind{EffectScale}, params))
}
