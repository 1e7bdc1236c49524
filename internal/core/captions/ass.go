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

// This file implements the caption compositor: it samples the pure effect
// functions at frame timestamps and serializes the result as an ASS
// (Advanced SubStation Alpha) subtitle document. The encoder burns that
// document onto the concatenated timeline, which is the one mechanism
// ffmpeg offers for frame-accurate styled text without an in-process
// rasterizer.
//
// Logic Flow (word-by-word mode):
//  1. For every output frame timestamp, ask the activation state machine
//     which word is on screen.
//  2. When a word is active or trailing, evaluate the style's effect stack
//     for it and build one dialogue event covering exactly that frame.
//  3. The event shows the rolling window of recent words; the active word
//     carries the composed override tags (alpha, scale, color, position,
//     revealed prefix), its predecessors render in the base style.
//
// In sentence mode the document is far smaller: one event per sentence
// span, with fade-in/out applied through the \fad tag when the style's
// stack includes the fade effect.
package captions

import (
	"fmt"
	"math"
	"strings"

	"github.com/jaycherian/go-video-assembly/internal/core/model"
)

// Compositor renders one caption track for one final timeline. It is
// immutable after construction and safe to reuse across render passes
// with the same style and output geometry.
type Compositor struct {
	style   model.CaptionStyle
	effects []EffectKind
	width   int
	height  int
	fps     int
}

// NewCompositor builds a compositor for the given style and output
// geometry. Unknown effect names in the style are dropped here, once, with
// a warning, so per-frame evaluation never sees them.
//
// Inputs:
//   - style: The caption style (fonts, colors, display mode, effect stack).
//   - width, height: The output resolution; becomes the ASS play area.
//   - fps: The output frame rate used for frame-timestamp sampling.
//
// Outputs:
//   - *Compositor: The ready-to-use compositor.
func NewCompositor(style model.CaptionStyle, width, height, fps int) *Compositor {
	return &Compositor{
		style:   style,
		effects: ParseEffects(style.Effects),
		width:   width,
		height:  height,
		fps:     fps,
	}
}

// Render produces the complete ASS document for the transcript. An empty
// transcript yields a header-only document (a valid, caption-less track).
func (c *Compositor) Render(transcript model.Transcript) string {
	var b strings.Builder
	b.WriteString(c.header())
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	if c.style.WordByWord || len(transcript.Sentences) == 0 {
		c.renderWordByWord(&b, transcript.Words)
	} else {
		c.renderSentences(&b, transcript)
	}
	return b.String()
}

// renderWordByWord emits one dialogue event per output frame on which any
// word is active or trailing. Frames with no qualifying word emit nothing:
// the caption is fully transparent rather than holding the last word.
func (c *Compositor) renderWordByWord(b *strings.Builder, words []model.WordTiming) {
	if len(words) == 0 || c.fps <= 0 {
		return
	}
	fadeWindow := FadeOutWindow(c.effects, c.style.EffectParams)
	frameDur := 1.0 / float64(c.fps)
	end := words[len(words)-1].End + fadeWindow

	for frame := 0; ; frame++ {
		t := float64(frame) * frameDur
		if t > end {
			break
		}
		active := ActiveWordIndex(words, t, fadeWindow)
		if active < 0 {
			continue
		}
		var next *model.WordTiming
		if active+1 < len(words) {
			next = &words[active+1]
		}
		mod := Evaluate(c.effects, c.style.EffectParams, words[active], next, t)

		window := []int{active}
		if c.style.WordByWord {
			window = RollingWindow(words, t, fadeWindow)
		}

		text := c.eventText(words, window, active, mod)
		if text == "" {
			continue
		}
		fmt.Fprintf(b, "Dialogue: 0,%s,%s,Caption,,0,0,0,,%s\n",
			assTime(t), assTime(t+frameDur), text)
	}
}

// renderSentences emits one event per sentence-level segment, used by the
// non-word-by-word display mode when the transcription provided sentences.
func (c *Compositor) renderSentences(b *strings.Builder, transcript model.Transcript) {
	params := c.style.EffectParams
	fade := 0.0
	for _, kind := range c.effects {
		if kind == EffectFade {
			fade = orDefault(params.Fade.FadeInDuration, defaultFadeIn)
		}
	}
	for _, sentence := range transcript.Sentences {
		text := sanitizeASS(sentence.Text)
		if text == "" {
			continue
		}
		if fade > 0 {
			text = fmt.Sprintf("{\\fad(%d,%d)}%s", int(fade*1000),
				int(orDefault(params.Fade.FadeOutDuration, defaultFadeOut)*1000), text)
		}
		fmt.Fprintf(b, "Dialogue: 0,%s,%s,Caption,,0,0,0,,%s\n",
			assTime(sentence.Start), assTime(sentence.End), text)
	}
}

// eventText assembles the dialogue text for one frame: the display window
// with the active word carrying the composed override tags.
func (c *Compositor) eventText(words []model.WordTiming, window []int, active int, mod Modifier) string {
	activeWord := c.visibleText(words[active].Word, mod)

	var parts []string
	for _, idx := range window {
		if idx != active {
			parts = append(parts, sanitizeASS(words[idx].Word))
			continue
		}
		if activeWord == "" {
			// Typewriter has not revealed any character yet.
			continue
		}
		parts = append(parts, c.overrideTags(mod)+activeWord+"{\\r}")
	}
	if len(parts) == 0 {
		return ""
	}
	return c.positionTag(mod) + strings.Join(parts, " ")
}

// visibleText applies the typewriter prefix truncation.
func (c *Compositor) visibleText(word string, mod Modifier) string {
	word = sanitizeASS(word)
	if mod.VisibleRunes == AllRunes {
		return word
	}
	runes := []rune(word)
	if mod.VisibleRunes >= len(runes) {
		return word
	}
	return string(runes[:mod.VisibleRunes])
}

// overrideTags serializes the composed modifier of the active word into
// ASS override tags: alpha for opacity, fscx/fscy for scale, 1c for color.
// The highlight color from the style wins over the base text color but
// yields to an explicit color_shift result (last-writer-wins ordering is
// resolved inside Evaluate already).
func (c *Compositor) overrideTags(mod Modifier) string {
	var tags strings.Builder
	tags.WriteString(fmt.Sprintf("{\\alpha%s", assAlpha(mod.Opacity)))
	if mod.Scale != 1 {
		pct := int(math.Round(mod.Scale * 100))
		tags.WriteString(fmt.Sprintf("\\fscx%d\\fscy%d", pct, pct))
	}
	color := mod.Color
	if color == "" && c.style.HighlightColor != "" {
		color = c.style.HighlightColor
	}
	if color != "" {
		tags.WriteString("\\1c" + assColor(color))
	}
	tags.WriteString("}")
	return tags.String()
}

// positionTag anchors the caption block and applies the wave offset. The
// block is always horizontally centered; the style's position and padding
// choose the vertical anchor.
func (c *Compositor) positionTag(mod Modifier) string {
	x := float64(c.width) / 2
	padding := float64(c.style.Padding)
	var y float64
	switch c.style.Position {
	case model.PositionTop:
		y = padding + float64(c.style.FontSize)
	case model.PositionCenter:
		y = float64(c.height) / 2
	default: // bottom
		y = float64(c.height) - padding - float64(c.style.FontSize)
	}
	y += mod.OffsetY
	x += mod.OffsetX
	return fmt.Sprintf("{\\an5\\pos(%.1f,%.1f)}", x, y)
}

// header renders the script info and the single named style every event
// references.
func (c *Compositor) header() string {
	shadow := 0
	if c.style.Shadow {
		shadow = 2
	}
	font := c.style.Font
	if font == "" {
		font = "Arial"
	}
	size := c.style.FontSize
	if size <= 0 {
		size = 48
	}
	return fmt.Sprintf(`[Script Info]
ScriptType: v4.00+
PlayResX: %d
PlayResY: %d
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Caption, %s, %d, %s, %s, &H00000000, &H64000000, 1,0,0,0,100,100,0,0,1,3,%d,5, 40,40,40,1
`, c.width, c.height, font, size,
		assColor(orDefaultStr(c.style.TextColor, defaultRegularColor)),
		assColor(orDefaultStr(c.style.HighlightColor, defaultEmphasisColor)),
		shadow)
}

// assTime formats seconds as the ASS h:mm:ss.cs timecode.
func assTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	cs := int(math.Round(seconds * 100))
	h := cs / 360000
	cs -= h * 360000
	m := cs / 6000
	cs -= m * 6000
	s := cs / 100
	cs -= s * 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// assColor converts #RRGGBB to the ASS &HBBGGRR& notation. Unparseable
// values fall back to white rather than corrupting the document.
func assColor(hex string) string {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return "&H00FFFFFF&"
	}
	rr, gg, bb := hex[0:2], hex[2:4], hex[4:6]
	return fmt.Sprintf("&H00%s%s%s&", strings.ToUpper(bb), strings.ToUpper(gg), strings.ToUpper(rr))
}

// assAlpha converts an opacity multiplier to the ASS alpha override value,
// where 00 is opaque and FF fully transparent.
func assAlpha(opacity float64) string {
	alpha := int(math.Round((1 - clamp(opacity, 0, 1)) * 255))
	return fmt.Sprintf("&H%02X&", alpha)
}

// sanitizeASS strips characters that would change the meaning of a
// dialogue line.
func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
