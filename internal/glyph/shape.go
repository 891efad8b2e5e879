package glyph

import (
	"math"
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// LineHeight is the line height multiplier applied to the font size.
const LineHeight = 1.2

// Glyph is one shaped glyph positioned on a line. X and Y are offsets from
// the line origin on the baseline, in pixels.
type Glyph struct {
	ID      font.GID
	X, Y    float64
	Advance float64
	space   bool
}

// shape runs HarfBuzz over the whole string as a single left-to-right run.
func (f *Font) shape(text string, size float64) []Glyph {
	if text == "" || size <= 0 {
		return nil
	}
	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      f.face,
		Size:      toFixed(size),
		Script:    scriptOf(runes),
		Language:  language.NewLanguage("en"),
	}
	out := f.shaper.Shape(input)

	glyphs := make([]Glyph, 0, len(out.Glyphs))
	var pen float64
	for _, g := range out.Glyphs {
		adv := fromFixed(g.Advance)
		idx := g.TextIndex()
		glyphs = append(glyphs, Glyph{
			ID:      g.GlyphID,
			X:       pen + fromFixed(g.XOffset),
			Y:       -fromFixed(g.YOffset),
			Advance: adv,
			space:   idx >= 0 && idx < len(runes) && unicode.IsSpace(runes[idx]),
		})
		pen += adv
	}
	return glyphs
}

// Measure returns the advance width of text laid out on one unconstrained line.
func (f *Font) Measure(text string, size float64) float64 {
	var w float64
	for _, g := range f.shape(text, size) {
		w += g.Advance
	}
	return w
}

// Layout shapes text and keeps the first line of a wrapped layout no wider
// than maxW. Lines break after the last space that fits; a single word wider
// than maxW breaks between glyphs. The first glyph is always kept.
func (f *Font) Layout(text string, size, maxW float64) []Glyph {
	glyphs := f.shape(text, size)
	if len(glyphs) == 0 {
		return nil
	}
	lastBreak := -1
	for i, g := range glyphs {
		if g.space {
			lastBreak = i
			continue
		}
		if i > 0 && g.X+g.Advance > maxW {
			if lastBreak > 0 {
				return trimTrailingSpace(glyphs[:lastBreak])
			}
			return glyphs[:i]
		}
	}
	return glyphs
}

func trimTrailingSpace(gs []Glyph) []Glyph {
	for len(gs) > 1 && gs[len(gs)-1].space {
		gs = gs[:len(gs)-1]
	}
	return gs
}

// scriptOf returns the script of the first non-space rune.
func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
