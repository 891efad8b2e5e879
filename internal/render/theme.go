package render

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/runger/grimoire/internal/raster"
)

// Theme holds the launcher colors. Alphas apply to the background layers
// and the selection highlight.
type Theme struct {
	Background      raster.RGB
	BackgroundAlpha uint8
	Border          raster.RGB
	BarBackground   raster.RGB
	BarBorder       raster.RGB
	Text            raster.RGB
	TextComment     raster.RGB
	TextPlaceholder raster.RGB
	Selection       raster.RGB
	SelectionAlpha  uint8
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background:      raster.RGB{0x1a, 0x1a, 0x2e},
		BackgroundAlpha: 0xff,
		Border:          raster.RGB{0x4a, 0x4a, 0x6e},
		BarBackground:   raster.RGB{0x2a, 0x2a, 0x4e},
		BarBorder:       raster.RGB{0x4a, 0x4a, 0x6e},
		Text:            raster.RGB{0xe0, 0xe0, 0xe0},
		TextComment:     raster.RGB{0x80, 0x80, 0x90},
		TextPlaceholder: raster.RGB{0x60, 0x60, 0x70},
		Selection:       raster.RGB{0x40, 0x40, 0x90},
		SelectionAlpha:  0xcc,
	}
}

// LoadTheme reads a color file over the defaults. A missing or unreadable
// file yields the defaults.
func LoadTheme(path string) Theme {
	t := DefaultTheme()
	if path == "" {
		return t
	}
	f, err := os.Open(path)
	if err != nil {
		return t
	}
	defer f.Close()
	t.apply(f)
	return t
}

// ParseTheme reads a color file from r over the defaults.
//
// Each line is key = value. Color keys take #rrggbb; background_opacity
// and selection_opacity take a float in [0, 1]. Unknown keys and bad
// values are ignored.
func ParseTheme(r io.Reader) Theme {
	t := DefaultTheme()
	t.apply(r)
	return t
}

func (t *Theme) apply(r io.Reader) {
	colors := map[string]*raster.RGB{
		"background":       &t.Background,
		"border":           &t.Border,
		"bar_bg":           &t.BarBackground,
		"bar_border":       &t.BarBorder,
		"text":             &t.Text,
		"text_comment":     &t.TextComment,
		"text_placeholder": &t.TextPlaceholder,
		"selection":        &t.Selection,
	}
	alphas := map[string]*uint8{
		"background_opacity": &t.BackgroundAlpha,
		"selection_opacity":  &t.SelectionAlpha,
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.Trim(strings.TrimSpace(val), `"'`)

		if dst, ok := alphas[key]; ok {
			if f, err := strconv.ParseFloat(val, 64); err == nil && !math.IsNaN(f) {
				*dst = uint8(min(max(f, 0), 1) * 255)
			}
			continue
		}
		if dst, ok := colors[key]; ok {
			if c, err := raster.ParseHex(val); err == nil {
				*dst = c
			}
		}
	}
}
