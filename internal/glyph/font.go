// Package glyph shapes text and rasterizes it into glyph images that the
// compositor can blit: coverage masks for outline glyphs, pre-colored RGBA
// for bitmap (emoji) glyphs.
package glyph

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// ErrNoFamily is returned when a family name cannot be resolved to a file.
var ErrNoFamily = errors.New("font family not found")

// Font is a parsed font face. It holds two views of the same bytes: a
// go-text face for shaping and color glyph data, and an sfnt font for
// outlines. A Font is not safe for concurrent use.
type Font struct {
	family string
	face   *font.Face
	outl   *sfnt.Font
	buf    sfnt.Buffer
	shaper shaping.HarfbuzzShaper
}

// Parse parses TTF/OTF data.
func Parse(data []byte) (*Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font: %w", err)
	}
	outl, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyph: parse outlines: %w", err)
	}
	f := &Font{face: face, outl: outl}
	if name, err := outl.Name(&f.buf, sfnt.NameIDFamily); err == nil {
		f.family = name
	}
	return f, nil
}

// Default returns the embedded Go Regular face.
func Default() *Font {
	f, err := Parse(goregular.TTF)
	if err != nil {
		panic("glyph: embedded font: " + err.Error())
	}
	return f
}

// Family returns the font's family name, or "" when the name table has none.
func (f *Font) Family() string {
	return f.family
}

// Load resolves a configured font: a file path (with ~/ expansion), else a
// family name looked up among system fonts, else the embedded default. It
// never fails; problems are logged and the default is used.
func Load(spec, cacheDir string, logger *slog.Logger) *Font {
	if logger == nil {
		logger = slog.Default()
	}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Default()
	}

	path := expandHome(spec)
	data, err := os.ReadFile(path)
	if err != nil && !strings.ContainsRune(spec, '/') {
		var found string
		found, err = findFamily(spec, cacheDir, logger)
		if err == nil {
			data, err = os.ReadFile(found)
		}
	}
	if err != nil {
		logger.Warn("font not loaded, using default", "font", spec, "error", err)
		return Default()
	}

	f, err := Parse(data)
	if err != nil {
		logger.Warn("font not parsed, using default", "font", spec, "error", err)
		return Default()
	}
	logger.Debug("font loaded", "font", spec, "family", f.Family())
	return f
}

func findFamily(family, cacheDir string, logger *slog.Logger) (string, error) {
	fm := fontscan.NewFontMap(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	if err := fm.UseSystemFonts(cacheDir); err != nil {
		return "", fmt.Errorf("scan system fonts: %w", err)
	}
	loc, ok := fm.FindSystemFont(family)
	if !ok {
		return "", fmt.Errorf("%q: %w", family, ErrNoFamily)
	}
	return loc.File, nil
}

func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~/")
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}
