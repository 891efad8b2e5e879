package glyph

import (
	"math"
	"sync"

	"github.com/runger/grimoire/internal/cache"
	"github.com/runger/grimoire/internal/raster"
)

// DefaultCacheEntries bounds the run cache when the caller has no opinion.
const DefaultCacheEntries = 256

// Rasterizer draws text runs onto a raster.Frame. Shaped and rasterized
// runs are kept in an LRU so redrawing the same strings each frame skips
// shaping and outline rasterization. It is safe for concurrent use.
type Rasterizer struct {
	mu   sync.Mutex
	font *Font
	runs *cache.LRU[runKey, *run]
}

type runKey struct {
	text   string
	size   float64
	maxW   float64
	family string
}

type run struct {
	glyphs []placed
	width  float64
}

type placed struct {
	x, y int
	img  *Image
}

// NewRasterizer returns a Rasterizer for f. entries bounds the run cache;
// zero disables caching.
func NewRasterizer(f *Font, entries int) *Rasterizer {
	if f == nil {
		f = Default()
	}
	return &Rasterizer{
		font: f,
		runs: cache.New[runKey, *run](entries, runCost),
	}
}

func runCost(_ runKey, r *run) int64 {
	var n int64
	for _, g := range r.glyphs {
		n += int64(len(g.img.Data))
	}
	return n
}

// Font returns the rasterizer's font.
func (r *Rasterizer) Font() *Font {
	return r.font
}

// Measure returns the advance width of text on one unconstrained line.
func (r *Rasterizer) Measure(text string, size float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.font.Measure(text, size)
}

// Layout returns the glyphs of the first line of text wrapped at maxW.
func (r *Rasterizer) Layout(text string, size, maxW float64) []Glyph {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.font.Layout(text, size, maxW)
}

// Draw renders the first line of text wrapped at maxW with its baseline at
// (x, baseline). Nothing is drawn when maxH is not positive. Outline glyphs
// are tinted with c; color glyphs keep their own colors.
func (r *Rasterizer) Draw(dst *raster.Frame, text string, x, baseline, size, maxW, maxH float64, c raster.RGB) float64 {
	if dst == nil || text == "" || size <= 0 || maxW <= 0 || maxH <= 0 {
		return 0
	}
	ru := r.run(text, size, maxW)

	ox := int(math.Round(x))
	oy := int(math.Round(baseline))
	for _, g := range ru.glyphs {
		img := g.img
		px := ox + g.x + img.Left
		py := oy + g.y - img.Top
		switch img.Kind {
		case Mask:
			dst.BlitMask(px, py, img.W, img.H, img.Data, c)
		case Color:
			dst.BlitColor(px, py, img.W, img.H, img.Data)
		}
	}
	return ru.width
}

// CacheLen reports how many runs are cached.
func (r *Rasterizer) CacheLen() int {
	return r.runs.Len()
}

func (r *Rasterizer) run(text string, size, maxW float64) *run {
	key := runKey{text: text, size: size, maxW: maxW, family: r.font.Family()}
	if ru, ok := r.runs.Get(key); ok {
		return ru
	}

	r.mu.Lock()
	glyphs := r.font.Layout(text, size, maxW)
	ru := &run{glyphs: make([]placed, 0, len(glyphs))}
	for _, g := range glyphs {
		ru.width = g.X + g.Advance
		img := r.font.image(g, size)
		if img == nil {
			continue
		}
		ru.glyphs = append(ru.glyphs, placed{
			x:   int(math.Round(g.X)),
			y:   int(math.Round(g.Y)),
			img: img,
		})
	}
	r.mu.Unlock()

	r.runs.Put(key, ru)
	return ru
}
