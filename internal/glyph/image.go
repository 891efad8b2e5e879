package glyph

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"math"

	"github.com/go-text/typesetting/font"
	xdraw "golang.org/x/image/draw"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Kind distinguishes how a glyph image is composited.
type Kind uint8

const (
	// Mask images hold one coverage byte per pixel, tinted at draw time.
	Mask Kind = iota
	// Color images hold straight-alpha RGBA bytes and ignore the text color.
	Color
)

// Image is a rasterized glyph. Left and Top place the image relative to the
// pen position on the baseline: the top-left pixel lands at
// (penX+Left, baseline-Top).
type Image struct {
	Kind      Kind
	Left, Top int
	W, H      int
	Data      []byte
}

// image rasterizes glyph g at the given pixel size. It returns nil for
// glyphs with no ink (spaces) or that fail to load.
func (f *Font) image(g Glyph, size float64) *Image {
	if img := f.colorImage(g, size); img != nil {
		return img
	}
	return f.maskImage(g, size)
}

func (f *Font) maskImage(g Glyph, size float64) *Image {
	segs, err := f.outl.LoadGlyph(&f.buf, sfnt.GlyphIndex(g.ID), toFixed(size), nil)
	if err != nil || len(segs) == 0 {
		return nil
	}

	b := segmentBounds(segs)
	minX, minY := b.Min.X.Floor(), b.Min.Y.Floor()
	w, h := b.Max.X.Ceil()-minX, b.Max.Y.Ceil()-minY
	if w <= 0 || h <= 0 {
		return nil
	}

	ox, oy := float32(minX), float32(minY)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 - ox, float32(p.Y)/64 - oy
	}

	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	started := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				z.ClosePath()
			}
			started = true
			z.MoveTo(pt(s.Args[0]))
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(s.Args[0])
			x2, y2 := pt(s.Args[1])
			z.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(s.Args[0])
			x2, y2 := pt(s.Args[1])
			x3, y3 := pt(s.Args[2])
			z.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	if started {
		z.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return &Image{Kind: Mask, Left: minX, Top: -minY, W: w, H: h, Data: dst.Pix}
}

func segmentBounds(segs sfnt.Segments) fixed.Rectangle26_6 {
	b := fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: math.MaxInt32, Y: math.MaxInt32},
		Max: fixed.Point26_6{X: math.MinInt32, Y: math.MinInt32},
	}
	for _, s := range segs {
		n := 1
		switch s.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for _, p := range s.Args[:n] {
			b.Min.X = min(b.Min.X, p.X)
			b.Min.Y = min(b.Min.Y, p.Y)
			b.Max.X = max(b.Max.X, p.X)
			b.Max.Y = max(b.Max.Y, p.Y)
		}
	}
	return b
}

// colorImage returns an RGBA image for glyphs stored as PNG bitmap strikes
// (CBDT/sbix emoji). The strike is scaled so its width matches the shaped
// advance and is seated on the baseline in proportion to the font's ascent.
func (f *Font) colorImage(g Glyph, size float64) *Image {
	bm, ok := f.face.GlyphData(g.ID).(font.GlyphBitmap)
	if !ok || bm.Format != font.PNG || bm.Width <= 0 || bm.Height <= 0 {
		return nil
	}
	src, err := png.Decode(bytes.NewReader(bm.Data))
	if err != nil {
		return nil
	}

	w := int(math.Round(g.Advance))
	if w <= 0 {
		w = int(math.Round(size))
	}
	h := max(1, int(math.Round(float64(bm.Height)*float64(w)/float64(bm.Width))))

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	top := h
	if m, err := f.outl.Metrics(&f.buf, toFixed(size), xfont.HintingNone); err == nil {
		if total := m.Ascent + m.Descent; total > 0 {
			top = int(math.Round(float64(h) * float64(m.Ascent) / float64(total)))
		}
	}
	return &Image{Kind: Color, Left: 0, Top: top, W: w, H: h, Data: dst.Pix}
}
