// Package raster implements the pixel compositor the launcher draws into.
//
// A Frame is a plain RGBA byte buffer sized to the viewport. Color channels
// are premultiplied by convention: Fill stores premultiplied values and every
// blend uses the "over" operator with integer division by 255. Conversion to
// the presentation surface's channel order happens once, at the end, via
// Convert.
package raster

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

// RGB is an opaque color. Alpha is always passed separately.
type RGB [3]uint8

// ErrBadHex is returned by ParseHex for anything that is not #rrggbb.
var ErrBadHex = errors.New("color must be #rrggbb")

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("%q: %w", s, ErrBadHex)
	}
	var c RGB
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("%q: %w", s, ErrBadHex)
		}
		c[i] = uint8(v)
	}
	return c, nil
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Frame is an RGBA pixel buffer, 4 bytes per pixel, rows packed.
type Frame struct {
	W, H int
	Pix  []byte
}

// NewFrame allocates a cleared frame. Non-positive dimensions yield an empty
// frame that every operation accepts and ignores.
func NewFrame(w, h int) *Frame {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Frame{W: w, H: h, Pix: make([]byte, w*h*4)}
}

// Fill sets every pixel to c at alpha a, stored premultiplied.
func (f *Frame) Fill(c RGB, a uint8) {
	pr := uint8(uint32(c[0]) * uint32(a) / 255)
	pg := uint8(uint32(c[1]) * uint32(a) / 255)
	pb := uint8(uint32(c[2]) * uint32(a) / 255)
	for i := 0; i+3 < len(f.Pix); i += 4 {
		f.Pix[i] = pr
		f.Pix[i+1] = pg
		f.Pix[i+2] = pb
		f.Pix[i+3] = a
	}
}

// At returns the raw bytes of a pixel, or zeros when out of bounds.
func (f *Frame) At(x, y int) [4]uint8 {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return [4]uint8{}
	}
	i := (y*f.W + x) * 4
	return [4]uint8{f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]}
}

// Image wraps the frame as an *image.RGBA without copying.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{Pix: f.Pix, Stride: f.W * 4, Rect: image.Rect(0, 0, f.W, f.H)}
}

// ChannelOrder is the byte order a presentation surface expects.
type ChannelOrder int

const (
	// OrderRGBA keeps the frame's native layout.
	OrderRGBA ChannelOrder = iota
	// OrderBGRA matches wl_shm ARGB8888 on little-endian machines.
	OrderBGRA
)

// Convert copies the frame into dst in the requested channel order. It is a
// pure channel swap; no color transform is applied. dst must hold at least
// len(f.Pix) bytes, otherwise only the whole pixels that fit are written.
func (f *Frame) Convert(dst []byte, order ChannelOrder) int {
	n := len(f.Pix)
	if len(dst) < n {
		n = len(dst) &^ 3
	}
	switch order {
	case OrderBGRA:
		for i := 0; i+3 < n; i += 4 {
			dst[i] = f.Pix[i+2]
			dst[i+1] = f.Pix[i+1]
			dst[i+2] = f.Pix[i]
			dst[i+3] = f.Pix[i+3]
		}
	default:
		copy(dst[:n], f.Pix[:n])
	}
	return n
}
