package raster

// over blends one source channel onto a destination channel at alpha a.
func over(src, dst, a uint32) uint8 {
	return uint8((src*a + dst*(255-a)) / 255)
}

// overAlpha accumulates destination alpha.
func overAlpha(dst, a uint32) uint8 {
	return uint8(a + dst*(255-a)/255)
}

// clip intersects [x, x+w) x [y, y+h) with the frame.
func (f *Frame) clip(x, y, w, h int) (x0, y0, x1, y1 int, ok bool) {
	x0, y0 = max(x, 0), max(y, 0)
	x1, y1 = min(x+w, f.W), min(y+h, f.H)
	return x0, y0, x1, y1, x0 < x1 && y0 < y1
}

// FillRect paints an opaque rectangle.
func (f *Frame) FillRect(x, y, w, h int, c RGB) {
	x0, y0, x1, y1, ok := f.clip(x, y, w, h)
	if !ok {
		return
	}
	for py := y0; py < y1; py++ {
		i := (py*f.W + x0) * 4
		for px := x0; px < x1; px++ {
			f.Pix[i] = c[0]
			f.Pix[i+1] = c[1]
			f.Pix[i+2] = c[2]
			f.Pix[i+3] = 0xff
			i += 4
		}
	}
}

// FillRectAlpha blends a rectangle of color c at alpha a over the frame.
// a == 255 takes the opaque path.
func (f *Frame) FillRectAlpha(x, y, w, h int, c RGB, a uint8) {
	if a == 0xff {
		f.FillRect(x, y, w, h, c)
		return
	}
	if a == 0 {
		return
	}
	x0, y0, x1, y1, ok := f.clip(x, y, w, h)
	if !ok {
		return
	}
	al := uint32(a)
	for py := y0; py < y1; py++ {
		i := (py*f.W + x0) * 4
		for px := x0; px < x1; px++ {
			f.Pix[i] = over(uint32(c[0]), uint32(f.Pix[i]), al)
			f.Pix[i+1] = over(uint32(c[1]), uint32(f.Pix[i+1]), al)
			f.Pix[i+2] = over(uint32(c[2]), uint32(f.Pix[i+2]), al)
			f.Pix[i+3] = overAlpha(uint32(f.Pix[i+3]), al)
			i += 4
		}
	}
}

// BlitMask composites a w*h coverage mask at (x0, y0), tinting it with c.
func (f *Frame) BlitMask(x0, y0, w, h int, mask []byte, c RGB) {
	if w <= 0 || h <= 0 {
		return
	}
	for gy := 0; gy < h; gy++ {
		py := y0 + gy
		if py < 0 || py >= f.H {
			continue
		}
		for gx := 0; gx < w; gx++ {
			px := x0 + gx
			if px < 0 || px >= f.W {
				continue
			}
			mi := gy*w + gx
			if mi >= len(mask) {
				return
			}
			a := uint32(mask[mi])
			if a == 0 {
				continue
			}
			i := (py*f.W + px) * 4
			f.Pix[i] = over(uint32(c[0]), uint32(f.Pix[i]), a)
			f.Pix[i+1] = over(uint32(c[1]), uint32(f.Pix[i+1]), a)
			f.Pix[i+2] = over(uint32(c[2]), uint32(f.Pix[i+2]), a)
			f.Pix[i+3] = overAlpha(uint32(f.Pix[i+3]), a)
		}
	}
}

// BlitRGBA composites a w*h RGBA image (icons) at (x0, y0). Fully opaque
// source pixels are copied directly.
func (f *Frame) BlitRGBA(x0, y0, w, h int, src []byte) {
	if w <= 0 || h <= 0 {
		return
	}
	for gy := 0; gy < h; gy++ {
		py := y0 + gy
		if py < 0 || py >= f.H {
			continue
		}
		for gx := 0; gx < w; gx++ {
			px := x0 + gx
			if px < 0 || px >= f.W {
				continue
			}
			si := (gy*w + gx) * 4
			if si+3 >= len(src) {
				return
			}
			a := uint32(src[si+3])
			if a == 0 {
				continue
			}
			di := (py*f.W + px) * 4
			if a == 0xff {
				f.Pix[di] = src[si]
				f.Pix[di+1] = src[si+1]
				f.Pix[di+2] = src[si+2]
				f.Pix[di+3] = 0xff
				continue
			}
			f.Pix[di] = over(uint32(src[si]), uint32(f.Pix[di]), a)
			f.Pix[di+1] = over(uint32(src[si+1]), uint32(f.Pix[di+1]), a)
			f.Pix[di+2] = over(uint32(src[si+2]), uint32(f.Pix[di+2]), a)
			f.Pix[di+3] = overAlpha(uint32(f.Pix[di+3]), a)
		}
	}
}

// BlitColor composites a pre-rendered color glyph. Source and destination
// terms are divided separately, which rounds slightly darker than BlitRGBA
// on partially covered pixels.
func (f *Frame) BlitColor(x0, y0, w, h int, src []byte) {
	if w <= 0 || h <= 0 {
		return
	}
	for gy := 0; gy < h; gy++ {
		py := y0 + gy
		if py < 0 || py >= f.H {
			continue
		}
		for gx := 0; gx < w; gx++ {
			px := x0 + gx
			if px < 0 || px >= f.W {
				continue
			}
			si := (gy*w + gx) * 4
			if si+3 >= len(src) {
				return
			}
			a := uint32(src[si+3])
			if a == 0 {
				continue
			}
			inv := 255 - a
			i := (py*f.W + px) * 4
			f.Pix[i] = uint8(uint32(src[si])*a/255 + uint32(f.Pix[i])*inv/255)
			f.Pix[i+1] = uint8(uint32(src[si+1])*a/255 + uint32(f.Pix[i+1])*inv/255)
			f.Pix[i+2] = uint8(uint32(src[si+2])*a/255 + uint32(f.Pix[i+2])*inv/255)
			f.Pix[i+3] = overAlpha(uint32(f.Pix[i+3]), a)
		}
	}
}
