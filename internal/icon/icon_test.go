package icon

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func newTestResolver(t *testing.T, size int) (*Resolver, string) {
	t.Helper()
	root := t.TempDir()
	r := NewResolver(filepath.Join(root, "cache"), size, nil)
	r.ThemeDir = filepath.Join(root, "hicolor")
	r.PixmapDir = filepath.Join(root, "pixmaps")
	return r, root
}

func TestResolve_ThemeSizeOrder(t *testing.T) {
	r, root := newTestResolver(t, 32)
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	writeTestPNG(t, filepath.Join(root, "hicolor", "64x64", "apps", "app.png"), 64, 64, blue)
	writeTestPNG(t, filepath.Join(root, "hicolor", "48x48", "apps", "app.png"), 48, 48, red)

	img := r.Resolve("app")
	require.NotNil(t, img)
	assert.Equal(t, 32, img.W)
	assert.Equal(t, 32, img.H)
	assert.Len(t, img.Pix, 32*32*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Pix[:4], "48x48 is preferred over 64x64")
}

func TestResolve_KeepsAspectRatio(t *testing.T) {
	r, root := newTestResolver(t, 32)
	writeTestPNG(t, filepath.Join(root, "pixmaps", "wide.png"), 100, 50, color.NRGBA{G: 255, A: 255})

	img := r.Resolve("wide")
	require.NotNil(t, img)
	assert.Equal(t, 32, img.W)
	assert.Equal(t, 16, img.H)
}

func TestResolve_AbsolutePath(t *testing.T) {
	r, root := newTestResolver(t, 16)
	path := filepath.Join(root, "elsewhere", "x.png")
	writeTestPNG(t, path, 16, 16, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	img := r.Resolve(path)
	require.NotNil(t, img)
	assert.Equal(t, []byte{1, 2, 3, 255}, img.Pix[:4])

	assert.Nil(t, r.Resolve(filepath.Join(root, "missing.png")))
}

func TestResolve_Misses(t *testing.T) {
	r, root := newTestResolver(t, 16)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "hicolor", "scalable", "apps"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "hicolor", "scalable", "apps", "vec.svg"), []byte("<svg/>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pixmaps"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pixmaps", "broken.png"), []byte("not png"), 0o644))

	assert.Nil(t, r.Resolve(""))
	assert.Nil(t, r.Resolve("nothing"))
	assert.Nil(t, r.Resolve("vec"), "svg is not rasterized")
	assert.Nil(t, r.Resolve("broken"))
}

func TestResolve_WritesAndReadsDiskCache(t *testing.T) {
	r, root := newTestResolver(t, 24)
	src := filepath.Join(root, "pixmaps", "term.png")
	writeTestPNG(t, src, 48, 48, color.NRGBA{R: 9, G: 9, B: 9, A: 255})

	first := r.Resolve("term")
	require.NotNil(t, first)

	cached := filepath.Join(root, "cache", CacheKey("term", 24)+".png")
	_, err := os.Stat(cached)
	require.NoError(t, err)

	// A fresh resolver reads the cached PNG even after the source is gone.
	require.NoError(t, os.Remove(src))
	fresh := NewResolver(r.CacheDir, 24, nil)
	fresh.ThemeDir, fresh.PixmapDir = "", ""
	second := fresh.Resolve("term")
	require.NotNil(t, second)
	assert.Equal(t, first.W, second.W)
	assert.Equal(t, first.Pix, second.Pix)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("firefox", 32), CacheKey("firefox", 32))
	assert.NotEqual(t, CacheKey("firefox", 32), CacheKey("firefox", 48))
	assert.NotEqual(t, CacheKey("firefox", 32), CacheKey("chromium", 32))
}

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		w, h, size   int
		wantW, wantH int
	}{
		{"square", 64, 64, 32, 32, 32},
		{"tall", 20, 80, 40, 10, 40},
		{"upscale", 8, 8, 32, 32, 32},
		{"thin", 1000, 1, 10, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Fit(image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.size)
			assert.Equal(t, tt.wantW, out.Rect.Dx())
			assert.Equal(t, tt.wantH, out.Rect.Dy())
		})
	}
}
