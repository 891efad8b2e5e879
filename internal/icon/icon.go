// Package icon resolves freedesktop icon names to small decoded bitmaps,
// caching the scaled result on disk.
package icon

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/runger/grimoire/internal/cache"
)

// Image is a decoded icon in straight-alpha RGBA byte order.
type Image struct {
	W, H int
	Pix  []byte
}

// Default search locations.
const (
	DefaultThemeDir  = "/usr/share/icons/hicolor"
	DefaultPixmapDir = "/usr/share/pixmaps"
)

// themeSizes is the hicolor lookup order: nearest common sizes first.
var themeSizes = []string{"48x48", "64x64", "32x32", "128x128", "256x256"}

// keySpace is the UUID namespace for cache keys.
var keySpace = uuid.MustParse("8c0b9e5e-7f1d-4a51-9a8e-3c52b1f0d7a4")

// Resolver finds, decodes and scales icons to Size. Results, including
// misses, are remembered for the resolver's lifetime.
type Resolver struct {
	CacheDir  string // scaled PNGs; empty disables the disk cache
	Size      int
	ThemeDir  string
	PixmapDir string
	Logger    *slog.Logger

	mem *cache.LRU[string, *Image]
}

// NewResolver returns a Resolver using the default search locations.
func NewResolver(cacheDir string, size int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		CacheDir:  cacheDir,
		Size:      size,
		ThemeDir:  DefaultThemeDir,
		PixmapDir: DefaultPixmapDir,
		Logger:    logger,
		mem:       cache.New[string, *Image](512, nil),
	}
}

// Resolve returns the icon for name, or nil when it cannot be found or
// decoded. SVG sources are not rasterized and resolve to nil.
func (r *Resolver) Resolve(name string) *Image {
	if name == "" || r.Size <= 0 {
		return nil
	}
	if r.mem != nil {
		if img, ok := r.mem.Get(name); ok {
			return img
		}
	}
	img := r.resolve(name)
	if r.mem != nil {
		r.mem.Put(name, img)
	}
	return img
}

func (r *Resolver) resolve(name string) *Image {
	cached := r.cachePath(name)
	if cached != "" {
		if img, err := decodeFile(cached); err == nil {
			return toImage(img)
		}
	}

	path := r.find(name)
	if path == "" || strings.HasSuffix(path, ".svg") {
		return nil
	}
	src, err := decodeFile(path)
	if err != nil {
		r.logger().Debug("icon decode failed", "icon", name, "path", path, "error", err)
		return nil
	}
	scaled := Fit(src, r.Size)

	if cached != "" {
		if err := writePNG(cached, scaled); err != nil {
			r.logger().Debug("icon cache write failed", "path", cached, "error", err)
		}
	}
	return toImage(scaled)
}

// find returns the first existing candidate path for name.
func (r *Resolver) find(name string) string {
	if filepath.IsAbs(name) {
		if exists(name) {
			return name
		}
		return ""
	}
	var candidates []string
	if r.ThemeDir != "" {
		for _, sz := range themeSizes {
			candidates = append(candidates, filepath.Join(r.ThemeDir, sz, "apps", name+".png"))
		}
		candidates = append(candidates, filepath.Join(r.ThemeDir, "scalable", "apps", name+".svg"))
	}
	if r.PixmapDir != "" {
		candidates = append(candidates,
			filepath.Join(r.PixmapDir, name+".png"),
			filepath.Join(r.PixmapDir, name+".svg"))
	}
	for _, c := range candidates {
		if exists(c) {
			return c
		}
	}
	return ""
}

// CacheKey returns the stable file stem under which the scaled icon for
// (name, size) is cached.
func CacheKey(name string, size int) string {
	return uuid.NewSHA1(keySpace, []byte(fmt.Sprintf("%s\x00%d", name, size))).String()
}

func (r *Resolver) cachePath(name string) string {
	if r.CacheDir == "" {
		return ""
	}
	return filepath.Join(r.CacheDir, CacheKey(name, r.Size)+".png")
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Fit scales src to fit inside a size x size box, keeping its aspect ratio.
func Fit(src image.Image, size int) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || size <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	dw, dh := size, size
	if w > h {
		dh = max(1, h*size/w)
	} else if h > w {
		dw = max(1, w*size/h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

func toImage(src image.Image) *Image {
	n, ok := src.(*image.NRGBA)
	if !ok || n.Rect.Min != (image.Point{}) || n.Stride != 4*n.Rect.Dx() {
		b := src.Bounds()
		n = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(n, n.Bounds(), src, b.Min, draw.Src)
	}
	return &Image{W: n.Rect.Dx(), H: n.Rect.Dy(), Pix: n.Pix}
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".icon-*.png")
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), path)
}

func exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
