// Package snapshot presents frames to a file instead of a window.
package snapshot

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"strings"

	"github.com/runger/grimoire/internal/raster"
)

// Format selects the output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBGRA Format = "bgra" // raw premultiplied BGRA rows, as handed to wl_shm ARGB8888
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown snapshot format")

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatBGRA:
		return f, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
	}
}

// Writer encodes every presented frame to W. It is meant for a single
// frame; presenting twice appends a second encoding.
type Writer struct {
	W      io.Writer
	Format Format
	Frames int
}

// Present implements launcher.Presenter.
func (w *Writer) Present(f *raster.Frame) error {
	var err error
	switch w.Format {
	case FormatBGRA:
		buf := make([]byte, len(f.Pix))
		f.Convert(buf, raster.OrderBGRA)
		_, err = w.W.Write(buf)
	case FormatPNG, "":
		err = png.Encode(w.W, f.Image())
	default:
		err = fmt.Errorf("%q: %w", w.Format, ErrUnknownFormat)
	}
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	w.Frames++
	return nil
}
