//go:build !windows

package termui

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// cellSize asks the terminal behind w for its pixel size and divides it
// by the character grid.
func cellSize(w io.Writer) (int, int) {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultCellWidth, DefaultCellHeight
	}
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return DefaultCellWidth, DefaultCellHeight
	}
	cw, ch := int(ws.Xpixel/ws.Col), int(ws.Ypixel/ws.Row)
	if cw == 0 || ch == 0 {
		return DefaultCellWidth, DefaultCellHeight
	}
	return cw, ch
}
