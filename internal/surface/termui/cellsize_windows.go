//go:build windows

package termui

import "io"

func cellSize(io.Writer) (int, int) {
	return DefaultCellWidth, DefaultCellHeight
}
