//go:build !windows

package cmd

import "golang.org/x/sys/unix"

// ioctlColumns reports the column count of the terminal behind fd, or 0.
func ioctlColumns(fd uintptr) int {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}
