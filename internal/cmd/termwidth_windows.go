//go:build windows

package cmd

// ioctlColumns is not available on Windows; list falls back to $COLUMNS.
func ioctlColumns(uintptr) int {
	return 0
}
