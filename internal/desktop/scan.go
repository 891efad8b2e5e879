package desktop

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/runger/grimoire/internal/icon"
)

// Dirs returns the application directories in priority order: the user's
// own entries first, then the system locations, then any extra
// $XDG_DATA_DIRS entries not already listed.
func Dirs(home string) []string {
	dirs := []string{
		filepath.Join(home, ".local", "share", "applications"),
		"/usr/local/share/applications",
		"/usr/share/applications",
	}
	for _, d := range filepath.SplitList(os.Getenv("XDG_DATA_DIRS")) {
		if d == "" {
			continue
		}
		app := filepath.Join(d, "applications")
		if !slices.Contains(dirs, app) {
			dirs = append(dirs, app)
		}
	}
	return dirs
}

// IconResolver turns an icon name into a decoded image, or nil.
type IconResolver interface {
	Resolve(name string) *icon.Image
}

// ScanOptions configures Scan. The zero value skips icons, checks TryExec
// against $PATH and logs to slog.Default.
type ScanOptions struct {
	Icons    IconResolver
	LookPath func(file string) (string, error)
	Logger   *slog.Logger
}

// Scan indexes every *.desktop file under dirs. Files are visited in
// directory order and by name within a directory. Dirs are ordered by
// priority: once a file name has been listed, the same name in a later
// directory is ignored, so a user-local entry shadows the system one.
func Scan(dirs []string, opts ScanOptions) []Item {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var items []Item
	seen := make(map[string]struct{})
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			logger.Debug("skipping application directory", "dir", dir, "error", err)
			continue
		}
		for _, de := range entries {
			name := de.Name()
			if de.IsDir() || filepath.Ext(name) != ".desktop" {
				continue
			}
			if _, ok := seen[name]; ok {
				logger.Debug("shadowed desktop entry", "file", filepath.Join(dir, name))
				continue
			}
			path := filepath.Join(dir, name)
			e, ok := ParseFile(path)
			if !ok {
				continue
			}
			if e.TryExec != "" {
				if _, err := lookPath(e.TryExec); err != nil {
					logger.Debug("TryExec not found", "file", path, "try_exec", e.TryExec)
					continue
				}
			}

			it := Item{
				Name:     e.Name,
				Exec:     e.Exec,
				Comment:  e.Comment,
				Icon:     e.Icon,
				Terminal: e.Terminal,
				ID:       strings.TrimSuffix(name, ".desktop"),
			}
			if opts.Icons != nil && e.Icon != "" {
				it.Image = opts.Icons.Resolve(e.Icon)
			}

			seen[name] = struct{}{}
			items = append(items, it)
		}
	}
	logger.Debug("indexed desktop entries", "count", len(items), "dirs", len(dirs))
	return items
}
