// Package config provides configuration management for grimoire.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds all the path configurations for grimoire.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/grimoire)
	ConfigDir string

	// StateDir holds the frecency state (~/.local/state/widgets). The
	// directory is shared with sibling widgets, so files in it carry the
	// grimoire prefix.
	StateDir string

	// CacheDir is the directory for icon and font caches (~/.cache/grimoire)
	CacheDir string

	// RuntimeDir is the directory for runtime files like the instance lock
	RuntimeDir string
}

// DefaultPaths returns the default paths based on XDG Base Directory spec.
// On Windows, it uses %APPDATA% instead.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}

		return &Paths{
			ConfigDir:  filepath.Join(appData, "grimoire"),
			StateDir:   filepath.Join(localAppData, "widgets"),
			CacheDir:   filepath.Join(localAppData, "grimoire", "cache"),
			RuntimeDir: filepath.Join(localAppData, "grimoire", "run"),
		}
	}

	configHome := xdgDir("XDG_CONFIG_HOME", home, ".config")
	stateHome := xdgDir("XDG_STATE_HOME", home, ".local", "state")
	cacheHome := xdgDir("XDG_CACHE_HOME", home, ".cache")

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		// Fallback to the cache dir when no session runtime dir exists
		runtimeDir = filepath.Join(cacheHome, "grimoire", "run")
	} else {
		runtimeDir = filepath.Join(runtimeDir, "grimoire")
	}

	return &Paths{
		ConfigDir:  filepath.Join(configHome, "grimoire"),
		StateDir:   filepath.Join(stateHome, "widgets"),
		CacheDir:   filepath.Join(cacheHome, "grimoire"),
		RuntimeDir: runtimeDir,
	}
}

func xdgDir(env, home string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// LogFile returns the path to the log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.StateDir, "grimoire.log")
}

// LockFile returns the path of the single-instance lock.
func (p *Paths) LockFile() string {
	return filepath.Join(p.RuntimeDir, "grimoire.lock")
}

// IconCacheDir returns the directory for rasterized icons.
func (p *Paths) IconCacheDir() string {
	return filepath.Join(p.CacheDir, "icons")
}

// FontCacheDir returns the directory for the font family index.
func (p *Paths) FontCacheDir() string {
	return filepath.Join(p.CacheDir, "fonts")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.ConfigDir,
		p.StateDir,
		p.CacheDir,
		p.RuntimeDir,
		p.IconCacheDir(),
		p.FontCacheDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback
		if runtime.GOOS == "windows" {
			return os.Getenv("USERPROFILE")
		}
		return os.Getenv("HOME")
	}
	return home
}

// LegacyConfigFile returns the flat TOML config older versions read
// (~/.config/widgets/grimoire.toml).
func LegacyConfigFile() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", homeDir(), ".config"), "widgets", "grimoire.toml")
}
