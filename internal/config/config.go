package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Config represents the grimoire configuration.
type Config struct {
	UI     UIConfig     `yaml:"ui"`
	Launch LaunchConfig `yaml:"launch"`
	State  StateConfig  `yaml:"state"`
	Log    LogConfig    `yaml:"log"`
}

// UIConfig holds window, font and grid settings.
type UIConfig struct {
	Font              string  `yaml:"font" toml:"font"`                               // Font file path or family name
	FontSize          float64 `yaml:"font_size" toml:"font_size"`                     // Query and item name size in px
	CommentFontSize   float64 `yaml:"comment_font_size" toml:"comment_font_size"`     // Comment line size in px
	IconSize          int     `yaml:"icon_size" toml:"icon_size"`                     // Icon edge in px
	WindowWidth       int     `yaml:"window_width" toml:"window_width"`               // Initial width in px
	WindowHeight      int     `yaml:"window_height" toml:"window_height"`             // Initial height in px
	Columns           int     `yaml:"columns" toml:"columns"`                         // Requested grid columns
	ShowComments      bool    `yaml:"show_comments" toml:"show_comments"`             // Draw the comment line
	SearchComments    bool    `yaml:"search_comments" toml:"search_comments"`         // Match queries against comments
	ColorFile         string  `yaml:"color_file" toml:"color_file"`                   // key=value color file (empty = defaults)
	GlyphCacheEntries int     `yaml:"glyph_cache_entries" toml:"glyph_cache_entries"` // Shaped text runs kept (0 = off)
}

// LaunchConfig holds settings for starting applications.
type LaunchConfig struct {
	Terminal string `yaml:"terminal" toml:"terminal"` // Prefix for Terminal=true entries
}

// StateConfig holds frecency persistence settings.
type StateConfig struct {
	Backend string `yaml:"backend"` // toml or sqlite
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (overrides default)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Font:              "~/.local/share/fonts/GoogleSansCode-Regular.ttf",
			FontSize:          18,
			CommentFontSize:   14,
			IconSize:          32,
			WindowWidth:       600,
			WindowHeight:      400,
			Columns:           1,
			ShowComments:      true,
			SearchComments:    false,
			ColorFile:         "",
			GlyphCacheEntries: 256,
		},
		Launch: LaunchConfig{
			Terminal: "ghostty -e",
		},
		State: StateConfig{
			Backend: "toml",
		},
		Log: LogConfig{
			Level: "info",
			File:  "", // Use default from paths
		},
	}
}

// Load loads configuration from the default path. When no YAML file
// exists the legacy TOML file is read instead.
func Load() (*Config, error) {
	paths := DefaultPaths()
	path := paths.ConfigFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if legacy := LegacyConfigFile(); fileExists(legacy) {
			return LoadLegacyFile(legacy)
		}
	}
	return LoadFromFile(path)
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration. A file that
// fails to parse also yields the defaults, together with the parse error.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		cfg.ApplyEnvOverrides()
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = DefaultConfig()
		cfg.ApplyEnvOverrides()
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()
	cfg.Validate()
	return cfg, nil
}

// LoadLegacyFile reads the flat TOML format older grimoire versions kept
// under widgets/grimoire.toml. Only ui and launch settings exist there.
func LoadLegacyFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	var flat struct {
		UIConfig
		LaunchConfig
	}
	flat.UIConfig = cfg.UI
	flat.LaunchConfig = cfg.Launch
	if _, err := toml.DecodeFile(path, &flat); err != nil {
		cfg.ApplyEnvOverrides()
		return cfg, fmt.Errorf("failed to parse legacy config file: %w", err)
	}
	cfg.UI = flat.UIConfig
	cfg.Launch = flat.LaunchConfig

	cfg.ApplyEnvOverrides()
	cfg.Validate()
	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "ui.font_size" or "launch.terminal"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "ui":
		return c.getUIField(field)
	case "launch":
		return c.getLaunchField(field)
	case "state":
		return c.getStateField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "ui":
		return c.setUIField(field, value)
	case "launch":
		return c.setLaunchField(field, value)
	case "state":
		return c.setStateField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (string, string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getUIField(field string) (string, error) {
	switch field {
	case "font":
		return c.UI.Font, nil
	case "font_size":
		return formatFloat(c.UI.FontSize), nil
	case "comment_font_size":
		return formatFloat(c.UI.CommentFontSize), nil
	case "icon_size":
		return strconv.Itoa(c.UI.IconSize), nil
	case "window_width":
		return strconv.Itoa(c.UI.WindowWidth), nil
	case "window_height":
		return strconv.Itoa(c.UI.WindowHeight), nil
	case "columns":
		return strconv.Itoa(c.UI.Columns), nil
	case "show_comments":
		return strconv.FormatBool(c.UI.ShowComments), nil
	case "search_comments":
		return strconv.FormatBool(c.UI.SearchComments), nil
	case "color_file":
		return c.UI.ColorFile, nil
	case "glyph_cache_entries":
		return strconv.Itoa(c.UI.GlyphCacheEntries), nil
	default:
		return "", fmt.Errorf("unknown field: ui.%s", field)
	}
}

func (c *Config) setUIField(field, value string) error {
	switch field {
	case "font":
		c.UI.Font = value
	case "font_size":
		return setPositiveFloat(&c.UI.FontSize, field, value)
	case "comment_font_size":
		return setPositiveFloat(&c.UI.CommentFontSize, field, value)
	case "icon_size":
		return setPositiveInt(&c.UI.IconSize, field, value)
	case "window_width":
		return setPositiveInt(&c.UI.WindowWidth, field, value)
	case "window_height":
		return setPositiveInt(&c.UI.WindowHeight, field, value)
	case "columns":
		return setPositiveInt(&c.UI.Columns, field, value)
	case "show_comments":
		return setBool(&c.UI.ShowComments, field, value)
	case "search_comments":
		return setBool(&c.UI.SearchComments, field, value)
	case "color_file":
		c.UI.ColorFile = value
	case "glyph_cache_entries":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for glyph_cache_entries: %w", err)
		}
		if v < 0 {
			return fmt.Errorf("invalid glyph_cache_entries: must be non-negative")
		}
		c.UI.GlyphCacheEntries = v
	default:
		return fmt.Errorf("unknown field: ui.%s", field)
	}
	return nil
}

func (c *Config) getLaunchField(field string) (string, error) {
	switch field {
	case "terminal":
		return c.Launch.Terminal, nil
	default:
		return "", fmt.Errorf("unknown field: launch.%s", field)
	}
}

func (c *Config) setLaunchField(field, value string) error {
	switch field {
	case "terminal":
		if !isValidTerminal(value) {
			return fmt.Errorf("invalid terminal: %q does not split into words", value)
		}
		c.Launch.Terminal = value
	default:
		return fmt.Errorf("unknown field: launch.%s", field)
	}
	return nil
}

func (c *Config) getStateField(field string) (string, error) {
	switch field {
	case "backend":
		return c.State.Backend, nil
	default:
		return "", fmt.Errorf("unknown field: state.%s", field)
	}
}

func (c *Config) setStateField(field, value string) error {
	switch field {
	case "backend":
		if !isValidBackend(value) {
			return fmt.Errorf("invalid backend: %s (must be toml or sqlite)", value)
		}
		c.State.Backend = value
	default:
		return fmt.Errorf("unknown field: state.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func setPositiveFloat(dst *float64, field, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	if v <= 0 {
		return fmt.Errorf("invalid %s: must be positive", field)
	}
	*dst = v
	return nil
}

func setPositiveInt(dst *int, field, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	if v <= 0 {
		return fmt.Errorf("invalid %s: must be positive", field)
	}
	*dst = v
	return nil
}

func setBool(dst *bool, field, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	*dst = v
	return nil
}

// ValidationWarning represents a config validation warning.
type ValidationWarning struct {
	Field   string
	Message string
}

// Validate fixes invalid values by falling back to defaults or clamping.
// Returns a list of warnings for diagnostics. Validation never prevents
// startup.
func (c *Config) Validate() []ValidationWarning {
	defaults := DefaultConfig()
	var warnings []ValidationWarning

	warn := func(field, msg string) {
		warnings = append(warnings, ValidationWarning{Field: field, Message: msg})
		slog.Warn("config: "+field+": "+msg, "component", "config")
	}

	if c.UI.FontSize <= 0 {
		warn("ui.font_size", "must be positive, using default")
		c.UI.FontSize = defaults.UI.FontSize
	}
	if c.UI.CommentFontSize <= 0 {
		warn("ui.comment_font_size", "must be positive, using default")
		c.UI.CommentFontSize = defaults.UI.CommentFontSize
	}
	if c.UI.IconSize <= 0 {
		warn("ui.icon_size", "must be positive, using default")
		c.UI.IconSize = defaults.UI.IconSize
	}
	if c.UI.WindowWidth <= 0 {
		warn("ui.window_width", "must be positive, using default")
		c.UI.WindowWidth = defaults.UI.WindowWidth
	}
	if c.UI.WindowHeight <= 0 {
		warn("ui.window_height", "must be positive, using default")
		c.UI.WindowHeight = defaults.UI.WindowHeight
	}
	if c.UI.Columns < 1 {
		warn("ui.columns", "clamped to 1")
		c.UI.Columns = 1
	}
	if c.UI.GlyphCacheEntries < 0 {
		warn("ui.glyph_cache_entries", "clamped to 0")
		c.UI.GlyphCacheEntries = 0
	}
	if !isValidTerminal(c.Launch.Terminal) {
		warn("launch.terminal", "does not split into words, using default")
		c.Launch.Terminal = defaults.Launch.Terminal
	}
	if !isValidBackend(c.State.Backend) {
		warn("state.backend", "must be toml or sqlite, using default")
		c.State.Backend = defaults.State.Backend
	}
	if !isValidLogLevel(c.Log.Level) {
		warn("log.level", "must be debug, info, warn, or error, using default")
		c.Log.Level = defaults.Log.Level
	}

	return warnings
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidBackend(backend string) bool {
	switch backend {
	case "toml", "sqlite":
		return true
	default:
		return false
	}
}

// isValidTerminal reports whether the terminal prefix tokenizes. An empty
// prefix is allowed and runs terminal entries directly.
func isValidTerminal(terminal string) bool {
	_, err := shlex.Split(terminal)
	return err == nil
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("GRIMOIRE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("GRIMOIRE_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("GRIMOIRE_TERMINAL"); v != "" {
		if isValidTerminal(v) {
			c.Launch.Terminal = v
		}
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"ui.font",
		"ui.font_size",
		"ui.comment_font_size",
		"ui.icon_size",
		"ui.window_width",
		"ui.window_height",
		"ui.columns",
		"ui.show_comments",
		"ui.search_comments",
		"ui.color_file",
		"ui.glyph_cache_entries",
		"launch.terminal",
		"state.backend",
		"log.level",
		"log.file",
	}
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
