package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/xcurs/internal/xcursor"
)

// MaxCursorSize bounds configured sizes. Xcursor files store dimensions in
// 32 bits but servers reject anything near that.
const MaxCursorSize = 1024

// CursorOverride replaces the theme or size for one cursor name.
type CursorOverride struct {
	Theme string `yaml:"theme,omitempty"`
	Size  uint32 `yaml:"size,omitempty"`
}

// Config is the effective xcurs configuration.
type Config struct {
	// Display is the X display to connect to. Empty means $DISPLAY.
	Display    string `yaml:"display"`
	XAuthority string `yaml:"xauthority"`

	// Theme and Size override Xcursor.theme and Xcursor.size from the
	// resource database. Size 0 keeps the resource value.
	Theme string `yaml:"theme"`
	Size  uint32 `yaml:"size"`

	// SearchPath replaces XCURSOR_PATH when non-empty. Entries may start
	// with "~".
	SearchPath []string `yaml:"search_path"`

	// DefaultCursor is what `xcurs apply` sets on the root window.
	DefaultCursor string                    `yaml:"default_cursor"`
	Cursors       map[string]CursorOverride `yaml:"cursors"`

	LogLevel string `yaml:"log_level"`

	// Watch is the debounce interval of `xcurs apply --watch`.
	Watch time.Duration `yaml:"watch"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DefaultCursor: "left_ptr",
		Cursors:       map[string]CursorOverride{},
		LogLevel:      "info",
		Watch:         500 * time.Millisecond,
	}
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DefaultCursor) == "" {
		return &ValidationError{Path: "default_cursor", Err: fmt.Errorf("default_cursor must not be empty")}
	}
	if strings.ContainsRune(c.DefaultCursor, '/') {
		return &ValidationError{Path: "default_cursor", Err: fmt.Errorf("default_cursor must be a cursor name, not a path")}
	}
	if c.Size > MaxCursorSize {
		return &ValidationError{Path: "size", Err: fmt.Errorf("size must be <= %d", MaxCursorSize)}
	}
	if strings.ContainsRune(c.Theme, '/') {
		return &ValidationError{Path: "theme", Err: fmt.Errorf("theme must be a theme name, not a path")}
	}
	for i, dir := range c.SearchPath {
		if strings.TrimSpace(dir) == "" {
			return &ValidationError{Path: "search_path", Err: fmt.Errorf("search_path entry %d is empty", i)}
		}
		if strings.ContainsRune(dir, ':') {
			return &ValidationError{Path: "search_path", Err: fmt.Errorf("search_path entry %q must not contain ':'", dir)}
		}
	}
	for _, name := range sortedKeys(c.Cursors) {
		override := c.Cursors[name]
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "cursors", Err: fmt.Errorf("cursors contains an empty name")}
		}
		if override.Size > MaxCursorSize {
			return &ValidationError{Path: "cursors." + name + ".size", Err: fmt.Errorf("size must be <= %d", MaxCursorSize)}
		}
	}
	if _, ok := parseLogLevel(c.LogLevel); !ok {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Watch < 0 {
		return &ValidationError{Path: "watch", Err: fmt.Errorf("watch must be >= 0")}
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}

// SlogLevel converts LogLevel for slog handlers. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	level, ok := parseLogLevel(c.LogLevel)
	if !ok {
		return slog.LevelInfo
	}
	return level
}

// CursorSearchPath is the theme search path: SearchPath when set,
// otherwise XCURSOR_PATH or the default path.
func (c *Config) CursorSearchPath(getenv func(string) string) []string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if len(c.SearchPath) == 0 {
		return xcursor.SearchPath(getenv)
	}
	return xcursor.ExpandSearchPath(strings.Join(c.SearchPath, ":"), getenv("HOME"))
}

// Cursor returns the load request for name with the per-cursor override
// applied on top of the global theme and size.
func (c *Config) Cursor(name string) xcursor.LoadConfig {
	cfg := xcursor.LoadConfig{Name: name, Theme: c.Theme, Size: c.Size}
	if o, ok := c.Cursors[name]; ok {
		if o.Theme != "" {
			cfg.Theme = o.Theme
		}
		if o.Size != 0 {
			cfg.Size = o.Size
		}
	}
	return cfg
}

// CursorOptions configures an xcursor.Context from the config. A nil
// getenv reads the process environment.
func (c *Config) CursorOptions(logger *slog.Logger, getenv func(string) string) []xcursor.Option {
	opts := []xcursor.Option{
		xcursor.WithSearchPath(c.CursorSearchPath(getenv)),
		xcursor.WithTheme(c.Theme),
		xcursor.WithSize(c.Size),
	}
	if logger != nil {
		opts = append(opts, xcursor.WithLogger(logger))
	}
	return opts
}

// Marshal renders the effective config as YAML, for `xcurs config print`.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// SaveTo validates the config and writes it to path as a single file.
// Includes are not preserved.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ConfigDir is the directory holding config.yaml.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "xcurs"), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
