package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at a YAML path and where it came
// from.
//
// Supported paths:
//
//	display
//	xauthority
//	theme
//	size
//	search_path
//	default_cursor
//	cursors
//	cursors.<name>
//	cursors.<name>.theme
//	cursors.<name>.size
//	log_level
//	watch
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	if parts[0] == "cursors" {
		return lookupCursor(cfg, path, parts[1:])
	}
	if len(parts) != 1 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch parts[0] {
	case "display":
		return cfg.Display, nil
	case "xauthority":
		return cfg.XAuthority, nil
	case "theme":
		return cfg.Theme, nil
	case "size":
		return cfg.Size, nil
	case "search_path":
		return cfg.SearchPath, nil
	case "default_cursor":
		return cfg.DefaultCursor, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "watch":
		return cfg.Watch, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}

func lookupCursor(cfg *Config, path string, parts []string) (any, error) {
	if len(parts) == 0 {
		return cfg.Cursors, nil
	}
	override, ok := cfg.Cursors[parts[0]]
	if !ok {
		return nil, fmt.Errorf("unknown cursors entry %q", parts[0])
	}
	switch {
	case len(parts) == 1:
		return override, nil
	case len(parts) == 2 && parts[1] == "theme":
		return override.Theme, nil
	case len(parts) == 2 && parts[1] == "size":
		return override.Size, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
