package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawCursorOverride struct {
	Theme *string `yaml:"theme"`
	Size  *uint32 `yaml:"size"`
}

// RawConfig is one config file as written. Nil fields were not set and
// leave lower layers untouched when merged.
type RawConfig struct {
	Include       IncludeList                  `yaml:"include"`
	Display       *string                      `yaml:"display"`
	XAuthority    *string                      `yaml:"xauthority"`
	Theme         *string                      `yaml:"theme"`
	Size          *uint32                      `yaml:"size"`
	SearchPath    *[]string                    `yaml:"search_path"`
	DefaultCursor *string                      `yaml:"default_cursor"`
	Cursors       map[string]RawCursorOverride `yaml:"cursors"`
	LogLevel      *string                      `yaml:"log_level"`
	Watch         *time.Duration               `yaml:"watch"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.Theme != nil {
		out.Theme = overlay.Theme
	}
	if overlay.Size != nil {
		out.Size = overlay.Size
	}
	if overlay.SearchPath != nil {
		out.SearchPath = overlay.SearchPath
	}
	if overlay.DefaultCursor != nil {
		out.DefaultCursor = overlay.DefaultCursor
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Watch != nil {
		out.Watch = overlay.Watch
	}

	if overlay.Cursors != nil {
		merged := make(map[string]RawCursorOverride, len(c.Cursors)+len(overlay.Cursors))
		for name, o := range c.Cursors {
			merged[name] = o
		}
		for name, o := range overlay.Cursors {
			merged[name] = mergeRawCursorOverride(merged[name], o)
		}
		out.Cursors = merged
	}

	return out
}

func mergeRawCursorOverride(base RawCursorOverride, overlay RawCursorOverride) RawCursorOverride {
	out := base
	if overlay.Theme != nil {
		out.Theme = overlay.Theme
	}
	if overlay.Size != nil {
		out.Size = overlay.Size
	}
	return out
}
