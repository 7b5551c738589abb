package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.Theme != nil {
		cfg.Theme = *raw.Theme
	}
	if raw.Size != nil {
		cfg.Size = *raw.Size
	}
	if raw.SearchPath != nil {
		cfg.SearchPath = append([]string(nil), (*raw.SearchPath)...)
	}
	if raw.DefaultCursor != nil {
		cfg.DefaultCursor = *raw.DefaultCursor
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}

	for _, name := range sortedKeys(raw.Cursors) {
		o := raw.Cursors[name]
		var eff CursorOverride
		if o.Theme != nil {
			eff.Theme = *o.Theme
		}
		if o.Size != nil {
			eff.Size = *o.Size
		}
		if eff == (CursorOverride{}) {
			return nil, &ValidationError{Path: "cursors." + name, Err: fmt.Errorf("override must set theme or size")}
		}
		cfg.Cursors[name] = eff
	}

	return cfg, nil
}
