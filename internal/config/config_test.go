package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.DefaultCursor != "left_ptr" {
		t.Fatalf("expected default_cursor left_ptr, got %q", cfg.DefaultCursor)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Watch != 500*time.Millisecond {
		t.Fatalf("expected default watch 500ms, got %v", res.Config.Watch)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "# empty")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("expected log_level info, got %q", res.Config.LogLevel)
	}
}

func TestLoadFromPath_ThemeSizeAndExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path,
		`display: ":1"`,
		`theme: Adwaita`,
		`size: 48`,
		`watch: 2s`,
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Theme != "Adwaita" || res.Config.Size != 48 {
		t.Fatalf("unexpected theme/size %q/%d", res.Config.Theme, res.Config.Size)
	}
	if res.Config.Watch != 2*time.Second {
		t.Fatalf("expected watch 2s, got %v", res.Config.Watch)
	}

	val, src, err := Explain(res, "size")
	if err != nil {
		t.Fatalf("explain size: %v", err)
	}
	if val != uint32(48) {
		t.Fatalf("expected explain size 48, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 3 {
		t.Fatalf("expected size from file line 3, got %#v", src)
	}

	_, src, err = Explain(res, "default_cursor")
	if err != nil {
		t.Fatalf("explain default_cursor: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}

	if _, _, err := Explain(res, "size.extra"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "unknown_key: 1")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, "config.d", "10-base.yaml"), "theme: base", "size: 24")
	writeConfig(t, filepath.Join(dir, "config.d", "20-override.yaml"), "theme: override")
	writeConfig(t, filepath.Join(dir, "config.d", "notes.txt"), "theme: ignored")

	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path,
		"include:",
		"  - config.d",
		"size: 32",
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Theme != "override" {
		t.Fatalf("expected theme override, got %q", res.Config.Theme)
	}
	if res.Config.Size != 32 {
		t.Fatalf("expected size 32, got %d", res.Config.Size)
	}
	if len(res.Files) != 3 || filepath.Base(res.Files[2]) != "config.yaml" {
		t.Fatalf("expected includes before main file, got %v", res.Files)
	}

	_, src, err := Explain(res, "theme")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if filepath.Base(src.File) != "20-override.yaml" {
		t.Fatalf("expected theme from 20-override.yaml, got %#v", src)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "include:", "  - missing.yaml")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":2:") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeConfig(t, a, "include: b.yaml")
	writeConfig(t, filepath.Join(dir, "b.yaml"), "include: a.yaml")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_DiamondIncludeMergesOnce(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, "common.yaml"), "theme: common")
	writeConfig(t, filepath.Join(dir, "left.yaml"), "include: common.yaml")
	writeConfig(t, filepath.Join(dir, "right.yaml"), "include: common.yaml", "theme: right")
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "include: [left.yaml, right.yaml]")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Theme != "right" {
		t.Fatalf("expected theme right, got %q", res.Config.Theme)
	}
	if len(res.Files) != 4 {
		t.Fatalf("expected 4 files, got %v", res.Files)
	}
}

func TestLoadFromPath_CursorOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, "base.yaml"),
		"cursors:",
		"  watch:",
		"    theme: spinner",
		"  xterm:",
		"    size: 40",
	)
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path,
		"include: base.yaml",
		"theme: Adwaita",
		"size: 24",
		"cursors:",
		"  watch:",
		"    size: 64",
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := res.Config.Cursors["watch"]; got != (CursorOverride{Theme: "spinner", Size: 64}) {
		t.Fatalf("expected merged watch override, got %#v", got)
	}

	tests := []struct {
		name      string
		wantTheme string
		wantSize  uint32
	}{
		{name: "watch", wantTheme: "spinner", wantSize: 64},
		{name: "xterm", wantTheme: "Adwaita", wantSize: 40},
		{name: "left_ptr", wantTheme: "Adwaita", wantSize: 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := res.Config.Cursor(tt.name)
			if got.Name != tt.name || got.Theme != tt.wantTheme || got.Size != tt.wantSize {
				t.Fatalf("Cursor(%q) = %#v", tt.name, got)
			}
		})
	}

	val, src, err := Explain(res, "cursors.watch.size")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != uint32(64) || src.Line != 6 {
		t.Fatalf("expected size 64 from line 6, got %#v %#v", val, src)
	}
	if _, _, err := Explain(res, "cursors.hand2"); err == nil {
		t.Fatalf("expected unknown cursors entry error")
	}
}

func TestLoadFromPath_ValidationHasSourceContext(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		path  string
	}{
		{name: "log level", lines: []string{"theme: x", "log_level: loud"}, path: "log_level"},
		{name: "size", lines: []string{"size: 5000"}, path: "size"},
		{name: "empty default", lines: []string{`default_cursor: ""`}, path: "default_cursor"},
		{name: "theme path", lines: []string{"theme: /usr/share/icons/x"}, path: "theme"},
		{name: "search path colon", lines: []string{"search_path: [\"/a:/b\"]"}, path: "search_path"},
		{name: "negative watch", lines: []string{"watch: -1s"}, path: "watch"},
		{name: "empty override", lines: []string{"cursors:", "  watch: {}"}, path: "cursors.watch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeConfig(t, path, tt.lines...)

			_, err := LoadFromPath(path)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
			if verr.Source.Kind != SourceFile || !strings.HasPrefix(err.Error(), verr.Source.File+":") {
				t.Fatalf("expected file:line:col prefix, got %v", err)
			}
		})
	}
}

func TestCursorSearchPath(t *testing.T) {
	env := map[string]string{"HOME": "/home/u", "XCURSOR_PATH": "/env/icons"}
	getenv := func(k string) string { return env[k] }

	cfg := DefaultConfig()
	if got := cfg.CursorSearchPath(getenv); !reflect.DeepEqual(got, []string{"/env/icons"}) {
		t.Fatalf("expected XCURSOR_PATH, got %v", got)
	}

	cfg.SearchPath = []string{"~/themes", "/opt/icons"}
	want := []string{"/home/u/themes", "/opt/icons"}
	if got := cfg.CursorSearchPath(getenv); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warning"
	if got := cfg.SlogLevel().String(); got != "WARN" {
		t.Fatalf("expected WARN, got %s", got)
	}
	cfg.LogLevel = "bogus"
	if got := cfg.SlogLevel().String(); got != "INFO" {
		t.Fatalf("expected INFO fallback, got %s", got)
	}
}

func TestSaveTo_LoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Theme = "Adwaita"
	cfg.Size = 32
	cfg.SearchPath = []string{"/opt/icons"}
	cfg.Cursors["watch"] = CursorOverride{Size: 48}
	cfg.Watch = 3 * time.Second

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(res.Config, cfg) {
		t.Fatalf("loaded %#v, want %#v", res.Config, cfg)
	}

	cfg.LogLevel = "chatty"
	if err := cfg.SaveTo(path); err == nil {
		t.Fatalf("expected invalid config to be rejected")
	}
}
