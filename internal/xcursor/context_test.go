package xcursor

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
)

func TestNewContext_SizeAndTheme(t *testing.T) {
	tests := []struct {
		name      string
		resources string
		resErr    error
		opts      []Option
		wantTheme string
		wantSize  uint32
	}{
		{name: "screen fallback", wantSize: 22},
		{
			name:      "resource database",
			resources: "Xcursor.theme: Adwaita\nXcursor.size: 32\nXft.dpi: 96\n",
			wantTheme: "Adwaita",
			wantSize:  32,
		},
		{name: "dpi derived", resources: "Xft.dpi: 192\n", wantSize: 42},
		{name: "explicit zero size", resources: "Xcursor.size: 0\n", wantSize: 0},
		{name: "unreadable property", resErr: errors.New("boom"), wantSize: 22},
		{
			name:      "overrides",
			resources: "Xcursor.theme: Adwaita\nXcursor.size: 32\n",
			opts:      []Option{WithTheme("Breeze"), WithSize(48)},
			wantTheme: "Breeze",
			wantSize:  48,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDisplay()
			d.resources, d.resErr = tt.resources, tt.resErr
			opts := append([]Option{WithSearchPath(nil), WithLogger(discardLogger())}, tt.opts...)
			c := NewContext(d, opts...)
			if c.Theme() != tt.wantTheme || c.Size() != tt.wantSize {
				t.Fatalf("got theme %q size %d, want %q %d", c.Theme(), c.Size(), tt.wantTheme, tt.wantSize)
			}
		})
	}
}

func TestNewContext_SearchPathFromEnv(t *testing.T) {
	env := map[string]string{"XCURSOR_PATH": "/a:~/b", "HOME": "/home/u"}
	c := NewContext(newFakeDisplay(),
		WithEnv(func(k string) string { return env[k] }),
		WithLogger(discardLogger()))
	got := c.Resolver().Paths()
	if len(got) != 2 || got[0] != "/a" || got[1] != "/home/u/b" {
		t.Fatalf("Paths() = %v", got)
	}
}

func TestNewContext_RenderSupport(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(d *fakeDisplay)
		wantOK       bool
		wantAnimated bool
	}{
		{name: "animated", setup: func(d *fakeDisplay) {}, wantOK: true, wantAnimated: true},
		{name: "major version", setup: func(d *fakeDisplay) { d.major, d.minor = 1, 0 }, wantOK: true, wantAnimated: true},
		{name: "static only", setup: func(d *fakeDisplay) { d.minor = 5 }, wantOK: true},
		{name: "no cursors", setup: func(d *fakeDisplay) { d.minor = 4 }},
		{name: "absent", setup: func(d *fakeDisplay) { d.renderOK = false }},
		{name: "query fails", setup: func(d *fakeDisplay) { d.renderErr = errors.New("boom") }},
		{name: "no argb format", setup: func(d *fakeDisplay) { d.formats = d.formats[:1] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDisplay()
			tt.setup(d)
			cfg, ok := newTestContext(t, d).Render()
			if ok != tt.wantOK || cfg.Animated != tt.wantAnimated {
				t.Fatalf("Render() = %+v, %v", cfg, ok)
			}
			if ok && cfg.Format != argb32.Id {
				t.Fatalf("picked format %#x, want %#x", cfg.Format, argb32.Id)
			}
		})
	}
}

func TestNewContext_FontFailureIsNotFatal(t *testing.T) {
	d := newFakeDisplay()
	d.fontErr = errors.New("no such font")
	c := newTestContext(t, d)
	if _, ok := c.Render(); !ok {
		t.Fatalf("render support must not depend on the cursor font")
	}
}

func cursorTheme(t *testing.T) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	var buf bytes.Buffer
	if err := Encode(&buf, 24, []Image{solidImage(24, 24, 30), solidImage(24, 24, 30)}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	writeFile(t, fs, "/icons/mytheme/cursors/watch", buf.String())
	writeFile(t, fs, "/icons/mytheme/cursors/broken", "definitely not a cursor")
	return fs
}

func loadContext(t *testing.T, d *fakeDisplay) *Context {
	t.Helper()
	return NewContext(d,
		WithFilesystem(cursorTheme(t)),
		WithSearchPath([]string{"/icons"}),
		WithTheme("mytheme"),
		WithLogger(discardLogger()))
}

func TestLoadCursor_FromTheme(t *testing.T) {
	d := newFakeDisplay()
	c := loadContext(t, d)

	cursor, err := c.LoadCursor(LoadConfig{Name: "watch", Size: 48})
	if err != nil {
		t.Fatalf("LoadCursor: %v", err)
	}
	if d.live[uint32(cursor)] != "cursor" {
		t.Fatalf("cursor %d not created: %s", cursor, d)
	}
	if d.lastRequest("CreateAnimCursor") < 0 || len(d.putImageBytes) != 2 {
		t.Fatalf("expected an animated cursor from two frames: %s", d)
	}
	if d.lastRequest("CreateGlyphCursor") != -1 {
		t.Fatalf("theme hit must not fall back to a glyph")
	}
}

func TestLoadCursor_GlyphFallback(t *testing.T) {
	d := newFakeDisplay()
	c := loadContext(t, d)

	res, err := c.Find(LoadConfig{Name: "fleur"})
	if err != nil || !res.IsGlyph {
		t.Fatalf("Find = %+v, %v", res, err)
	}
	cursor, err := c.LoadCursor(LoadConfig{Name: "fleur"})
	if err != nil {
		t.Fatalf("LoadCursor: %v", err)
	}
	if d.lastRequest("CreateGlyphCursor") < 0 || d.live[uint32(cursor)] != "cursor" {
		t.Fatalf("expected a glyph cursor: %s", d)
	}
}

func TestLoadCursor_NoRenderUsesGlyphs(t *testing.T) {
	d := newFakeDisplay()
	d.renderOK = false
	c := loadContext(t, d)

	res, err := c.Find(LoadConfig{Name: "watch"})
	if err != nil || !res.IsGlyph {
		t.Fatalf("themes must be skipped without render: %+v, %v", res, err)
	}
	if _, err := c.LoadCursor(LoadConfig{Name: "watch"}); err != nil {
		t.Fatalf("LoadCursor: %v", err)
	}
	if len(d.putImageBytes) != 0 {
		t.Fatalf("no image may be uploaded without render")
	}
}

func TestLoadResolved_UsesGivenResolution(t *testing.T) {
	d := newFakeDisplay()
	c := loadContext(t, d)

	// No cursor is named "busy"; the path alone decides what loads.
	res := Resolution{Theme: "mytheme", Path: "/icons/mytheme/cursors/watch"}
	cursor, err := c.LoadResolved(res, 0)
	if err != nil {
		t.Fatalf("LoadResolved: %v", err)
	}
	if d.live[uint32(cursor)] != "cursor" || d.lastRequest("CreateAnimCursor") < 0 {
		t.Fatalf("expected the animated watch cursor: %s", d)
	}

	glyph, ok := CoreGlyph("fleur")
	if !ok {
		t.Fatal("fleur is a core glyph")
	}
	cursor, err = c.LoadResolved(Resolution{Theme: CoreTheme, Glyph: glyph, IsGlyph: true}, 0)
	if err != nil {
		t.Fatalf("LoadResolved glyph: %v", err)
	}
	if d.lastRequest("CreateGlyphCursor") < 0 || d.live[uint32(cursor)] != "cursor" {
		t.Fatalf("expected a glyph cursor: %s", d)
	}
}

func TestLoadCursor_Errors(t *testing.T) {
	d := newFakeDisplay()
	c := loadContext(t, d)

	if _, err := c.LoadCursor(LoadConfig{Name: "no_such_cursor"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.LoadCursor(LoadConfig{Name: "broken"}); !errors.Is(err, ErrNotXcursorFile) {
		t.Fatalf("expected ErrNotXcursorFile, got %v", err)
	}
	if len(d.log) != 0 {
		t.Fatalf("failed lookups must not reach the server: %v", d.log)
	}

	d.badGlyph = true
	if _, err := c.LoadCursor(LoadConfig{Name: "fleur"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("a rejected glyph must read as ErrNotFound, got %v", err)
	}
}

func TestContext_CloseReleasesFont(t *testing.T) {
	d := newFakeDisplay()
	c := NewContext(d, WithSearchPath(nil), WithLogger(discardLogger()))

	fonts := func() int {
		n := 0
		for _, kind := range d.live {
			if kind == "font" {
				n++
			}
		}
		return n
	}
	if fonts() != 1 {
		t.Fatalf("expected the cursor font to be open, live = %v", d.live)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if fonts() != 0 {
		t.Fatalf("font still open after Close, live = %v", d.live)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
