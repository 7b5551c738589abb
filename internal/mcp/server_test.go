package mcp

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/1broseidon/xcurs/internal/config"
	"github.com/1broseidon/xcurs/internal/x11"
	"github.com/1broseidon/xcurs/internal/xcursor"
	"github.com/1broseidon/xcurs/internal/xerr"
)

type fakeDisplay struct {
	parser   *xerr.Parser
	err      error
	closed   bool
	applied  []xcursor.LoadConfig
	opts     x11.ApplyOptions
	res      xcursor.Resolution
	applyErr error
}

func (d *fakeDisplay) Errors() *xerr.Parser { return d.parser }
func (d *fakeDisplay) Err() error           { return d.err }
func (d *fakeDisplay) Close()               { d.closed = true }

func (d *fakeDisplay) Apply(cfg xcursor.LoadConfig, opts x11.ApplyOptions) (xcursor.Resolution, error) {
	d.applied = append(d.applied, cfg)
	d.opts = opts
	return d.res, d.applyErr
}

func writeFile(t *testing.T, fs billy.Filesystem, name string, data []byte) {
	t.Helper()
	if err := util.WriteFile(fs, name, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func solid(size uint16, delay uint32) xcursor.Image {
	pixels := make([]uint32, int(size)*int(size))
	for i := range pixels {
		pixels[i] = 0xff000000
	}
	return xcursor.Image{Width: size, Height: size, XHot: 1, YHot: 2, Delay: delay, Pixels: pixels}
}

func encode(t *testing.T, size uint32, images ...xcursor.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := xcursor.Encode(&buf, size, images); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

// testServer serves themes from a memfs:
//
//	mine  -> base
//	other (watch only)
func testServer(t *testing.T, dial func() (Display, error)) (*Server, billy.Filesystem) {
	t.Helper()
	fs := memfs.New()
	writeFile(t, fs, "/icons/mine/index.theme", []byte("[Icon Theme]\nInherits=base\n"))
	writeFile(t, fs, "/icons/mine/cursors/xterm", encode(t, 24, solid(4, 0)))
	writeFile(t, fs, "/icons/base/cursors/left_ptr", encode(t, 24, solid(4, 0)))
	writeFile(t, fs, "/icons/base/cursors/left_side", encode(t, 24, solid(4, 0)))
	writeFile(t, fs, "/icons/other/cursors/watch", encode(t, 24, solid(4, 40), solid(4, 60)))

	cfg := config.DefaultConfig()
	cfg.Theme = "mine"
	cfg.SearchPath = []string{"/icons"}
	cfg.Cursors["watch"] = config.CursorOverride{Theme: "other"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	getenv := func(string) string { return "" }
	return newServer(cfg, logger, fs, getenv, dial), fs
}

func noDisplay() (Display, error) { return nil, errors.New("no display") }

func packet(code byte, seq uint16, value uint32, major byte, minor uint16) string {
	raw := xerr.NewRaw(code, seq, value, major, minor)
	return hex.EncodeToString(raw[:])
}

func TestResolveCursor(t *testing.T) {
	s, _ := testServer(t, noDisplay)
	ctx := context.Background()

	tests := []struct {
		name      string
		theme     string
		wantTheme string
		wantPath  string
		wantGlyph uint16
	}{
		{name: "xterm", wantTheme: "mine", wantPath: "/icons/mine/cursors/xterm"},
		{name: "left_ptr", wantTheme: "base", wantPath: "/icons/base/cursors/left_ptr"},
		{name: "watch", wantTheme: "other", wantPath: "/icons/other/cursors/watch"},
		{name: "xterm", theme: "base", wantTheme: "core", wantGlyph: 152},
		{name: "fleur", wantTheme: "core", wantGlyph: 52},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.theme, func(t *testing.T) {
			_, out, err := s.handleResolveCursor(ctx, nil, ResolveCursorInput{Name: tt.name, Theme: tt.theme})
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if out.Theme != tt.wantTheme || out.Path != tt.wantPath {
				t.Fatalf("got theme %q path %q", out.Theme, out.Path)
			}
			if tt.wantPath == "" && (out.Glyph == nil || *out.Glyph != tt.wantGlyph) {
				t.Fatalf("expected glyph %d, got %v", tt.wantGlyph, out.Glyph)
			}
			if !reflect.DeepEqual(out.SearchPath, []string{"/icons"}) {
				t.Fatalf("unexpected search path %v", out.SearchPath)
			}
		})
	}

	if _, _, err := s.handleResolveCursor(ctx, nil, ResolveCursorInput{Name: "no_such_cursor"}); !errors.Is(err, xcursor.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := s.handleResolveCursor(ctx, nil, ResolveCursorInput{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestInspectCursor(t *testing.T) {
	s, fs := testServer(t, noDisplay)
	ctx := context.Background()

	_, out, err := s.handleInspectCursor(ctx, nil, InspectCursorInput{Path: "/icons/other/cursors/watch"})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if out.Entries != 2 || !reflect.DeepEqual(out.Sizes, []uint32{24}) || out.Selected != 24 {
		t.Fatalf("unexpected toc summary %+v", out)
	}
	if !out.Animated || len(out.Frames) != 2 {
		t.Fatalf("expected two animated frames, got %+v", out.Frames)
	}
	if out.Frames[1].Delay != 60 || out.Frames[0].XHot != 1 || out.Frames[0].YHot != 2 {
		t.Fatalf("unexpected frames %+v", out.Frames)
	}

	writeFile(t, fs, "/tmp/not-a-cursor", []byte("hello, this is not a cursor file"))
	if _, _, err := s.handleInspectCursor(ctx, nil, InspectCursorInput{Path: "/tmp/not-a-cursor"}); !errors.Is(err, xcursor.ErrNotXcursorFile) {
		t.Fatalf("expected ErrNotXcursorFile, got %v", err)
	}
	if _, _, err := s.handleInspectCursor(ctx, nil, InspectCursorInput{Path: "/missing"}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNearestSize(t *testing.T) {
	const image = 0xfffd0002
	toc := []xcursor.TocEntry{
		{Type: 0xfffe0001, Size: 1},
		{Type: image, Size: 32},
		{Type: image, Size: 16},
		{Type: image, Size: 48},
		{Type: image, Size: 16},
	}
	tests := []struct {
		target uint32
		want   uint32
	}{
		{target: 24, want: 32},
		{target: 20, want: 16},
		{target: 1, want: 16},
		{target: 100, want: 48},
		{target: 40, want: 32},
	}
	for _, tt := range tests {
		if got := nearestSize(toc, tt.target); got != tt.want {
			t.Errorf("nearestSize(%d) = %d, want %d", tt.target, got, tt.want)
		}
	}
	if got := nominalSizes(toc); !reflect.DeepEqual(got, []uint32{16, 32, 48}) {
		t.Errorf("nominalSizes = %v", got)
	}
}

func TestListThemesAndCursors(t *testing.T) {
	s, _ := testServer(t, noDisplay)
	ctx := context.Background()

	_, themes, err := s.handleListThemes(ctx, nil, ListThemesInput{})
	if err != nil {
		t.Fatalf("list themes: %v", err)
	}
	want := []ThemeInfo{
		{Name: "base"},
		{Name: "mine", Inherits: []string{"base"}},
		{Name: "other"},
	}
	if !reflect.DeepEqual(themes.Themes, want) {
		t.Fatalf("themes = %+v, want %+v", themes.Themes, want)
	}

	_, cursors, err := s.handleListCursors(ctx, nil, ListCursorsInput{Theme: "mine", Pattern: "left_*"})
	if err != nil {
		t.Fatalf("list cursors: %v", err)
	}
	if !reflect.DeepEqual(cursors.Cursors, []string{"left_ptr", "left_side"}) {
		t.Fatalf("cursors = %v", cursors.Cursors)
	}

	if _, _, err := s.handleListCursors(ctx, nil, ListCursorsInput{Theme: "mine", Pattern: "[unclosed"}); err == nil {
		t.Fatalf("expected invalid pattern error")
	}
	_, empty, err := s.handleListCursors(ctx, nil, ListCursorsInput{Theme: "absent"})
	if err != nil || empty.Cursors == nil || len(empty.Cursors) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", empty.Cursors, err)
	}
}

func TestClassifyError(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit bases", func(t *testing.T) {
		s, _ := testServer(t, noDisplay)
		_, out, err := s.handleClassifyError(ctx, nil, ClassifyErrorInput{
			Packet:     packet(141, 7, 0, 139, 4),
			Extensions: []ExtensionBase{{Name: "RENDER", FirstError: 140}},
		})
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if out.Source != "explicit" || out.Range != "RENDER[140, 144]" {
			t.Fatalf("unexpected source/range %q %q", out.Source, out.Range)
		}
		if out.Message != "RENDER extension error: Invalid picture" || out.Sequence != 7 || out.Minor != 4 {
			t.Fatalf("unexpected classification %+v", out)
		}
	})

	t.Run("core only without server", func(t *testing.T) {
		s, _ := testServer(t, noDisplay)
		_, out, err := s.handleClassifyError(ctx, nil, ClassifyErrorInput{Packet: packet(3, 1, 0x1234, 2, 0)})
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if out.Source != "core" || out.Value != 0x1234 || out.Range != "core[1, 17]" {
			t.Fatalf("unexpected output %+v", out)
		}
		if out.Message != "Window error (bad value: 4660) (major: 2, minor: 0)" {
			t.Fatalf("unexpected message %q", out.Message)
		}

		_, out, err = s.handleClassifyError(ctx, nil, ClassifyErrorInput{Packet: packet(141, 1, 0, 0, 0)})
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if out.Range != "" {
			t.Fatalf("expected no range for an unclaimed code, got %q", out.Range)
		}
	})

	t.Run("server bases", func(t *testing.T) {
		parser, err := xerr.Build([]xerr.Extension{{Name: "RENDER", FirstError: 150}})
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		d := &fakeDisplay{parser: parser}
		s, _ := testServer(t, func() (Display, error) { return d, nil })
		_, out, err := s.handleClassifyError(ctx, nil, ClassifyErrorInput{Packet: packet(150, 1, 0, 0, 0)})
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if out.Source != "server" || out.Message != "RENDER extension error: Invalid picture format" {
			t.Fatalf("unexpected output %+v", out)
		}
	})

	t.Run("bad input", func(t *testing.T) {
		s, _ := testServer(t, noDisplay)
		if _, _, err := s.handleClassifyError(ctx, nil, ClassifyErrorInput{Packet: "00ff"}); err == nil {
			t.Fatalf("expected short packet error")
		}
		_, _, err := s.handleClassifyError(ctx, nil, ClassifyErrorInput{
			Packet:     packet(3, 1, 0, 0, 0),
			Extensions: []ExtensionBase{{Name: "RENDER", FirstError: 10}},
		})
		if !errors.Is(err, xerr.ErrRangeOverlap) {
			t.Fatalf("expected overlap error, got %v", err)
		}
	})
}

func TestErrorRanges(t *testing.T) {
	parser, err := xerr.Build([]xerr.Extension{{Name: "RENDER", FirstError: 140}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	s, _ := testServer(t, func() (Display, error) { return &fakeDisplay{parser: parser}, nil })

	_, out, err := s.handleErrorRanges(context.Background(), nil, ErrorRangesInput{})
	if err != nil {
		t.Fatalf("ranges: %v", err)
	}
	want := []RangeInfo{{Name: "core", First: 1, Last: 17}, {Name: "RENDER", First: 140, Last: 144}}
	if !reflect.DeepEqual(out.Ranges, want) {
		t.Fatalf("ranges = %+v, want %+v", out.Ranges, want)
	}

	s, _ = testServer(t, noDisplay)
	if _, _, err := s.handleErrorRanges(context.Background(), nil, ErrorRangesInput{}); err == nil {
		t.Fatalf("expected connect error")
	}
}

func TestApplyCursor(t *testing.T) {
	d := &fakeDisplay{res: xcursor.Resolution{Theme: "other", Path: "/icons/other/cursors/watch"}}
	s, _ := testServer(t, func() (Display, error) { return d, nil })
	ctx := context.Background()

	_, out, err := s.handleApplyCursor(ctx, nil, ApplyCursorInput{Name: "watch", Size: 48, Replace: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Theme != "other" || out.Path != "/icons/other/cursors/watch" || out.Glyph != nil {
		t.Fatalf("unexpected output %+v", out)
	}
	want := xcursor.LoadConfig{Name: "watch", Theme: "other", Size: 48}
	if len(d.applied) != 1 || d.applied[0] != want {
		t.Fatalf("applied %+v, want %+v", d.applied, want)
	}
	if !d.opts.Name || !d.opts.Replace {
		t.Fatalf("unexpected options %+v", d.opts)
	}

	d.res = xcursor.Resolution{Theme: "core", Glyph: 68, IsGlyph: true}
	_, out, err = s.handleApplyCursor(ctx, nil, ApplyCursorInput{})
	if err != nil {
		t.Fatalf("apply default: %v", err)
	}
	if out.Name != "left_ptr" || out.Glyph == nil || *out.Glyph != 68 {
		t.Fatalf("unexpected output %+v", out)
	}
	if d.applied[1].Theme != "mine" {
		t.Fatalf("expected configured theme, got %+v", d.applied[1])
	}

	d.applyErr = xcursor.ErrNotFound
	if _, _, err := s.handleApplyCursor(ctx, nil, ApplyCursorInput{Name: "nope"}); !errors.Is(err, xcursor.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConnectRedialsAfterFault(t *testing.T) {
	first := &fakeDisplay{}
	second := &fakeDisplay{}
	dials := 0
	s, _ := testServer(t, func() (Display, error) {
		dials++
		if dials == 1 {
			return first, nil
		}
		return second, nil
	})

	if d, err := s.connect(); err != nil || d != first {
		t.Fatalf("first connect = %v, %v", d, err)
	}
	if d, _ := s.connect(); d != first || dials != 1 {
		t.Fatalf("expected the cached connection")
	}

	first.err = errors.New("broken pipe")
	if d, err := s.connect(); err != nil || d != second {
		t.Fatalf("expected a redial, got %v, %v", d, err)
	}
	if !first.closed {
		t.Fatalf("expected the faulted connection to be closed")
	}

	if err := s.Close(); err != nil || !second.closed {
		t.Fatalf("expected Close to close the connection")
	}
}
