package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xcurs/internal/x11"
	"github.com/1broseidon/xcurs/internal/xcursor"
	"github.com/1broseidon/xcurs/internal/xerr"
)

// defaultInspectSize is used when neither the request nor the config name
// a size.
const defaultInspectSize = 24

func (s *Server) handleResolveCursor(_ context.Context, _ *mcpsdk.CallToolRequest, args ResolveCursorInput) (*mcpsdk.CallToolResult, ResolveCursorOutput, error) {
	if args.Name == "" {
		return nil, ResolveCursorOutput{}, fmt.Errorf("name is required")
	}
	cfg := s.config.Cursor(args.Name)
	if args.Theme != "" {
		cfg.Theme = args.Theme
	}

	res, err := s.resolver.Lookup(cfg.Theme, args.Name)
	if err != nil {
		return nil, ResolveCursorOutput{}, fmt.Errorf("resolve %q: %w", args.Name, err)
	}
	out := ResolveCursorOutput{
		Name:       args.Name,
		Theme:      res.Theme,
		Path:       res.Path,
		SearchPath: s.resolver.Paths(),
	}
	if res.IsGlyph {
		glyph := res.Glyph
		out.Glyph = &glyph
	}
	return nil, out, nil
}

func (s *Server) handleInspectCursor(_ context.Context, _ *mcpsdk.CallToolRequest, args InspectCursorInput) (*mcpsdk.CallToolResult, InspectCursorOutput, error) {
	if args.Path == "" {
		return nil, InspectCursorOutput{}, fmt.Errorf("path is required")
	}
	size := args.Size
	if size == 0 {
		size = s.config.Size
	}
	if size == 0 {
		size = defaultInspectSize
	}

	f, err := s.fs.Open(args.Path)
	if err != nil {
		return nil, InspectCursorOutput{}, fmt.Errorf("open %s: %w", args.Path, err)
	}
	defer f.Close()

	toc, err := xcursor.ReadToc(f)
	if err != nil {
		return nil, InspectCursorOutput{}, fmt.Errorf("read %s: %w", args.Path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, InspectCursorOutput{}, fmt.Errorf("rewind %s: %w", args.Path, err)
	}
	images, err := xcursor.Parse(f, size)
	if err != nil {
		return nil, InspectCursorOutput{}, fmt.Errorf("parse %s: %w", args.Path, err)
	}

	out := InspectCursorOutput{
		Path:     args.Path,
		Entries:  len(toc),
		Sizes:    nominalSizes(toc),
		Selected: nearestSize(toc, size),
		Animated: len(images) > 1,
		Frames:   make([]ImageInfo, 0, len(images)),
	}
	for _, img := range images {
		out.Frames = append(out.Frames, ImageInfo{
			Width:  img.Width,
			Height: img.Height,
			XHot:   img.XHot,
			YHot:   img.YHot,
			Delay:  img.Delay,
		})
	}
	return nil, out, nil
}

// nominalSizes lists the distinct sizes of the image entries, ascending.
func nominalSizes(toc []xcursor.TocEntry) []uint32 {
	seen := make(map[uint32]bool)
	sizes := []uint32{}
	for _, e := range toc {
		if e.IsImage() && !seen[e.Size] {
			seen[e.Size] = true
			sizes = append(sizes, e.Size)
		}
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
	return sizes
}

// nearestSize is the image size Parse selects for target: the first in
// table order at the smallest distance.
func nearestSize(toc []xcursor.TocEntry, target uint32) uint32 {
	var best uint32
	found := false
	for _, e := range toc {
		if !e.IsImage() {
			continue
		}
		if !found || absDiff(e.Size, target) < absDiff(best, target) {
			best, found = e.Size, true
		}
	}
	return best
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func (s *Server) handleListThemes(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListThemesInput) (*mcpsdk.CallToolResult, ListThemesOutput, error) {
	out := ListThemesOutput{
		SearchPath: s.resolver.Paths(),
		Themes:     []ThemeInfo{},
	}
	for _, name := range s.resolver.Themes() {
		out.Themes = append(out.Themes, ThemeInfo{Name: name, Inherits: s.resolver.Parents(name)})
	}
	return nil, out, nil
}

func (s *Server) handleListCursors(_ context.Context, _ *mcpsdk.CallToolRequest, args ListCursorsInput) (*mcpsdk.CallToolResult, ListCursorsOutput, error) {
	if args.Theme == "" {
		return nil, ListCursorsOutput{}, fmt.Errorf("theme is required")
	}
	names, err := s.resolver.Cursors(args.Theme, args.Pattern)
	if err != nil {
		return nil, ListCursorsOutput{}, fmt.Errorf("invalid pattern %q: %w", args.Pattern, err)
	}
	if names == nil {
		names = []string{}
	}
	return nil, ListCursorsOutput{Theme: args.Theme, Cursors: names}, nil
}

func (s *Server) handleClassifyError(_ context.Context, _ *mcpsdk.CallToolRequest, args ClassifyErrorInput) (*mcpsdk.CallToolResult, ClassifyErrorOutput, error) {
	raw, err := xerr.ParseHex(args.Packet)
	if err != nil {
		return nil, ClassifyErrorOutput{}, fmt.Errorf("invalid packet: %w", err)
	}
	parser, source, err := s.classifier(args.Extensions)
	if err != nil {
		return nil, ClassifyErrorOutput{}, err
	}

	e := parser.Classify(raw)
	out := ClassifyErrorOutput{
		Source:   source,
		Code:     raw.Code(),
		Sequence: e.Sequence,
		Major:    e.Major,
		Minor:    e.Minor,
		Value:    raw.BadValue(),
		Message:  e.Type.Error(),
	}
	if r, ok := parser.Lookup(raw.Code()); ok {
		out.Range = r.String()
	}
	return nil, out, nil
}

// classifier picks the parser for classify_error: explicit bases first,
// then the live server, then the core protocol alone.
func (s *Server) classifier(bases []ExtensionBase) (*xerr.Parser, string, error) {
	if len(bases) > 0 {
		exts := make([]xerr.Extension, 0, len(bases))
		for _, b := range bases {
			exts = append(exts, xerr.Extension{Name: b.Name, FirstError: b.FirstError})
		}
		p, err := xerr.Build(exts)
		if err != nil {
			return nil, "", fmt.Errorf("invalid extensions: %w", err)
		}
		return p, "explicit", nil
	}

	d, err := s.connect()
	if err == nil {
		return d.Errors(), "server", nil
	}
	s.logger.Debug("classifying without a server", "error", err)
	p, err := xerr.Build(nil)
	if err != nil {
		return nil, "", err
	}
	return p, "core", nil
}

func (s *Server) handleErrorRanges(_ context.Context, _ *mcpsdk.CallToolRequest, _ ErrorRangesInput) (*mcpsdk.CallToolResult, ErrorRangesOutput, error) {
	d, err := s.connect()
	if err != nil {
		return nil, ErrorRangesOutput{}, fmt.Errorf("connect to X server: %w", err)
	}
	out := ErrorRangesOutput{Ranges: []RangeInfo{}}
	for _, r := range d.Errors().Ranges() {
		out.Ranges = append(out.Ranges, RangeInfo{Name: r.Name(), First: r.Base, Last: r.End - 1})
	}
	return nil, out, nil
}

func (s *Server) handleApplyCursor(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyCursorInput) (*mcpsdk.CallToolResult, ApplyCursorOutput, error) {
	name := args.Name
	if name == "" {
		name = s.config.DefaultCursor
	}
	cfg := s.config.Cursor(name)
	if args.Theme != "" {
		cfg.Theme = args.Theme
	}
	if args.Size != 0 {
		cfg.Size = args.Size
	}

	d, err := s.connect()
	if err != nil {
		return nil, ApplyCursorOutput{}, fmt.Errorf("connect to X server: %w", err)
	}
	res, err := d.Apply(cfg, x11.ApplyOptions{Name: true, Replace: args.Replace})
	if err != nil {
		if errors.Is(err, xcursor.ErrNotFound) {
			return nil, ApplyCursorOutput{}, fmt.Errorf("no cursor named %q: %w", name, err)
		}
		return nil, ApplyCursorOutput{}, err
	}
	s.logger.Info("cursor applied", "name", name, "theme", res.Theme, "path", res.Path)

	out := ApplyCursorOutput{Name: name, Theme: res.Theme, Path: res.Path}
	if res.IsGlyph {
		glyph := res.Glyph
		out.Glyph = &glyph
	}
	return nil, out, nil
}
