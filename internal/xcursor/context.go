// Package xcursor loads cursors from Xcursor themes and turns them into
// server cursors through the Render extension.
//
// A Context is created once per connection. It reads the user's theme and
// size from the resource database, builds the theme search path and queries
// the server's Render support. After construction it is read-only.
package xcursor

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/go-git/go-billy/v5"

	"github.com/1broseidon/xcurs/internal/xerr"
)

// CursorFont is the core font holding the fallback glyph cursors.
const CursorFont = "cursor"

// RenderConfig describes what the server's Render extension can do for
// image cursors.
type RenderConfig struct {
	Format   render.Pictformat
	Animated bool
	Major    uint32
	Minor    uint32
}

// Context holds the per-connection cursor state.
type Context struct {
	display  Display
	parser   *xerr.Parser
	logger   *slog.Logger
	resolver *Resolver
	screen   Screen

	theme  string
	size   uint32
	font   xproto.Font
	render *RenderConfig
}

type options struct {
	fs       billy.Filesystem
	logger   *slog.Logger
	paths    []string
	getenv   func(string) string
	theme    string
	size     uint32
	setPaths bool
}

// Option configures NewContext.
type Option func(*options)

// WithFilesystem sets the filesystem themes are read from. Tests pass a
// memfs here.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *options) { o.fs = fs }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithSearchPath replaces the XCURSOR_PATH lookup.
func WithSearchPath(paths []string) Option {
	return func(o *options) {
		o.paths = paths
		o.setPaths = true
	}
}

// WithEnv replaces os.Getenv for XCURSOR_PATH and HOME.
func WithEnv(getenv func(string) string) Option {
	return func(o *options) { o.getenv = getenv }
}

// WithTheme overrides the theme from the resource database.
func WithTheme(theme string) Option {
	return func(o *options) { o.theme = theme }
}

// WithSize overrides the cursor size from the resource database.
func WithSize(size uint32) Option {
	return func(o *options) { o.size = size }
}

// NewContext initializes the cursor state of a connection. Missing or
// broken server features are logged and degrade to glyph cursors.
func NewContext(d Display, opts ...Option) *Context {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.setPaths {
		o.paths = SearchPath(o.getenv)
	}

	c := &Context{
		display:  d,
		parser:   d.Errors(),
		logger:   o.logger,
		resolver: NewResolver(o.fs, o.paths),
		screen:   d.Screen(),
	}

	c.size = ScreenSize(c.screen.Width, c.screen.Height)
	res := c.readResources()
	if res.HasSize {
		c.size = res.Size
	}
	c.theme = res.Theme
	if o.theme != "" {
		c.theme = o.theme
	}
	if o.size > 0 {
		c.size = o.size
	}

	c.render = c.queryRender()

	font, err := d.OpenFont(CursorFont)
	if err != nil {
		c.logger.Warn("could not open the cursor font", "error", err)
	}
	c.font = font

	c.logger.Debug("cursor context ready",
		"theme", c.theme,
		"size", c.size,
		"paths", c.resolver.Paths(),
		"render", c.render != nil)
	return c
}

func (c *Context) readResources() Resources {
	db, err := c.display.ResourceManager()
	if err != nil {
		c.logger.Warn("could not read the resource manager property", "error", err)
		return Resources{}
	}
	return ParseResources(db)
}

func (c *Context) queryRender() *RenderConfig {
	major, minor, ok, err := c.display.RenderVersion()
	switch {
	case err != nil:
		c.logger.Error("could not query the render version", "error", err)
		return nil
	case !ok:
		return nil
	}

	cfg := &RenderConfig{Major: major, Minor: minor}
	switch {
	case major > 0 || minor >= 8:
		cfg.Animated = true
	case minor >= 5:
		c.logger.Warn("render extension is too old to support animated cursors",
			"version", fmt.Sprintf("%d.%d", major, minor))
	default:
		c.logger.Warn("render extension does not support cursors",
			"version", fmt.Sprintf("%d.%d", major, minor))
		return nil
	}

	formats, err := c.display.PictFormats()
	if err != nil {
		c.logger.Error("could not query picture formats", "error", err)
		return nil
	}
	f, ok := FindStandardFormat(formats, FormatARGB32)
	if !ok {
		c.logger.Warn("render extension does not support ARGB images")
		return nil
	}
	cfg.Format = f.Id
	return cfg
}

// Theme is the default theme, or "" when none is configured.
func (c *Context) Theme() string { return c.theme }

// Size is the default nominal cursor size in pixels.
func (c *Context) Size() uint32 { return c.size }

// Render returns the Render capability, if image cursors are possible.
func (c *Context) Render() (RenderConfig, bool) {
	if c.render == nil {
		return RenderConfig{}, false
	}
	return *c.render, true
}

func (c *Context) Resolver() *Resolver { return c.resolver }

// Close releases the cursor font. Cursors created from the context stay
// valid.
func (c *Context) Close() error {
	if c.font == 0 {
		return nil
	}
	font := c.font
	c.font = 0
	return c.parser.CheckCookie(c.display.CloseFont(font))
}

// LoadConfig names the cursor to load. Empty fields use the context's
// defaults.
type LoadConfig struct {
	Name  string
	Theme string
	Size  uint32
}

// Lookup resolves name in theme, then in the default theme, then among the
// core glyphs.
func (r *Resolver) Lookup(theme, name string) (Resolution, error) {
	if theme != "" {
		if res, ok := r.Resolve(theme, name); ok {
			return res, nil
		}
	}
	if res, ok := r.Resolve(DefaultTheme, name); ok {
		return res, nil
	}
	return coreResolution(name)
}

func coreResolution(name string) (Resolution, error) {
	if g, ok := CoreGlyph(name); ok {
		return Resolution{Theme: CoreTheme, Glyph: g, IsGlyph: true}, nil
	}
	return Resolution{}, ErrNotFound
}

// Find resolves a cursor without creating it. Themes are only consulted
// when the server can display image cursors.
func (c *Context) Find(cfg LoadConfig) (Resolution, error) {
	if c.render == nil {
		return coreResolution(cfg.Name)
	}
	theme := cfg.Theme
	if theme == "" {
		theme = c.theme
	}
	return c.resolver.Lookup(theme, cfg.Name)
}

// LoadCursor resolves and creates a cursor. The caller owns the returned
// cursor and must free it.
func (c *Context) LoadCursor(cfg LoadConfig) (xproto.Cursor, error) {
	res, err := c.Find(cfg)
	if err != nil {
		return 0, err
	}
	return c.LoadResolved(res, cfg.Size)
}

// LoadResolved creates the cursor a Find call returned without resolving
// it again. A zero size uses the context's default.
func (c *Context) LoadResolved(res Resolution, size uint32) (xproto.Cursor, error) {
	if res.IsGlyph {
		return c.GlyphCursor(res.Glyph)
	}
	if size == 0 {
		size = c.size
	}
	images, err := c.readImages(res.Path, size)
	if err != nil {
		return 0, err
	}
	return c.CreateCursor(images)
}

func (c *Context) readImages(path string, size uint32) ([]Image, error) {
	f, err := c.resolver.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cursor file: %w", err)
	}
	defer f.Close()

	images, err := Parse(f, size)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return images, nil
}

// GlyphCursor creates a black on white cursor from the cursor font. Any
// server error is reported as ErrNotFound.
func (c *Context) GlyphCursor(glyph uint16) (xproto.Cursor, error) {
	cid, err := c.display.NewCursorID()
	if err != nil {
		return 0, fmt.Errorf("allocate cursor id: %w", err)
	}
	if err := c.parser.CheckCookie(c.display.CreateGlyphCursor(cid, c.font, glyph)); err != nil {
		c.logger.Debug("glyph cursor rejected", "glyph", glyph, "error", err)
		return 0, ErrNotFound
	}
	return cid, nil
}
