package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xcurs/internal/xcursor"
)

// ErrNoXfixes means cursor names cannot be set on this server.
var ErrNoXfixes = errors.New("xfixes extension is not available")

// SetRootCursor makes cursor the root window's cursor. The server keeps
// its own reference, so the caller may free cursor afterwards.
func (c *Connection) SetRootCursor(cursor xproto.Cursor) error {
	return c.parser.CheckCookie(cookie{c, xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.Root,
		xproto.CwCursor, []uint32{uint32(cursor)}).Check})
}

// SetCursorName attaches name to cursor so that clients querying the
// current cursor see the theme name instead of an anonymous image.
func (c *Connection) SetCursorName(cursor xproto.Cursor, name string) error {
	if !c.hasXfixes {
		return ErrNoXfixes
	}
	return c.parser.CheckCookie(cookie{c, xfixes.SetCursorNameChecked(c.XUtil.Conn(), cursor,
		uint16(len(name)), name).Check})
}

// ReplaceNamedCursors swaps every cursor the server knows under name for
// cursor, including cursors already set on client windows.
func (c *Connection) ReplaceNamedCursors(cursor xproto.Cursor, name string) error {
	if !c.hasXfixes {
		return ErrNoXfixes
	}
	return c.parser.CheckCookie(cookie{c, xfixes.ChangeCursorByNameChecked(c.XUtil.Conn(), cursor,
		uint16(len(name)), name).Check})
}

// ReleaseCursor frees a cursor and waits for the outcome.
func (c *Connection) ReleaseCursor(cursor xproto.Cursor) error {
	return c.parser.CheckCookie(c.FreeCursor(cursor))
}

// ApplyOptions selects what Apply does besides setting the root cursor.
type ApplyOptions struct {
	// Name attaches the cursor name through XFIXES.
	Name bool
	// Replace swaps every cursor the server knows under the same name.
	Replace bool
}

// Apply loads cfg, makes it the root window cursor and frees it again.
// Naming steps are skipped with a debug log when XFIXES is missing.
func (c *Connection) Apply(cursors *xcursor.Context, cfg xcursor.LoadConfig, opts ApplyOptions) (xcursor.Resolution, error) {
	res, err := cursors.Find(cfg)
	if err != nil {
		return res, fmt.Errorf("resolve %s: %w", cfg.Name, err)
	}
	cursor, err := cursors.LoadResolved(res, cfg.Size)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", cfg.Name, err)
	}
	defer func() {
		if err := c.ReleaseCursor(cursor); err != nil {
			c.logger.Warn("could not free cursor", "cursor", cursor, "error", err)
		}
	}()

	if err := c.SetRootCursor(cursor); err != nil {
		return res, fmt.Errorf("set root cursor: %w", err)
	}
	if opts.Name {
		if err := c.SetCursorName(cursor, cfg.Name); errors.Is(err, ErrNoXfixes) {
			c.logger.Debug("cursor not named", "name", cfg.Name, "error", err)
		} else if err != nil {
			return res, fmt.Errorf("name cursor: %w", err)
		}
	}
	if opts.Replace {
		if err := c.ReplaceNamedCursors(cursor, cfg.Name); errors.Is(err, ErrNoXfixes) {
			c.logger.Debug("named cursors not replaced", "name", cfg.Name, "error", err)
		} else if err != nil {
			return res, fmt.Errorf("replace %s cursors: %w", cfg.Name, err)
		}
	}
	return res, nil
}
