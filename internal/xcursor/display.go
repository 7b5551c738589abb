package xcursor

import (
	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xcurs/internal/xerr"
)

// Screen is the part of the connection setup a cursor context needs.
type Screen struct {
	Root   xproto.Window
	Visual xproto.Visualid
	Width  uint16
	Height uint16
}

// Display is the X server as seen by the cursor pipeline. Reply-bearing
// queries return errors already classified by Errors. Void requests return
// their cookie unchecked so callers can batch them.
type Display interface {
	Screen() Screen
	Errors() *xerr.Parser

	// ResourceManager returns the root window's RESOURCE_MANAGER string,
	// or "" when the property is not set.
	ResourceManager() (string, error)

	// RenderVersion queries the Render extension version. ok is false when
	// the server does not have the extension.
	RenderVersion() (major, minor uint32, ok bool, err error)
	PictFormats() ([]render.Pictforminfo, error)

	OpenFont(name string) (xproto.Font, error)
	CloseFont(font xproto.Font) xerr.Cookie

	NewPixmapID() (xproto.Pixmap, error)
	NewGCID() (xproto.Gcontext, error)
	NewPictureID() (render.Picture, error)
	NewCursorID() (xproto.Cursor, error)

	CreatePixmap(depth byte, pid xproto.Pixmap, drawable xproto.Drawable, width, height uint16) xerr.Cookie
	FreePixmap(pid xproto.Pixmap) xerr.Cookie
	CreateGC(gc xproto.Gcontext, drawable xproto.Drawable) xerr.Cookie
	FreeGC(gc xproto.Gcontext) xerr.Cookie
	PutImage(drawable xproto.Drawable, gc xproto.Gcontext, width, height uint16, depth byte, data []byte) xerr.Cookie
	CreatePicture(pid render.Picture, drawable xproto.Drawable, format render.Pictformat) xerr.Cookie
	FreePicture(pid render.Picture) xerr.Cookie
	CreateCursor(cid xproto.Cursor, source render.Picture, x, y uint16) xerr.Cookie
	CreateAnimCursor(cid xproto.Cursor, frames []render.Animcursorelt) xerr.Cookie
	FreeCursor(cid xproto.Cursor) xerr.Cookie
	// CreateGlyphCursor creates a black on white cursor from glyph and its
	// mask glyph+1 of font.
	CreateGlyphCursor(cid xproto.Cursor, font xproto.Font, glyph uint16) xerr.Cookie
}
