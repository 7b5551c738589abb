package x11

import (
	"errors"

	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xcurs/internal/xcursor"
	"github.com/1broseidon/xcurs/internal/xerr"
)

var _ xcursor.Display = (*Connection)(nil)

// cookie defers a checked xgb request and records transport faults seen
// while waiting for it.
type cookie struct {
	c     *Connection
	check func() error
}

func (k cookie) Check() error { return k.c.observe(k.check()) }

// cookies is one logical request split over several wire requests.
type cookies []xerr.Cookie

// Check waits for every part and returns the first failure.
func (ks cookies) Check() error {
	var first error
	for _, k := range ks {
		if err := k.Check(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (c *Connection) Screen() xcursor.Screen {
	s := c.XUtil.Screen()
	return xcursor.Screen{
		Root:   s.Root,
		Visual: s.RootVisual,
		Width:  s.WidthInPixels,
		Height: s.HeightInPixels,
	}
}

// ResourceManager reads the RESOURCE_MANAGER property of the root window.
func (c *Connection) ResourceManager() (string, error) {
	atom, err := c.Atom("RESOURCE_MANAGER", true)
	if err != nil {
		return "", err
	}
	if atom == xproto.AtomNone {
		return "", nil
	}
	value, err := c.GetProperty(c.Root, atom, xproto.AtomString, 8)
	switch {
	case errors.Is(err, ErrPropertyUnset):
		return "", nil
	case err != nil:
		return "", err
	}
	return string(value), nil
}

// Atom interns name. With onlyIfExists set, a missing atom is AtomNone.
func (c *Connection) Atom(name string, onlyIfExists bool) (xproto.Atom, error) {
	reply, err := checkReply(c, xproto.InternAtom(c.XUtil.Conn(), onlyIfExists, uint16(len(name)), name).Reply())
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

func (c *Connection) RenderVersion() (uint32, uint32, bool, error) {
	if !c.hasRender {
		return 0, 0, false, nil
	}
	reply, err := checkReply(c, render.QueryVersion(c.XUtil.Conn(), 0, 11).Reply())
	if err != nil {
		return 0, 0, false, err
	}
	return reply.MajorVersion, reply.MinorVersion, true, nil
}

func (c *Connection) PictFormats() ([]render.Pictforminfo, error) {
	if !c.hasRender {
		return nil, nil
	}
	reply, err := checkReply(c, render.QueryPictFormats(c.XUtil.Conn()).Reply())
	if err != nil {
		return nil, err
	}
	return reply.Formats, nil
}

func (c *Connection) OpenFont(name string) (xproto.Font, error) {
	fid, err := xproto.NewFontId(c.XUtil.Conn())
	if err != nil {
		return 0, c.parser.CheckErr(err)
	}
	err = c.parser.CheckCookie(cookie{c, xproto.OpenFontChecked(c.XUtil.Conn(), fid, uint16(len(name)), name).Check})
	if err != nil {
		return 0, err
	}
	return fid, nil
}

func (c *Connection) CloseFont(font xproto.Font) xerr.Cookie {
	return cookie{c, xproto.CloseFontChecked(c.XUtil.Conn(), font).Check}
}

func (c *Connection) NewPixmapID() (xproto.Pixmap, error) {
	return xproto.NewPixmapId(c.XUtil.Conn())
}

func (c *Connection) NewGCID() (xproto.Gcontext, error) {
	return xproto.NewGcontextId(c.XUtil.Conn())
}

func (c *Connection) NewPictureID() (render.Picture, error) {
	return render.NewPictureId(c.XUtil.Conn())
}

func (c *Connection) NewCursorID() (xproto.Cursor, error) {
	return xproto.NewCursorId(c.XUtil.Conn())
}

func (c *Connection) CreatePixmap(depth byte, pid xproto.Pixmap, drawable xproto.Drawable, width, height uint16) xerr.Cookie {
	return cookie{c, xproto.CreatePixmapChecked(c.XUtil.Conn(), depth, pid, drawable, width, height).Check}
}

func (c *Connection) FreePixmap(pid xproto.Pixmap) xerr.Cookie {
	return cookie{c, xproto.FreePixmapChecked(c.XUtil.Conn(), pid).Check}
}

func (c *Connection) CreateGC(gc xproto.Gcontext, drawable xproto.Drawable) xerr.Cookie {
	return cookie{c, xproto.CreateGCChecked(c.XUtil.Conn(), gc, drawable, 0, nil).Check}
}

func (c *Connection) FreeGC(gc xproto.Gcontext) xerr.Cookie {
	return cookie{c, xproto.FreeGCChecked(c.XUtil.Conn(), gc).Check}
}

// putImageHeader is the fixed part of a PutImage request in bytes.
const putImageHeader = 24

type band struct{ y, rows int }

// imageBands splits height rows of stride bytes into bands that each fit
// in limit bytes. A band holds at least one row.
func imageBands(height, stride, limit int) []band {
	if height == 0 || stride == 0 {
		return []band{{0, height}}
	}
	rows := max(1, limit/stride)
	var out []band
	for y := 0; y < height; y += rows {
		out = append(out, band{y, min(rows, height-y)})
	}
	return out
}

// PutImage uploads a ZPixmap image. Images larger than the server's
// request limit are sent in bands of whole rows.
func (c *Connection) PutImage(drawable xproto.Drawable, gc xproto.Gcontext, width, height uint16, depth byte, data []byte) xerr.Cookie {
	conn := c.XUtil.Conn()
	stride := 0
	if height > 0 {
		stride = len(data) / int(height)
	}
	limit := int(c.XUtil.Setup().MaximumRequestLength)*4 - putImageHeader

	var parts cookies
	for _, b := range imageBands(int(height), stride, limit) {
		chunk := data[b.y*stride : (b.y+b.rows)*stride]
		parts = append(parts, cookie{c, xproto.PutImageChecked(conn, xproto.ImageFormatZPixmap,
			drawable, gc, width, uint16(b.rows), 0, int16(b.y), 0, depth, chunk).Check})
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return parts
}

func (c *Connection) CreatePicture(pid render.Picture, drawable xproto.Drawable, format render.Pictformat) xerr.Cookie {
	return cookie{c, render.CreatePictureChecked(c.XUtil.Conn(), pid, drawable, format, 0, nil).Check}
}

func (c *Connection) FreePicture(pid render.Picture) xerr.Cookie {
	return cookie{c, render.FreePictureChecked(c.XUtil.Conn(), pid).Check}
}

func (c *Connection) CreateCursor(cid xproto.Cursor, source render.Picture, x, y uint16) xerr.Cookie {
	return cookie{c, render.CreateCursorChecked(c.XUtil.Conn(), cid, source, x, y).Check}
}

func (c *Connection) CreateAnimCursor(cid xproto.Cursor, frames []render.Animcursorelt) xerr.Cookie {
	return cookie{c, render.CreateAnimCursorChecked(c.XUtil.Conn(), cid, frames).Check}
}

func (c *Connection) FreeCursor(cid xproto.Cursor) xerr.Cookie {
	return cookie{c, xproto.FreeCursorChecked(c.XUtil.Conn(), cid).Check}
}

func (c *Connection) CreateGlyphCursor(cid xproto.Cursor, font xproto.Font, glyph uint16) xerr.Cookie {
	return cookie{c, xproto.CreateGlyphCursorChecked(c.XUtil.Conn(), cid, font, font,
		glyph, glyph+1, 0, 0, 0, 0xffff, 0xffff, 0xffff).Check}
}
