package xcursor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xcurs/internal/xerr"
)

var argb32 = render.Pictforminfo{
	Id:    0x25,
	Type:  render.PictTypeDirect,
	Depth: 32,
	Direct: render.Directformat{
		AlphaShift: 24, AlphaMask: 0xff,
		RedShift: 16, RedMask: 0xff,
		GreenShift: 8, GreenMask: 0xff,
		BlueMask: 0xff,
	},
}

var rgb24 = render.Pictforminfo{
	Id:    0x24,
	Type:  render.PictTypeDirect,
	Depth: 24,
	Direct: render.Directformat{
		RedShift: 16, RedMask: 0xff,
		GreenShift: 8, GreenMask: 0xff,
		BlueMask: 0xff,
	},
}

type wireErr struct{ raw xerr.Raw }

func (e wireErr) Error() string  { return "wire error " + e.raw.String() }
func (e wireErr) Wire() xerr.Raw { return e.raw }

// badAlloc is what the fake server answers to a failing request.
func badAlloc(major byte) error {
	return wireErr{raw: xerr.NewRaw(11, 1, 0, major, 0)}
}

type fakeCookie struct {
	d   *fakeDisplay
	op  string
	err error
}

func (c *fakeCookie) Check() error {
	c.d.log = append(c.d.log, "check "+c.op)
	return c.err
}

// fakeDisplay is an in-memory X server. It records every request and
// check in order and tracks which resources exist.
type fakeDisplay struct {
	screen    Screen
	parser    *xerr.Parser
	resources string
	resErr    error

	renderOK      bool
	major, minor  uint32
	formats       []render.Pictforminfo
	renderErr     error
	fontErr       error
	badGlyph      bool
	idsLeft       int
	failOps       map[string]bool
	failFreeOps   map[string]bool
	log           []string
	live          map[uint32]string
	nextID        uint32
	putImageBytes []int
}

func newFakeDisplay() *fakeDisplay {
	p, err := xerr.Build(nil)
	if err != nil {
		panic(err)
	}
	return &fakeDisplay{
		screen:   Screen{Root: 0x100, Visual: 0x21, Width: 1920, Height: 1080},
		parser:   p,
		renderOK: true,
		major:    0,
		minor:    11,
		formats:  []render.Pictforminfo{rgb24, argb32},
		idsLeft:  -1,
		failOps:  make(map[string]bool),
		live:     make(map[uint32]string),
		nextID:   0x400000,
	}
}

func (d *fakeDisplay) Screen() Screen       { return d.screen }
func (d *fakeDisplay) Errors() *xerr.Parser { return d.parser }

func (d *fakeDisplay) ResourceManager() (string, error) { return d.resources, d.resErr }

func (d *fakeDisplay) RenderVersion() (uint32, uint32, bool, error) {
	return d.major, d.minor, d.renderOK, d.renderErr
}

func (d *fakeDisplay) PictFormats() ([]render.Pictforminfo, error) { return d.formats, nil }

func (d *fakeDisplay) OpenFont(name string) (xproto.Font, error) {
	if d.fontErr != nil {
		return 0, d.fontErr
	}
	id, _ := d.newID()
	d.live[id] = "font"
	return xproto.Font(id), nil
}

func (d *fakeDisplay) CloseFont(font xproto.Font) xerr.Cookie {
	return d.free("CloseFont", uint32(font), "font")
}

func (d *fakeDisplay) newID() (uint32, error) {
	if d.idsLeft == 0 {
		return 0, errors.New("There are no more available resource identifiers.")
	}
	if d.idsLeft > 0 {
		d.idsLeft--
	}
	d.nextID++
	return d.nextID, nil
}

func (d *fakeDisplay) NewPixmapID() (xproto.Pixmap, error) {
	id, err := d.newID()
	return xproto.Pixmap(id), err
}

func (d *fakeDisplay) NewGCID() (xproto.Gcontext, error) {
	id, err := d.newID()
	return xproto.Gcontext(id), err
}

func (d *fakeDisplay) NewPictureID() (render.Picture, error) {
	id, err := d.newID()
	return render.Picture(id), err
}

func (d *fakeDisplay) NewCursorID() (xproto.Cursor, error) {
	id, err := d.newID()
	return xproto.Cursor(id), err
}

func (d *fakeDisplay) create(op string, id uint32, kind string) xerr.Cookie {
	d.log = append(d.log, op)
	if d.failOps[op] {
		return &fakeCookie{d: d, op: op, err: badAlloc(1)}
	}
	d.live[id] = kind
	return &fakeCookie{d: d, op: op}
}

func (d *fakeDisplay) free(op string, id uint32, kind string) xerr.Cookie {
	d.log = append(d.log, op)
	if d.failFreeOps[op] {
		return &fakeCookie{d: d, op: op, err: badAlloc(2)}
	}
	if d.live[id] != kind {
		return &fakeCookie{d: d, op: op, err: wireErr{raw: xerr.NewRaw(2, 1, id, 3, 0)}}
	}
	delete(d.live, id)
	return &fakeCookie{d: d, op: op}
}

func (d *fakeDisplay) CreatePixmap(depth byte, pid xproto.Pixmap, drawable xproto.Drawable, w, h uint16) xerr.Cookie {
	return d.create("CreatePixmap", uint32(pid), "pixmap")
}

func (d *fakeDisplay) FreePixmap(pid xproto.Pixmap) xerr.Cookie {
	return d.free("FreePixmap", uint32(pid), "pixmap")
}

func (d *fakeDisplay) CreateGC(gc xproto.Gcontext, drawable xproto.Drawable) xerr.Cookie {
	return d.create("CreateGC", uint32(gc), "gc")
}

func (d *fakeDisplay) FreeGC(gc xproto.Gcontext) xerr.Cookie {
	return d.free("FreeGC", uint32(gc), "gc")
}

func (d *fakeDisplay) PutImage(drawable xproto.Drawable, gc xproto.Gcontext, w, h uint16, depth byte, data []byte) xerr.Cookie {
	d.putImageBytes = append(d.putImageBytes, len(data))
	d.log = append(d.log, "PutImage")
	if d.failOps["PutImage"] {
		return &fakeCookie{d: d, op: "PutImage", err: badAlloc(72)}
	}
	return &fakeCookie{d: d, op: "PutImage"}
}

func (d *fakeDisplay) CreatePicture(pid render.Picture, drawable xproto.Drawable, format render.Pictformat) xerr.Cookie {
	return d.create("CreatePicture", uint32(pid), "picture")
}

func (d *fakeDisplay) FreePicture(pid render.Picture) xerr.Cookie {
	return d.free("FreePicture", uint32(pid), "picture")
}

func (d *fakeDisplay) CreateCursor(cid xproto.Cursor, source render.Picture, x, y uint16) xerr.Cookie {
	return d.create("CreateCursor", uint32(cid), "cursor")
}

func (d *fakeDisplay) CreateAnimCursor(cid xproto.Cursor, frames []render.Animcursorelt) xerr.Cookie {
	return d.create("CreateAnimCursor", uint32(cid), "cursor")
}

func (d *fakeDisplay) FreeCursor(cid xproto.Cursor) xerr.Cookie {
	return d.free("FreeCursor", uint32(cid), "cursor")
}

func (d *fakeDisplay) CreateGlyphCursor(cid xproto.Cursor, font xproto.Font, glyph uint16) xerr.Cookie {
	if d.badGlyph {
		d.log = append(d.log, "CreateGlyphCursor")
		return &fakeCookie{d: d, op: "CreateGlyphCursor", err: wireErr{raw: xerr.NewRaw(7, 1, uint32(font), 94, 0)}}
	}
	return d.create("CreateGlyphCursor", uint32(cid), "cursor")
}

// liveKinds counts the live resources of each kind.
func (d *fakeDisplay) liveKinds() map[string]int {
	out := make(map[string]int)
	for _, kind := range d.live {
		out[kind]++
	}
	return out
}

// firstCheck is the log index of the first outcome read, or -1.
func (d *fakeDisplay) firstCheck() int {
	for i, entry := range d.log {
		if strings.HasPrefix(entry, "check ") {
			return i
		}
	}
	return -1
}

// lastRequest is the log index of the last request matching op.
func (d *fakeDisplay) lastRequest(op string) int {
	last := -1
	for i, entry := range d.log {
		if entry == op {
			last = i
		}
	}
	return last
}

func (d *fakeDisplay) String() string {
	return fmt.Sprintf("log=%v live=%v", d.log, d.live)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
