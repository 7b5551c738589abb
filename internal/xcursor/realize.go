package xcursor

import (
	"encoding/binary"
	"fmt"

	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xcurs/internal/xerr"
)

const cursorDepth = 32

// realizer holds the request batches of one CreateCursor call.
//
// requests are the creations whose failure fails the cursor. scratch are
// frees of intermediate resources; they are always checked but only
// logged. dropped are requests whose outcome is never read.
type realizer struct {
	*Context

	requests xerr.Pending
	scratch  xerr.Pending
	dropped  xerr.Pending

	pixmap xproto.Pixmap
	gc     xproto.Gcontext
	frames []render.Animcursorelt
}

// CreateCursor uploads images and creates a server cursor from them. More
// than one image yields an animated cursor when the server supports it.
//
// Every request is sent before any outcome is read. If any creation
// failed, the cursor is freed and the first failure is returned. Scratch
// pixmaps and graphics contexts never outlive the call.
func (c *Context) CreateCursor(images []Image) (xproto.Cursor, error) {
	if len(images) == 0 {
		return 0, ErrEmptyXcursorFile
	}
	if c.render == nil {
		return 0, ErrImageCursorNotSupported
	}
	if !c.render.Animated {
		images = images[:1]
	}

	r := &realizer{Context: c}
	defer r.dropped.Discard()
	defer r.requests.Discard()

	cursor, err := r.issue(images)
	if err != nil {
		r.unwind()
		return 0, err
	}

	if err := r.requests.Check(c.parser); err != nil {
		if ferr := c.parser.CheckCookie(c.display.FreeCursor(cursor)); ferr != nil {
			c.logger.Warn("could not free a failed cursor", "cursor", cursor, "error", ferr)
		}
		r.checkScratch()
		return 0, fmt.Errorf("create cursor: %w", err)
	}
	r.checkScratch()
	return cursor, nil
}

func (r *realizer) issue(images []Image) (xproto.Cursor, error) {
	d := r.display
	root := xproto.Drawable(r.screen.Root)

	pic, err := d.NewPictureID()
	if err != nil {
		return 0, fmt.Errorf("allocate picture id: %w", err)
	}

	var width, height uint16
	for _, img := range images {
		if r.pixmap == 0 || img.Width != width || img.Height != height {
			r.freeDrawable()
			pixmap, err := d.NewPixmapID()
			if err != nil {
				return 0, fmt.Errorf("allocate pixmap id: %w", err)
			}
			gc, err := d.NewGCID()
			if err != nil {
				return 0, fmt.Errorf("allocate gc id: %w", err)
			}
			r.dropped.Add(d.CreatePixmap(cursorDepth, pixmap, root, img.Width, img.Height))
			r.dropped.Add(d.CreateGC(gc, xproto.Drawable(pixmap)))
			r.pixmap, r.gc = pixmap, gc
			width, height = img.Width, img.Height
		}

		r.requests.Add(d.PutImage(xproto.Drawable(r.pixmap), r.gc,
			img.Width, img.Height, cursorDepth, pixelBytes(img.Pixels)))

		cid, err := d.NewCursorID()
		if err != nil {
			return 0, fmt.Errorf("allocate cursor id: %w", err)
		}
		r.dropped.Add(d.CreatePicture(pic, xproto.Drawable(r.pixmap), r.render.Format))
		r.requests.Add(d.CreateCursor(cid, pic, img.XHot, img.YHot))
		r.dropped.Add(d.FreePicture(pic))
		r.frames = append(r.frames, render.Animcursorelt{Cursor: cid, Delay: img.Delay})
	}
	r.freeDrawable()

	if len(r.frames) == 1 {
		return r.frames[0].Cursor, nil
	}

	cursor, err := d.NewCursorID()
	if err != nil {
		return 0, fmt.Errorf("allocate animated cursor id: %w", err)
	}
	r.requests.Add(d.CreateAnimCursor(cursor, r.frames))
	r.freeFrames()
	return cursor, nil
}

// freeDrawable queues the release of the current scratch pixmap and gc.
func (r *realizer) freeDrawable() {
	if r.pixmap == 0 {
		return
	}
	r.scratch.Add(r.display.FreePixmap(r.pixmap))
	r.scratch.Add(r.display.FreeGC(r.gc))
	r.pixmap, r.gc = 0, 0
}

func (r *realizer) freeFrames() {
	for _, f := range r.frames {
		r.scratch.Add(r.display.FreeCursor(f.Cursor))
	}
	r.frames = nil
}

// unwind releases everything created before an id allocation failed.
func (r *realizer) unwind() {
	r.freeDrawable()
	r.freeFrames()
	r.checkScratch()
}

func (r *realizer) checkScratch() {
	for _, err := range r.scratch.CheckAll(r.parser) {
		r.logger.Warn("could not free a cursor scratch resource", "error", err)
	}
}

// pixelBytes lays pixels out in the connection's little-endian byte order.
func pixelBytes(pixels []uint32) []byte {
	buf := make([]byte, 4*len(pixels))
	for i, p := range pixels {
		binary.LittleEndian.PutUint32(buf[4*i:], p)
	}
	return buf
}
