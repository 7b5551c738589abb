package tui

import (
	"io"
	"sort"
	"strings"

	"github.com/1broseidon/xcurs/internal/xcursor"
)

// Preview cells: transparent, dark and light pixels, and the hotspot.
const (
	cellClear   = ' '
	cellDark    = '█'
	cellLight   = '░'
	cellHotspot = '+'
)

// renderCursorPreview draws img into at most width x height cells. A cell
// is twice as tall as wide, so every cell samples step x 2*step pixels.
func renderCursorPreview(img xcursor.Image, width, height int) []string {
	w, h := int(img.Width), int(img.Height)
	if w == 0 || h == 0 || width <= 0 || height <= 0 || len(img.Pixels) < w*h {
		return nil
	}
	step := max(1, ceilDiv(w, width), ceilDiv(h, 2*height))
	cols := ceilDiv(w, step)
	rows := ceilDiv(h, 2*step)
	hotCol, hotRow := int(img.XHot)/step, int(img.YHot)/(2*step)

	lines := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		var sb strings.Builder
		for col := 0; col < cols; col++ {
			if col == hotCol && row == hotRow {
				sb.WriteRune(cellHotspot)
				continue
			}
			sb.WriteRune(pixelCell(img.Pixels[row*2*step*w+col*step]))
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return lines
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// pixelCell maps a premultiplied ARGB pixel to a cell by alpha and
// brightness.
func pixelCell(p uint32) rune {
	a := p >> 24
	if a < 0x40 {
		return cellClear
	}
	r, g, b := (p>>16)&0xff, (p>>8)&0xff, p&0xff
	// Undo premultiplication before judging brightness.
	if (r+g+b)*0xff/(3*a) < 0x80 {
		return cellDark
	}
	return cellLight
}

// cursorDetail is what the cursors tab shows for the selected name.
type cursorDetail struct {
	name   string
	res    xcursor.Resolution
	sizes  []uint32
	frames []xcursor.Image
	err    error
}

// loadCursorDetail resolves name in theme and decodes the frames of the
// size closest to size.
func loadCursorDetail(r *xcursor.Resolver, theme, name string, size uint32) cursorDetail {
	d := cursorDetail{name: name}
	res, ok := r.Resolve(theme, name)
	if !ok {
		d.err = xcursor.ErrNotFound
		return d
	}
	d.res = res
	if res.IsGlyph {
		return d
	}

	f, err := r.Open(res)
	if err != nil {
		d.err = err
		return d
	}
	defer f.Close()

	toc, err := xcursor.ReadToc(f)
	if err != nil {
		d.err = err
		return d
	}
	seen := make(map[uint32]bool)
	for _, e := range toc {
		if e.IsImage() && !seen[e.Size] {
			seen[e.Size] = true
			d.sizes = append(d.sizes, e.Size)
		}
	}
	sort.Slice(d.sizes, func(i, j int) bool { return d.sizes[i] < d.sizes[j] })

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		d.err = err
		return d
	}
	d.frames, d.err = xcursor.Parse(f, size)
	return d
}

// nextSize cycles through sizes, wrapping to the smallest.
func nextSize(sizes []uint32, current uint32) uint32 {
	for _, s := range sizes {
		if s > current {
			return s
		}
	}
	if len(sizes) > 0 {
		return sizes[0]
	}
	return current
}
