package xcursor

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	fileMagic     = 0x72756358
	fileHeaderLen = 4 * 4
	imageType     = 0xfffd0002
	maxTocEntries = 0x10000

	// chunk header, type, size, version, width, height, xhot, yhot, delay
	imageHeaderFields = 9
	imageHeaderLen    = imageHeaderFields * 4
)

// Image is one decoded cursor frame. Pixels are premultiplied ARGB, row
// major, Width*Height of them.
type Image struct {
	Width  uint16
	Height uint16
	XHot   uint16
	YHot   uint16
	// Delay is the frame time of an animated cursor in milliseconds.
	Delay  uint32
	Pixels []uint32
}

// TocEntry is one table of contents entry of an Xcursor file.
type TocEntry struct {
	Type     uint32
	Size     uint32
	Position uint32
}

// IsImage reports whether the entry points at an image chunk.
func (e TocEntry) IsImage() bool { return e.Type == imageType }

// Parse reads the images of the size closest to target. All images tied at
// the best distance are returned in table order, which is how animated
// cursors store their frames. An empty result is not an error.
func Parse(r io.ReadSeeker, target uint32) ([]Image, error) {
	_, positions, err := selectImages(r, target)
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(positions))
	for _, pos := range positions {
		img, err := readImage(r, pos)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// ReadToc returns every table of contents entry without reading any image.
func ReadToc(r io.ReadSeeker) ([]TocEntry, error) {
	ntoc, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	toc := make([]TocEntry, 0, ntoc)
	for i := uint32(0); i < ntoc; i++ {
		var e TocEntry
		if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
			return nil, fmt.Errorf("read toc entry %d: %w", i, err)
		}
		toc = append(toc, e)
	}
	return toc, nil
}

func readHeader(r io.ReadSeeker) (uint32, error) {
	var hdr [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	magic, length := hdr[0], hdr[1]
	if magic != fileMagic || length < fileHeaderLen {
		return 0, ErrNotXcursorFile
	}

	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	ntoc := hdr[1] // hdr[0] is the file version

	if skip := int64(length) - fileHeaderLen; skip > 0 {
		if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
			return 0, fmt.Errorf("seek past header: %w", err)
		}
	}
	if ntoc > maxTocEntries {
		return 0, ErrOversizedXcursorFile
	}
	return ntoc, nil
}

// selectImages scans the table of contents and returns the chunk positions
// of every image entry at the smallest distance from target.
func selectImages(r io.ReadSeeker, target uint32) (int64, []uint32, error) {
	ntoc, err := readHeader(r)
	if err != nil {
		return 0, nil, err
	}

	best := int64(math.MaxInt64)
	var positions []uint32
	for i := uint32(0); i < ntoc; i++ {
		var e TocEntry
		if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
			return 0, nil, fmt.Errorf("read toc entry %d: %w", i, err)
		}
		if !e.IsImage() {
			continue
		}
		fit := int64(e.Size) - int64(target)
		if fit < 0 {
			fit = -fit
		}
		if fit < best {
			best = fit
			positions = positions[:0]
		}
		if fit == best {
			positions = append(positions, e.Position)
		}
	}
	return best, positions, nil
}

func readImage(r io.ReadSeeker, pos uint32) (Image, error) {
	if _, err := r.Seek(int64(pos), io.SeekStart); err != nil {
		return Image{}, fmt.Errorf("seek to image at %d: %w", pos, err)
	}
	var hdr [imageHeaderFields]uint32
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return Image{}, fmt.Errorf("read image header at %d: %w", pos, err)
	}

	var dims [4]uint16
	for i, v := range hdr[4:8] {
		if v > math.MaxUint16 {
			return Image{}, ErrCorruptXcursorFile
		}
		dims[i] = uint16(v)
	}
	img := Image{
		Width:  dims[0],
		Height: dims[1],
		XHot:   dims[2],
		YHot:   dims[3],
		Delay:  hdr[8],
	}

	n := int64(img.Width) * int64(img.Height)
	if err := ensureRemaining(r, n*4); err != nil {
		return Image{}, err
	}
	img.Pixels = make([]uint32, n)
	if err := binary.Read(r, binary.LittleEndian, img.Pixels); err != nil {
		return Image{}, fmt.Errorf("read %dx%d pixels at %d: %w", img.Width, img.Height, pos, err)
	}
	return img, nil
}

// ensureRemaining fails with ErrCorruptXcursorFile when fewer than n bytes
// are left in the stream, so a lying header cannot force a large allocation.
func ensureRemaining(r io.Seeker, n int64) error {
	cur, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("locate pixels: %w", err)
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("locate end of file: %w", err)
	}
	if _, err := r.Seek(cur, io.SeekStart); err != nil {
		return fmt.Errorf("seek back to pixels: %w", err)
	}
	if end-cur < n {
		return ErrCorruptXcursorFile
	}
	return nil
}

// Encode writes images as an Xcursor file. Every image is listed at the
// given nominal size.
func Encode(w io.Writer, size uint32, images []Image) error {
	le := binary.LittleEndian
	ntoc := uint32(len(images))
	pos := uint32(fileHeaderLen) + ntoc*12

	hdr := []uint32{fileMagic, fileHeaderLen, 0x10000, ntoc}
	for _, img := range images {
		hdr = append(hdr, imageType, size, pos)
		pos += imageHeaderLen + uint32(len(img.Pixels))*4
	}
	if err := binary.Write(w, le, hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, img := range images {
		if len(img.Pixels) != int(img.Width)*int(img.Height) {
			return fmt.Errorf("image %d: %d pixels for %dx%d", i, len(img.Pixels), img.Width, img.Height)
		}
		chunk := [imageHeaderFields]uint32{
			imageHeaderLen, imageType, size, 1,
			uint32(img.Width), uint32(img.Height),
			uint32(img.XHot), uint32(img.YHot),
			img.Delay,
		}
		if err := binary.Write(w, le, chunk); err != nil {
			return fmt.Errorf("write image %d header: %w", i, err)
		}
		if err := binary.Write(w, le, img.Pixels); err != nil {
			return fmt.Errorf("write image %d pixels: %w", i, err)
		}
	}
	return nil
}
