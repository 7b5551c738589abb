package xcursor

import "errors"

var (
	// ErrNotXcursorFile means the magic or the header length is wrong.
	ErrNotXcursorFile = errors.New("the file is not an Xcursor file")
	// ErrOversizedXcursorFile means the table of contents declares more
	// than 0x10000 entries.
	ErrOversizedXcursorFile = errors.New("the Xcursor file contains more than 0x10000 images")
	ErrEmptyXcursorFile     = errors.New("the Xcursor file is empty")
	// ErrCorruptXcursorFile means an image header field does not fit its
	// wire width or the pixel data is truncated.
	ErrCorruptXcursorFile      = errors.New("the Xcursor file is corrupt")
	ErrNotFound                = errors.New("the requested cursor could not be found")
	ErrImageCursorNotSupported = errors.New("cursors from images are not supported")
)
