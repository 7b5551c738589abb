package xcursor

import (
	"strconv"
	"strings"
)

// Resources holds the cursor settings found in the RESOURCE_MANAGER
// property of the root window.
type Resources struct {
	Theme string
	Size  uint32
	// HasSize is set when Xcursor.size parsed, even as 0, or when a
	// positive Xft.dpi gave a size.
	HasSize bool
}

// ParseResources reads the Xcursor.theme, Xcursor.size and Xft.dpi entries
// of a resource database string. Xcursor.size takes precedence over a size
// derived from Xft.dpi.
func ParseResources(db string) Resources {
	var res Resources
	var size, dpi uint32
	var haveSize, haveDPI bool

	for _, line := range strings.Split(db, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch name {
		case "Xcursor.theme":
			res.Theme = strings.TrimLeft(value, " \t")
		case "Xcursor.size":
			size, haveSize = parseUint32(value)
		case "Xft.dpi":
			dpi, haveDPI = parseUint32(value)
		}
	}

	switch {
	case haveSize:
		res.Size, res.HasSize = size, true
	case haveDPI && dpi > 0:
		res.Size, res.HasSize = dpi*16/72, true
	}
	return res
}

func parseUint32(s string) (uint32, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// ScreenSize is the fallback cursor size for a screen of the given pixel
// dimensions.
func ScreenSize(width, height uint16) uint32 {
	return uint32(min(width, height)) / 48
}
