package xerr

import "fmt"

// CoreKind enumerates the 17 core protocol errors in code order.
type CoreKind byte

const (
	CoreRequest CoreKind = iota
	CoreValue
	CoreWindow
	CorePixmap
	CoreAtom
	CoreCursor
	CoreFont
	CoreMatch
	CoreDrawable
	CoreAccess
	CoreAlloc
	CoreColormap
	CoreGContext
	CoreIDChoice
	CoreName
	CoreLength
	CoreImplementation

	coreCount
)

var coreNames = [coreCount]string{
	"Request", "Value", "Window", "Pixmap", "Atom", "Cursor", "Font",
	"Match", "Drawable", "Access", "Alloc", "Colormap", "GContext",
	"IDChoice", "Name", "Length", "Implementation",
}

func (k CoreKind) String() string {
	if k < coreCount {
		return coreNames[k]
	}
	return fmt.Sprintf("CoreKind(%d)", byte(k))
}

// CoreError is an error from the core protocol. Every core error carries
// the offending value and the opcodes of the request that caused it.
type CoreError struct {
	Kind     CoreKind
	BadValue uint32
	Major    byte
	Minor    uint16
}

func (e CoreError) Error() string {
	return fmt.Sprintf("%s error (bad value: %d) (major: %d, minor: %d)",
		e.Kind, e.BadValue, e.Major, e.Minor)
}

func (CoreError) isType() {}

var coreDescriptor = Descriptor{
	Count: byte(coreCount),
	Decode: func(local byte, raw Raw) Type {
		if local >= byte(coreCount) {
			return Unknown{Raw: raw}
		}
		return CoreError{
			Kind:     CoreKind(local),
			BadValue: raw.BadValue(),
			Major:    raw.Major(),
			Minor:    raw.Minor(),
		}
	},
}
