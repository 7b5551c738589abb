package xerr

import "fmt"

func kindName(names []string, k byte) string {
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("error %d", k)
}

// simple builds a descriptor for an extension whose errors carry nothing
// beyond their code.
func simple(name string, names []string, wrap func(byte) Type) Descriptor {
	return Descriptor{
		Name:  name,
		Count: byte(len(names)),
		Decode: func(local byte, raw Raw) Type {
			if int(local) >= len(names) {
				return Unknown{Raw: raw}
			}
			return wrap(local)
		},
	}
}

// XVideo

type XvKind byte

const (
	XvBadPort XvKind = iota
	XvBadEncoding
	XvBadControl
)

var xvNames = []string{"Bad port", "Bad encoding", "Bad control"}

func (k XvKind) String() string { return kindName(xvNames, byte(k)) }

type XvError struct{ Kind XvKind }

func (e XvError) Error() string { return "XVideo extension error: " + e.Kind.String() }
func (XvError) isType()         {}

// XFIXES

type XfixesKind byte

const XfixesBadRegion XfixesKind = 0

var xfixesNames = []string{"Bad region"}

func (k XfixesKind) String() string { return kindName(xfixesNames, byte(k)) }

type XfixesError struct{ Kind XfixesKind }

func (e XfixesError) Error() string { return "XFIXES extension error: " + e.Kind.String() }
func (XfixesError) isType()         {}

// MIT-SHM

type ShmKind byte

const ShmBadSeg ShmKind = 0

var shmNames = []string{"Bad segment"}

func (k ShmKind) String() string { return kindName(shmNames, byte(k)) }

type ShmError struct {
	Kind     ShmKind
	BadValue uint32
	Major    byte
	Minor    uint16
}

func (e ShmError) Error() string {
	return fmt.Sprintf("SHM extension error: %s (bad value: %d) (major: %d, minor: %d)",
		e.Kind, e.BadValue, e.Major, e.Minor)
}
func (ShmError) isType() {}

// DAMAGE

type DamageKind byte

const DamageBadDamage DamageKind = 0

var damageNames = []string{"Bad damage"}

func (k DamageKind) String() string { return kindName(damageNames, byte(k)) }

type DamageError struct{ Kind DamageKind }

func (e DamageError) Error() string { return "DAMAGE extension error: " + e.Kind.String() }
func (DamageError) isType()         {}

// XpExtension

type XPrintKind byte

const (
	XPrintBadContext XPrintKind = iota
	XPrintBadSequence
)

var xprintNames = []string{"Bad context", "Bad sequence"}

func (k XPrintKind) String() string { return kindName(xprintNames, byte(k)) }

type XPrintError struct{ Kind XPrintKind }

func (e XPrintError) Error() string { return "Print extension error: " + e.Kind.String() }
func (XPrintError) isType()         {}

// RANDR

type RandrKind byte

const (
	RandrBadOutput RandrKind = iota
	RandrBadCrtc
	RandrBadMode
	RandrBadProvider
)

var randrNames = []string{"Bad output", "Bad crtc", "Bad mode", "Bad provider"}

func (k RandrKind) String() string { return kindName(randrNames, byte(k)) }

type RandrError struct{ Kind RandrKind }

func (e RandrError) Error() string { return "RANDR extension error: " + e.Kind.String() }
func (RandrError) isType()         {}

// RENDER

type RenderKind byte

const (
	RenderPictFormat RenderKind = iota
	RenderPicture
	RenderPictOp
	RenderGlyphSet
	RenderGlyph
)

var renderNames = []string{
	"Invalid picture format", "Invalid picture", "Invalid picture operation",
	"Invalid glyph set", "Invalid glyph",
}

func (k RenderKind) String() string { return kindName(renderNames, byte(k)) }

type RenderError struct{ Kind RenderKind }

func (e RenderError) Error() string { return "RENDER extension error: " + e.Kind.String() }
func (RenderError) isType()         {}

// SYNC

type SyncKind byte

const (
	SyncCounter SyncKind = iota
	SyncAlarm
)

var syncNames = []string{"Bad counter", "Bad alarm"}

func (k SyncKind) String() string { return kindName(syncNames, byte(k)) }

// SyncError carries the counter or alarm id in Value.
type SyncError struct {
	Kind  SyncKind
	Value uint32
	Major byte
	Minor uint16
}

func (e SyncError) Error() string {
	return fmt.Sprintf("SYNC extension error: %s %d (major: %d, minor: %d)",
		e.Kind, e.Value, e.Major, e.Minor)
}
func (SyncError) isType() {}

// RECORD

type RecordKind byte

const RecordBadContext RecordKind = 0

var recordNames = []string{"Bad context"}

func (k RecordKind) String() string { return kindName(recordNames, byte(k)) }

type RecordError struct {
	Kind          RecordKind
	InvalidRecord uint32
}

func (e RecordError) Error() string {
	return fmt.Sprintf("RECORD extension error: %s (invalid record: %d)", e.Kind, e.InvalidRecord)
}
func (RecordError) isType() {}

// XKEYBOARD

// XkbFlags is the value word of an XKB Keyboard error.
type XkbFlags uint32

const (
	XkbBadDevice XkbFlags = 255
	XkbBadClass  XkbFlags = 254
	XkbBadID     XkbFlags = 253
)

func (f XkbFlags) String() string {
	switch f {
	case XkbBadDevice:
		return "BadDevice"
	case XkbBadClass:
		return "BadClass"
	case XkbBadID:
		return "BadId"
	}
	return fmt.Sprintf("0x%x", uint32(f))
}

type XkbKind byte

const XkbKeyboard XkbKind = 0

var xkbNames = []string{"Keyboard error"}

func (k XkbKind) String() string { return kindName(xkbNames, byte(k)) }

type XkbError struct {
	Kind  XkbKind
	Flags XkbFlags
	Major byte
	Minor uint16
}

func (e XkbError) Error() string {
	return fmt.Sprintf("XKEYBOARD extension error: %s: %s (major: %d, minor: %d)",
		e.Kind, e.Flags, e.Major, e.Minor)
}
func (XkbError) isType() {}

// GLX

type GlxKind byte

const (
	GlxBadContext GlxKind = iota
	GlxBadContextState
	GlxBadDrawable
	GlxBadPixmap
	GlxBadContextTag
	GlxBadCurrentWindow
	GlxBadRenderRequest
	GlxBadLargeRequest
	GlxUnsupportedPrivateRequest
	GlxBadFBConfig
	GlxBadPbuffer
	GlxBadCurrentDrawable
	GlxBadWindow
	GlxBadProfileARB
)

var glxNames = []string{
	"Bad context", "Bad context state", "Bad drawable", "Bad pixmap",
	"Bad context tag", "Bad current window", "Bad render request",
	"Bad large request", "Unsupported private request",
	"Bad framebuffer config", "Bad pixel buffer", "Bad current drawable",
	"Bad window", "Bad profile",
}

func (k GlxKind) String() string { return kindName(glxNames, byte(k)) }

type GlxError struct {
	Kind     GlxKind
	BadValue uint32
	Major    byte
	Minor    uint16
}

func (e GlxError) Error() string {
	return fmt.Sprintf("GLX extension error: %s (bad value: %d) (major: %d, minor: %d)",
		e.Kind, e.BadValue, e.Major, e.Minor)
}
func (GlxError) isType() {}

// XInputExtension

type InputKind byte

const (
	InputDevice InputKind = iota
	InputEvent
	InputMode
	InputDeviceBusy
	InputClass
)

var inputNames = []string{"Bad device", "Bad event", "Bad mode", "Device busy", "Bad class"}

func (k InputKind) String() string { return kindName(inputNames, byte(k)) }

type InputError struct{ Kind InputKind }

func (e InputError) Error() string { return "XInput extension error: " + e.Kind.String() }
func (InputError) isType()         {}

var extDescriptors = []Descriptor{
	simple("XVideo", xvNames, func(k byte) Type { return XvError{Kind: XvKind(k)} }),
	simple("XFIXES", xfixesNames, func(k byte) Type { return XfixesError{Kind: XfixesKind(k)} }),
	{
		Name:  "MIT-SHM",
		Count: byte(len(shmNames)),
		Decode: func(local byte, raw Raw) Type {
			if int(local) >= len(shmNames) {
				return Unknown{Raw: raw}
			}
			return ShmError{Kind: ShmKind(local), BadValue: raw.BadValue(), Major: raw.Major(), Minor: raw.Minor()}
		},
	},
	simple("DAMAGE", damageNames, func(k byte) Type { return DamageError{Kind: DamageKind(k)} }),
	simple("XpExtension", xprintNames, func(k byte) Type { return XPrintError{Kind: XPrintKind(k)} }),
	simple("RANDR", randrNames, func(k byte) Type { return RandrError{Kind: RandrKind(k)} }),
	simple("RENDER", renderNames, func(k byte) Type { return RenderError{Kind: RenderKind(k)} }),
	{
		Name:  "SYNC",
		Count: byte(len(syncNames)),
		Decode: func(local byte, raw Raw) Type {
			if int(local) >= len(syncNames) {
				return Unknown{Raw: raw}
			}
			return SyncError{Kind: SyncKind(local), Value: raw.BadValue(), Major: raw.Major(), Minor: raw.Minor()}
		},
	},
	{
		Name:  "RECORD",
		Count: byte(len(recordNames)),
		Decode: func(local byte, raw Raw) Type {
			if int(local) >= len(recordNames) {
				return Unknown{Raw: raw}
			}
			return RecordError{Kind: RecordKind(local), InvalidRecord: raw.BadValue()}
		},
	},
	{
		Name:  "XKEYBOARD",
		Count: byte(len(xkbNames)),
		Decode: func(local byte, raw Raw) Type {
			if int(local) >= len(xkbNames) {
				return Unknown{Raw: raw}
			}
			return XkbError{Kind: XkbKind(local), Flags: XkbFlags(raw.BadValue()), Major: raw.Major(), Minor: raw.Minor()}
		},
	},
	{
		Name:  "GLX",
		Count: byte(len(glxNames)),
		Decode: func(local byte, raw Raw) Type {
			if int(local) >= len(glxNames) {
				return Unknown{Raw: raw}
			}
			return GlxError{Kind: GlxKind(local), BadValue: raw.BadValue(), Major: raw.Major(), Minor: raw.Minor()}
		},
	},
	simple("XInputExtension", inputNames, func(k byte) Type { return InputError{Kind: InputKind(k)} }),
}
