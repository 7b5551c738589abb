package xerr

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb"
)

// RawSize is the fixed length of an X11 error packet.
const RawSize = 32

// Raw is an X11 error packet exactly as it was read off the wire.
//
// Fields are read at fixed offsets. xgb always negotiates little-endian
// byte order with the server, so every multi-byte field is LSB first.
type Raw [RawSize]byte

// WireError is implemented by errors that still carry the packet they were
// decoded from. The x11 package installs constructors that produce them.
type WireError interface {
	error
	Wire() Raw
}

// ParseRaw copies an error packet out of buf after validating its length
// and response type.
func ParseRaw(buf []byte) (Raw, error) {
	var r Raw
	if len(buf) < RawSize {
		return r, fmt.Errorf("error packet too short: %d bytes, want %d", len(buf), RawSize)
	}
	if buf[0] != 0 {
		return r, fmt.Errorf("not an error packet: response type %d", buf[0])
	}
	copy(r[:], buf[:RawSize])
	return r, nil
}

// ParseHex decodes a hex dump of an error packet. Whitespace and colons
// between bytes are ignored.
func ParseHex(s string) (Raw, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', ':':
			return -1
		}
		return r
	}, s)
	clean = strings.TrimPrefix(clean, "0x")
	buf, err := hex.DecodeString(clean)
	if err != nil {
		return Raw{}, fmt.Errorf("invalid hex error packet: %w", err)
	}
	return ParseRaw(buf)
}

// Code is the error code at offset 1.
func (r Raw) Code() byte { return r[1] }

// Sequence is the low 16 bits of the failed request's sequence number.
func (r Raw) Sequence() uint16 { return xgb.Get16(r[2:]) }

// BadValue is the 32-bit resource id or value at offset 4. Extensions
// reuse this slot for their own payload.
func (r Raw) BadValue() uint32 { return xgb.Get32(r[4:]) }

// Minor is the minor opcode of the failed request.
func (r Raw) Minor() uint16 { return xgb.Get16(r[8:]) }

// Major is the major opcode of the failed request.
func (r Raw) Major() byte { return r[10] }

func (r Raw) String() string {
	return hex.EncodeToString(r[:])
}

// NewRaw builds a packet from its header fields. Used by tests and tooling
// that synthesize errors.
func NewRaw(code byte, seq uint16, value uint32, major byte, minor uint16) Raw {
	var r Raw
	r[1] = code
	xgb.Put16(r[2:], seq)
	xgb.Put32(r[4:], value)
	xgb.Put16(r[8:], minor)
	r[10] = major
	return r
}
