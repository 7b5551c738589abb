package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xcurs/internal/xerr"
)

// ErrPropertyUnset means the window does not have the property.
var ErrPropertyUnset = errors.New("property is not set")

// PropertyTypeError means the property exists with another type.
type PropertyTypeError struct {
	Want, Got xproto.Atom
}

func (e *PropertyTypeError) Error() string {
	return fmt.Sprintf("property has type %d, want %d", e.Got, e.Want)
}

// PropertyFormatError means the property exists with another item width.
type PropertyFormatError struct {
	Want, Got byte
}

func (e *PropertyFormatError) Error() string {
	return fmt.Sprintf("property has format %d, want %d", e.Got, e.Want)
}

// propertyChunk is how much of a property one GetProperty fetches, in
// 32-bit units.
const propertyChunk = 1 << 14

// checkReply classifies the outcome of a reply-bearing request and records
// transport faults on the connection.
func checkReply[T any](c *Connection, reply *T, err error) (*T, error) {
	return xerr.Check(c.parser, reply, c.observe(err))
}

// GetProperty reads the whole value of prop on win. typ may be
// xproto.GetPropertyTypeAny. format is the expected item width in bits.
func (c *Connection) GetProperty(win xproto.Window, prop, typ xproto.Atom, format byte) ([]byte, error) {
	conn := c.XUtil.Conn()
	return collectProperty(typ, format, func(offset uint32) (*xproto.GetPropertyReply, error) {
		return checkReply(c, xproto.GetProperty(conn, false, win, prop, typ, offset, propertyChunk).Reply())
	})
}

// collectProperty pages through a property with fetch until the server
// reports nothing left.
func collectProperty(typ xproto.Atom, format byte, fetch func(offset uint32) (*xproto.GetPropertyReply, error)) ([]byte, error) {
	var value []byte
	var offset uint32
	for {
		reply, err := fetch(offset)
		if err != nil {
			return nil, err
		}
		if reply.Type == xproto.AtomNone {
			return nil, ErrPropertyUnset
		}
		if typ != xproto.GetPropertyTypeAny && reply.Type != typ {
			return nil, &PropertyTypeError{Want: typ, Got: reply.Type}
		}
		if reply.Format != format {
			return nil, &PropertyFormatError{Want: format, Got: reply.Format}
		}
		value = append(value, reply.Value...)
		if reply.BytesAfter == 0 || len(reply.Value) == 0 {
			return value, nil
		}
		offset += uint32(len(reply.Value)) / 4
	}
}
