// Package xerr classifies X11 protocol errors.
//
// A Parser is built once per connection from the server's extension list.
// It maps every error code to the core protocol or to the extension that
// owns it, and decodes the packet into one of the variant types below.
// Classification never fails: codes nobody claims come back as Unknown.
package xerr

import (
	"fmt"
)

// Type is implemented by every decoded error variant. The set is closed.
type Type interface {
	error
	isType()
}

// Error is a classified protocol or connection error.
type Error struct {
	Code     byte
	Sequence uint16
	Major    byte
	Minor    uint16
	Type     Type
}

func (e *Error) Error() string {
	if e.Type == nil {
		return "unclassified X error"
	}
	return e.Type.Error()
}

// Unwrap exposes the variant so callers can use errors.As on it.
func (e *Error) Unwrap() error {
	if e.Type == nil {
		return nil
	}
	return e.Type
}

// fromType wraps a variant that has no packet behind it.
func fromType(t Type) *Error {
	return &Error{Type: t}
}

// Unknown is a packet whose code no known range claims.
type Unknown struct {
	Raw Raw
}

func (e Unknown) Error() string {
	return fmt.Sprintf("unknown X error (code: %d, sequence: %d, major: %d, minor: %d)",
		e.Raw.Code(), e.Raw.Sequence(), e.Raw.Major(), e.Raw.Minor())
}

func (Unknown) isType() {}

// MissingReply means the server sent neither a reply nor an error.
type MissingReply struct{}

func (MissingReply) Error() string { return "the X server did not send a reply to a request" }

func (MissingReply) isType() {}

// ConnKind is the reason a connection failed.
type ConnKind int

const (
	ConnUnknown ConnKind = iota
	ConnIO
	ConnUnsupportedExtension
	ConnOutOfMemory
	ConnMessageLength
	ConnDisplayString
	ConnInvalidScreen
	ConnFileDescriptors
)

var connKindNames = [...]string{
	ConnUnknown:              "an unknown error occurred",
	ConnIO:                   "an IO error occurred",
	ConnUnsupportedExtension: "a request used an unsupported extension",
	ConnOutOfMemory:          "out of memory",
	ConnMessageLength:        "a request was too large for the X server",
	ConnDisplayString:        "unable to parse the DISPLAY string",
	ConnInvalidScreen:        "the requested screen is not available",
	ConnFileDescriptors:      "file descriptor passing failed",
}

func (k ConnKind) String() string {
	if k >= 0 && int(k) < len(connKindNames) {
		return connKindNames[k]
	}
	return fmt.Sprintf("connection error %d", int(k))
}

// ConnectionError is a transport-level fault. It is terminal for the
// connection that produced it.
type ConnectionError struct {
	Kind ConnKind
	Err  error
}

func (e *ConnectionError) Error() string {
	msg := "the connection was terminated due to an error: " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (*ConnectionError) isType() {}
