package xerr

import (
	"errors"
	"io"
	"net"
	"strings"

	"github.com/BurntSushi/xgb"
)

// Cookie is a void request whose outcome has not been read yet.
// xgb's checked cookies satisfy it.
type Cookie interface {
	Check() error
}

// CheckErr classifies an error returned by a request. It returns nil only
// for a nil input.
func (p *Parser) CheckErr(err error) error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var wire WireError
	if errors.As(err, &wire) {
		return p.Classify(wire.Wire())
	}

	// A protocol error that lost its packet still has its header fields.
	var xe xgb.Error
	if errors.As(err, &xe) {
		raw := NewRaw(0, xe.SequenceId(), xe.BadId(), 0, 0)
		return &Error{Sequence: xe.SequenceId(), Type: Unknown{Raw: raw}}
	}

	return fromType(ClassifyTransport(err))
}

// CheckConnection reports the fault recorded on the connection, or nil.
func (p *Parser) CheckConnection() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Err()
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	return fromType(ClassifyTransport(err))
}

// CheckCookie waits for a void request and classifies its error.
func (p *Parser) CheckCookie(c Cookie) error {
	return p.CheckErr(c.Check())
}

// Check applies the reply contract to a reply-bearing request. An error
// wins over everything. A missing reply is blamed on the connection when
// it has failed, and on the server otherwise.
func Check[T any](p *Parser, reply *T, err error) (*T, error) {
	if err != nil {
		return nil, p.CheckErr(err)
	}
	if reply == nil {
		if cerr := p.CheckConnection(); cerr != nil {
			return nil, cerr
		}
		return nil, fromType(MissingReply{})
	}
	return reply, nil
}

// ClassifyTransport maps an error from the transport to a connection fault.
// xgb reports most faults as plain strings, so matching is textual.
func ClassifyTransport(err error) *ConnectionError {
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return ce
	}

	kind := ConnUnknown
	var opErr *net.OpError
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &opErr):
		kind = ConnIO
	case strings.Contains(msg, "display string"):
		kind = ConnDisplayString
	case strings.Contains(msg, "no more available resource"):
		kind = ConnOutOfMemory
	case strings.Contains(msg, "no extension named"), strings.Contains(msg, "unsupported extension"):
		kind = ConnUnsupportedExtension
	case strings.Contains(msg, "too large"):
		kind = ConnMessageLength
	case strings.Contains(msg, "invalid screen"):
		kind = ConnInvalidScreen
	case strings.Contains(msg, "cannot connect"), strings.Contains(msg, "broken pipe"):
		kind = ConnIO
	}
	return &ConnectionError{Kind: kind, Err: err}
}
