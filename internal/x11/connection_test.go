package x11

import (
	"errors"
	"io"
	"testing"

	"github.com/1broseidon/xcurs/internal/xerr"
)

func TestObserve_RecordsOnlyTransportFaults(t *testing.T) {
	c := &Connection{}

	raw := xerr.NewRaw(3, 1, 0, 0, 0)
	if err := c.observe(&rawError{raw: raw}); err == nil {
		t.Fatalf("observe must return its input")
	}
	if c.Err() != nil {
		t.Fatalf("a server error is not a connection fault")
	}

	if c.observe(nil) != nil || c.Err() != nil {
		t.Fatalf("nil must stay nil")
	}

	c.observe(io.ErrUnexpectedEOF)
	c.observe(errors.New("later"))
	if !errors.Is(c.Err(), io.ErrUnexpectedEOF) {
		t.Fatalf("Err() = %v, want the first fault", c.Err())
	}

	var ce *xerr.ConnectionError
	if cerr := xerr.ClassifyTransport(c.Err()); !errors.As(cerr, &ce) || ce.Kind != xerr.ConnIO {
		t.Fatalf("recorded fault classifies as %v", cerr)
	}
}
