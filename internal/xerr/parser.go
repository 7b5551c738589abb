package xerr

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// Descriptor declares the error space of the core protocol or one extension.
type Descriptor struct {
	// Name is the extension's wire name. Empty for the core protocol.
	Name  string
	Count byte
	// Decode turns a code relative to the range base into a variant.
	Decode func(local byte, raw Raw) Type
}

// Descriptors returns the compiled-in descriptor table, core first.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, 1+len(extDescriptors))
	out = append(out, coreDescriptor)
	return append(out, extDescriptors...)
}

// Extension is one entry of the server's extension list.
type Extension struct {
	Name        string
	MajorOpcode byte
	FirstEvent  byte
	FirstError  byte
}

// Conn is the part of a connection the parser needs.
type Conn interface {
	// ListExtensions enumerates the server's extensions with their
	// assigned error bases.
	ListExtensions() ([]Extension, error)
	// Err reports a transport fault, or nil while the connection is healthy.
	Err() error
}

// Range is the half-open code interval [Base, End) owned by one descriptor.
// End is an int because Base+Count may exceed 255.
type Range struct {
	Base       int
	End        int
	Descriptor Descriptor
}

// Contains reports whether code falls in the range.
func (r Range) Contains(code byte) bool {
	return int(code) >= r.Base && int(code) < r.End
}

// Name is the owner's wire name, or "core".
func (r Range) Name() string {
	if r.Descriptor.Name == "" {
		return "core"
	}
	return r.Descriptor.Name
}

func (r Range) String() string {
	return fmt.Sprintf("%s[%d, %d]", r.Name(), r.Base, r.End-1)
}

// ErrRangeOverlap means two descriptors claim the same error codes.
var ErrRangeOverlap = errors.New("overlapping X error ranges")

// Parser classifies error packets against the ranges of one connection.
// It is immutable after construction.
type Parser struct {
	conn   Conn
	ranges []Range
}

// NewParser enumerates the connection's extensions and builds the range
// table. A failed enumeration is logged and leaves a core-only parser.
func NewParser(conn Conn, logger *slog.Logger) (*Parser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	exts, err := conn.ListExtensions()
	if err != nil {
		logger.Error("could not list extensions", "error", err)
		exts = nil
	}
	p, err := Build(exts)
	if err != nil {
		return nil, err
	}
	p.conn = conn
	for _, r := range p.ranges {
		logger.Debug("error range", "owner", r.Name(), "base", r.Base, "end", r.End)
	}
	return p, nil
}

// Build forms the range table from an extension list without a live
// connection. The core range is always [1, 18).
func Build(exts []Extension) (*Parser, error) {
	bases := make(map[string]byte, len(exts))
	for _, ext := range exts {
		bases[ext.Name] = ext.FirstError
	}

	var ranges []Range
	for _, d := range Descriptors() {
		base := 1
		if d.Name != "" {
			b, ok := bases[d.Name]
			// A zero base means the server assigned no error space.
			if !ok || b == 0 {
				continue
			}
			base = int(b)
		}
		ranges = append(ranges, Range{Base: base, End: base + int(d.Count), Descriptor: d})
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Base < ranges[j].Base
	})
	for i := 1; i < len(ranges); i++ {
		prev, cur := ranges[i-1], ranges[i]
		if prev.End > cur.Base {
			return nil, fmt.Errorf("%w: %s and %s", ErrRangeOverlap, prev, cur)
		}
	}
	return &Parser{ranges: ranges}, nil
}

// Ranges returns a copy of the range table in ascending base order.
func (p *Parser) Ranges() []Range {
	out := make([]Range, len(p.ranges))
	copy(out, p.ranges)
	return out
}

// Lookup returns the range that owns code.
func (p *Parser) Lookup(code byte) (Range, bool) {
	for _, r := range p.ranges {
		if r.Contains(code) {
			return r, true
		}
	}
	return Range{}, false
}

// Classify decodes a packet. It never fails; codes outside every range
// come back as Unknown carrying the packet.
func (p *Parser) Classify(raw Raw) *Error {
	e := &Error{
		Code:     raw.Code(),
		Sequence: raw.Sequence(),
		Major:    raw.Major(),
		Minor:    raw.Minor(),
	}
	if r, ok := p.Lookup(raw.Code()); ok {
		e.Type = r.Descriptor.Decode(raw.Code()-byte(r.Base), raw)
	}
	if e.Type == nil {
		e.Type = Unknown{Raw: raw}
	}
	return e
}
