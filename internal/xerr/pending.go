package xerr

// Pending collects void requests whose errors are read later as a batch.
//
// Every collected cookie is consumed exactly once, either by Check or by
// Discard. Both are safe to call repeatedly, so the usual pattern is
//
//	var p xerr.Pending
//	defer p.Discard()
//	p.Add(...)
//	if err := p.Check(parser); err != nil { ... }
type Pending struct {
	cookies []Cookie
}

// Add queues a cookie. Nil cookies are ignored.
func (p *Pending) Add(c Cookie) {
	if c == nil {
		return
	}
	p.cookies = append(p.cookies, c)
}

// Len is the number of cookies not yet consumed.
func (p *Pending) Len() int { return len(p.cookies) }

// Check waits for every queued request in submission order and returns the
// first classified failure. Later failures are read and dropped.
func (p *Pending) Check(parser *Parser) error {
	cookies := p.cookies
	p.cookies = nil
	var first error
	for _, c := range cookies {
		if err := parser.CheckCookie(c); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// CheckAll waits for every queued request and returns all failures in
// submission order.
func (p *Pending) CheckAll(parser *Parser) []error {
	cookies := p.cookies
	p.cookies = nil
	var errs []error
	for _, c := range cookies {
		if err := parser.CheckCookie(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Discard drops every queued cookie without waiting for the server. Any
// error the server sends for them arrives as an event instead.
func (p *Pending) Discard() {
	discard(p.cookies)
	p.cookies = nil
}

func discard(cookies []Cookie) {
	for i := range cookies {
		cookies[i] = nil
	}
}
