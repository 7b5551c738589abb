package x11

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/BurntSushi/xgb"

	"github.com/1broseidon/xcurs/internal/xerr"
)

// rawError is a server error that kept its wire bytes. It wraps the typed
// value xgb would have built, when xgb knows the code.
type rawError struct {
	raw   xerr.Raw
	typed xgb.Error
}

func (e *rawError) Wire() xerr.Raw     { return e.raw }
func (e *rawError) SequenceId() uint16 { return e.raw.Sequence() }
func (e *rawError) BadId() uint32      { return e.raw.BadValue() }

func (e *rawError) Error() string {
	if e.typed != nil {
		return e.typed.Error()
	}
	return fmt.Sprintf("X error %d (sequence %d, major %d, minor %d, value %#x)",
		e.raw.Code(), e.raw.Sequence(), e.raw.Major(), e.raw.Minor(), e.raw.BadValue())
}

// Unwrap exposes xgb's typed error, e.g. xproto.AccessError.
func (e *rawError) Unwrap() error {
	if e.typed == nil {
		return nil
	}
	return e.typed
}

var (
	constructorsMu sync.RWMutex
	// constructors holds the xgb constructors displaced by captureError.
	constructors [256]xgb.NewErrorFun
)

// captureError is installed for every error code. It records the packet
// and defers to the displaced constructor for the typed value.
func captureError(buf []byte) xgb.Error {
	raw, err := xerr.ParseRaw(buf)
	if err != nil {
		copy(raw[:], buf)
	}
	constructorsMu.RLock()
	inner := constructors[raw.Code()]
	constructorsMu.RUnlock()

	e := &rawError{raw: raw}
	if inner != nil {
		e.typed = inner(buf)
	}
	return e
}

var capturePC = reflect.ValueOf(xgb.NewErrorFun(captureError)).Pointer()

func isCapture(f xgb.NewErrorFun) bool {
	return f != nil && reflect.ValueOf(f).Pointer() == capturePC
}

// installErrorCapture routes every error code through captureError. xgb
// has no constructor for codes of extensions it never initialized, and
// drops those errors; after this call they arrive like any other.
//
// Extension Init functions overwrite their slots, so this runs after
// them and again after any later Init.
func installErrorCapture() {
	constructorsMu.Lock()
	defer constructorsMu.Unlock()
	for code := 1; code < len(constructors); code++ {
		f := xgb.NewErrorFuncs[code]
		if isCapture(f) {
			continue
		}
		if f != nil {
			constructors[code] = f
		}
		xgb.NewErrorFuncs[code] = captureError
	}
}
