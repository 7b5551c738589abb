package x11

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xcurs/internal/xerr"
)

func TestCaptureError_KeepsPacketAndTypedError(t *testing.T) {
	installErrorCapture()

	raw := xerr.NewRaw(xproto.BadWindow, 0x1234, 0xdead, 12, 0)
	e := xgb.NewErrorFuncs[xproto.BadWindow](raw[:])

	rawErr, ok := e.(*rawError)
	if !ok {
		t.Fatalf("BadWindow constructor was not wrapped, got %T", e)
	}
	if rawErr.Wire() != raw {
		t.Fatalf("wire bytes changed")
	}
	if e.SequenceId() != 0x1234 || e.BadId() != 0xdead {
		t.Fatalf("header fields = %d, %#x", e.SequenceId(), e.BadId())
	}

	var typed xproto.WindowError
	if !errors.As(e, &typed) {
		t.Fatalf("xgb's typed error is not reachable through Unwrap")
	}

	var wire xerr.WireError
	if !errors.As(e, &wire) {
		t.Fatalf("captured errors must satisfy xerr.WireError")
	}
}

func TestCaptureError_UnknownCode(t *testing.T) {
	installErrorCapture()

	// 200 has no constructor unless an extension claims it.
	raw := xerr.NewRaw(200, 7, 0x42, 150, 3)
	f := xgb.NewErrorFuncs[200]
	if f == nil {
		t.Fatalf("code 200 has no constructor after install")
	}
	e := f(raw[:])
	if e.SequenceId() != 7 || e.Error() == "" {
		t.Fatalf("unexpected error %v", e)
	}

	p, err := xerr.Build([]xerr.Extension{{Name: "SYNC", MajorOpcode: 150, FirstError: 200}})
	if err != nil {
		t.Fatal(err)
	}
	classified := p.CheckErr(e)
	var syncErr xerr.SyncError
	if !errors.As(classified, &syncErr) {
		t.Fatalf("expected a SYNC error, got %v", classified)
	}
}

func TestInstallErrorCapture_Idempotent(t *testing.T) {
	installErrorCapture()
	installErrorCapture()

	raw := xerr.NewRaw(xproto.BadValue, 1, 5, 1, 0)
	e := xgb.NewErrorFuncs[xproto.BadValue](raw[:])
	rawErr, ok := e.(*rawError)
	if !ok {
		t.Fatalf("got %T", e)
	}
	// A second install must not wrap the capture in itself.
	if _, nested := rawErr.typed.(*rawError); nested {
		t.Fatalf("capture was wrapped twice")
	}

	// A constructor installed later, as extension Init does, is picked up
	// by the next install.
	xgb.NewErrorFuncs[201] = func(buf []byte) xgb.Error { return xproto.AccessError{Sequence: 9, NiceName: "Late"} }
	installErrorCapture()
	raw = xerr.NewRaw(201, 9, 0, 0, 0)
	e = xgb.NewErrorFuncs[201](raw[:])
	var late xproto.AccessError
	if !errors.As(e, &late) || late.NiceName != "Late" {
		t.Fatalf("late constructor lost: %v", e)
	}
}
