package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const previewSize = 256

// previewQuitKeys end a preview.
var previewQuitKeys = []string{"Escape", "q"}

// Preview opens a window that shows cursor while the pointer is inside it
// and blocks until the user closes it or presses a quit key.
func (c *Connection) Preview(cursor xproto.Cursor, title string) error {
	xu := c.XUtil
	win, err := xwindow.Generate(xu)
	if err != nil {
		return fmt.Errorf("allocate preview window: %w", c.parser.CheckErr(err))
	}

	x, y := c.previewOrigin()
	screen := xu.Screen()
	err = win.CreateChecked(c.Root, x, y, previewSize, previewSize,
		xproto.CwBackPixel|xproto.CwCursor, screen.WhitePixel, uint32(cursor))
	if err != nil {
		return fmt.Errorf("create preview window: %w", c.parser.CheckErr(err))
	}
	defer win.Destroy()

	if err := icccm.WmNameSet(xu, win.Id, title); err != nil {
		c.logger.Debug("could not set WM_NAME", "error", err)
	}
	if err := ewmh.WmNameSet(xu, win.Id, title); err != nil {
		c.logger.Debug("could not set _NET_WM_NAME", "error", err)
	}
	if err := ewmh.WmPidSet(xu, win.Id, uint(os.Getpid())); err != nil {
		c.logger.Debug("could not set _NET_WM_PID", "error", err)
	}
	hints := &icccm.NormalHints{
		Flags:     icccm.SizeHintPPosition | icccm.SizeHintPMinSize,
		X:         x,
		Y:         y,
		MinWidth:  previewSize / 4,
		MinHeight: previewSize / 4,
	}
	if err := icccm.WmNormalHintsSet(xu, win.Id, hints); err != nil {
		c.logger.Debug("could not set WM_NORMAL_HINTS", "error", err)
	}

	win.WMGracefulClose(func(w *xwindow.Window) {
		xevent.Quit(w.X)
	})

	keybind.Initialize(xu)
	quit := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		xevent.Quit(xu)
	})
	if err := win.Listen(xproto.EventMaskKeyPress, xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("listen on preview window: %w", err)
	}
	for _, key := range previewQuitKeys {
		if err := quit.Connect(xu, win.Id, key, false); err != nil {
			c.logger.Warn("could not bind preview key", "key", key, "error", err)
		}
	}

	win.Map()
	c.logger.Info("previewing cursor", "cursor", cursor, "window", win.Id, "quit", previewQuitKeys)
	c.EventLoop()
	return nil
}

// previewOrigin centers the preview on the active monitor, or on the
// screen when monitors are unavailable.
func (c *Connection) previewOrigin() (int, int) {
	if mon, err := c.ActiveMonitor(); err == nil {
		return mon.X + (mon.Width-previewSize)/2, mon.Y + (mon.Height-previewSize)/2
	}
	s := c.XUtil.Screen()
	return (int(s.WidthInPixels) - previewSize) / 2, (int(s.HeightInPixels) - previewSize) / 2
}
