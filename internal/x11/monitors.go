package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/xcurs/internal/xcursor"
)

// ErrNoRandr means monitors cannot be enumerated on this server.
var ErrNoRandr = errors.New("randr extension is not available")

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
	// WidthMM and HeightMM are 0 when the output does not report them.
	WidthMM  uint32
	HeightMM uint32
}

// Contains reports whether the root coordinate (x, y) is on the monitor.
func (m Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// DPI is the monitor's horizontal resolution, or 0 when the physical size
// is unknown.
func (m Monitor) DPI() uint32 {
	if m.WidthMM == 0 || m.Width <= 0 {
		return 0
	}
	return uint32(m.Width) * 254 / (m.WidthMM * 10)
}

// CursorSize is the nominal cursor size that suits the monitor. It uses
// the same dpi rule as Xft.dpi and falls back to the screen size rule.
func (m Monitor) CursorSize() uint32 {
	if dpi := m.DPI(); dpi > 0 {
		return dpi * 16 / 72
	}
	return xcursor.ScreenSize(uint16(m.Width), uint16(m.Height))
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if !c.hasRandr {
		return nil, ErrNoRandr
	}
	conn := c.XUtil.Conn()

	resources, err := checkReply(c, randr.GetScreenResources(conn, c.Root).Reply())
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor

	// Query each CRTC for active monitors
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := checkReply(c, randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply())
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		mon := Monitor{
			ID:     i,
			Name:   fmt.Sprintf("Monitor%d", i),
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		outputInfo, err := checkReply(c, randr.GetOutputInfo(conn, crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply())
		if err == nil {
			mon.Name = string(outputInfo.Name)
			mon.WidthMM, mon.HeightMM = outputInfo.MmWidth, outputInfo.MmHeight
		}
		monitors = append(monitors, mon)
	}

	return monitors, nil
}

// ActiveMonitor returns the monitor with the focused window, else the one
// under the pointer, else the first one.
func (c *Connection) ActiveMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	if activeWin, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && activeWin != 0 {
		if x, y, ok := c.windowCenter(activeWin); ok {
			if mon := monitorAt(monitors, x, y); mon != nil {
				return mon, nil
			}
		}
	}

	if x, y, ok := c.Pointer(); ok {
		if mon := monitorAt(monitors, x, y); mon != nil {
			return mon, nil
		}
	}

	return &monitors[0], nil
}

// Pointer returns the pointer position in root coordinates.
func (c *Connection) Pointer() (x, y int, ok bool) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		c.observe(err)
		return 0, 0, false
	}
	return int(pointer.RootX), int(pointer.RootY), true
}

func (c *Connection) windowCenter(win xproto.Window) (x, y int, ok bool) {
	conn := c.XUtil.Conn()
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return 0, 0, false
	}
	translate, err := xproto.TranslateCoordinates(conn, win, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(translate.DstX) + int(geom.Width)/2, int(translate.DstY) + int(geom.Height)/2, true
}

func monitorAt(monitors []Monitor, x, y int) *Monitor {
	for i := range monitors {
		if monitors[i].Contains(x, y) {
			return &monitors[i]
		}
	}
	return nil
}
