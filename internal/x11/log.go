package x11

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
)

// ScreenSummary is the loggable part of one screen of the setup.
type ScreenSummary struct {
	Index         int
	Width         uint16
	Height        uint16
	RootDepth     byte
	AllowedDepths []byte
}

// SetupSummary is the loggable part of the connection setup.
type SetupSummary struct {
	Protocol         string
	Vendor           string
	Release          uint32
	MaxRequestLength int
	Screens          []ScreenSummary
}

// SummarizeSetup extracts what LogConnection reports. Depths are sorted.
func SummarizeSetup(setup *xproto.SetupInfo) SetupSummary {
	s := SetupSummary{
		Protocol:         fmt.Sprintf("%d.%d", setup.ProtocolMajorVersion, setup.ProtocolMinorVersion),
		Vendor:           setup.Vendor,
		Release:          setup.ReleaseNumber,
		MaxRequestLength: int(setup.MaximumRequestLength) * 4,
	}
	for i, root := range setup.Roots {
		depths := make([]byte, 0, len(root.AllowedDepths))
		for _, d := range root.AllowedDepths {
			depths = append(depths, d.Depth)
		}
		sort.Slice(depths, func(a, b int) bool { return depths[a] < depths[b] })
		s.Screens = append(s.Screens, ScreenSummary{
			Index:         i,
			Width:         root.WidthInPixels,
			Height:        root.HeightInPixels,
			RootDepth:     root.RootDepth,
			AllowedDepths: depths,
		})
	}
	return s
}

// ExtensionNames lists the server's extensions in sorted order.
func (c *Connection) ExtensionNames() ([]string, error) {
	list, err := checkReply(c, xproto.ListExtensions(c.XUtil.Conn()).Reply())
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list.Names))
	for _, n := range list.Names {
		names = append(names, n.Name)
	}
	sort.Strings(names)
	return names, nil
}

// LogConnection writes the setup, screens and extensions at level.
func (c *Connection) LogConnection(logger *slog.Logger, level slog.Level) {
	ctx := context.Background()
	if !logger.Enabled(ctx, level) {
		return
	}

	s := SummarizeSetup(c.XUtil.Setup())
	logger.Log(ctx, level, "connected to X server",
		"protocol", s.Protocol,
		"vendor", s.Vendor,
		"release", s.Release,
		"max_request_bytes", s.MaxRequestLength)
	for _, screen := range s.Screens {
		logger.Log(ctx, level, "screen",
			"index", screen.Index,
			"size", fmt.Sprintf("%dx%d", screen.Width, screen.Height),
			"root_depth", screen.RootDepth,
			"depths", fmt.Sprint(screen.AllowedDepths))
	}

	names, err := c.ExtensionNames()
	if err != nil {
		logger.Warn("could not list extensions", "error", err)
		return
	}
	logger.Log(ctx, level, "extensions", "count", len(names), "names", names)
}
