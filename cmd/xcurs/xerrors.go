package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/1broseidon/xcurs/internal/x11"
	"github.com/1broseidon/xcurs/internal/xcursor"
	"github.com/1broseidon/xcurs/internal/xerr"
)

func runErrors(args []string) int {
	fs := newFlagSet("errors",
		"Usage: xcurs errors [--offline] [--classify HEX]",
		"",
		"Print the error code ranges of the X server, or classify one 32 byte",
		"error packet given as hex.")
	configPath := configPathFlag(fs)
	offline := fs.Bool("offline", false, "Use the core protocol ranges only, without a display")
	classify := fs.String("classify", "", "Error packet to classify (64 hex digits)")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "errors takes no arguments")
		fs.Usage()
		return 2
	}

	var raw xerr.Raw
	if *classify != "" {
		var err error
		if raw, err = xerr.ParseHex(*classify); err != nil {
			fmt.Fprintf(os.Stderr, "--classify: %v\n", err)
			return 2
		}
	}

	var parser *xerr.Parser
	if *offline {
		var err error
		if parser, err = xerr.Build(nil); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	} else {
		res, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		conn, err := x11.Dial(res.Config.Display, newLogger(res.Config))
		if err != nil {
			log.Fatalf("Failed to connect to X server: %v", err)
		}
		defer conn.Close()
		parser = conn.Errors()
	}

	if *classify == "" {
		for _, r := range parser.Ranges() {
			fmt.Printf("%-24s %3d..%d\n", r.Name(), r.Base, r.End-1)
		}
		return 0
	}

	e := parser.Classify(raw)
	owner := "unknown"
	if r, ok := parser.Lookup(e.Code); ok {
		owner = r.String()
	}
	var unknown xerr.Unknown
	fmt.Printf("range:    %s\n", owner)
	fmt.Printf("code:     %d\n", e.Code)
	fmt.Printf("sequence: %d\n", e.Sequence)
	fmt.Printf("request:  %d.%d\n", e.Major, e.Minor)
	fmt.Printf("value:    %d\n", raw.BadValue())
	fmt.Printf("message:  %s\n", e.Error())
	if errors.As(e, &unknown) {
		return 1
	}
	return 0
}

func runInfo(args []string) int {
	fs := newFlagSet("info",
		"Usage: xcurs info",
		"",
		"Describe the X server: setup, extensions, RENDER support, monitors",
		"and the cursor theme and size the server resources select.")
	configPath := configPathFlag(fs)
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "info takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := newLogger(res.Config)
	conn, err := x11.Dial(res.Config.Display, logger)
	if err != nil {
		log.Fatalf("Failed to connect to X server: %v", err)
	}
	defer conn.Close()
	conn.LogConnection(logger, slog.LevelDebug)

	s := x11.SummarizeSetup(conn.XUtil.Setup())
	fmt.Printf("protocol:    %s\n", s.Protocol)
	fmt.Printf("vendor:      %s (release %d)\n", s.Vendor, s.Release)
	fmt.Printf("max request: %d bytes\n", s.MaxRequestLength)
	for _, scr := range s.Screens {
		fmt.Printf("screen %d:    %dx%d depth %d (allowed %v)\n", scr.Index, scr.Width, scr.Height, scr.RootDepth, scr.AllowedDepths)
	}

	if major, minor, ok, err := conn.RenderVersion(); err != nil {
		fmt.Printf("render:      error: %v\n", err)
	} else if ok {
		fmt.Printf("render:      %d.%d\n", major, minor)
	} else {
		fmt.Println("render:      not available (core cursors only)")
	}

	cursors := xcursor.NewContext(conn, res.Config.CursorOptions(logger, nil)...)
	defer closeContext(cursors, logger)
	theme := cursors.Theme()
	if theme == "" {
		theme = "(none)"
	}
	fmt.Printf("theme:       %s\n", theme)
	fmt.Printf("size:        %d\n", cursors.Size())

	monitors, err := conn.GetMonitors()
	switch {
	case errors.Is(err, x11.ErrNoRandr):
		fmt.Println("monitors:    randr not available")
	case err != nil:
		fmt.Printf("monitors:    error: %v\n", err)
	default:
		active, _ := conn.ActiveMonitor()
		for _, m := range monitors {
			marker := " "
			if active != nil && active.ID == m.ID {
				marker = "*"
			}
			fmt.Printf("%s %-10s %dx%d+%d+%d  dpi=%d  cursor size=%d\n",
				marker, m.Name, m.Width, m.Height, m.X, m.Y, m.DPI(), m.CursorSize())
		}
	}

	if names, err := conn.ExtensionNames(); err == nil {
		fmt.Printf("extensions:  %d\n", len(names))
		for _, n := range names {
			fmt.Printf("  %s\n", n)
		}
	}
	return 0
}
