package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/1broseidon/xcurs/internal/config"
	"github.com/1broseidon/xcurs/internal/x11"
	"github.com/1broseidon/xcurs/internal/xcursor"
)

func runApply(args []string) int {
	fs := newFlagSet("apply",
		"Usage: xcurs apply [--name] [--replace] [--watch] [NAME]",
		"",
		"Load NAME (default: default_cursor) from the configured theme and make",
		"it the root window cursor.")
	configPath := configPathFlag(fs)
	name := fs.Bool("name", true, "Attach the cursor name through XFIXES")
	replace := fs.Bool("replace", false, "Replace every cursor the server knows under the same name")
	watch := fs.Bool("watch", false, "Keep running and reapply when the config or theme changes")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "apply takes at most one cursor name")
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

	opts := x11.ApplyOptions{Name: *name, Replace: *replace}
	apply := func(res *config.LoadResult) error {
		cursor := fs.Arg(0)
		if cursor == "" {
			cursor = res.Config.DefaultCursor
		}
		cursors := xcursor.NewContext(conn, res.Config.CursorOptions(logger, nil)...)
		defer closeContext(cursors, logger)
		hit, err := conn.Apply(cursors, res.Config.Cursor(cursor), opts)
		if err != nil {
			return err
		}
		logger.Info("cursor applied", "name", cursor, "theme", hit.Theme, "file", hit.Path, "glyph", hit.IsGlyph)
		return nil
	}

	if err := apply(res); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !*watch {
		return 0
	}

	path := *configPath
	if path == "" {
		if path, err = config.DefaultConfigPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	w, err := newConfigWatcher(path, logger, apply)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := w.Run(ctx, res); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runResolve(args []string) int {
	fs := newFlagSet("resolve",
		"Usage: xcurs resolve [--theme THEME] NAME",
		"",
		"Show the file or core glyph NAME resolves to, without a display.")
	configPath := configPathFlag(fs)
	theme := fs.String("theme", "", "Theme to resolve in (default: from config)")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "resolve requires NAME")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	req := res.Config.Cursor(fs.Arg(0))
	if *theme != "" {
		req.Theme = *theme
	}

	resolver := xcursor.NewResolver(osfs.New("/"), res.Config.CursorSearchPath(nil))
	hit, err := resolver.Lookup(req.Theme, req.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", req.Name, err)
		return 1
	}
	fmt.Printf("name:  %s\n", req.Name)
	fmt.Printf("theme: %s\n", hit.Theme)
	if hit.IsGlyph {
		fmt.Printf("glyph: %d\n", hit.Glyph)
	} else {
		fmt.Printf("file:  %s\n", hit.Path)
	}
	return 0
}

func runList(args []string) int {
	fs := newFlagSet("list",
		"Usage: xcurs list [--theme THEME [--match GLOB]]",
		"",
		"List the themes on the search path, or the cursors THEME provides.")
	configPath := configPathFlag(fs)
	theme := fs.String("theme", "", "List the cursors of this theme")
	match := fs.String("match", "", "Only list cursor names matching this glob")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	resolver := xcursor.NewResolver(osfs.New("/"), res.Config.CursorSearchPath(nil))

	if *theme == "" {
		if *match != "" {
			fmt.Fprintln(os.Stderr, "--match requires --theme")
			return 2
		}
		for _, t := range resolver.Themes() {
			marker := " "
			if t == res.Config.Theme {
				marker = "*"
			}
			if parents := resolver.Parents(t); len(parents) > 0 {
				fmt.Printf("%s %s (inherits %v)\n", marker, t, parents)
			} else {
				fmt.Printf("%s %s\n", marker, t)
			}
		}
		return 0
	}

	names, err := resolver.Cursors(*theme, *match)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return 0
}

func runPreview(args []string) int {
	fs := newFlagSet("preview",
		"Usage: xcurs preview [--theme THEME] [--size N] NAME",
		"",
		"Open a window that shows NAME while the pointer is inside it.",
		"Press q or Escape to close it.")
	configPath := configPathFlag(fs)
	theme := fs.String("theme", "", "Theme to load from (default: from config)")
	size := fs.Uint("size", 0, "Nominal size (default: from config or the display)")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "preview requires NAME")
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

	req := res.Config.Cursor(fs.Arg(0))
	if *theme != "" {
		req.Theme = *theme
	}
	if *size != 0 {
		req.Size = uint32(*size)
	}
	if err := previewCursor(conn, res.Config, req, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func previewCursor(conn *x11.Connection, cfg *config.Config, req xcursor.LoadConfig, logger *slog.Logger) error {
	cursors := xcursor.NewContext(conn, cfg.CursorOptions(logger, nil)...)
	defer closeContext(cursors, logger)
	hit, err := cursors.Find(req)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", req.Name, err)
	}
	cursor, err := cursors.LoadResolved(hit, req.Size)
	if err != nil {
		return fmt.Errorf("load %s: %w", req.Name, err)
	}
	defer func() {
		if err := conn.ReleaseCursor(cursor); err != nil {
			logger.Warn("could not free cursor", "error", err)
		}
	}()
	return conn.Preview(cursor, fmt.Sprintf("xcurs: %s (%s)", req.Name, hit.Theme))
}

func closeContext(cursors *xcursor.Context, logger *slog.Logger) {
	if err := cursors.Close(); err != nil {
		logger.Warn("could not close the cursor font", "error", err)
	}
}
