package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/xcurs/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "load", "apply":
		os.Exit(runApply(os.Args[2:]))
	case "resolve":
		os.Exit(runResolve(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "inspect":
		os.Exit(runInspect(os.Args[2:]))
	case "preview":
		os.Exit(runPreview(os.Args[2:]))
	case "errors":
		os.Exit(runErrors(os.Args[2:]))
	case "info":
		os.Exit(runInfo(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xcurs <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  apply [NAME]        Set the root window cursor from the configured theme")
	fmt.Fprintln(w, "  resolve NAME        Show which file or core glyph a cursor name resolves to")
	fmt.Fprintln(w, "  list                List installed themes, or the cursors of one theme")
	fmt.Fprintln(w, "  inspect FILE        Dump the table of contents and images of an Xcursor file")
	fmt.Fprintln(w, "  preview NAME        Open a window showing a cursor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  errors              Show the error ranges of the X server")
	fmt.Fprintln(w, "  info                Show the connection setup, monitors and RENDER support")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive TUI")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'xcurs <command> --help' for command-specific options.")
}

// newFlagSet builds a subcommand flag set whose usage text is usage
// followed by the flag defaults.
func newFlagSet(name string, usage ...string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		for _, line := range usage {
			fmt.Fprintln(os.Stderr, line)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags returns -1 when parsing succeeded, otherwise the exit code.
func parseFlags(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	return -1
}

func configPathFlag(fs *flag.FlagSet) *string {
	return fs.String("config", "", "Config file path (default: ~/.config/xcurs/config.yaml)")
}

func loadConfig(path string) (*config.LoadResult, error) {
	var (
		res *config.LoadResult
		err error
	)
	if path == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(path)
	}
	if err != nil {
		return nil, err
	}
	if res.Config.XAuthority != "" {
		if err := os.Setenv("XAUTHORITY", res.Config.XAuthority); err != nil {
			return nil, fmt.Errorf("set XAUTHORITY: %w", err)
		}
	}
	return res, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}
