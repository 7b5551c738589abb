package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/xcurs/internal/mcp"
	"github.com/1broseidon/xcurs/internal/tui"
)

func runTUI(args []string) int {
	fs := newFlagSet("tui",
		"Usage: xcurs tui [--config PATH]",
		"",
		"Browse installed cursor themes, preview cursors and edit the config.",
		"",
		"Keybindings:",
		"  1/2/3, Tab   Switch between themes, cursors and settings",
		"  Enter        Select the highlighted theme",
		"  /            Filter the list",
		"  s            Cycle the preview size",
		"  e            Edit settings",
		"  Ctrl+S       Review and save changes",
		"  q, Ctrl+C    Quit")
	configPath := configPathFlag(fs)
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if err := tui.Run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xcurs mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'xcurs mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := newFlagSet("serve",
		"Usage: xcurs mcp serve [--config PATH]",
		"",
		"Start the MCP server on stdio. The X display is opened on first use,",
		"so theme and error tools work without one.")
	configPath := configPathFlag(fs)
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	server := mcp.NewServer(res.Config, newLogger(res.Config))
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
	return 0
}
