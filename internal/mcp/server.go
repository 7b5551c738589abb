package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xcurs/internal/config"
	"github.com/1broseidon/xcurs/internal/xcursor"
)

const (
	ServerName    = "xcurs"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing cursor lookup, Xcursor inspection and
// X error classification.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	logger    *slog.Logger
	fs        billy.Filesystem
	resolver  *xcursor.Resolver

	// dialFn opens the X connection for the tools that need one.
	dialFn func() (Display, error)

	mu      sync.Mutex
	display Display
}

// NewServer creates a server reading themes from the host filesystem and
// connecting to cfg.Display on first use.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	dial := func() (Display, error) { return dialDisplay(cfg, logger) }
	return newServer(cfg, logger, osfs.New("/"), os.Getenv, dial)
}

func newServer(cfg *config.Config, logger *slog.Logger, fs billy.Filesystem, getenv func(string) string, dial func() (Display, error)) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger,
		fs:       fs,
		resolver: xcursor.NewResolver(fs, cfg.CursorSearchPath(getenv)),
		dialFn:   dial,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close drops the X connection if one was opened.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.display != nil {
		s.display.Close()
		s.display = nil
	}
	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resolve_cursor",
		Description: "Find the file a cursor name resolves to. Searches the theme and the themes it inherits from, then the default theme, then the core cursor font. Does not need an X server.",
	}, s.handleResolveCursor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "inspect_cursor",
		Description: "Read an Xcursor file and report its table of contents, the nominal sizes it contains and the frames selected for a size.",
	}, s.handleInspectCursor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_themes",
		Description: "List the cursor themes installed on the search path with the themes each inherits from.",
	}, s.handleListThemes)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_cursors",
		Description: "List the cursor names a theme provides, including inherited ones, optionally filtered by a glob.",
	}, s.handleListCursors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "classify_error",
		Description: "Decode a raw 32-byte X11 error packet into its error kind. Uses the extension error bases of the connected server unless extensions are given explicitly; without either only core errors are named.",
	}, s.handleClassifyError)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "error_ranges",
		Description: "List the error code ranges the connected X server assigns to the core protocol and each known extension.",
	}, s.handleErrorRanges)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_cursor",
		Description: "Load a cursor from the configured theme and set it as the root window cursor of the connected X server.",
	}, s.handleApplyCursor)
}

// connect returns the shared X connection, redialing when the previous one
// hit a transport fault.
func (s *Server) connect() (Display, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.display != nil {
		err := s.display.Err()
		if err == nil {
			return s.display, nil
		}
		s.logger.Warn("X connection lost, reconnecting", "error", err)
		s.display.Close()
		s.display = nil
	}
	if s.dialFn == nil {
		return nil, fmt.Errorf("no X display configured")
	}
	d, err := s.dialFn()
	if err != nil {
		return nil, err
	}
	s.display = d
	return d, nil
}
