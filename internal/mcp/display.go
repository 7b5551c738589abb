package mcp

import (
	"log/slog"

	"github.com/1broseidon/xcurs/internal/config"
	"github.com/1broseidon/xcurs/internal/x11"
	"github.com/1broseidon/xcurs/internal/xcursor"
	"github.com/1broseidon/xcurs/internal/xerr"
)

// Display is the X connection behind the tools that talk to a server.
type Display interface {
	Errors() *xerr.Parser
	Apply(cfg xcursor.LoadConfig, opts x11.ApplyOptions) (xcursor.Resolution, error)
	// Err reports a transport fault that makes the connection unusable.
	Err() error
	Close()
}

type xDisplay struct {
	conn    *x11.Connection
	cursors *xcursor.Context
}

func dialDisplay(cfg *config.Config, logger *slog.Logger) (Display, error) {
	conn, err := x11.Dial(cfg.Display, logger)
	if err != nil {
		return nil, err
	}
	return &xDisplay{
		conn:    conn,
		cursors: xcursor.NewContext(conn, cfg.CursorOptions(logger, nil)...),
	}, nil
}

func (d *xDisplay) Errors() *xerr.Parser { return d.conn.Errors() }
func (d *xDisplay) Err() error           { return d.conn.Err() }

func (d *xDisplay) Close() {
	d.cursors.Close()
	d.conn.Close()
}

func (d *xDisplay) Apply(cfg xcursor.LoadConfig, opts x11.ApplyOptions) (xcursor.Resolution, error) {
	return d.conn.Apply(d.cursors, cfg, opts)
}
