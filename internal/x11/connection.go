package x11

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/render"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/xcurs/internal/xerr"
)

// Connection manages the X11 connection, its error parser and the
// extensions the cursor code relies on.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	logger *slog.Logger
	parser *xerr.Parser

	hasRender bool
	hasXfixes bool
	hasRandr  bool

	mu    sync.Mutex
	fault error
}

// Dial connects to display ("" means $DISPLAY), initializes RENDER, XFIXES
// and RANDR where available and builds the error parser. Missing
// extensions are logged and disable the features that need them.
func Dial(display string, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", xerr.ClassifyTransport(err))
	}

	c := &Connection{
		XUtil:  xu,
		Root:   xu.RootWin(),
		logger: logger,
	}
	conn := xu.Conn()

	if err := render.Init(conn); err != nil {
		logger.Warn("render extension unavailable", "error", err)
	} else {
		c.hasRender = true
	}
	if err := xfixes.Init(conn); err != nil {
		logger.Warn("xfixes extension unavailable", "error", err)
	} else if _, err := xfixes.QueryVersion(conn, 5, 0).Reply(); err != nil {
		logger.Warn("xfixes version negotiation failed", "error", err)
	} else {
		c.hasXfixes = true
	}
	if err := randr.Init(conn); err != nil {
		logger.Debug("randr extension unavailable", "error", err)
	} else {
		c.hasRandr = true
	}

	installErrorCapture()

	c.parser, err = xerr.NewParser(c, logger)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("build error parser: %w", err)
	}
	return c, nil
}

// Errors returns the connection's error parser.
func (c *Connection) Errors() *xerr.Parser { return c.parser }

// Err reports the transport fault recorded on the connection, if any.
func (c *Connection) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fault
}

// observe records err as the connection fault when it did not come from
// the server. It returns err unchanged.
func (c *Connection) observe(err error) error {
	if err == nil {
		return nil
	}
	var xe xgb.Error
	if errors.As(err, &xe) {
		return err
	}
	c.mu.Lock()
	if c.fault == nil {
		c.fault = err
	}
	c.mu.Unlock()
	return err
}

// ListExtensions enumerates the server's extensions together with their
// opcode, event and error bases. All queries are sent before any reply is
// read.
func (c *Connection) ListExtensions() ([]xerr.Extension, error) {
	conn := c.XUtil.Conn()
	list, err := xproto.ListExtensions(conn).Reply()
	if err != nil {
		return nil, fmt.Errorf("list extensions: %w", c.observe(err))
	}

	cookies := make([]xproto.QueryExtensionCookie, len(list.Names))
	for i, name := range list.Names {
		cookies[i] = xproto.QueryExtension(conn, uint16(len(name.Name)), name.Name)
	}

	exts := make([]xerr.Extension, 0, len(cookies))
	for i, cookie := range cookies {
		reply, err := cookie.Reply()
		if err != nil {
			return nil, fmt.Errorf("query extension %s: %w", list.Names[i].Name, c.observe(err))
		}
		if reply == nil || !reply.Present {
			continue
		}
		exts = append(exts, xerr.Extension{
			Name:        list.Names[i].Name,
			MajorOpcode: reply.MajorOpcode,
			FirstEvent:  reply.FirstEvent,
			FirstError:  reply.FirstError,
		})
	}
	return exts, nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
