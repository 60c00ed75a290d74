// Package client runs the interactive side of gridwalk: one keypress, one
// command datagram, one reply, one redraw.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/rbright/gridwalk/internal/fsm"
	"github.com/rbright/gridwalk/internal/logging"
	"github.com/rbright/gridwalk/internal/protocol"
)

// DefaultReadBuffer bounds a single reply datagram.
const DefaultReadBuffer = 64

// Key is an input decoded from the terminal.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyQuit
)

// Keys supplies one key per call, blocking until one is available.
type Keys interface {
	NextKey(context.Context) (Key, error)
}

// Renderer draws the marker at a new position.
type Renderer interface {
	Render(protocol.Position)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(protocol.Position)

func (f RendererFunc) Render(p protocol.Position) {
	f(p)
}

// Options tunes a Client. Zero values select defaults.
type Options struct {
	Logger     *slog.Logger
	ReadBuffer int
}

// Client drives the strict request/response cycle against one server.
type Client struct {
	conn       net.PacketConn
	server     net.Addr
	keys       Keys
	renderer   Renderer
	logger     *slog.Logger
	readBuffer int

	mu    sync.RWMutex
	state fsm.State
}

// New constructs a client. conn must be able to reach server.
func New(conn net.PacketConn, server net.Addr, keys Keys, renderer Renderer, opts Options) *Client {
	if renderer == nil {
		renderer = RendererFunc(func(protocol.Position) {})
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.ReadBuffer <= 0 {
		opts.ReadBuffer = DefaultReadBuffer
	}
	opts.ReadBuffer = max(opts.ReadBuffer, protocol.MaxReplyLen)

	return &Client{
		conn:       conn,
		server:     server,
		keys:       keys,
		renderer:   renderer,
		logger:     opts.Logger,
		readBuffer: opts.ReadBuffer,
		state:      fsm.StateAwaitingInput,
	}
}

// State returns the loop state snapshot.
func (c *Client) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Run processes keys until the quit key (nil error) or a fatal transport or
// input failure. There is no timeout on the reply wait.
func (c *Client) Run(ctx context.Context) error {
	buf := make([]byte, c.readBuffer)

	for {
		key, err := c.keys.NextKey(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.transition(fsm.EventQuit)
				return nil
			}
			c.transition(fsm.EventFail)
			return fmt.Errorf("read key: %w", err)
		}

		cmd, ok := commandFor(key)
		if !ok {
			if key == KeyQuit {
				c.transition(fsm.EventQuit)
				c.logger.Info("quit requested")
				return nil
			}
			c.transition(fsm.EventIgnore)
			continue
		}

		c.transition(fsm.EventMove)
		payload, err := protocol.EncodeCommand(cmd)
		if err != nil {
			c.transition(fsm.EventFail)
			return err
		}
		if _, err := c.conn.WriteTo(payload, c.server); err != nil {
			c.transition(fsm.EventFail)
			return fmt.Errorf("send command %s: %w", cmd, err)
		}
		c.transition(fsm.EventSent)

		n, _, err := c.conn.ReadFrom(buf)
		if err != nil {
			c.transition(fsm.EventFail)
			return fmt.Errorf("receive reply: %w", err)
		}
		c.transition(fsm.EventReply)

		pos, err := protocol.DecodeReply(buf[:n])
		if err != nil {
			c.logger.Debug("reply discarded", "error", err.Error())
			c.transition(fsm.EventDiscarded)
			continue
		}
		c.renderer.Render(pos)
		c.logger.Debug("position rendered", "command", cmd.String(), "x", pos.X, "y", pos.Y)
		c.transition(fsm.EventRendered)
	}
}

func commandFor(key Key) (protocol.Command, bool) {
	switch key {
	case KeyUp:
		return protocol.Up, true
	case KeyDown:
		return protocol.Down, true
	case KeyLeft:
		return protocol.Left, true
	case KeyRight:
		return protocol.Right, true
	default:
		return protocol.Unrecognized, false
	}
}

func (c *Client) transition(event fsm.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		c.logger.Error("client state transition rejected", "error", err.Error())
		return
	}
	c.state = next
}
