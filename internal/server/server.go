// Package server runs the authoritative side of gridwalk: one datagram in,
// one position reply out.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/rbright/gridwalk/internal/fsm"
	"github.com/rbright/gridwalk/internal/logging"
	"github.com/rbright/gridwalk/internal/protocol"
	"github.com/rbright/gridwalk/internal/tracker"
	"github.com/rbright/gridwalk/internal/transport"
)

// DefaultReadBuffer bounds a single inbound datagram.
const DefaultReadBuffer = 1024

// Options tunes a Server. Zero values select defaults.
type Options struct {
	Logger *slog.Logger
	// Output receives one human-readable line per processed datagram.
	Output     io.Writer
	ReadBuffer int
}

// Server owns the socket and the position for the life of the process.
type Server struct {
	conn       net.PacketConn
	logger     *slog.Logger
	out        io.Writer
	readBuffer int

	mu      sync.RWMutex
	tracker *tracker.Tracker
	state   fsm.State
}

// New constructs a server over an already bound socket.
func New(conn net.PacketConn, t *tracker.Tracker, opts Options) *Server {
	if t == nil {
		t = tracker.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	if opts.ReadBuffer <= 0 {
		opts.ReadBuffer = DefaultReadBuffer
	}

	return &Server{
		conn:       conn,
		logger:     opts.Logger,
		out:        opts.Output,
		readBuffer: opts.ReadBuffer,
		tracker:    t,
		state:      fsm.StateListening,
	}
}

// State returns the loop state snapshot.
func (s *Server) State() fsm.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Position returns the current authoritative position.
func (s *Server) Position() protocol.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.Position()
}

// HandleDatagram applies one inbound payload and returns the reply to send.
// Unrecognized payloads leave the position as is but are still answered.
func (s *Server) HandleDatagram(payload []byte, peer net.Addr) []byte {
	cmd := protocol.DecodeCommand(payload)

	s.mu.Lock()
	pos := s.tracker.Apply(cmd)
	s.mu.Unlock()

	if cmd == protocol.Unrecognized {
		s.logger.Debug("unrecognized command", "peer", addrString(peer), "bytes", len(payload))
	} else {
		s.logger.Info("position updated",
			"command", cmd.String(),
			"peer", addrString(peer),
			"x", pos.X,
			"y", pos.Y,
		)
	}
	fmt.Fprintf(s.out, "New position: %s\n", pos)

	return protocol.EncodeReply(pos)
}

// Serve answers datagrams until ctx is cancelled, then closes the socket.
// Failed receives and sends are logged and the loop keeps listening.
func (s *Server) Serve(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.conn.Close()
		case <-done:
		}
	}()

	buf := make([]byte, s.readBuffer)
	for {
		n, peer, err := s.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				s.transition(fsm.EventQuit)
				return nil
			}
			if transport.IsClosed(err) {
				s.transition(fsm.EventFail)
				return fmt.Errorf("receive datagram: %w", err)
			}
			if !transport.IsTimeout(err) {
				s.logger.Warn("receive failed", "error", err.Error())
			}
			continue
		}

		s.transition(fsm.EventReceived)
		reply := s.HandleDatagram(buf[:n], peer)
		if _, err := s.conn.WriteTo(reply, peer); err != nil {
			s.logger.Warn("send reply failed", "peer", addrString(peer), "error", err.Error())
		}
		s.transition(fsm.EventReplied)
	}
}

func (s *Server) transition(event fsm.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fsm.Transition(s.state, event)
	if err != nil {
		s.logger.Error("server state transition rejected", "error", err.Error())
		return
	}
	s.state = next
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}
