// Package terminal draws the client's marker and reads its keys through tcell.
package terminal

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/rbright/gridwalk/internal/client"
	"github.com/rbright/gridwalk/internal/protocol"
)

// Options controls the marker glyph and the quit binding.
type Options struct {
	Marker  rune
	QuitKey rune
}

// Screen is a full-screen character grid with a single marker on it.
// Column x and row y map directly to the position's X and Y.
type Screen struct {
	screen  tcell.Screen
	marker  rune
	quitKey rune
	style   tcell.Style

	mu  sync.Mutex
	pos protocol.Position

	keys      chan *tcell.EventKey
	done      chan struct{}
	closeOnce sync.Once
}

// Open takes over the controlling terminal.
func Open(opts Options) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewWithScreen(screen, opts)
}

// NewWithScreen initializes screen, clears it, and draws the marker at the
// origin.
func NewWithScreen(screen tcell.Screen, opts Options) (*Screen, error) {
	if opts.Marker == 0 {
		opts.Marker = '@'
	}
	if opts.QuitKey == 0 {
		opts.QuitKey = 'q'
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}

	s := &Screen{
		screen:  screen,
		marker:  opts.Marker,
		quitKey: opts.QuitKey,
		style:   tcell.StyleDefault,
		keys:    make(chan *tcell.EventKey, 1),
		done:    make(chan struct{}),
	}

	screen.Clear()
	screen.SetContent(0, 0, s.marker, nil, s.style)
	screen.Show()

	go s.pump()
	return s, nil
}

// Render moves the marker from its previous cell to p.
func (s *Screen) Render(p protocol.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.SetContent(s.pos.X, s.pos.Y, ' ', nil, s.style)
	s.pos = p
	s.screen.SetContent(p.X, p.Y, s.marker, nil, s.style)
	s.screen.Show()
}

// NextKey blocks for the next key press.
func (s *Screen) NextKey(ctx context.Context) (client.Key, error) {
	select {
	case <-ctx.Done():
		return client.KeyOther, ctx.Err()
	case <-s.done:
		return client.KeyQuit, nil
	case ev := <-s.keys:
		return s.translate(ev), nil
	}
}

// Close restores the terminal to the mode it had before Open.
func (s *Screen) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.screen.Fini()
	})
}

func (s *Screen) translate(ev *tcell.EventKey) client.Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return client.KeyUp
	case tcell.KeyDown:
		return client.KeyDown
	case tcell.KeyLeft:
		return client.KeyLeft
	case tcell.KeyRight:
		return client.KeyRight
	case tcell.KeyCtrlC:
		return client.KeyQuit
	case tcell.KeyRune:
		if ev.Rune() == s.quitKey {
			return client.KeyQuit
		}
	}
	return client.KeyOther
}

func (s *Screen) pump() {
	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			select {
			case s.keys <- ev:
			case <-s.done:
				return
			}
		case *tcell.EventResize:
			s.mu.Lock()
			s.screen.SetContent(s.pos.X, s.pos.Y, s.marker, nil, s.style)
			s.screen.Sync()
			s.mu.Unlock()
		}
	}
}
