// Package tracker holds the server's authoritative grid position.
package tracker

import "github.com/rbright/gridwalk/internal/protocol"

// Tracker applies commands to a single position. It has one writer (the
// server loop) and is not safe for concurrent use.
type Tracker struct {
	pos protocol.Position
}

// New returns a tracker at the origin.
func New() *Tracker {
	return &Tracker{}
}

// At returns a tracker starting at p.
func At(p protocol.Position) *Tracker {
	return &Tracker{pos: p}
}

// Position returns the current position.
func (t *Tracker) Position() protocol.Position {
	return t.pos
}

// Apply moves one step in the command's direction and returns the result.
// Unrecognized commands leave the position unchanged.
func (t *Tracker) Apply(cmd protocol.Command) protocol.Position {
	switch cmd {
	case protocol.Up:
		t.pos.Y--
	case protocol.Down:
		t.pos.Y++
	case protocol.Left:
		t.pos.X--
	case protocol.Right:
		t.pos.X++
	}
	return t.pos
}
