// Package protocol encodes and decodes the gridwalk datagram formats.
//
// Commands travel client to server as bare ASCII words. Replies travel
// server to client as "New position: (<x>, <y>)".
package protocol

import (
	"errors"
	"fmt"
	"strconv"
)

// Command is one directional instruction carried by a datagram.
type Command int

const (
	// Unrecognized is the decode result for any payload that is not one of
	// the four command words. It is a valid outcome, not an error.
	Unrecognized Command = iota
	Up
	Down
	Left
	Right
)

const (
	wordUp    = "UP"
	wordDown  = "DOWN"
	wordLeft  = "LEFT"
	wordRight = "RIGHT"
)

// MaxReplyLen is the size of the longest reply EncodeReply can produce.
// A receive buffer smaller than this truncates replies far from the origin.
const MaxReplyLen = len("New position: (-9223372036854775808, -9223372036854775808)")

// ErrUnknownCommand is returned when encoding a value outside the enumeration.
var ErrUnknownCommand = errors.New("unknown command")

// ErrMalformedReply is wrapped by every DecodeReply failure.
var ErrMalformedReply = errors.New("malformed reply")

// Position is a signed 2D grid coordinate. Y grows downward.
type Position struct {
	X int
	Y int
}

func (p Position) String() string {
	return "(" + strconv.Itoa(p.X) + ", " + strconv.Itoa(p.Y) + ")"
}

// Commands lists every encodable command in wire order.
func Commands() []Command {
	return []Command{Up, Down, Left, Right}
}

func (c Command) String() string {
	switch c {
	case Up:
		return wordUp
	case Down:
		return wordDown
	case Left:
		return wordLeft
	case Right:
		return wordRight
	default:
		return "UNRECOGNIZED"
	}
}

// EncodeCommand returns the wire form of c.
func EncodeCommand(c Command) ([]byte, error) {
	switch c {
	case Up, Down, Left, Right:
		return []byte(c.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCommand, int(c))
	}
}

// DecodeCommand matches payload exactly against the command words.
func DecodeCommand(payload []byte) Command {
	switch string(payload) {
	case wordUp:
		return Up
	case wordDown:
		return Down
	case wordLeft:
		return Left
	case wordRight:
		return Right
	default:
		return Unrecognized
	}
}

// EncodeReply formats the position reply sent after every datagram.
func EncodeReply(p Position) []byte {
	return []byte("New position: " + p.String())
}
