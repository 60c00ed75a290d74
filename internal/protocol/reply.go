package protocol

import (
	"bytes"
	"fmt"
	"strconv"
)

// DecodeReply extracts the position from a reply datagram.
//
// Only the "(x, y)" part is inspected: text before the first '(' is ignored.
// Each number may carry leading whitespace and a sign, and the second number
// must be followed directly by ')'.
func DecodeReply(payload []byte) (Position, error) {
	open := bytes.IndexByte(payload, '(')
	if open < 0 {
		return Position{}, fmt.Errorf("%w: missing '('", ErrMalformedReply)
	}
	rest := payload[open+1:]

	x, n, err := parseInt(rest)
	if err != nil {
		return Position{}, fmt.Errorf("%w: x: %v", ErrMalformedReply, err)
	}
	rest = rest[n:]

	comma := bytes.IndexByte(rest, ',')
	if comma < 0 {
		return Position{}, fmt.Errorf("%w: missing ','", ErrMalformedReply)
	}
	rest = rest[comma+1:]

	y, n, err := parseInt(rest)
	if err != nil {
		return Position{}, fmt.Errorf("%w: y: %v", ErrMalformedReply, err)
	}
	rest = rest[n:]

	if len(rest) == 0 || rest[0] != ')' {
		return Position{}, fmt.Errorf("%w: missing ')'", ErrMalformedReply)
	}

	return Position{X: x, Y: y}, nil
}

// parseInt reads an optionally signed decimal integer from the start of b,
// skipping leading whitespace. It returns the value and the bytes consumed.
func parseInt(b []byte) (int, int, error) {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	start := i
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		i++
	}
	digits := i
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, 0, fmt.Errorf("no digits")
	}

	v, err := strconv.Atoi(string(b[start:i]))
	if err != nil {
		return 0, 0, err
	}
	return v, i, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}
