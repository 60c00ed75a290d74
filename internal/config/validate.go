package config

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/rbright/gridwalk/internal/protocol"
)

const (
	minServerReadBuffer = 16
	minClientReadBuffer = protocol.MaxReplyLen
	// Largest UDP payload over IPv4.
	maxReadBuffer = 65507
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if cfg.Server.ReadBuffer < minServerReadBuffer || cfg.Server.ReadBuffer > maxReadBuffer {
		return nil, fmt.Errorf("server.read_buffer must be between %d and %d", minServerReadBuffer, maxReadBuffer)
	}
	if cfg.Client.ReadBuffer < minClientReadBuffer || cfg.Client.ReadBuffer > maxReadBuffer {
		return nil, fmt.Errorf("client.read_buffer must be between %d and %d", minClientReadBuffer, maxReadBuffer)
	}
	if !drawable(cfg.Client.Marker) {
		return nil, fmt.Errorf("client.marker must be a printable, non-space character")
	}
	if !drawable(cfg.Client.QuitKey) {
		return nil, fmt.Errorf("client.quit_key must be a printable, non-space character")
	}
	if cfg.Client.QuitKey == cfg.Client.Marker {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("client.quit_key and client.marker are both %q", cfg.Client.Marker)})
	}

	return warnings, nil
}

func drawable(r rune) bool {
	return r != utf8.RuneError && unicode.IsPrint(r) && !unicode.IsSpace(r)
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected exactly one character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
