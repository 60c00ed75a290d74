// Package config resolves, parses, validates, and defaults gridwalk configuration.
package config

import "log/slog"

// Config is the fully materialized runtime configuration.
type Config struct {
	Log    LogConfig
	Server ServerConfig
	Client ClientConfig
}

// LogConfig controls the JSONL log sink.
type LogConfig struct {
	Level slog.Level
}

// ServerConfig controls the listening side.
type ServerConfig struct {
	ReadBuffer int
}

// ClientConfig controls the interactive side.
type ClientConfig struct {
	ReadBuffer int
	Marker     rune
	QuitKey    rune
}

// Warning is a non-fatal load/validation message.
type Warning struct {
	Line    int
	Message string
}
