package config

import "log/slog"

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: slog.LevelInfo},
		Server: ServerConfig{ReadBuffer: 1024},
		Client: ClientConfig{
			ReadBuffer: 64,
			Marker:     '@',
			QuitKey:    'q',
		},
	}
}
