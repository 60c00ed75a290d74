package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type jsoncConfig struct {
	Log    *jsoncLog    `json:"log"`
	Server *jsoncServer `json:"server"`
	Client *jsoncClient `json:"client"`
}

type jsoncLog struct {
	Level *string `json:"level"`
}

type jsoncServer struct {
	ReadBuffer *int `json:"read_buffer"`
}

type jsoncClient struct {
	ReadBuffer *int    `json:"read_buffer"`
	Marker     *string `json:"marker"`
	QuitKey    *string `json:"quit_key"`
}

func parseJSONC(content string, base Config) (Config, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	if err := payload.applyTo(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) error {
	if payload.Log != nil && payload.Log.Level != nil {
		level := strings.TrimSpace(*payload.Log.Level)
		if err := cfg.Log.Level.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("invalid log.level: %w", err)
		}
	}

	if payload.Server != nil && payload.Server.ReadBuffer != nil {
		cfg.Server.ReadBuffer = *payload.Server.ReadBuffer
	}

	if payload.Client != nil {
		if payload.Client.ReadBuffer != nil {
			cfg.Client.ReadBuffer = *payload.Client.ReadBuffer
		}
		if payload.Client.Marker != nil {
			r, err := singleRune(*payload.Client.Marker)
			if err != nil {
				return fmt.Errorf("invalid client.marker: %w", err)
			}
			cfg.Client.Marker = r
		}
		if payload.Client.QuitKey != nil {
			r, err := singleRune(*payload.Client.QuitKey)
			if err != nil {
				return fmt.Errorf("invalid client.quit_key: %w", err)
			}
			cfg.Client.QuitKey = r
		}
	}

	return nil
}

// normalizeJSONC blanks out comments and drops trailing commas so the
// result is plain JSON with the same byte offsets for line/column reporting.
func normalizeJSONC(content string) (string, error) {
	blanked, err := blankComments(content)
	if err != nil {
		return "", err
	}
	return dropTrailingCommas(blanked), nil
}

// stringSpan tracks whether a scanner is inside a JSON string literal.
type stringSpan struct {
	inside bool
	escape bool
}

// step consumes ch and reports whether it belonged to a string literal.
func (s *stringSpan) step(ch byte) bool {
	if !s.inside {
		if ch == '"' {
			s.inside = true
			return true
		}
		return false
	}
	switch {
	case s.escape:
		s.escape = false
	case ch == '\\':
		s.escape = true
	case ch == '"':
		s.inside = false
	}
	return true
}

func blankComments(content string) (string, error) {
	out := []byte(content)
	var str stringSpan

	for i := 0; i < len(out); i++ {
		if str.step(out[i]) {
			continue
		}
		if out[i] != '/' || i+1 >= len(out) {
			continue
		}

		switch out[i+1] {
		case '/':
			for i < len(out) && out[i] != '\n' && out[i] != '\r' {
				out[i] = ' '
				i++
			}
		case '*':
			end := strings.Index(content[i+2:], "*/")
			if end < 0 {
				return "", fmt.Errorf("unterminated block comment in JSONC")
			}
			stop := i + 2 + end + 2
			for ; i < stop; i++ {
				if out[i] != '\n' && out[i] != '\r' && out[i] != '\t' {
					out[i] = ' '
				}
			}
			i--
		}
	}

	return string(out), nil
}

func dropTrailingCommas(content string) string {
	var out strings.Builder
	out.Grow(len(content))
	var str stringSpan

	for i := 0; i < len(content); i++ {
		ch := content[i]
		if !str.step(ch) && ch == ',' {
			next := strings.TrimLeft(content[i+1:], " \t\r\n")
			if next != "" && (next[0] == '}' || next[0] == ']') {
				continue
			}
		}
		out.WriteByte(ch)
	}

	return out.String()
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra json.RawMessage
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return err
	}

	line, col := offsetToLineCol(content, offset)
	return fmt.Errorf("line %d column %d: %w", line, col, err)
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := min(int(offset), len(content))
	prefix := content[:max(limit-1, 0)]
	line := strings.Count(prefix, "\n") + 1
	col := len(prefix) - strings.LastIndex(prefix, "\n")
	return line, col
}
