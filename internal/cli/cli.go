package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Mode string

const (
	ModeServer  Mode = "server"
	ModeClient  Mode = "client"
	ModeDoctor  Mode = "doctor"
	ModeVersion Mode = "version"
	ModeHelp    Mode = "help"
)

var validModes = map[Mode]struct{}{
	ModeServer:  {},
	ModeClient:  {},
	ModeDoctor:  {},
	ModeVersion: {},
	ModeHelp:    {},
}

type Parsed struct {
	Mode       Mode
	Address    string
	Port       uint16
	ConfigPath string
	ShowHelp   bool
}

// Parse reads `<mode> [flags] <address> <port>`. Flags may appear anywhere;
// -h/--help wins over every other error.
func Parse(args []string) (Parsed, error) {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return Parsed{Mode: ModeHelp, ShowHelp: true}, nil
		}
	}

	var (
		parsed     Parsed
		positional []string
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--version":
			parsed.Mode = ModeVersion
		case arg == "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-") && arg != "-":
			return Parsed{}, fmt.Errorf("unknown option '%s'", arg)
		default:
			positional = append(positional, arg)
		}
	}

	if parsed.Mode == ModeVersion && len(positional) == 0 {
		return parsed, nil
	}
	if len(positional) == 0 {
		return Parsed{}, errors.New("a mode is required: server or client")
	}

	mode := Mode(positional[0])
	if _, ok := validModes[mode]; !ok {
		return Parsed{}, fmt.Errorf("invalid mode %q: choose server or client", positional[0])
	}
	parsed.Mode = mode
	rest := positional[1:]

	switch mode {
	case ModeHelp, ModeVersion:
		parsed.ShowHelp = mode == ModeHelp
		if len(rest) != 0 {
			return Parsed{}, fmt.Errorf("unexpected arguments after command %q", mode)
		}
		return parsed, nil
	}

	switch len(rest) {
	case 0:
		return Parsed{}, errors.New("an address and port are required")
	case 1:
		return Parsed{}, errors.New("the port is required")
	case 2:
	default:
		return Parsed{}, errors.New("too many arguments")
	}

	port, err := ParsePort(rest[1])
	if err != nil {
		return Parsed{}, err
	}
	parsed.Address = rest[0]
	parsed.Port = port
	return parsed, nil
}

// ParsePort accepts a plain decimal port number in 0-65535.
func ParsePort(s string) (uint16, error) {
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, fmt.Errorf("invalid characters in port %q", s)
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("port %q out of range", s)
	}
	return uint16(v), nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s server [--config PATH] <address> <port>
  %[1]s client [--config PATH] <address> <port>
  %[1]s doctor [--config PATH] <address> <port>
  %[1]s version

Commands:
  server    Hold the position and answer move commands on <address>:<port>
  client    Draw the position in this terminal and steer it with the arrow keys
  doctor    Check config, terminal, and whether a server answers at <address>:<port>
  version   Print version information
  help      Show this help

Client keys:
  arrows    Move one cell
  q         Quit (see client.quit_key)

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/gridwalk/config.jsonc)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
