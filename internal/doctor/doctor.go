// Package doctor runs readiness diagnostics for config, terminal, and the server endpoint.
package doctor

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	termutil "github.com/andrew-d/go-termutil"

	"github.com/rbright/gridwalk/internal/config"
	"github.com/rbright/gridwalk/internal/protocol"
	"github.com/rbright/gridwalk/internal/transport"
)

// DefaultProbeTimeout bounds the wait for the server's reply.
const DefaultProbeTimeout = 2 * time.Second

// probeWord is not a command, so the server answers without moving.
const probeWord = "PING"

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Options tunes Run. Zero values select defaults.
type Options struct {
	ProbeTimeout time.Duration
	IsTerminal   func(uintptr) bool
}

// Run checks the loaded config, the client's terminal, and whether a server
// answers at address:port.
func Run(ctx context.Context, cfg config.Loaded, address string, port uint16, opts Options) Report {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.IsTerminal == nil {
		opts.IsTerminal = termutil.Isatty
	}

	checks := []Check{checkConfig(cfg)}

	checks = append(checks, checkTerminal(opts.IsTerminal))
	checks = append(checks, checkEnv("TERM", func(v string) bool {
		v = strings.TrimSpace(v)
		return v != "" && v != "dumb"
	}, "terminal type is set", "TERM is empty or dumb; the client cannot draw"))

	endpoint, err := transport.ResolveEndpoint(address, port)
	if err != nil {
		checks = append(checks, Check{Name: "endpoint", Pass: false, Message: err.Error()})
		return Report{Checks: checks}
	}
	checks = append(checks, Check{Name: "endpoint", Pass: true, Message: endpoint.String()})
	checks = append(checks, probeServer(ctx, endpoint, opts.ProbeTimeout))

	return Report{Checks: checks}
}

func checkConfig(cfg config.Loaded) Check {
	if !cfg.Exists {
		return Check{Name: "config", Pass: true, Message: fmt.Sprintf("%q not found; using defaults", cfg.Path)}
	}
	return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", cfg.Path)}
}

func checkTerminal(isTerminal func(uintptr) bool) Check {
	if isTerminal(os.Stdin.Fd()) {
		return Check{Name: "terminal", Pass: true, Message: "stdin is a terminal"}
	}
	return Check{Name: "terminal", Pass: false, Message: "stdin is not a terminal; client mode needs one"}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// probeServer sends a non-command word and expects a position reply.
func probeServer(ctx context.Context, endpoint netip.AddrPort, timeout time.Duration) Check {
	const name = "server"

	conn, err := transport.Open(ctx, endpoint)
	if err != nil {
		return Check{Name: name, Pass: false, Message: err.Error()}
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Check{Name: name, Pass: false, Message: err.Error()}
	}
	if _, err := conn.WriteTo([]byte(probeWord), transport.UDPAddr(endpoint)); err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("send probe: %v", err)}
	}

	buf := make([]byte, 64)
	n, _, err := conn.ReadFrom(buf)
	switch {
	case transport.IsTimeout(err):
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("no reply from %s within %s", endpoint, timeout)}
	case err != nil:
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("receive reply: %v", err)}
	}

	pos, err := protocol.DecodeReply(buf[:n])
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("unexpected reply %q", buf[:n])}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("%s answered; position is %s", endpoint, pos)}
}
