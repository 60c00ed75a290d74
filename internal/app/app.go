package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"os"

	termutil "github.com/andrew-d/go-termutil"
	"github.com/google/uuid"

	"github.com/rbright/gridwalk/internal/cli"
	"github.com/rbright/gridwalk/internal/client"
	"github.com/rbright/gridwalk/internal/config"
	"github.com/rbright/gridwalk/internal/doctor"
	"github.com/rbright/gridwalk/internal/logging"
	"github.com/rbright/gridwalk/internal/server"
	"github.com/rbright/gridwalk/internal/terminal"
	"github.com/rbright/gridwalk/internal/tracker"
	"github.com/rbright/gridwalk/internal/transport"
	"github.com/rbright/gridwalk/internal/version"
)

const binaryName = "gridwalk"

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// OpenScreen replaces the real terminal. When set, the stdin tty check is
	// skipped.
	OpenScreen func(terminal.Options) (*terminal.Screen, error)
	// OnListen is called with the bound server address before serving.
	OnListen func(netip.AddrPort)

	isTerminal func(uintptr) bool
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText(binaryName))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText(binaryName))
		return 0
	}

	if parsed.Mode == cli.ModeVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	cfg := cfgLoaded.Config

	logRuntime, err := logging.New(string(parsed.Mode), cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}
	logger = logger.With("mode", string(parsed.Mode), "instance", uuid.NewString())

	for _, w := range cfgLoaded.Warnings {
		if cfgLoaded.Exists {
			fmt.Fprintf(r.Stderr, "warning: %s\n", w.Message)
		}
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	if parsed.Mode == cli.ModeDoctor {
		report := doctor.Run(ctx, cfgLoaded, parsed.Address, parsed.Port, doctor.Options{IsTerminal: r.isTerminal})
		fmt.Fprintln(r.Stdout, report.String())
		logger.Info("doctor finished", "ok", report.OK())
		if !report.OK() {
			return 1
		}
		return 0
	}

	endpoint, err := transport.ResolveEndpoint(parsed.Address, parsed.Port)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("resolve endpoint failed", "error", err.Error())
		return 1
	}

	logger.Info("command start",
		"endpoint", endpoint.String(),
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
		"version", version.Version,
	)

	switch parsed.Mode {
	case cli.ModeServer:
		return r.runServer(ctx, endpoint, cfg, logger)
	case cli.ModeClient:
		return r.runClient(ctx, endpoint, cfg, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported mode %q\n", parsed.Mode)
		return 2
	}
}

func (r Runner) runServer(ctx context.Context, endpoint netip.AddrPort, cfg config.Config, logger *slog.Logger) int {
	fmt.Fprintf(r.Stdout, "Binding to: %s\n", bindLine(endpoint))

	conn, err := transport.Listen(ctx, endpoint)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("bind failed", "error", err.Error())
		return 1
	}

	bound := conn.LocalAddr().(*net.UDPAddr).AddrPort()
	fmt.Fprintf(r.Stdout, "Bound to socket: %s\n", bindLine(bound))
	logger.Info("server listening", "address", bound.String())
	if r.OnListen != nil {
		r.OnListen(bound)
	}

	srv := server.New(conn, tracker.New(), server.Options{
		Logger:     logger,
		Output:     r.Stdout,
		ReadBuffer: cfg.Server.ReadBuffer,
	})
	if err := srv.Serve(ctx); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("server stopped", "error", err.Error())
		return 1
	}

	pos := srv.Position()
	logger.Info("server stopped", "x", pos.X, "y", pos.Y)
	return 0
}

func (r Runner) runClient(ctx context.Context, endpoint netip.AddrPort, cfg config.Config, logger *slog.Logger) int {
	openScreen := r.OpenScreen
	if openScreen == nil {
		isTerminal := r.isTerminal
		if isTerminal == nil {
			isTerminal = termutil.Isatty
		}
		if !isTerminal(os.Stdin.Fd()) {
			fmt.Fprintln(r.Stderr, "error: client must be run in a terminal")
			return 1
		}
		openScreen = terminal.Open
	}

	conn, err := transport.Open(ctx, endpoint)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("open socket failed", "error", err.Error())
		return 1
	}
	defer conn.Close()

	// The reply wait has no timeout; closing the socket is the only way to
	// interrupt it.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	screen, err := openScreen(terminal.Options{Marker: cfg.Client.Marker, QuitKey: cfg.Client.QuitKey})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("open terminal failed", "error", err.Error())
		return 1
	}

	c := client.New(conn, transport.UDPAddr(endpoint), screen, screen, client.Options{
		Logger:     logger,
		ReadBuffer: cfg.Client.ReadBuffer,
	})
	runErr := c.Run(ctx)
	screen.Close()

	if runErr != nil && ctx.Err() == nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", runErr)
		logger.Error("client stopped", "state", c.State(), "error", runErr.Error())
		return 1
	}
	if runErr != nil {
		logger.Info("client interrupted", "error", runErr.Error())
	}

	logger.Info("client stopped", "state", c.State())
	return 0
}

// bindLine prints addr:port without IPv6 brackets, e.g. "::1:5000".
func bindLine(ep netip.AddrPort) string {
	return fmt.Sprintf("%s:%d", ep.Addr(), ep.Port())
}
