package doctor

import (
	"context"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbright/gridwalk/internal/config"
	"github.com/rbright/gridwalk/internal/protocol"
	"github.com/rbright/gridwalk/internal/server"
	"github.com/rbright/gridwalk/internal/transport"
)

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, "[OK] one: good")
	require.Contains(t, text, "[FAIL] two: bad")
}

func TestReportOKAllPassing(t *testing.T) {
	report := Report{Checks: []Check{{Name: "one", Pass: true}, {Name: "two", Pass: true}}}
	require.True(t, report.OK())
}

func TestCheckEnv(t *testing.T) {
	t.Setenv("TEST_DOCTOR_ENV", "xterm-256color")

	check := checkEnv("TEST_DOCTOR_ENV", func(v string) bool { return v != "" }, "looks good", "unexpected")
	require.True(t, check.Pass)
	require.Equal(t, "looks good", check.Message)

	t.Setenv("TEST_DOCTOR_ENV", "")
	check = checkEnv("TEST_DOCTOR_ENV", func(v string) bool { return v != "" }, "looks good", "unexpected")
	require.False(t, check.Pass)
	require.Equal(t, "unexpected", check.Message)
}

func TestCheckConfigReportsMissingFile(t *testing.T) {
	check := checkConfig(config.Loaded{Path: "/tmp/none.jsonc"})
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "not found; using defaults")

	check = checkConfig(config.Loaded{Path: "/tmp/some.jsonc", Exists: true})
	require.Contains(t, check.Message, `loaded "/tmp/some.jsonc"`)
}

func TestCheckTerminal(t *testing.T) {
	require.True(t, checkTerminal(func(uintptr) bool { return true }).Pass)

	check := checkTerminal(func(uintptr) bool { return false })
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "not a terminal")
}

func TestRunProbesLiveServerWithoutMoving(t *testing.T) {
	t.Setenv("TERM", "xterm")

	conn, err := transport.Listen(context.Background(), netip.MustParseAddrPort("127.0.0.1:0"))
	require.NoError(t, err)
	srv := server.New(conn, nil, server.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx)
	}()

	port := conn.LocalAddr().(*net.UDPAddr).AddrPort().Port()
	report := Run(context.Background(), config.Loaded{Path: "/tmp/config.jsonc"}, "127.0.0.1", port, Options{
		IsTerminal: func(uintptr) bool { return true },
	})
	require.True(t, report.OK(), report.String())
	require.Contains(t, report.String(), "position is (0, 0)")

	cancel()
	require.NoError(t, <-done)
	require.Equal(t, protocol.Position{}, srv.Position())
}

func TestRunProbeTimesOutOnSilentPeer(t *testing.T) {
	silent, err := transport.Listen(context.Background(), netip.MustParseAddrPort("127.0.0.1:0"))
	require.NoError(t, err)
	defer silent.Close()

	ep := silent.LocalAddr().(*net.UDPAddr).AddrPort()
	check := probeServer(context.Background(), ep, 100*time.Millisecond)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "no reply")
}

func TestRunProbeRejectsForeignReply(t *testing.T) {
	peer, err := transport.Listen(context.Background(), netip.MustParseAddrPort("127.0.0.1:0"))
	require.NoError(t, err)
	defer peer.Close()

	go func() {
		buf := make([]byte, 64)
		_, from, err := peer.ReadFrom(buf)
		if err != nil {
			return
		}
		_, _ = peer.WriteTo([]byte("hello"), from)
	}()

	ep := peer.LocalAddr().(*net.UDPAddr).AddrPort()
	check := probeServer(context.Background(), ep, 2*time.Second)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, `unexpected reply "hello"`)
}

func TestRunStopsAtInvalidEndpoint(t *testing.T) {
	report := Run(context.Background(), config.Loaded{}, "nowhere", 5000, Options{
		IsTerminal: func(uintptr) bool { return true },
	})
	require.False(t, report.OK())

	last := report.Checks[len(report.Checks)-1]
	require.Equal(t, "endpoint", last.Name)
	require.Contains(t, last.Message, "nowhere is not an IPv4 or an IPv6 address")
}
