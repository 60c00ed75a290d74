package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProtocolListsCommandWords(t *testing.T) {
	require.Equal(t, "UP,DOWN,LEFT,RIGHT", Protocol())
}

func TestStringLayout(t *testing.T) {
	saved := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = saved[0], saved[1], saved[2] })

	Version, Commit, Date = "0.4.0", "9f2c1e", "2026-10-17"

	lines := strings.Split(String(), "\n")
	require.Equal(t, []string{
		"gridwalk 0.4.0",
		"  protocol: udp UP,DOWN,LEFT,RIGHT",
		"  build:    9f2c1e 2026-10-17 " + runtime.Version(),
	}, lines)
}
