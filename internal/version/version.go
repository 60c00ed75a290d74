// Package version reports build metadata and the wire vocabulary this build speaks.
package version

import (
	"runtime"
	"strings"

	"github.com/rbright/gridwalk/internal/protocol"
)

// Set with -ldflags "-X github.com/rbright/gridwalk/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Protocol lists the command words, in wire order, separated by commas.
func Protocol() string {
	words := make([]string, 0, len(protocol.Commands()))
	for _, cmd := range protocol.Commands() {
		words = append(words, cmd.String())
	}
	return strings.Join(words, ",")
}

func String() string {
	var b strings.Builder
	b.WriteString("gridwalk ")
	b.WriteString(Version)
	b.WriteString("\n  protocol: udp ")
	b.WriteString(Protocol())
	b.WriteString("\n  build:    ")
	b.WriteString(Commit + " " + Date + " " + runtime.Version())
	return b.String()
}
