// Package transport resolves endpoints and opens the UDP sockets both
// processes talk over.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
)

var ErrInvalidAddress = errors.New("not an IPv4 or an IPv6 address")

// ResolveEndpoint parses a numeric IPv4 or IPv6 literal. Host names are
// rejected; the endpoint is fixed for the life of the process.
func ResolveEndpoint(address string, port uint16) (netip.AddrPort, error) {
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("%s is %w", address, ErrInvalidAddress)
	}
	return netip.AddrPortFrom(addr, port), nil
}

// Listen binds the server socket on ep.
func Listen(ctx context.Context, ep netip.AddrPort) (*net.UDPConn, error) {
	var lc net.ListenConfig
	pc, err := lc.ListenPacket(ctx, network(ep.Addr()), ep.String())
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", ep, err)
	}
	return pc.(*net.UDPConn), nil
}

// Open creates an unbound client socket in the same address family as the
// server endpoint. Replies are read from the same socket.
func Open(ctx context.Context, server netip.AddrPort) (*net.UDPConn, error) {
	local := netip.IPv4Unspecified()
	if !server.Addr().Is4() {
		local = netip.IPv6Unspecified()
	}

	var lc net.ListenConfig
	pc, err := lc.ListenPacket(ctx, network(server.Addr()), netip.AddrPortFrom(local, 0).String())
	if err != nil {
		return nil, fmt.Errorf("create socket: %w", err)
	}
	return pc.(*net.UDPConn), nil
}

// UDPAddr adapts ep for net.PacketConn.WriteTo.
func UDPAddr(ep netip.AddrPort) net.Addr {
	return net.UDPAddrFromAddrPort(ep)
}

// IsClosed reports reads or writes on a socket that has been closed.
func IsClosed(err error) bool {
	return errors.Is(err, net.ErrClosed)
}

// IsTimeout reports deadline expiries, which callers treat as "nothing
// received yet" rather than a failure.
func IsTimeout(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded)
}

func network(addr netip.Addr) string {
	if addr.Is4() {
		return "udp4"
	}
	return "udp6"
}
