package mqtt311

import (
	"context"
	"crypto/tls"
	"net"
	"time"
)

// Dialer establishes the broker connection. Exactly one connection is
// open per client at any time; the supervisor owns it.
type Dialer interface {
	// Dial connects to the address with the given context.
	Dial(ctx context.Context, address string) (net.Conn, error)
}

// TCPDialer connects to brokers over plain TCP.
type TCPDialer struct {
	// Timeout is the maximum time to wait for a connection.
	// Zero means no timeout beyond the context's.
	Timeout time.Duration
}

// Dial connects to the address.
func (d *TCPDialer) Dial(ctx context.Context, address string) (net.Conn, error) {
	var dialer net.Dialer
	if d.Timeout > 0 {
		dialer.Timeout = d.Timeout
	}
	return dialer.DialContext(ctx, "tcp", address)
}

// TLSDialer connects to brokers over TLS.
type TLSDialer struct {
	// Config is the TLS configuration. Nil uses defaults with the
	// server name derived from the address.
	Config *tls.Config

	// Timeout is the maximum time to wait for a connection.
	Timeout time.Duration
}

// Dial connects to the address and performs the TLS handshake.
func (d *TLSDialer) Dial(ctx context.Context, address string) (net.Conn, error) {
	netDialer := &net.Dialer{}
	if d.Timeout > 0 {
		netDialer.Timeout = d.Timeout
	}
	dialer := &tls.Dialer{
		NetDialer: netDialer,
		Config:    d.Config,
	}
	return dialer.DialContext(ctx, "tcp", address)
}
