package mqtt311

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"golang.org/x/net/proxy"
)

// ProxyDialer reaches the broker through a SOCKS5 proxy, for networks
// where the broker port is only reachable via a gateway host.
type ProxyDialer struct {
	proxyAddr string
	auth      *proxy.Auth
	forward   net.Dialer
}

// NewProxyDialer creates a dialer from a socks5:// proxy URL. Proxy
// credentials may be embedded in the URL userinfo.
func NewProxyDialer(proxyURL string) (*ProxyDialer, error) {
	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	if u.Scheme != "socks5" && u.Scheme != "socks5h" {
		return nil, fmt.Errorf("unsupported proxy scheme: %s", u.Scheme)
	}

	var auth *proxy.Auth
	if u.User != nil {
		password, _ := u.User.Password()
		auth = &proxy.Auth{
			User:     u.User.Username(),
			Password: password,
		}
	}

	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), "1080")
	}

	return &ProxyDialer{proxyAddr: addr, auth: auth}, nil
}

// Dial connects to the target address through the proxy.
func (d *ProxyDialer) Dial(ctx context.Context, address string) (net.Conn, error) {
	socks, err := proxy.SOCKS5("tcp", d.proxyAddr, d.auth, &d.forward)
	if err != nil {
		return nil, err
	}

	if cd, ok := socks.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, "tcp", address)
	}
	return socks.Dial("tcp", address)
}
