package mqtt311

import (
	"context"
	"net"
	"time"
)

// dnsProbe is a literal type-A DNS query for www.google.com. Any
// resolver that answers it at all proves WAN reachability; the answer
// content is irrelevant.
var dnsProbe = []byte{
	0x24, 0x1a, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x03, 'w', 'w', 'w', 0x06, 'g', 'o', 'o', 'g', 'l', 'e', 0x03, 'c', 'o', 'm',
	0x00, 0x00, 0x01, 0x00, 0x01,
}

// dnsProbeResponseLen is the expected size of the probe response.
const dnsProbeResponseLen = 32

// BrokerUp probes broker liveness. It returns true immediately when a
// packet arrived within the last second; otherwise it sends a PINGREQ
// and waits up to the response time for any inbound traffic.
func (c *Client) BrokerUp(ctx context.Context) bool {
	if !c.IsConnected() {
		return false
	}
	if c.sinceLastRx() < time.Second {
		return true
	}

	sio, _, err := c.currentIO()
	if err != nil {
		return false
	}

	before := c.lastRx.Load()
	if err := c.writePacket(sio, &PingreqPacket{}); err != nil {
		return false
	}

	deadline := time.Now().Add(c.options.responseTime)
	for time.Now().Before(deadline) {
		if c.lastRx.Load() > before {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(pingPollInterval):
		}
	}
	return c.lastRx.Load() > before
}

// WANOk checks internet connectivity independently of the broker by
// sending a DNS query to a known public resolver over UDP. A full-size
// response within the response time means the WAN path works.
func (c *Client) WANOk(ctx context.Context) bool {
	if !c.link.Up() {
		return false
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "udp", c.options.dnsResolver)
	if err != nil {
		return false
	}
	defer conn.Close()

	deadline := time.Now().Add(c.options.responseTime)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return false
	}

	if _, err := conn.Write(dnsProbe); err != nil {
		return false
	}

	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	if err != nil {
		return false
	}
	return n >= dnsProbeResponseLen
}
