package mqtt311

import "time"

// pingCheckInterval is how often the pinger re-evaluates inactivity.
const pingCheckInterval = time.Second

// pingPollInterval is how often the pinger checks for a PINGRESP while
// one is outstanding.
const pingPollInterval = 100 * time.Millisecond

// pinger keeps the broker-side keepalive timer from expiring, one
// instance per connection. It emits a PINGREQ whenever no packet has
// arrived for a ping interval, then expects traffic within the
// response time; silence means the connection is dead even if writes
// still succeed.
//
// With keepalive 0 the broker applies no liveness timeout and the
// pinger never starts.
func (c *Client) pinger(sio *socketIO, epoch uint64, done <-chan struct{}) {
	interval := c.options.effectivePingInterval()
	if interval == 0 {
		return
	}

	ticker := time.NewTicker(pingCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.rootCtx.Done():
			return
		case <-ticker.C:
		}

		if c.sinceLastRx() < interval {
			continue
		}

		before := c.lastRx.Load()
		if err := c.writePacket(sio, &PingreqPacket{}); err != nil {
			c.connectionFailed(epoch, err)
			return
		}

		if !c.awaitActivity(done, before, c.options.responseTime) {
			c.connectionFailed(epoch, ErrTimeout)
			return
		}
	}
}

// awaitActivity polls until last-rx advances past the given stamp,
// returning false on timeout or teardown.
func (c *Client) awaitActivity(done <-chan struct{}, since int64, window time.Duration) bool {
	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		if c.lastRx.Load() > since {
			return true
		}
		select {
		case <-done:
			return false
		case <-c.rootCtx.Done():
			return false
		case <-time.After(pingPollInterval):
		}
	}
	return c.lastRx.Load() > since
}
