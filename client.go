package mqtt311

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ConnState is the supervisor's connectivity state.
type ConnState int32

const (
	// StateDown means no link and no broker session.
	StateDown ConnState = iota

	// StateLinkUp means the link is associated but no MQTT session
	// exists yet.
	StateLinkUp

	// StateConnected means a CONNACK has been received and the session
	// is live.
	StateConnected

	// StateFailing means a timeout or transport failure was detected
	// and teardown is in progress.
	StateFailing
)

// String returns the string representation of the state.
func (s ConnState) String() string {
	switch s {
	case StateDown:
		return "down"
	case StateLinkUp:
		return "link up"
	case StateConnected:
		return "connected"
	case StateFailing:
		return "failing"
	default:
		return "unknown"
	}
}

// Client is a resilient MQTT 3.1.1 client. Create it with NewClient,
// establish the first session with Connect, and the supervisor keeps
// the session alive until Disconnect.
type Client struct {
	options *clientOptions
	logger  Logger
	link    LinkMonitor
	session *sessionState

	// exchange serializes full request/response exchanges; wire
	// serializes individual packet writes so the dispatcher's PUBACKs
	// and the pinger's PINGREQs interleave safely with a publisher
	// that is between retransmissions.
	exchange *exchangeLock
	wire     *exchangeLock

	// mu guards the connection identity: conn, io, epoch, connDone,
	// connCh and state transitions.
	mu       sync.Mutex
	conn     net.Conn
	io       *socketIO
	epoch    uint64
	connDone chan struct{}
	connCh   chan struct{}

	state  atomic.Int32
	closed atomic.Bool
	paused atomic.Bool

	// started reports whether the initial Connect has succeeded.
	started atomic.Bool

	lastRx atomic.Int64
	lastTx atomic.Int64

	repubCount atomic.Uint64

	// Acknowledgement routing from the dispatcher to the single
	// waiter admitted by the exchange lock.
	pubAckCh   chan uint16
	subAckCh   chan *SubackPacket
	unsubAckCh chan *UnsubackPacket

	// Supervisor lifecycle.
	rootCtx    context.Context
	rootCancel context.CancelFunc
	superOnce  sync.Once
	wake       chan struct{}
	limiter    *rate.Limiter
}

// NewClient creates a client. No network activity occurs until
// Connect.
func NewClient(opts ...Option) (*Client, error) {
	options := applyOptions(opts...)
	if err := options.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		options:    options,
		logger:     options.logger.WithFields(LogFields{LogFieldClientID: options.clientID}),
		link:       options.link,
		session:    &sessionState{},
		exchange:   newExchangeLock(),
		wire:       newExchangeLock(),
		connCh:     make(chan struct{}),
		pubAckCh:   make(chan uint16, 1),
		subAckCh:   make(chan *SubackPacket, 1),
		unsubAckCh: make(chan *UnsubackPacket, 1),
		rootCtx:    ctx,
		rootCancel: cancel,
		wake:       make(chan struct{}, 1),
		// One connect probe per backoff step at most; the limiter
		// bounds the attempt rate even if backoff state is reset.
		limiter: rate.NewLimiter(rate.Every(options.reconnectBackoff), 1),
	}
	return c, nil
}

// ClientID returns the client identifier in use.
func (c *Client) ClientID() string {
	return c.options.clientID
}

// State returns the supervisor state.
func (c *Client) State() ConnState {
	return ConnState(c.state.Load())
}

// RepubCount returns the number of QoS 1 retransmissions performed
// since the client was created.
func (c *Client) RepubCount() uint64 {
	return c.repubCount.Load()
}

// IsConnected reports whether a broker session is live. As a side
// effect, observing a lost link while nominally connected schedules a
// reconnect.
func (c *Client) IsConnected() bool {
	if c.State() == StateConnected && !c.link.Up() {
		c.failCurrent(ErrLinkDown)
	}
	return c.State() == StateConnected
}

// Connect performs the initial link-up and MQTT handshake. Unlike
// every later reconnect, a failure here is surfaced to the caller and
// nothing is retried.
func (c *Client) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return ErrNotConnected
	}
	if c.started.Load() {
		return fmt.Errorf("%w: already connected", ErrInvalidArgument)
	}

	if err := c.link.WaitUp(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrLinkDown, err)
	}
	c.state.Store(int32(StateLinkUp))

	if err := c.establish(ctx, c.options.cleanInit); err != nil {
		c.state.Store(int32(StateDown))
		return err
	}

	c.started.Store(true)
	c.superOnce.Do(func() { go c.supervise() })
	return nil
}

// establish dials the broker, performs the CONNECT/CONNACK handshake,
// starts the dispatcher and pinger, restores the subscription registry
// and finally unblocks waiting operations.
func (c *Client) establish(ctx context.Context, clean bool) error {
	addr := c.options.address()
	if strings.Contains(c.options.server, "://") {
		// WebSocket and other URL-addressed dialers take the server
		// string verbatim.
		addr = c.options.server
	}

	dialer := c.options.dialer
	if dialer == nil {
		if c.options.tlsConfig != nil {
			dialer = &TLSDialer{Config: c.options.tlsConfig, Timeout: c.options.responseTime}
		} else {
			dialer = &TCPDialer{Timeout: c.options.responseTime}
		}
	}

	conn, err := dialer.Dial(ctx, addr)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}

	sio := &socketIO{conn: conn, link: c.link}
	if err := c.handshake(sio, clean); err != nil {
		conn.Close()
		return err
	}

	// Session is live: install the connection and start the inbound
	// dispatcher and the pinger for it.
	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.conn = conn
	c.io = sio
	c.connDone = make(chan struct{})
	done := c.connDone
	c.state.Store(int32(StateConnected))
	c.markActivity()
	c.mu.Unlock()

	go c.dispatch(sio, epoch)
	go c.pinger(sio, epoch, done)

	// Re-issue the registry before admitting application traffic, so
	// every subscription is live again ahead of the first publish
	// after a reconnect.
	for _, sub := range c.session.subscriptions() {
		if err := c.subscribeExchange(ctx, sub, false); err != nil {
			c.connectionFailed(epoch, err)
			return err
		}
	}

	// Unblock operations parked in awaitConnected.
	c.mu.Lock()
	if c.epoch == epoch {
		close(c.connCh)
	}
	c.mu.Unlock()

	c.logger.Info("connected to broker", LogFields{"address": addr, "clean": clean})
	c.emit(Event{Kind: EventConnected})
	if h := c.options.linkHandler; h != nil {
		go h(true)
	}
	if h := c.options.connectHandler; h != nil {
		go h(c)
	}
	return nil
}

// handshake writes CONNECT and validates the CONNACK.
func (c *Client) handshake(sio *socketIO, clean bool) error {
	pkt := &ConnectPacket{
		ClientID:     c.options.clientID,
		CleanSession: clean,
		KeepAlive:    c.options.keepAlive,
		Username:     c.options.username,
		Password:     c.options.password,
	}
	if c.options.willTopic != "" {
		pkt.WillFlag = true
		pkt.WillTopic = c.options.willTopic
		pkt.WillPayload = c.options.willPayload
		pkt.WillRetain = c.options.willRetain
		pkt.WillQoS = c.options.willQoS
	}

	var buf bytes.Buffer
	if _, err := WritePacket(&buf, pkt); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	deadline := time.Now().Add(c.options.responseTime)
	if err := sio.writeAll(buf.Bytes(), deadline); err != nil {
		return err
	}

	reply, err := readWirePacket(sio, deadline, c.options.responseTime, c.options.maxPacketSize)
	if err != nil {
		if errors.Is(err, ErrTimeout) || errors.Is(err, ErrDisconnected) || errors.Is(err, ErrLinkDown) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	connack, ok := reply.(*ConnackPacket)
	if !ok {
		return fmt.Errorf("%w: expected CONNACK, got %s", ErrProtocol, reply.Type())
	}
	if connack.ReturnCode != ConnackAccepted {
		return &ConnackError{Code: connack.ReturnCode}
	}
	return nil
}

// supervise runs for the client's lifetime after the first successful
// Connect. It watches for FAILING transitions and re-establishes the
// session with rate-limited, exponentially backed off attempts.
func (c *Client) supervise() {
	backoff := c.options.reconnectBackoff
	attempt := 0

	for {
		select {
		case <-c.rootCtx.Done():
			return
		case <-c.wake:
		case <-time.After(time.Second):
		}

		if c.closed.Load() {
			return
		}
		if c.paused.Load() {
			continue
		}
		if c.State() == StateConnected {
			backoff = c.options.reconnectBackoff
			attempt = 0
			continue
		}

		attempt++
		c.emit(Event{Kind: EventReconnecting, Attempt: attempt, Backoff: backoff})
		c.logger.Info("reconnecting", LogFields{LogFieldAttempt: attempt, "backoff": backoff.String()})

		if err := c.limiter.Wait(c.rootCtx); err != nil {
			return
		}

		c.state.Store(int32(StateDown))
		if err := c.link.WaitUp(c.rootCtx); err != nil {
			continue
		}
		if c.paused.Load() || c.closed.Load() {
			continue
		}
		c.state.Store(int32(StateLinkUp))

		if err := c.establish(c.rootCtx, c.options.clean); err != nil {
			c.logger.Warn("reconnect failed", LogFields{LogFieldError: err.Error(), LogFieldAttempt: attempt})
			c.state.Store(int32(StateDown))

			select {
			case <-c.rootCtx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > c.options.maxBackoff {
				backoff = c.options.maxBackoff
			}
			continue
		}

		backoff = c.options.reconnectBackoff
		attempt = 0
	}
}

// connectionFailed tears down the connection identified by epoch.
// Reports against an epoch that has already been torn down are ignored
// so that dispatcher, pinger and operations cannot double-teardown.
func (c *Client) connectionFailed(epoch uint64, cause error) {
	c.mu.Lock()
	if c.epoch != epoch || c.conn == nil {
		c.mu.Unlock()
		return
	}

	c.state.Store(int32(StateFailing))
	close(c.connDone)
	c.conn.Close()
	c.conn = nil
	c.io = nil
	c.epoch++

	// Arm a fresh barrier for awaitConnected; the old one may already
	// be closed from the session that just died.
	select {
	case <-c.connCh:
		c.connCh = make(chan struct{})
	default:
	}
	c.mu.Unlock()

	c.logger.Warn("connection failed", LogFields{LogFieldError: cause.Error()})
	c.emit(Event{Kind: EventConnectionLost, Err: cause})
	if h := c.options.linkHandler; h != nil {
		go h(false)
	}

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// failCurrent tears down whatever connection is current.
func (c *Client) failCurrent(cause error) {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()
	c.connectionFailed(epoch, cause)
}

// currentIO returns the live connection, failing when the session is
// down.
func (c *Client) currentIO() (*socketIO, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.io == nil || c.State() != StateConnected {
		return nil, 0, ErrDisconnected
	}
	return c.io, c.epoch, nil
}

// awaitConnected blocks until the session is live and the registry has
// been restored, the context ends or the client is terminated. It
// gates on the connect broadcast rather than the raw state, so
// application traffic cannot slip in between CONNACK and subscription
// restoration.
func (c *Client) awaitConnected(ctx context.Context) error {
	if c.closed.Load() {
		return ErrNotConnected
	}

	c.mu.Lock()
	ch := c.connCh
	c.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.rootCtx.Done():
		return ErrNotConnected
	}
}

// markActivity stamps last-rx with the current time.
func (c *Client) markActivity() {
	c.lastRx.Store(time.Now().UnixNano())
}

// sinceLastRx returns the time elapsed since the last packet arrived.
func (c *Client) sinceLastRx() time.Duration {
	return time.Since(time.Unix(0, c.lastRx.Load()))
}

// writePacket encodes and writes a packet under the wire lock, so
// concurrent writers (publisher, pinger, dispatcher PUBACKs) never
// interleave bytes on the stream.
func (c *Client) writePacket(sio *socketIO, pkt Packet) error {
	var buf bytes.Buffer
	if _, err := WritePacket(&buf, pkt); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if err := c.wire.Acquire(context.Background()); err != nil {
		return err
	}
	defer c.wire.Release()

	if err := sio.writeAll(buf.Bytes(), time.Now().Add(c.options.responseTime)); err != nil {
		return err
	}
	c.lastTx.Store(time.Now().UnixNano())
	return nil
}

// emit delivers a lifecycle event without blocking client internals.
func (c *Client) emit(ev Event) {
	if h := c.options.eventHandler; h != nil {
		go h(ev)
	}
}

// Publish publishes a message. With qos 1 it returns only after the
// broker acknowledged the message, reconnecting and retransmitting as
// often as that takes; with qos 0 it returns once the bytes are on the
// wire. Duplicates at the broker are possible if a PUBACK is lost
// after the broker persisted the message - inherent to QoS 1.
//
// Cancelling the context is honoured between protocol steps; the
// client clears the pending state itself, so a cancelled Publish does
// not strand the packet identifier.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte, retain bool, qos byte) error {
	if err := c.checkOperation(topic, qos); err != nil {
		return err
	}

	msg := &Message{Topic: topic, Payload: payload, QoS: qos, Retain: retain}
	for {
		if err := c.awaitConnected(ctx); err != nil {
			return err
		}

		c.mu.Lock()
		epoch := c.epoch
		c.mu.Unlock()

		err := c.publishOnce(ctx, msg)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrNotConnected) {
			return err
		}

		// Transient: tear down the connection this attempt ran on (a
		// session re-established in the meantime is left alone) and go
		// again with a fresh packet identifier once the supervisor has
		// us back.
		c.connectionFailed(epoch, err)
	}
}

// publishOnce runs one delivery attempt cycle on the current
// connection: transmit, await PUBACK, retransmit with DUP up to the
// republish budget.
func (c *Client) publishOnce(ctx context.Context, msg *Message) error {
	if err := c.exchange.Acquire(ctx); err != nil {
		return err
	}
	defer c.exchange.Release()

	sio, _, err := c.currentIO()
	if err != nil {
		return err
	}

	if msg.QoS == QoS0 {
		pkt := &PublishPacket{}
		pkt.FromMessage(msg)
		return c.writePacket(sio, pkt)
	}

	pid := c.session.nextPID()
	c.session.setPending(pid, msg)

	pkt := &PublishPacket{ID: pid}
	pkt.FromMessage(msg)

	c.drainPubAcks()
	for attempt := 0; ; attempt++ {
		if err := c.writePacket(sio, pkt); err != nil {
			return err
		}

		timer := time.NewTimer(c.options.responseTime)
	wait:
		for {
			select {
			case id := <-c.pubAckCh:
				if id == pid {
					timer.Stop()
					return nil
				}
				// Acknowledgement for an abandoned identifier;
				// out-of-order acks are tolerated.
			case <-timer.C:
				break wait
			case <-ctx.Done():
				timer.Stop()
				c.session.clearPending()
				return ctx.Err()
			}
		}

		if attempt >= c.options.maxRepubs {
			return fmt.Errorf("%w: no PUBACK for packet %d after %d attempts",
				ErrTimeout, pid, attempt+1)
		}

		pkt.DUP = true
		c.repubCount.Add(1)
		c.logger.Debug("republishing", LogFields{LogFieldPacketID: pid, LogFieldTopic: msg.Topic})
		c.emit(Event{Kind: EventRepublish})
	}
}

// drainPubAcks discards stale acknowledgements from a previous
// exchange.
func (c *Client) drainPubAcks() {
	select {
	case <-c.pubAckCh:
	default:
	}
}

// Subscribe subscribes to a topic filter. It returns once the broker
// confirmed the subscription with a SUBACK; transient failures are
// absorbed by reconnecting and retrying.
func (c *Client) Subscribe(ctx context.Context, filter string, qos byte) error {
	if err := c.checkFilter(filter, qos); err != nil {
		return err
	}

	sub := Subscription{TopicFilter: filter, QoS: qos}
	for {
		if err := c.awaitConnected(ctx); err != nil {
			return err
		}

		c.mu.Lock()
		epoch := c.epoch
		c.mu.Unlock()

		err := c.subscribeExchange(ctx, sub, true)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrNotConnected) {
			return err
		}
		c.connectionFailed(epoch, err)
	}
}

// subscribeExchange performs one SUBSCRIBE/SUBACK exchange. With
// record set, the granted subscription is stored in the registry;
// registry restoration passes false since the entry is already there.
func (c *Client) subscribeExchange(ctx context.Context, sub Subscription, record bool) error {
	if err := c.exchange.Acquire(ctx); err != nil {
		return err
	}
	defer c.exchange.Release()

	sio, _, err := c.currentIO()
	if err != nil {
		return err
	}

	pid := c.session.nextPID()
	pkt := &SubscribePacket{
		ID:            pid,
		Subscriptions: []Subscription{sub},
	}

	select {
	case <-c.subAckCh:
	default:
	}

	if err := c.writePacket(sio, pkt); err != nil {
		return err
	}

	select {
	case ack := <-c.subAckCh:
		if ack.ID != pid || len(ack.ReturnCodes) != 1 {
			return fmt.Errorf("%w: SUBACK for unexpected packet %d", ErrProtocol, ack.ID)
		}
		if ack.ReturnCodes[0] == SubackFailure {
			return fmt.Errorf("%w: broker rejected subscription to %q", ErrProtocol, sub.TopicFilter)
		}
		if record {
			granted := sub
			granted.QoS = ack.ReturnCodes[0]
			c.session.addSubscription(granted)
		}
		return nil
	case <-time.After(c.options.responseTime):
		return fmt.Errorf("%w: no SUBACK for packet %d", ErrTimeout, pid)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unsubscribe removes a subscription. It returns once the broker
// confirmed with an UNSUBACK.
func (c *Client) Unsubscribe(ctx context.Context, filter string) error {
	if err := c.checkFilter(filter, QoS0); err != nil {
		return err
	}

	for {
		if err := c.awaitConnected(ctx); err != nil {
			return err
		}

		c.mu.Lock()
		epoch := c.epoch
		c.mu.Unlock()

		err := c.unsubscribeExchange(ctx, filter)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrNotConnected) {
			return err
		}
		c.connectionFailed(epoch, err)
	}
}

// unsubscribeExchange performs one UNSUBSCRIBE/UNSUBACK exchange.
func (c *Client) unsubscribeExchange(ctx context.Context, filter string) error {
	if err := c.exchange.Acquire(ctx); err != nil {
		return err
	}
	defer c.exchange.Release()

	sio, _, err := c.currentIO()
	if err != nil {
		return err
	}

	pid := c.session.nextPID()
	pkt := &UnsubscribePacket{ID: pid, TopicFilters: []string{filter}}

	select {
	case <-c.unsubAckCh:
	default:
	}

	if err := c.writePacket(sio, pkt); err != nil {
		return err
	}

	select {
	case ack := <-c.unsubAckCh:
		if ack.ID != pid {
			return fmt.Errorf("%w: UNSUBACK for unexpected packet %d", ErrProtocol, ack.ID)
		}
		c.session.removeSubscription(filter)
		return nil
	case <-time.After(c.options.responseTime):
		return fmt.Errorf("%w: no UNSUBACK for packet %d", ErrTimeout, pid)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// checkOperation validates publish arguments and client liveness.
func (c *Client) checkOperation(topic string, qos byte) error {
	if c.closed.Load() || !c.started.Load() {
		return ErrNotConnected
	}
	if qos > QoS1 {
		return fmt.Errorf("%w: only QoS 0 and 1 are supported", ErrInvalidArgument)
	}
	if topic == "" {
		return fmt.Errorf("%w: empty topic", ErrInvalidArgument)
	}
	if strings.ContainsAny(topic, "#+") {
		return fmt.Errorf("%w: publish topic must not contain wildcards", ErrInvalidArgument)
	}
	return nil
}

// checkFilter validates subscribe/unsubscribe arguments and client
// liveness.
func (c *Client) checkFilter(filter string, qos byte) error {
	if c.closed.Load() || !c.started.Load() {
		return ErrNotConnected
	}
	if qos > QoS1 {
		return fmt.Errorf("%w: only QoS 0 and 1 are supported", ErrInvalidArgument)
	}
	if filter == "" {
		return fmt.Errorf("%w: empty topic filter", ErrInvalidArgument)
	}
	return nil
}

// Disconnect sends DISCONNECT so the broker suppresses the will,
// closes the socket and terminates the client. Terminal: there is no
// reconnection afterwards and every further call fails with
// ErrNotConnected.
func (c *Client) Disconnect() {
	c.shutdown(true)
}

// Close closes the socket without sending DISCONNECT, so the broker
// eventually fires the will. Terminal, like Disconnect.
func (c *Client) Close() {
	c.shutdown(false)
}

func (c *Client) shutdown(sendDisconnect bool) {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}

	c.mu.Lock()
	conn := c.conn
	sio := c.io
	if c.conn != nil {
		close(c.connDone)
		c.epoch++
	}
	c.conn = nil
	c.io = nil
	c.mu.Unlock()

	if sendDisconnect && sio != nil {
		// Best effort; the socket may already be gone.
		var buf bytes.Buffer
		if _, err := WritePacket(&buf, &DisconnectPacket{}); err == nil {
			sio.writeAll(buf.Bytes(), time.Now().Add(time.Second))
		}
	}
	if conn != nil {
		conn.Close()
	}

	c.state.Store(int32(StateDown))
	c.rootCancel()
	c.emit(Event{Kind: EventDisconnected})
	c.logger.Info("client terminated", nil)
}

// Pause cleanly detaches from the broker and releases the link for
// low-power operation. Pending QoS 1 state is preserved; a blocked
// Publish resumes after Resume re-establishes the session.
func (c *Client) Pause(ctx context.Context) error {
	if c.closed.Load() {
		return ErrNotConnected
	}
	if !c.paused.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	conn := c.conn
	sio := c.io
	if c.conn != nil {
		close(c.connDone)
		c.epoch++
		c.conn = nil
		c.io = nil
		select {
		case <-c.connCh:
			c.connCh = make(chan struct{})
		default:
		}
	}
	c.state.Store(int32(StateDown))
	c.mu.Unlock()

	if sio != nil {
		var buf bytes.Buffer
		if _, err := WritePacket(&buf, &DisconnectPacket{}); err == nil {
			sio.writeAll(buf.Bytes(), time.Now().Add(time.Second))
		}
	}
	if conn != nil {
		conn.Close()
	}

	c.logger.Info("client paused", nil)
	return c.link.Drop(ctx)
}

// Resume reattaches after a Pause; the supervisor reconnects with the
// usual backoff.
func (c *Client) Resume() {
	if c.closed.Load() {
		return
	}
	if !c.paused.CompareAndSwap(true, false) {
		return
	}

	c.logger.Info("client resumed", nil)
	select {
	case c.wake <- struct{}{}:
	default:
	}
}
