package mqtt311

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Default configuration values.
const (
	DefaultKeepAlive    uint16 = 60
	DefaultResponseTime        = 10 * time.Second
	DefaultMaxRepubs           = 4

	defaultReconnectBackoff = 1 * time.Second
	defaultMaxBackoff       = 60 * time.Second
	defaultMaxPacketSize    = 268435455
	defaultDNSResolver      = "8.8.8.8:53"
)

// MessageHandler is invoked for every PUBLISH delivered on a
// subscription, with the retained flag taken from the packet's fixed
// header. It runs inline on the dispatcher and must return promptly.
type MessageHandler func(topic string, payload []byte, retained bool)

// LinkHandler is invoked on every link-state transition.
type LinkHandler func(up bool)

// ConnectHandler is invoked after every successful CONNACK with the
// client handle. Use it to re-establish dynamic subscriptions that are
// not held in the client's registry.
type ConnectHandler func(c *Client)

// clientOptions holds configuration for a Client.
type clientOptions struct {
	// Broker endpoint
	server string
	port   int

	// Identity and credentials
	clientID string
	username string
	password []byte

	// Session
	keepAlive    uint16
	pingInterval time.Duration
	responseTime time.Duration
	cleanInit    bool
	clean        bool
	maxRepubs    int

	// Will message
	willTopic   string
	willPayload []byte
	willRetain  bool
	willQoS     byte

	// Transport
	tlsConfig     *tls.Config
	dialer        Dialer
	link          LinkMonitor
	maxPacketSize uint32

	// Reconnect pacing
	reconnectBackoff time.Duration
	maxBackoff       time.Duration

	// Callbacks
	messageHandler MessageHandler
	linkHandler    LinkHandler
	connectHandler ConnectHandler
	eventHandler   EventHandler

	// Observability
	logger Logger

	// Connectivity probe
	dnsResolver string
}

// defaultOptions returns options with the documented defaults.
func defaultOptions() *clientOptions {
	return &clientOptions{
		keepAlive:        DefaultKeepAlive,
		responseTime:     DefaultResponseTime,
		cleanInit:        true,
		clean:            true,
		maxRepubs:        DefaultMaxRepubs,
		maxPacketSize:    defaultMaxPacketSize,
		reconnectBackoff: defaultReconnectBackoff,
		maxBackoff:       defaultMaxBackoff,
		dnsResolver:      defaultDNSResolver,
		logger:           NewNoOpLogger(),
		link:             AlwaysUp{},
	}
}

// validate checks option consistency before any socket is touched.
func (o *clientOptions) validate() error {
	if o.server == "" {
		return fmt.Errorf("%w: no server specified", ErrInvalidArgument)
	}
	if len(o.password) > 0 && o.username == "" {
		return fmt.Errorf("%w: password requires username", ErrInvalidArgument)
	}
	if o.willTopic == "" && (len(o.willPayload) > 0 || o.willRetain || o.willQoS != 0) {
		return fmt.Errorf("%w: will requires a topic", ErrInvalidArgument)
	}
	if o.willQoS > QoS1 {
		return fmt.Errorf("%w: will QoS must be 0 or 1", ErrInvalidArgument)
	}
	if o.maxRepubs < 0 {
		return fmt.Errorf("%w: negative max republish count", ErrInvalidArgument)
	}
	if o.responseTime <= 0 {
		return fmt.Errorf("%w: response time must be positive", ErrInvalidArgument)
	}
	// Keepalive 0 is authoritative: the broker expects no pings, so a
	// ping interval on top of it is a contradiction, not an override.
	if o.keepAlive == 0 && o.pingInterval > 0 {
		return fmt.Errorf("%w: ping interval requires a non-zero keepalive", ErrInvalidArgument)
	}
	return nil
}

// address returns the broker host:port, applying the scheme default
// when no port was configured.
func (o *clientOptions) address() string {
	port := o.port
	if port == 0 {
		if o.tlsConfig != nil {
			port = 8883
		} else {
			port = 1883
		}
	}
	return net.JoinHostPort(o.server, strconv.Itoa(port))
}

// effectivePingInterval derives the pinger period: a quarter of the
// keepalive window, so a single lost ping cannot run the broker-side
// timer out, lowered further when a shorter explicit interval was set.
// Zero means pinging is disabled.
func (o *clientOptions) effectivePingInterval() time.Duration {
	if o.keepAlive == 0 {
		return 0
	}
	interval := time.Duration(o.keepAlive) * time.Second / 4
	if o.pingInterval > 0 && o.pingInterval < interval {
		interval = o.pingInterval
	}
	return interval
}

// Option configures a Client.
type Option func(*clientOptions)

// applyOptions builds the configuration from defaults plus options.
func applyOptions(opts ...Option) *clientOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.clientID == "" {
		options.clientID = "mqtt311-" + uuid.NewString()
	}
	return options
}

// WithServer sets the broker host. Mandatory.
func WithServer(host string) Option {
	return func(o *clientOptions) {
		o.server = host
	}
}

// WithPort sets the broker port. Zero selects 1883, or 8883 under TLS.
func WithPort(port int) Option {
	return func(o *clientOptions) {
		o.port = port
	}
}

// WithClientID sets the client identifier. When absent an identifier is
// generated from a random UUID.
func WithClientID(id string) Option {
	return func(o *clientOptions) {
		o.clientID = id
	}
}

// WithCredentials sets the username and password for authentication.
func WithCredentials(username, password string) Option {
	return func(o *clientOptions) {
		o.username = username
		o.password = []byte(password)
	}
}

// WithKeepAlive sets the keep-alive interval in seconds. Zero disables
// keepalive and suppresses PINGREQ emission entirely.
func WithKeepAlive(seconds uint16) Option {
	return func(o *clientOptions) {
		o.keepAlive = seconds
	}
}

// WithPingInterval lowers the ping period below the keepalive/4
// default, e.g. for subscribe-only applications that want to detect
// outages quickly. Requires a non-zero keepalive.
func WithPingInterval(d time.Duration) Option {
	return func(o *clientOptions) {
		o.pingInterval = d
	}
}

// WithTLS enables TLS with the supplied configuration.
func WithTLS(config *tls.Config) Option {
	return func(o *clientOptions) {
		o.tlsConfig = config
	}
}

// WithResponseTime sets the acknowledgement wait used for PUBACK,
// SUBACK, UNSUBACK, PINGRESP and the CONNECT handshake.
func WithResponseTime(d time.Duration) Option {
	return func(o *clientOptions) {
		o.responseTime = d
	}
}

// WithCleanInit sets the clean-session flag for the first CONNECT.
func WithCleanInit(clean bool) Option {
	return func(o *clientOptions) {
		o.cleanInit = clean
	}
}

// WithCleanReconnect sets the clean-session flag for reconnect
// CONNECTs, which may differ from the initial flag.
func WithCleanReconnect(clean bool) Option {
	return func(o *clientOptions) {
		o.clean = clean
	}
}

// WithMaxRepubs sets how many times a QoS 1 publish is retransmitted
// with the DUP flag before the connection is declared dead. Zero means
// a single missed PUBACK escalates straight to a reconnect.
func WithMaxRepubs(n int) Option {
	return func(o *clientOptions) {
		o.maxRepubs = n
	}
}

// WithWill registers a will publication the broker emits if it loses
// the client without an explicit disconnect.
func WithWill(topic string, payload []byte, retain bool, qos byte) Option {
	return func(o *clientOptions) {
		o.willTopic = topic
		o.willPayload = payload
		o.willRetain = retain
		o.willQoS = qos
	}
}

// WithMessageHandler sets the subscription callback.
func WithMessageHandler(handler MessageHandler) Option {
	return func(o *clientOptions) {
		o.messageHandler = handler
	}
}

// WithLinkHandler sets the link-state callback.
func WithLinkHandler(handler LinkHandler) Option {
	return func(o *clientOptions) {
		o.linkHandler = handler
	}
}

// WithConnectHandler sets the post-CONNACK callback.
func WithConnectHandler(handler ConnectHandler) Option {
	return func(o *clientOptions) {
		o.connectHandler = handler
	}
}

// WithEventHandler sets the lifecycle event callback.
func WithEventHandler(handler EventHandler) Option {
	return func(o *clientOptions) {
		o.eventHandler = handler
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDialer overrides the transport used to reach the broker, e.g. a
// WebSocket or SOCKS5 proxy dialer.
func WithDialer(d Dialer) Option {
	return func(o *clientOptions) {
		o.dialer = d
	}
}

// WithLinkMonitor sets the network link monitor. The default treats
// the link as permanently up.
func WithLinkMonitor(link LinkMonitor) Option {
	return func(o *clientOptions) {
		if link != nil {
			o.link = link
		}
	}
}

// WithMaxPacketSize bounds the size of inbound packets.
func WithMaxPacketSize(size uint32) Option {
	return func(o *clientOptions) {
		o.maxPacketSize = size
	}
}

// WithReconnectBackoff sets the initial and maximum delay of the
// supervisor's exponential reconnect backoff.
func WithReconnectBackoff(initial, maxDelay time.Duration) Option {
	return func(o *clientOptions) {
		if initial > 0 {
			o.reconnectBackoff = initial
		}
		if maxDelay > 0 {
			o.maxBackoff = maxDelay
		}
	}
}

// WithDNSResolver sets the resolver address probed by WANOk.
func WithDNSResolver(addr string) Option {
	return func(o *clientOptions) {
		if addr != "" {
			o.dnsResolver = addr
		}
	}
}
