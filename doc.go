// Package mqtt311 implements a resilient, non-blocking MQTT 3.1.1 client
// for devices on unreliable networks.
//
// The client is built around three cooperating subsystems:
//
//   - a connection supervisor that owns the link, TCP and MQTT session
//     lifecycle, detects liveness via pings and reconnects transparently;
//   - a QoS 1 delivery engine that guarantees eventual at-least-once
//     delivery of outbound publications across reconnects, reallocating
//     packet identifiers where brokers require it;
//   - a protocol serializer that admits at most one concurrent
//     request/response exchange on the single underlying socket.
//
// Only the initial Connect surfaces transport errors to the caller. Every
// subsequent transient failure - lost TCP connections, broker timeouts,
// link dropouts - is absorbed by the supervisor: Publish, Subscribe and
// Unsubscribe block cooperatively until the operation is confirmed by the
// broker, however many reconnects that takes.
//
// QoS 2 is not supported. Concurrent publishers are serialized on the
// exchange lock; callers that need pipelining must queue at their layer.
// Cancelling a Publish through its context is honoured between protocol
// steps; the client clears the pending state itself before releasing
// the exchange lock (see Publish).
package mqtt311
