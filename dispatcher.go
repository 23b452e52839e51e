package mqtt311

import (
	"fmt"
	"time"
)

// dispatch is the inbound read loop, one instance per connection. It
// reads packets off the socket and routes them: acknowledgements wake
// the waiter admitted by the exchange lock, PUBLISHes go to the user
// callback, everything else is protocol state. It never takes the
// exchange lock.
//
// Any read or decode failure tears the connection down; the supervisor
// takes it from there.
func (c *Client) dispatch(sio *socketIO, epoch uint64) {
	for {
		pkt, err := readWirePacket(sio, time.Time{}, c.options.responseTime, c.options.maxPacketSize)
		if err != nil {
			c.connectionFailed(epoch, err)
			return
		}

		// Every successfully decoded packet proves broker liveness,
		// not just PINGRESP.
		c.markActivity()

		switch p := pkt.(type) {
		case *PublishPacket:
			if err := c.handleInbound(sio, p); err != nil {
				c.connectionFailed(epoch, err)
				return
			}

		case *PubackPacket:
			if c.session.ackPending(p.ID) {
				select {
				case c.pubAckCh <- p.ID:
				default:
				}
			} else {
				c.logger.Debug("PUBACK for unknown packet", LogFields{LogFieldPacketID: p.ID})
			}

		case *SubackPacket:
			select {
			case c.subAckCh <- p:
			default:
				c.logger.Debug("unexpected SUBACK", LogFields{LogFieldPacketID: p.ID})
			}

		case *UnsubackPacket:
			select {
			case c.unsubAckCh <- p:
			default:
				c.logger.Debug("unexpected UNSUBACK", LogFields{LogFieldPacketID: p.ID})
			}

		case *PingrespPacket:
			// Activity stamp above is all the pinger needs.

		default:
			// CONNACK outside the handshake, or any server-to-client
			// direction violation.
			c.connectionFailed(epoch, fmt.Errorf("%w: unexpected %s", ErrProtocol, pkt.Type()))
			return
		}
	}
}

// handleInbound delivers an incoming PUBLISH to the subscription
// callback and acknowledges QoS 1 deliveries with the echoed packet
// identifier. The callback runs inline: a slow callback delays the
// read loop, so callbacks must return promptly.
func (c *Client) handleInbound(sio *socketIO, p *PublishPacket) error {
	if p.QoS > QoS1 {
		return fmt.Errorf("%w: QoS 2 delivery not supported", ErrProtocol)
	}

	if cb := c.options.messageHandler; cb != nil {
		cb(p.Topic, p.Payload, p.Retain)
	}

	if p.QoS == QoS1 {
		return c.writePacket(sio, &PubackPacket{ID: p.ID})
	}
	return nil
}
