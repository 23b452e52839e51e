package mqtt311

import (
	"bytes"
	"errors"
	"io"
)

// SUBSCRIBE packet errors.
var (
	ErrNoTopicFilters     = errors.New("at least one topic filter required")
	ErrInvalidTopicFilter = errors.New("invalid topic filter")
)

// Subscription is a topic filter with its requested (or granted) QoS.
type Subscription struct {
	// TopicFilter is the topic filter, possibly containing wildcards.
	TopicFilter string

	// QoS is the requested maximum QoS (0 or 1).
	QoS byte
}

// SubscribePacket represents an MQTT SUBSCRIBE packet.
type SubscribePacket struct {
	ID            uint16
	Subscriptions []Subscription
}

// Type returns the packet type.
func (p *SubscribePacket) Type() PacketType { return PacketSUBSCRIBE }

// PacketID returns the packet identifier.
func (p *SubscribePacket) PacketID() uint16 { return p.ID }

// SetPacketID sets the packet identifier.
func (p *SubscribePacket) SetPacketID(id uint16) { p.ID = id }

// Encode writes the packet to the writer.
func (p *SubscribePacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if _, err := encodeUint16(&buf, p.ID); err != nil {
		return 0, err
	}
	for _, sub := range p.Subscriptions {
		if _, err := encodeString(&buf, sub.TopicFilter); err != nil {
			return 0, err
		}
		buf.WriteByte(sub.QoS)
	}

	header := FixedHeader{
		PacketType:      PacketSUBSCRIBE,
		Flags:           flagsReserved2,
		RemainingLength: uint32(buf.Len()),
	}
	n, err := header.Encode(w)
	if err != nil {
		return n, err
	}
	n2, err := w.Write(buf.Bytes())
	return n + n2, err
}

// Decode reads the packet from the reader.
func (p *SubscribePacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketSUBSCRIBE {
		return 0, ErrInvalidPacketType
	}
	if header.Flags != flagsReserved2 {
		return 0, ErrInvalidPacketFlags
	}

	id, n, err := decodeUint16(r)
	if err != nil {
		return n, err
	}
	if id == 0 {
		return n, ErrInvalidPacketID
	}
	p.ID = id

	consumed := uint32(n)
	for consumed < header.RemainingLength {
		filter, n2, err := decodeString(r)
		n += n2
		if err != nil {
			return n, err
		}

		var qos [1]byte
		n3, err := io.ReadFull(r, qos[:])
		n += n3
		if err != nil {
			return n, err
		}
		if qos[0] > 2 {
			return n, ErrInvalidQoS
		}

		p.Subscriptions = append(p.Subscriptions, Subscription{
			TopicFilter: filter,
			QoS:         qos[0],
		})
		consumed += uint32(n2 + n3)
	}

	if len(p.Subscriptions) == 0 {
		return n, ErrNoTopicFilters
	}
	return n, nil
}

// Validate validates the packet contents.
func (p *SubscribePacket) Validate() error {
	if p.ID == 0 {
		return ErrInvalidPacketID
	}
	if len(p.Subscriptions) == 0 {
		return ErrNoTopicFilters
	}
	for _, sub := range p.Subscriptions {
		if sub.TopicFilter == "" {
			return ErrInvalidTopicFilter
		}
		if sub.QoS > QoS1 {
			return ErrInvalidQoS
		}
	}
	return nil
}
