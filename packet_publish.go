package mqtt311

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

// PUBLISH packet errors.
var (
	ErrInvalidQoS        = errors.New("invalid QoS level")
	ErrTopicEmpty        = errors.New("topic must not be empty")
	ErrTopicHasWildcards = errors.New("publish topic must not contain wildcards")
	ErrPacketIDRequired  = errors.New("packet ID required for QoS > 0")
)

// PublishPacket represents an MQTT PUBLISH packet.
type PublishPacket struct {
	// DUP indicates a retransmission of an earlier attempt.
	DUP bool

	// QoS is the quality of service level.
	QoS byte

	// Retain asks the broker to store the message for future subscribers.
	Retain bool

	// Topic is the topic name.
	Topic string

	// ID is the packet identifier, present only when QoS > 0.
	ID uint16

	// Payload is the application message.
	Payload []byte
}

// Type returns the packet type.
func (p *PublishPacket) Type() PacketType {
	return PacketPUBLISH
}

// PacketID returns the packet identifier.
func (p *PublishPacket) PacketID() uint16 { return p.ID }

// SetPacketID sets the packet identifier.
func (p *PublishPacket) SetPacketID(id uint16) { p.ID = id }

// FromMessage fills the packet from an application message.
func (p *PublishPacket) FromMessage(msg *Message) {
	p.Topic = msg.Topic
	p.Payload = msg.Payload
	p.QoS = msg.QoS
	p.Retain = msg.Retain
}

// ToMessage converts the packet to an application message.
func (p *PublishPacket) ToMessage() *Message {
	return &Message{
		Topic:   p.Topic,
		Payload: p.Payload,
		QoS:     p.QoS,
		Retain:  p.Retain,
	}
}

// flags returns the fixed header flags byte.
func (p *PublishPacket) flags() byte {
	var f byte
	if p.DUP {
		f |= 0x08
	}
	f |= (p.QoS & 0x03) << 1
	if p.Retain {
		f |= 0x01
	}
	return f
}

// Encode writes the packet to the writer.
func (p *PublishPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if _, err := encodeString(&buf, p.Topic); err != nil {
		return 0, err
	}
	if p.QoS > 0 {
		if _, err := encodeUint16(&buf, p.ID); err != nil {
			return 0, err
		}
	}
	buf.Write(p.Payload)

	header := FixedHeader{
		PacketType:      PacketPUBLISH,
		Flags:           p.flags(),
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
func (p *PublishPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketPUBLISH {
		return 0, ErrInvalidPacketType
	}

	p.DUP = header.Flags&0x08 != 0
	p.QoS = (header.Flags >> 1) & 0x03
	p.Retain = header.Flags&0x01 != 0
	if p.QoS > 2 {
		return 0, ErrInvalidQoS
	}

	topic, n, err := decodeString(r)
	if err != nil {
		return n, err
	}
	p.Topic = topic

	consumed := uint32(n)
	if p.QoS > 0 {
		id, n2, err := decodeUint16(r)
		n += n2
		if err != nil {
			return n, err
		}
		if id == 0 {
			return n, ErrInvalidPacketID
		}
		p.ID = id
		consumed += uint32(n2)
	}

	if header.RemainingLength < consumed {
		return n, ErrProtocolViolation
	}
	payload := make([]byte, header.RemainingLength-consumed)
	n3, err := io.ReadFull(r, payload)
	n += n3
	if err != nil {
		return n, err
	}
	if len(payload) > 0 {
		p.Payload = payload
	}

	return n, nil
}

// Validate validates the packet contents.
func (p *PublishPacket) Validate() error {
	if p.Topic == "" {
		return ErrTopicEmpty
	}
	if strings.ContainsAny(p.Topic, "#+") {
		return ErrTopicHasWildcards
	}
	if p.QoS > 2 {
		return ErrInvalidQoS
	}
	if p.QoS > 0 && p.ID == 0 {
		return ErrPacketIDRequired
	}
	if p.QoS == 0 && p.DUP {
		return ErrInvalidPacketFlags
	}
	return nil
}
