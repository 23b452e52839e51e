package mqtt311

import (
	"bytes"
	"io"
)

// UnsubscribePacket represents an MQTT UNSUBSCRIBE packet.
type UnsubscribePacket struct {
	ID           uint16
	TopicFilters []string
}

// Type returns the packet type.
func (p *UnsubscribePacket) Type() PacketType { return PacketUNSUBSCRIBE }

// PacketID returns the packet identifier.
func (p *UnsubscribePacket) PacketID() uint16 { return p.ID }

// SetPacketID sets the packet identifier.
func (p *UnsubscribePacket) SetPacketID(id uint16) { p.ID = id }

// Encode writes the packet to the writer.
func (p *UnsubscribePacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if _, err := encodeUint16(&buf, p.ID); err != nil {
		return 0, err
	}
	for _, filter := range p.TopicFilters {
		if _, err := encodeString(&buf, filter); err != nil {
			return 0, err
		}
	}

	header := FixedHeader{
		PacketType:      PacketUNSUBSCRIBE,
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
func (p *UnsubscribePacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketUNSUBSCRIBE {
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
		p.TopicFilters = append(p.TopicFilters, filter)
		consumed += uint32(n2)
	}

	if len(p.TopicFilters) == 0 {
		return n, ErrNoTopicFilters
	}
	return n, nil
}

// Validate validates the packet contents.
func (p *UnsubscribePacket) Validate() error {
	if p.ID == 0 {
		return ErrInvalidPacketID
	}
	if len(p.TopicFilters) == 0 {
		return ErrNoTopicFilters
	}
	for _, filter := range p.TopicFilters {
		if filter == "" {
			return ErrInvalidTopicFilter
		}
	}
	return nil
}
