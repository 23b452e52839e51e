package mqtt311

import (
	"errors"
	"io"
)

var ErrInvalidPacketID = errors.New("packet ID must be non-zero")

// PubackPacket represents an MQTT PUBACK packet, the acknowledgement of
// a QoS 1 PUBLISH.
type PubackPacket struct {
	ID uint16
}

// Type returns the packet type.
func (p *PubackPacket) Type() PacketType { return PacketPUBACK }

// PacketID returns the packet identifier.
func (p *PubackPacket) PacketID() uint16 { return p.ID }

// SetPacketID sets the packet identifier.
func (p *PubackPacket) SetPacketID(id uint16) { p.ID = id }

// Encode writes the packet to the writer.
func (p *PubackPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return encodeAck(w, PacketPUBACK, flagsReserved0, p.ID)
}

// Decode reads the packet from the reader.
func (p *PubackPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketPUBACK {
		return 0, ErrInvalidPacketType
	}
	id, n, err := decodeAck(r, header)
	p.ID = id
	return n, err
}

// Validate validates the packet contents.
func (p *PubackPacket) Validate() error {
	if p.ID == 0 {
		return ErrInvalidPacketID
	}
	return nil
}

// encodeAck writes a two-byte acknowledgement packet carrying only a
// packet identifier. PUBACK and UNSUBACK share this shape.
func encodeAck(w io.Writer, t PacketType, flags byte, id uint16) (int, error) {
	header := FixedHeader{
		PacketType:      t,
		Flags:           flags,
		RemainingLength: 2,
	}
	n, err := header.Encode(w)
	if err != nil {
		return n, err
	}
	n2, err := encodeUint16(w, id)
	return n + n2, err
}

// decodeAck reads the packet identifier of an acknowledgement packet.
func decodeAck(r io.Reader, header FixedHeader) (uint16, int, error) {
	if header.RemainingLength != 2 {
		return 0, 0, ErrProtocolViolation
	}
	id, n, err := decodeUint16(r)
	if err != nil {
		return 0, n, err
	}
	if id == 0 {
		return 0, n, ErrInvalidPacketID
	}
	return id, n, nil
}
