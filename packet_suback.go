package mqtt311

import (
	"bytes"
	"errors"
	"io"
)

// SubackFailure is the SUBACK return code for a rejected subscription,
// MQTT 3.1.1 section 3.9.3.
const SubackFailure byte = 0x80

var ErrNoReturnCodes = errors.New("at least one return code required")

// SubackPacket represents an MQTT SUBACK packet.
type SubackPacket struct {
	ID uint16

	// ReturnCodes holds one granted-QoS or failure code per requested
	// topic filter, in request order.
	ReturnCodes []byte
}

// Type returns the packet type.
func (p *SubackPacket) Type() PacketType { return PacketSUBACK }

// PacketID returns the packet identifier.
func (p *SubackPacket) PacketID() uint16 { return p.ID }

// SetPacketID sets the packet identifier.
func (p *SubackPacket) SetPacketID(id uint16) { p.ID = id }

// Encode writes the packet to the writer.
func (p *SubackPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if _, err := encodeUint16(&buf, p.ID); err != nil {
		return 0, err
	}
	buf.Write(p.ReturnCodes)

	header := FixedHeader{
		PacketType:      PacketSUBACK,
		Flags:           flagsReserved0,
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
func (p *SubackPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketSUBACK {
		return 0, ErrInvalidPacketType
	}
	if header.RemainingLength < 3 {
		return 0, ErrProtocolViolation
	}

	id, n, err := decodeUint16(r)
	if err != nil {
		return n, err
	}
	if id == 0 {
		return n, ErrInvalidPacketID
	}
	p.ID = id

	codes := make([]byte, header.RemainingLength-2)
	n2, err := io.ReadFull(r, codes)
	n += n2
	if err != nil {
		return n, err
	}
	for _, code := range codes {
		if code > 2 && code != SubackFailure {
			return n, ErrProtocolViolation
		}
	}
	p.ReturnCodes = codes

	return n, nil
}

// Validate validates the packet contents.
func (p *SubackPacket) Validate() error {
	if p.ID == 0 {
		return ErrInvalidPacketID
	}
	if len(p.ReturnCodes) == 0 {
		return ErrNoReturnCodes
	}
	for _, code := range p.ReturnCodes {
		if code > 2 && code != SubackFailure {
			return ErrProtocolViolation
		}
	}
	return nil
}
