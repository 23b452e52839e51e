package mqtt311

import (
	"bytes"
	"errors"
	"io"
)

// CONNECT packet constants, MQTT 3.1.1 section 3.1.
const (
	protocolName    = "MQTT"
	protocolVersion = 4
)

// Connect flag bit positions.
const (
	connectFlagCleanSession = 0x02
	connectFlagWillFlag     = 0x04
	connectFlagWillRetain   = 0x20
	connectFlagPasswordFlag = 0x40
	connectFlagUsernameFlag = 0x80
)

// CONNECT packet errors.
var (
	ErrInvalidProtocolName    = errors.New("invalid protocol name")
	ErrInvalidProtocolVersion = errors.New("unsupported protocol version")
	ErrInvalidConnectFlags    = errors.New("invalid connect flags")
	ErrPasswordWithoutUser    = errors.New("password requires username")
	ErrWillTopicRequired      = errors.New("will flag set without will topic")
)

// ConnectPacket represents an MQTT CONNECT packet.
type ConnectPacket struct {
	// ClientID is the client identifier.
	ClientID string

	// CleanSession requests a clean session from the broker.
	CleanSession bool

	// KeepAlive is the keep alive interval in seconds. Zero disables
	// broker-side liveness checking.
	KeepAlive uint16

	// Username for authentication.
	Username string

	// Password for authentication.
	Password []byte

	// Will message configuration.
	WillFlag    bool
	WillRetain  bool
	WillQoS     byte
	WillTopic   string
	WillPayload []byte
}

// Type returns the packet type.
func (p *ConnectPacket) Type() PacketType {
	return PacketCONNECT
}

// connectFlags returns the connect flags byte.
func (p *ConnectPacket) connectFlags() byte {
	var flags byte

	if p.CleanSession {
		flags |= connectFlagCleanSession
	}
	if p.WillFlag {
		flags |= connectFlagWillFlag
		flags |= (p.WillQoS & 0x03) << 3
		if p.WillRetain {
			flags |= connectFlagWillRetain
		}
	}
	if len(p.Password) > 0 {
		flags |= connectFlagPasswordFlag
	}
	if p.Username != "" {
		flags |= connectFlagUsernameFlag
	}

	return flags
}

// setConnectFlags parses the connect flags byte.
func (p *ConnectPacket) setConnectFlags(flags byte) error {
	// Reserved bit must be 0.
	if flags&0x01 != 0 {
		return ErrInvalidConnectFlags
	}

	p.CleanSession = flags&connectFlagCleanSession != 0
	p.WillFlag = flags&connectFlagWillFlag != 0
	p.WillQoS = (flags >> 3) & 0x03
	p.WillRetain = flags&connectFlagWillRetain != 0

	if !p.WillFlag && (p.WillQoS != 0 || p.WillRetain) {
		return ErrInvalidConnectFlags
	}
	if p.WillQoS > 2 {
		return ErrInvalidConnectFlags
	}

	return nil
}

// Encode writes the packet to the writer.
func (p *ConnectPacket) Encode(w io.Writer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer

	if _, err := encodeString(&buf, protocolName); err != nil {
		return 0, err
	}
	buf.WriteByte(protocolVersion)
	buf.WriteByte(p.connectFlags())
	if _, err := encodeUint16(&buf, p.KeepAlive); err != nil {
		return 0, err
	}

	// Payload: client id, will topic/message, username, password.
	if _, err := encodeString(&buf, p.ClientID); err != nil {
		return 0, err
	}
	if p.WillFlag {
		if _, err := encodeString(&buf, p.WillTopic); err != nil {
			return 0, err
		}
		if _, err := encodeBinary(&buf, p.WillPayload); err != nil {
			return 0, err
		}
	}
	if p.Username != "" {
		if _, err := encodeString(&buf, p.Username); err != nil {
			return 0, err
		}
	}
	if len(p.Password) > 0 {
		if _, err := encodeBinary(&buf, p.Password); err != nil {
			return 0, err
		}
	}

	header := FixedHeader{
		PacketType:      PacketCONNECT,
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
func (p *ConnectPacket) Decode(r io.Reader, header FixedHeader) (int, error) {
	if header.PacketType != PacketCONNECT {
		return 0, ErrInvalidPacketType
	}

	name, n, err := decodeString(r)
	if err != nil {
		return n, err
	}
	if name != protocolName {
		return n, ErrInvalidProtocolName
	}

	var buf [2]byte
	n2, err := io.ReadFull(r, buf[:])
	n += n2
	if err != nil {
		return n, err
	}
	if buf[0] != protocolVersion {
		return n, ErrInvalidProtocolVersion
	}
	if err := p.setConnectFlags(buf[1]); err != nil {
		return n, err
	}

	keepAlive, n3, err := decodeUint16(r)
	n += n3
	if err != nil {
		return n, err
	}
	p.KeepAlive = keepAlive

	clientID, n4, err := decodeString(r)
	n += n4
	if err != nil {
		return n, err
	}
	p.ClientID = clientID

	if p.WillFlag {
		topic, n5, err := decodeString(r)
		n += n5
		if err != nil {
			return n, err
		}
		p.WillTopic = topic

		payload, n6, err := decodeBinary(r)
		n += n6
		if err != nil {
			return n, err
		}
		p.WillPayload = payload
	}

	hasUser := buf[1]&connectFlagUsernameFlag != 0
	hasPass := buf[1]&connectFlagPasswordFlag != 0
	if hasPass && !hasUser {
		return n, ErrPasswordWithoutUser
	}
	if hasUser {
		user, n7, err := decodeString(r)
		n += n7
		if err != nil {
			return n, err
		}
		p.Username = user
	}
	if hasPass {
		pass, n8, err := decodeBinary(r)
		n += n8
		if err != nil {
			return n, err
		}
		p.Password = pass
	}

	return n, nil
}

// Validate validates the packet contents.
func (p *ConnectPacket) Validate() error {
	if p.WillFlag {
		if p.WillTopic == "" {
			return ErrWillTopicRequired
		}
		if p.WillQoS > 2 {
			return ErrInvalidQoS
		}
	}
	if len(p.Password) > 0 && p.Username == "" {
		return ErrPasswordWithoutUser
	}
	return nil
}
