package mqtt311

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubackPacketEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	packet := &PubackPacket{ID: 0x1234}
	_, err := packet.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x40, 0x02, 0x12, 0x34}, buf.Bytes())

	decoded, _, err := ReadPacket(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, packet, decoded)
}

func TestPubackPacketZeroID(t *testing.T) {
	var buf bytes.Buffer
	_, err := (&PubackPacket{}).Encode(&buf)
	assert.ErrorIs(t, err, ErrInvalidPacketID)

	_, _, err = ReadPacket(bytes.NewReader([]byte{0x40, 0x02, 0x00, 0x00}), 0)
	assert.ErrorIs(t, err, ErrInvalidPacketID)
}

func TestUnsubackPacketEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	packet := &UnsubackPacket{ID: 9}
	_, err := packet.Encode(&buf)
	require.NoError(t, err)

	decoded, _, err := ReadPacket(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, packet, decoded)
}

func TestAckPacketBadLength(t *testing.T) {
	_, _, err := ReadPacket(bytes.NewReader([]byte{0x40, 0x03, 0x00, 0x01, 0x00}), 0)
	assert.ErrorIs(t, err, ErrProtocolViolation)
}

func TestPingPacketsEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	_, err := (&PingreqPacket{}).Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC0, 0x00}, buf.Bytes())

	decoded, _, err := ReadPacket(&buf, 0)
	require.NoError(t, err)
	assert.IsType(t, &PingreqPacket{}, decoded)

	buf.Reset()
	_, err = (&PingrespPacket{}).Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xD0, 0x00}, buf.Bytes())
}

func TestDisconnectPacketEncode(t *testing.T) {
	var buf bytes.Buffer
	_, err := (&DisconnectPacket{}).Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xE0, 0x00}, buf.Bytes())
}
