package mqtt311

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectPacketEncodeDecode(t *testing.T) {
	tests := []struct {
		name   string
		packet ConnectPacket
	}{
		{
			name: "minimal",
			packet: ConnectPacket{
				ClientID:     "test-client",
				CleanSession: true,
				KeepAlive:    60,
			},
		},
		{
			name: "with credentials",
			packet: ConnectPacket{
				ClientID:     "client-1",
				CleanSession: true,
				KeepAlive:    120,
				Username:     "user",
				Password:     []byte("secret"),
			},
		},
		{
			name: "with will",
			packet: ConnectPacket{
				ClientID:    "client-2",
				KeepAlive:   30,
				WillFlag:    true,
				WillTopic:   "client/status",
				WillPayload: []byte("offline"),
				WillQoS:     1,
				WillRetain:  true,
			},
		},
		{
			name: "keepalive disabled",
			packet: ConnectPacket{
				ClientID:     "client-3",
				CleanSession: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := tt.packet.Encode(&buf)
			require.NoError(t, err)

			decoded, _, err := ReadPacket(&buf, 0)
			require.NoError(t, err)
			assert.Equal(t, &tt.packet, decoded)
		})
	}
}

func TestConnectPacketProtocolLevel(t *testing.T) {
	var buf bytes.Buffer
	packet := ConnectPacket{ClientID: "c", CleanSession: true, KeepAlive: 60}
	_, err := packet.Encode(&buf)
	require.NoError(t, err)

	raw := buf.Bytes()
	// Fixed header (2) + name length prefix (2) + "MQTT" (4).
	assert.Equal(t, []byte{0x00, 0x04, 'M', 'Q', 'T', 'T'}, raw[2:8])
	assert.Equal(t, byte(4), raw[8])
}

func TestConnectPacketValidation(t *testing.T) {
	tests := []struct {
		name   string
		packet ConnectPacket
		err    error
	}{
		{"will without topic", ConnectPacket{ClientID: "c", WillFlag: true}, ErrWillTopicRequired},
		{"password without user", ConnectPacket{ClientID: "c", Password: []byte("p")}, ErrPasswordWithoutUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.packet.Validate(), tt.err)
		})
	}
}

func TestConnectPacketDecodeErrors(t *testing.T) {
	encode := func(mutate func([]byte)) *bytes.Reader {
		var buf bytes.Buffer
		packet := ConnectPacket{ClientID: "c", CleanSession: true, KeepAlive: 60}
		_, err := packet.Encode(&buf)
		require.NoError(t, err)
		raw := buf.Bytes()
		mutate(raw)
		return bytes.NewReader(raw)
	}

	// Corrupt the protocol name.
	_, _, err := ReadPacket(encode(func(raw []byte) { raw[4] = 'X' }), 0)
	assert.ErrorIs(t, err, ErrInvalidProtocolName)

	// Corrupt the protocol level.
	_, _, err = ReadPacket(encode(func(raw []byte) { raw[8] = 3 }), 0)
	assert.ErrorIs(t, err, ErrInvalidProtocolVersion)

	// Set the reserved flag bit.
	_, _, err = ReadPacket(encode(func(raw []byte) { raw[9] |= 0x01 }), 0)
	assert.ErrorIs(t, err, ErrInvalidConnectFlags)
}
