package mqtt311

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishPacketEncodeDecode(t *testing.T) {
	tests := []struct {
		name   string
		packet PublishPacket
	}{
		{"qos0", PublishPacket{Topic: "t/a", Payload: []byte("x")}},
		{"qos0 retained", PublishPacket{Topic: "t/a", Payload: []byte("x"), Retain: true}},
		{"qos1", PublishPacket{Topic: "t/a", Payload: []byte("y"), QoS: QoS1, ID: 42}},
		{"qos1 dup", PublishPacket{Topic: "t/a", Payload: []byte("y"), QoS: QoS1, ID: 42, DUP: true}},
		{"empty payload", PublishPacket{Topic: "status"}},
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

func TestPublishPacketRetainedFlagOnWire(t *testing.T) {
	var buf bytes.Buffer
	packet := PublishPacket{Topic: "t", Retain: true}
	_, err := packet.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, byte(0x31), buf.Bytes()[0])
}

func TestPublishPacketValidation(t *testing.T) {
	tests := []struct {
		name   string
		packet PublishPacket
		err    error
	}{
		{"empty topic", PublishPacket{}, ErrTopicEmpty},
		{"wildcard hash", PublishPacket{Topic: "t/#"}, ErrTopicHasWildcards},
		{"wildcard plus", PublishPacket{Topic: "t/+/a"}, ErrTopicHasWildcards},
		{"qos without id", PublishPacket{Topic: "t", QoS: QoS1}, ErrPacketIDRequired},
		{"dup on qos0", PublishPacket{Topic: "t", DUP: true}, ErrInvalidPacketFlags},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.packet.Validate(), tt.err)
		})
	}
}

func TestPublishPacketDecodeQoS3(t *testing.T) {
	// Flags 0x06 encode QoS 3.
	_, _, err := ReadPacket(bytes.NewReader([]byte{0x36, 0x03, 0x00, 0x01, 't'}), 0)
	assert.ErrorIs(t, err, ErrInvalidPacketFlags)
}

func TestPublishPacketMessageConversion(t *testing.T) {
	msg := &Message{Topic: "t/a", Payload: []byte("x"), QoS: QoS1, Retain: true}

	var packet PublishPacket
	packet.FromMessage(msg)
	packet.ID = 3
	assert.Equal(t, msg, packet.ToMessage())
}
