package mqtt311

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPacketRoundTrip(t *testing.T) {
	packets := []Packet{
		&ConnectPacket{ClientID: "c1", CleanSession: true, KeepAlive: 60},
		&ConnackPacket{SessionPresent: true},
		&PublishPacket{Topic: "t/a", Payload: []byte("x"), QoS: QoS1, ID: 7},
		&PubackPacket{ID: 7},
		&SubscribePacket{ID: 8, Subscriptions: []Subscription{{TopicFilter: "t/#", QoS: QoS1}}},
		&SubackPacket{ID: 8, ReturnCodes: []byte{1}},
		&UnsubscribePacket{ID: 9, TopicFilters: []string{"t/#"}},
		&UnsubackPacket{ID: 9},
		&PingreqPacket{},
		&PingrespPacket{},
		&DisconnectPacket{},
	}

	for _, packet := range packets {
		var buf bytes.Buffer
		_, err := WritePacket(&buf, packet)
		require.NoError(t, err, "%s", packet.Type())

		decoded, n, err := ReadPacket(&buf, 0)
		require.NoError(t, err, "%s", packet.Type())
		assert.Equal(t, packet, decoded, "%s", packet.Type())
		assert.Zero(t, buf.Len(), "%s left %d bytes", packet.Type(), buf.Len())
		assert.Positive(t, n)
	}
}

func TestReadPacketTooLarge(t *testing.T) {
	var buf bytes.Buffer
	pub := &PublishPacket{Topic: "t", Payload: make([]byte, 64)}
	_, err := WritePacket(&buf, pub)
	require.NoError(t, err)

	_, _, err = ReadPacket(&buf, 16)
	assert.ErrorIs(t, err, ErrPacketTooLarge)
}

func TestReadPacketUnknownType(t *testing.T) {
	// PUBREL is well-formed on the wire but belongs to QoS 2.
	_, _, err := ReadPacket(bytes.NewReader([]byte{0x62, 0x02, 0x00, 0x01}), 0)
	assert.ErrorIs(t, err, ErrUnknownPacketType)
}

func TestReadPacketTrailingBytes(t *testing.T) {
	// A PINGRESP declaring a body is a protocol violation.
	_, _, err := ReadPacket(bytes.NewReader([]byte{0xD0, 0x01, 0x00}), 0)
	assert.ErrorIs(t, err, ErrProtocolViolation)
}

func TestReadPacketTruncatedBody(t *testing.T) {
	// CONNACK declares two body bytes but only one follows.
	_, _, err := ReadPacket(bytes.NewReader([]byte{0x20, 0x02, 0x00}), 0)
	assert.Error(t, err)
}

func TestWritePacketValidates(t *testing.T) {
	var buf bytes.Buffer
	_, err := WritePacket(&buf, &PublishPacket{Topic: "", QoS: QoS0})
	assert.ErrorIs(t, err, ErrTopicEmpty)
	assert.Zero(t, buf.Len())
}
