package mqtt311

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarintRoundTrip(t *testing.T) {
	// Values either side of every encoding-length boundary.
	values := []uint32{0, 1, 64, 127, 128, 16383, 16384, 2097151, 2097152, maxVarint}

	for _, value := range values {
		var buf bytes.Buffer
		n, err := encodeVarint(&buf, value)
		require.NoError(t, err, "value %d", value)
		assert.Equal(t, varintSize(value), n, "value %d", value)

		decoded, n2, err := decodeVarint(&buf)
		require.NoError(t, err, "value %d", value)
		assert.Equal(t, value, decoded)
		assert.Equal(t, n, n2)
	}
}

func TestVarintEncodedLengths(t *testing.T) {
	tests := []struct {
		value uint32
		size  int
	}{
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{2097151, 3},
		{2097152, 4},
		{maxVarint, 4},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		n, err := encodeVarint(&buf, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.size, n, "value %d", tt.value)
	}
}

func TestVarintTooLarge(t *testing.T) {
	var buf bytes.Buffer
	_, err := encodeVarint(&buf, maxVarint+1)
	assert.ErrorIs(t, err, ErrVarintTooLarge)
}

func TestVarintMalformed(t *testing.T) {
	// Five continuation bytes exceed the four-byte maximum.
	r := bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80})
	_, _, err := decodeVarint(r)
	assert.ErrorIs(t, err, ErrVarintMalformed)
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a/b/c", "sensors/µ/temp"} {
		var buf bytes.Buffer
		_, err := encodeString(&buf, s)
		require.NoError(t, err)

		decoded, _, err := decodeString(&buf)
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	}
}

func TestStringTooLong(t *testing.T) {
	var buf bytes.Buffer
	_, err := encodeString(&buf, string(make([]byte, maxUint16+1)))
	assert.ErrorIs(t, err, ErrStringTooLong)
}

func TestStringInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	_, err := encodeString(&buf, string([]byte{0xff, 0xfe}))
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	_, _, err = decodeString(bytes.NewReader([]byte{0x00, 0x02, 0xff, 0xfe}))
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestBinaryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	data := []byte{0x00, 0x01, 0xff}
	_, err := encodeBinary(&buf, data)
	require.NoError(t, err)

	decoded, _, err := decodeBinary(&buf)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestUint16RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	_, err := encodeUint16(&buf, 0xBEEF)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xBE, 0xEF}, buf.Bytes())

	v, _, err := decodeUint16(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), v)
}
