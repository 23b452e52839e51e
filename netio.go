package mqtt311

import (
	"errors"
	"io"
	"net"
	"time"
)

// pollSlice bounds how long a socket operation can sleep before it
// rechecks the link state and the caller's deadline.
const pollSlice = 250 * time.Millisecond

// socketIO adapts the single broker connection to deadline-bound exact
// reads and writes. It never retries; retry policy lives in the
// supervisor and the delivery engine.
type socketIO struct {
	conn net.Conn
	link LinkMonitor
}

// readExact fills buf completely or fails. A zero deadline blocks
// until data arrives, the link drops or the connection is closed.
func (s *socketIO) readExact(buf []byte, deadline time.Time) error {
	read := 0
	for read < len(buf) {
		slice, err := s.nextSlice(deadline)
		if err != nil {
			return err
		}
		if err := s.conn.SetReadDeadline(slice); err != nil {
			return ErrDisconnected
		}

		n, err := s.conn.Read(buf[read:])
		read += n
		if err != nil {
			if isTimeout(err) {
				continue
			}
			return classifyIOError(err)
		}
	}
	return nil
}

// writeAll writes b completely or fails.
func (s *socketIO) writeAll(b []byte, deadline time.Time) error {
	written := 0
	for written < len(b) {
		slice, err := s.nextSlice(deadline)
		if err != nil {
			return err
		}
		if err := s.conn.SetWriteDeadline(slice); err != nil {
			return ErrDisconnected
		}

		n, err := s.conn.Write(b[written:])
		written += n
		if err != nil {
			if isTimeout(err) {
				continue
			}
			return classifyIOError(err)
		}
	}
	return nil
}

// nextSlice computes the deadline for the next socket poll, surfacing
// link loss and caller-deadline expiry between polls.
func (s *socketIO) nextSlice(deadline time.Time) (time.Time, error) {
	if !s.link.Up() {
		return time.Time{}, ErrLinkDown
	}
	now := time.Now()
	if !deadline.IsZero() && now.After(deadline) {
		return time.Time{}, ErrTimeout
	}
	slice := now.Add(pollSlice)
	if !deadline.IsZero() && deadline.Before(slice) {
		slice = deadline
	}
	return slice, nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// classifyIOError maps transport errors onto the client taxonomy.
func classifyIOError(err error) error {
	if err == nil {
		return nil
	}
	if isTimeout(err) {
		return ErrTimeout
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		return ErrDisconnected
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ErrDisconnected
	}
	// Unrecognized transport failures are treated as a lost connection;
	// the supervisor's reconnect path covers them all.
	return ErrDisconnected
}

// readWirePacket reads one packet off the socket. firstByte bounds the
// wait for the packet to start; the zero value means wait forever
// (idle connections are legal). Once a packet has started, the
// remainder must arrive within responseTime.
func readWirePacket(s *socketIO, firstByte time.Time, responseTime time.Duration, maxSize uint32) (Packet, error) {
	var first [1]byte
	if err := s.readExact(first[:], firstByte); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(responseTime)
	header := FixedHeader{
		PacketType: PacketType(first[0] >> 4),
		Flags:      first[0] & 0x0F,
	}
	if !header.PacketType.Valid() {
		return nil, ErrInvalidPacketType
	}

	// Remaining length, one byte at a time, at most four bytes.
	var value uint32
	var shift uint
	for i := 0; ; i++ {
		if i >= varintMaxBytes {
			return nil, ErrVarintMalformed
		}
		var b [1]byte
		if err := s.readExact(b[:], deadline); err != nil {
			return nil, err
		}
		value |= uint32(b[0]&varintValueMask) << shift
		if b[0]&varintContinueBit == 0 {
			break
		}
		shift += 7
	}
	header.RemainingLength = value

	if maxSize > 0 && header.RemainingLength > maxSize {
		return nil, ErrPacketTooLarge
	}

	body := make([]byte, header.RemainingLength)
	if len(body) > 0 {
		if err := s.readExact(body, deadline); err != nil {
			return nil, err
		}
	}

	return decodeBody(header, body)
}
