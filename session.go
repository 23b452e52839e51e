package mqtt311

import "sync"

// sessionState holds the in-memory MQTT session: the packet identifier
// counter, the subscription registry and the single pending QoS 1
// publish slot. Nothing is persisted; clean-session semantics at the
// broker govern durability.
type sessionState struct {
	mu sync.Mutex

	// pid is the last allocated packet identifier. Allocation is
	// monotonic modulo 65535 and never yields 0.
	pid uint16

	// subs is the subscription registry in insertion order. It is the
	// source of truth for re-issuing SUBSCRIBE packets after a
	// reconnect.
	subs []Subscription

	// pendingID and pendingMsg form the pending-publish slot. The slot
	// is non-empty exactly while one QoS 1 publish is in flight, and
	// survives reconnects until the broker acknowledges the message.
	pendingID  uint16
	pendingMsg *Message
}

// nextPID allocates the next packet identifier, skipping 0.
func (s *sessionState) nextPID() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pid == 65535 {
		s.pid = 1
	} else {
		s.pid++
	}
	return s.pid
}

// setPending records the in-flight QoS 1 publish.
func (s *sessionState) setPending(id uint16, msg *Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingID = id
	s.pendingMsg = msg
}

// reassignPending moves the pending slot to a fresh identifier. The
// old identifier is abandoned: some brokers treat it as closed session
// state after a reconnect and silently drop retransmissions reusing it.
func (s *sessionState) reassignPending(id uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingID = id
}

// ackPending clears the pending slot if id matches the in-flight
// publish, reporting whether it did.
func (s *sessionState) ackPending(id uint16) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingID == 0 || s.pendingID != id {
		return false
	}
	s.pendingID = 0
	s.pendingMsg = nil
	return true
}

// clearPending empties the pending slot unconditionally.
func (s *sessionState) clearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingID = 0
	s.pendingMsg = nil
}

// pending returns the pending publish, or 0 and nil when the slot is
// empty.
func (s *sessionState) pending() (uint16, *Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingID, s.pendingMsg
}

// addSubscription appends to the registry, replacing an existing entry
// for the same filter in place so insertion order is preserved.
func (s *sessionState) addSubscription(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.subs {
		if s.subs[i].TopicFilter == sub.TopicFilter {
			s.subs[i] = sub
			return
		}
	}
	s.subs = append(s.subs, sub)
}

// removeSubscription deletes the registry entry for the filter.
func (s *sessionState) removeSubscription(filter string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.subs {
		if s.subs[i].TopicFilter == filter {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return true
		}
	}
	return false
}

// subscriptions returns a copy of the registry in insertion order.
func (s *sessionState) subscriptions() []Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Subscription, len(s.subs))
	copy(out, s.subs)
	return out
}
