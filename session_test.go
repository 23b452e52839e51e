package mqtt311

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionPIDAllocationSkipsZero(t *testing.T) {
	s := &sessionState{}

	assert.Equal(t, uint16(1), s.nextPID())
	assert.Equal(t, uint16(2), s.nextPID())

	s.pid = 65535
	assert.Equal(t, uint16(1), s.nextPID(), "allocation wraps past zero")
}

func TestSessionPendingSlot(t *testing.T) {
	s := &sessionState{}

	id, msg := s.pending()
	assert.Zero(t, id)
	assert.Nil(t, msg)

	m := &Message{Topic: "t", Payload: []byte("x"), QoS: QoS1}
	s.setPending(7, m)

	id, got := s.pending()
	assert.Equal(t, uint16(7), id)
	assert.Equal(t, m, got)

	assert.False(t, s.ackPending(8), "wrong id must not clear the slot")
	id, _ = s.pending()
	assert.Equal(t, uint16(7), id)

	assert.True(t, s.ackPending(7))
	id, got = s.pending()
	assert.Zero(t, id)
	assert.Nil(t, got)

	assert.False(t, s.ackPending(7), "slot already empty")
}

func TestSessionReassignPending(t *testing.T) {
	s := &sessionState{}
	s.setPending(7, &Message{Topic: "t"})
	s.reassignPending(9)

	id, msg := s.pending()
	assert.Equal(t, uint16(9), id)
	assert.NotNil(t, msg)
	assert.False(t, s.ackPending(7), "abandoned id must not match")
	assert.True(t, s.ackPending(9))
}

func TestSessionSubscriptionRegistryOrder(t *testing.T) {
	s := &sessionState{}
	s.addSubscription(Subscription{TopicFilter: "a", QoS: 0})
	s.addSubscription(Subscription{TopicFilter: "b", QoS: 1})
	s.addSubscription(Subscription{TopicFilter: "c", QoS: 0})

	// Re-subscribing updates in place without reordering.
	s.addSubscription(Subscription{TopicFilter: "a", QoS: 1})

	subs := s.subscriptions()
	assert.Equal(t, []Subscription{
		{TopicFilter: "a", QoS: 1},
		{TopicFilter: "b", QoS: 1},
		{TopicFilter: "c", QoS: 0},
	}, subs)

	assert.True(t, s.removeSubscription("b"))
	assert.False(t, s.removeSubscription("b"))
	assert.Equal(t, []Subscription{
		{TopicFilter: "a", QoS: 1},
		{TopicFilter: "c", QoS: 0},
	}, s.subscriptions())
}

func TestSessionSubscriptionsReturnsCopy(t *testing.T) {
	s := &sessionState{}
	s.addSubscription(Subscription{TopicFilter: "a"})

	subs := s.subscriptions()
	subs[0].TopicFilter = "mutated"
	assert.Equal(t, "a", s.subscriptions()[0].TopicFilter)
}
