package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBus_AuthSubscription(t *testing.T) {
	bus := NewBus()

	var a, b int
	cancelA := bus.SubscribeAuth(func() { a++ })
	cancelB := bus.SubscribeAuth(func() { b++ })
	defer cancelB()

	bus.PublishAuthChanged()
	require.Equal(t, 1, a)
	require.Equal(t, 1, b)

	cancelA()
	bus.PublishAuthChanged()
	require.Equal(t, 1, a, "unsubscribed handler must not fire")
	require.Equal(t, 2, b)
}

func TestBus_CartSubscriptionCarriesCount(t *testing.T) {
	bus := NewBus()

	var got []int64
	cancel := bus.SubscribeCart(func(count int64) { got = append(got, count) })
	defer cancel()

	bus.PublishCartUpdated(3)
	bus.PublishCartUpdated(0)
	require.Equal(t, []int64{3, 0}, got)
}

func TestBus_PublishWithNoSubscribersIsFine(t *testing.T) {
	bus := NewBus()
	bus.PublishAuthChanged()
	bus.PublishCartUpdated(1)
}

func TestBus_SubscriberMayResubscribeDuringPublish(t *testing.T) {
	bus := NewBus()

	var fired int
	bus.SubscribeAuth(func() {
		fired++
		if fired == 1 {
			bus.SubscribeAuth(func() { fired += 10 })
		}
	})

	bus.PublishAuthChanged()
	require.Equal(t, 1, fired, "handlers added mid-publish fire on the next publish")

	bus.PublishAuthChanged()
	require.Equal(t, 12, fired)
}
