package marketdata

import (
	"testing"
	"time"

	"github.com/sami992010/ProBTC/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func tick(seq int64) model.PriceTick {
	return model.PriceTick{Price: decimal.NewFromFloat(1.1), Seq: seq, TS: time.Now().UnixMilli()}
}

func TestSubscribeReceivesInOrder(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	for i := int64(1); i <= 50; i++ {
		bus.Publish(tick(i))
	}
	for i := int64(1); i <= 50; i++ {
		got := <-sub.C
		require.Equal(t, i, got.Seq)
	}
	require.Equal(t, int64(0), sub.Dropped())
}

func TestSlowSubscriberLosesOldestOnly(t *testing.T) {
	bus := NewBus()
	slow := bus.Subscribe()
	fast := bus.Subscribe()
	defer bus.Unsubscribe(slow)
	defer bus.Unsubscribe(fast)

	// slow never drains; fast drains between batches. The publisher must not
	// block either way.
	for i := int64(1); i <= subscriberBuffer; i++ {
		bus.Publish(tick(i))
	}
	for i := int64(1); i <= subscriberBuffer; i++ {
		require.Equal(t, i, (<-fast.C).Seq)
	}
	for i := int64(subscriberBuffer + 1); i <= subscriberBuffer+25; i++ {
		bus.Publish(tick(i))
	}
	for i := int64(subscriberBuffer + 1); i <= subscriberBuffer+25; i++ {
		require.Equal(t, i, (<-fast.C).Seq)
	}

	// slow subscriber dropped its oldest ticks; what remains is still the
	// most recent window in order
	require.Equal(t, int64(25), slow.Dropped())
	first := <-slow.C
	require.Equal(t, int64(26), first.Seq)
	prev := first.Seq
	for i := 0; i < subscriberBuffer-1; i++ {
		got := <-slow.C
		require.Equal(t, prev+1, got.Seq)
		prev = got.Seq
	}
}

func TestUnsubscribeIdempotent(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	require.Equal(t, 1, bus.SubscriberCount())

	bus.Unsubscribe(sub)
	bus.Unsubscribe(sub)
	require.Equal(t, 0, bus.SubscriberCount())

	// channel is closed after unsubscribe
	_, ok := <-sub.C
	require.False(t, ok)

	// publishing to an empty bus is a no-op
	bus.Publish(tick(1))
}

func TestPublishAfterUnsubscribeSkipsSubscriber(t *testing.T) {
	bus := NewBus()
	gone := bus.Subscribe()
	stay := bus.Subscribe()
	bus.Unsubscribe(gone)

	bus.Publish(tick(7))
	got := <-stay.C
	require.Equal(t, int64(7), got.Seq)
	bus.Unsubscribe(stay)
}
