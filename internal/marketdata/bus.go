package marketdata

import (
	"sync"
	"sync/atomic"

	"github.com/sami992010/ProBTC/internal/model"
)

const subscriberBuffer = 100

// Subscription is one registered consumer of price ticks. Ticks arrive on C
// in production order. A consumer that stops draining has its oldest buffered
// ticks dropped; the producer never waits for it.
type Subscription struct {
	C       chan model.PriceTick
	dropped int64
}

// Dropped reports how many ticks were discarded because the subscriber's
// buffer was full.
func (s *Subscription) Dropped() int64 {
	return atomic.LoadInt64(&s.dropped)
}

type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

func (b *Bus) Subscribe() *Subscription {
	sub := &Subscription{C: make(chan model.PriceTick, subscriberBuffer)}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes the subscription and closes its channel. Safe to call
// more than once.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.C)
	}
	b.mu.Unlock()
}

// Publish delivers tick to every subscriber without blocking. A full buffer
// loses its oldest tick to make room, so a stalled consumer only ever hurts
// itself.
func (b *Bus) Publish(tick model.PriceTick) {
	b.mu.RLock()
	for sub := range b.subs {
		select {
		case sub.C <- tick:
		default:
			select {
			case <-sub.C:
				atomic.AddInt64(&sub.dropped, 1)
			default:
			}
			select {
			case sub.C <- tick:
			default:
				atomic.AddInt64(&sub.dropped, 1)
			}
		}
	}
	b.mu.RUnlock()
}

func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
