package pricefeed

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/sami992010/ProBTC/internal/marketdata"
	"github.com/sami992010/ProBTC/internal/model"

	"github.com/shopspring/decimal"
)

const pricePrecision = 5

// Feed owns the reference price. A single background loop advances it on a
// fixed interval; any number of readers take consistent snapshots without
// ever observing a half-written value.
type Feed struct {
	interval time.Duration
	step     float64 // max perturbation magnitude per tick

	mu    sync.RWMutex
	price decimal.Decimal
	seq   int64
}

func New(start decimal.Decimal, interval time.Duration) *Feed {
	return &Feed{
		interval: interval,
		step:     0.0005,
		price:    start.Round(pricePrecision),
	}
}

// Snapshot returns the latest published price and its sequence number.
func (f *Feed) Snapshot() (decimal.Decimal, int64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.price, f.seq
}

// tick draws a uniform perturbation in [-step, +step], applies it, rounds to
// the feed precision and publishes the new value. The price never goes
// non-positive; a perturbation that would cross zero is skipped and the
// previous value is re-published under a new sequence number.
func (f *Feed) tick() model.PriceTick {
	change := (rand.Float64() - 0.5) * 2 * f.step

	f.mu.Lock()
	next := f.price.Add(decimal.NewFromFloat(change)).Round(pricePrecision)
	if next.IsPositive() {
		f.price = next
	}
	f.seq++
	out := model.PriceTick{Price: f.price, Seq: f.seq, TS: time.Now().UTC().UnixMilli()}
	f.mu.Unlock()
	return out
}

// Run advances the price every interval and publishes each tick to the bus
// until ctx is cancelled. It never blocks on subscribers.
func (f *Feed) Run(ctx context.Context, bus *marketdata.Bus) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	log.Printf("[pricefeed] running, interval=%s", f.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[pricefeed] stopped")
			return
		case <-ticker.C:
			bus.Publish(f.tick())
		}
	}
}
