package pricefeed

import (
	"context"
	"testing"
	"time"

	"github.com/sami992010/ProBTC/internal/marketdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSnapshotInitial(t *testing.T) {
	f := New(decimal.RequireFromString("1.1000"), time.Second)
	price, seq := f.Snapshot()
	require.True(t, price.Equal(decimal.RequireFromString("1.1000")))
	require.Equal(t, int64(0), seq)
}

func TestTickAdvances(t *testing.T) {
	f := New(decimal.RequireFromString("1.1000"), time.Second)
	prevPrice, prevSeq := f.Snapshot()
	for i := 0; i < 1000; i++ {
		out := f.tick()
		require.Equal(t, prevSeq+1, out.Seq)
		require.True(t, out.Price.IsPositive())
		// bounded perturbation, rounded to 5 decimal places
		require.True(t, out.Price.Sub(prevPrice).Abs().LessThanOrEqual(decimal.RequireFromString("0.0005")))
		require.True(t, out.Price.Equal(out.Price.Round(5)))

		price, seq := f.Snapshot()
		require.True(t, price.Equal(out.Price))
		require.Equal(t, out.Seq, seq)
		prevPrice, prevSeq = out.Price, out.Seq
	}
}

func TestPriceStaysPositive(t *testing.T) {
	// start near zero so perturbations would cross it
	f := New(decimal.RequireFromString("0.00010"), time.Second)
	for i := 0; i < 1000; i++ {
		out := f.tick()
		require.True(t, out.Price.IsPositive(), "tick %d produced %s", i, out.Price)
	}
}

func TestRunPublishesAndStops(t *testing.T) {
	f := New(decimal.RequireFromString("1.1000"), 5*time.Millisecond)
	bus := marketdata.NewBus()
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		f.Run(ctx, bus)
		close(stopped)
	}()

	var prev int64
	for i := 0; i < 5; i++ {
		select {
		case tick := <-sub.C:
			require.Greater(t, tick.Seq, prev)
			prev = tick.Seq
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for tick")
		}
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("feed loop did not stop on cancellation")
	}
}
