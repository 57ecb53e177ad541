package margin

import (
	"testing"

	"github.com/sami992010/ProBTC/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRequired(t *testing.T) {
	// size=1, price=1.10000, contract=100000, rate=0.01 -> 1100
	got := Required(d("1"), d("1.10000"), d("100000"), d("0.01"))
	require.True(t, got.Equal(d("1100")), "got %s", got)

	got = Required(d("0.5"), d("1.20000"), d("100000"), d("0.01"))
	require.True(t, got.Equal(d("600")), "got %s", got)
}

func TestPnL(t *testing.T) {
	tests := []struct {
		name  string
		side  types.TradeSide
		open  string
		close string
		size  string
		want  string
	}{
		{"BuyGain", types.TradeSideBuy, "1.10000", "1.10050", "1", "50"},
		{"BuyLoss", types.TradeSideBuy, "1.10000", "1.09900", "1", "-100"},
		{"SellLoss", types.TradeSideSell, "1.10000", "1.10100", "1", "-100"},
		{"SellGain", types.TradeSideSell, "1.10000", "1.09950", "1", "50"},
		{"Flat", types.TradeSideBuy, "1.10000", "1.10000", "2", "0"},
		{"SizeScales", types.TradeSideBuy, "1.10000", "1.10050", "3", "150"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PnL(tt.side, d(tt.open), d(tt.close), d(tt.size), d("100000"))
			require.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestDeterminism(t *testing.T) {
	for i := 0; i < 100; i++ {
		require.True(t, Required(d("2"), d("1.23456"), d("100000"), d("0.01")).
			Equal(Required(d("2"), d("1.23456"), d("100000"), d("0.01"))))
		require.True(t, PnL(types.TradeSideSell, d("1.1"), d("1.2"), d("1"), d("100000")).
			Equal(PnL(types.TradeSideSell, d("1.1"), d("1.2"), d("1"), d("100000"))))
	}
}
