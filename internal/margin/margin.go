// Package margin holds the pure calculation rules for margin admission and
// realized profit/loss. Both functions are deterministic over their inputs;
// settlement audit depends on that.
package margin

import (
	"github.com/sami992010/ProBTC/internal/types"

	"github.com/shopspring/decimal"
)

// Required returns the collateral needed to open a position:
// size * price * contractSize * marginRate.
func Required(size, price, contractSize, marginRate decimal.Decimal) decimal.Decimal {
	return size.Mul(price).Mul(contractSize).Mul(marginRate)
}

// PnL returns the realized profit or loss for a position opened at openPrice
// and closed at closePrice. The price difference is inverted for sells.
func PnL(side types.TradeSide, openPrice, closePrice, size, contractSize decimal.Decimal) decimal.Decimal {
	diff := closePrice.Sub(openPrice)
	if side == types.TradeSideSell {
		diff = diff.Neg()
	}
	return diff.Mul(size).Mul(contractSize)
}
