package model

import (
	"time"

	"github.com/sami992010/ProBTC/internal/types"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64           `json:"id"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"`
	IsAdmin      bool            `json:"is_admin"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
}

type Trade struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Symbol      string            `json:"symbol"`
	Side        types.TradeSide   `json:"side"`
	Size        decimal.Decimal   `json:"size"`
	OpenPrice   decimal.Decimal   `json:"open_price"`
	Margin      decimal.Decimal   `json:"margin"`
	Status      types.TradeStatus `json:"status"`
	ClosePrice  *decimal.Decimal  `json:"close_price,omitempty"`
	RealizedPnL *decimal.Decimal  `json:"realized_pnl,omitempty"`
	OpenedAt    time.Time         `json:"opened_at"`
	ClosedAt    *time.Time        `json:"closed_at,omitempty"`
}

// PriceTick is one published update of the reference price. Seq is strictly
// increasing over the life of the feed.
type PriceTick struct {
	Price decimal.Decimal `json:"price"`
	Seq   int64           `json:"seq"`
	TS    int64           `json:"ts"`
}
