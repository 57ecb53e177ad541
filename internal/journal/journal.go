package journal

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventTradeOpened EventType = "trade_opened"
	EventTradeClosed EventType = "trade_closed"
)

// Event is one settlement-relevant fact emitted by the ledger. The ledger
// remains the in-process authority; the journal is an append-only record a
// later process could replay.
type Event struct {
	Type     EventType
	TradeID  int64
	UserID   int64
	Symbol   string
	Side     string
	Size     decimal.Decimal
	Price    decimal.Decimal
	PriceSeq int64
	PnL      decimal.Decimal
	At       time.Time
}

type Journal interface {
	Append(ctx context.Context, evt Event) error
	Load(ctx context.Context) ([]Event, error)
}

// Disabled is the no-op journal used when no database is configured.
type Disabled struct{}

func NewDisabled() *Disabled {
	return &Disabled{}
}

func (*Disabled) Append(ctx context.Context, evt Event) error {
	return nil
}

func (*Disabled) Load(ctx context.Context) ([]Event, error) {
	return nil, nil
}
