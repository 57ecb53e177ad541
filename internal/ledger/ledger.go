package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sami992010/ProBTC/internal/journal"
	"github.com/sami992010/ProBTC/internal/margin"
	"github.com/sami992010/ProBTC/internal/model"
	"github.com/sami992010/ProBTC/internal/types"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUserNotFound        = errors.New("user not found")
	ErrTradeNotFound       = errors.New("trade not found or already closed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotAdmin            = errors.New("admin access required")
	ErrUsernameTaken       = errors.New("username already exists")
)

// PriceSource supplies the current reference price. Snapshot must never
// return a half-written value to a concurrent caller.
type PriceSource interface {
	Snapshot() (decimal.Decimal, int64)
}

type Config struct {
	ContractSize    decimal.Decimal
	MarginRate      decimal.Decimal
	StartingBalance decimal.Decimal
}

// userEntry pairs a user record with the mutex that serializes every
// balance-affecting step for that user. reserved is the margin committed to
// the user's open trades; admission checks balance minus reserved, so
// concurrent opens can never jointly commit more margin than the balance
// covers. The balance itself only moves at settlement.
type userEntry struct {
	mu       sync.Mutex
	user     model.User
	reserved decimal.Decimal
}

// Ledger is the single in-process authority over users, balances and the
// trade lifecycle. Operations on different users proceed in parallel; the
// ledger-wide lock only guards map structure and id assignment.
type Ledger struct {
	feed    PriceSource
	journal journal.Journal
	cfg     Config

	mu          sync.RWMutex
	users       map[int64]*userEntry
	byName      map[string]int64
	trades      map[int64]*model.Trade
	byUser      map[int64][]int64
	nextUserID  int64
	nextTradeID int64
}

func New(feed PriceSource, jnl journal.Journal, cfg Config) *Ledger {
	return &Ledger{
		feed:    feed,
		journal: jnl,
		cfg:     cfg,
		users:   make(map[int64]*userEntry),
		byName:  make(map[string]int64),
		trades:  make(map[int64]*model.Trade),
		byUser:  make(map[int64][]int64),
	}
}

func (l *Ledger) CreateUser(username, passwordHash string, isAdmin bool) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return model.User{}, fmt.Errorf("%w: username and password required", ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.byName[username]; ok {
		return model.User{}, ErrUsernameTaken
	}
	l.nextUserID++
	u := model.User{
		ID:           l.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		Balance:      l.cfg.StartingBalance,
		CreatedAt:    time.Now().UTC(),
	}
	l.users[u.ID] = &userEntry{user: u}
	l.byName[username] = u.ID
	return u, nil
}

func (l *Ledger) UserByName(username string) (model.User, bool) {
	l.mu.RLock()
	id, ok := l.byName[strings.TrimSpace(username)]
	l.mu.RUnlock()
	if !ok {
		return model.User{}, false
	}
	u, err := l.User(id)
	return u, err == nil
}

func (l *Ledger) User(userID int64) (model.User, error) {
	entry := l.entry(userID)
	if entry == nil {
		return model.User{}, ErrUserNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.user, nil
}

func (l *Ledger) Balance(userID int64) (decimal.Decimal, error) {
	u, err := l.User(userID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return u.Balance, nil
}

// OpenTrade validates the request, snapshots the reference price, and admits
// the trade against the user's free margin as one atomic per-user step.
func (l *Ledger) OpenTrade(ctx context.Context, userID int64, symbol string, side types.TradeSide, size decimal.Decimal) (int64, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return 0, fmt.Errorf("%w: symbol is required", ErrInvalidInput)
	}
	if !side.Valid() {
		return 0, fmt.Errorf("%w: side must be buy or sell", ErrInvalidInput)
	}
	if !size.IsPositive() {
		return 0, fmt.Errorf("%w: size must be positive", ErrInvalidInput)
	}
	entry := l.entry(userID)
	if entry == nil {
		return 0, ErrUserNotFound
	}

	entry.mu.Lock()
	price, seq := l.feed.Snapshot()
	required := margin.Required(size, price, l.cfg.ContractSize, l.cfg.MarginRate)
	free := entry.user.Balance.Sub(entry.reserved)
	if free.LessThan(required) {
		entry.mu.Unlock()
		return 0, ErrInsufficientBalance
	}

	l.mu.Lock()
	l.nextTradeID++
	t := &model.Trade{
		ID:        l.nextTradeID,
		UserID:    userID,
		Symbol:    symbol,
		Side:      side,
		Size:      size,
		OpenPrice: price,
		Margin:    required,
		Status:    types.TradeStatusOpen,
		OpenedAt:  time.Now().UTC(),
	}
	l.trades[t.ID] = t
	l.byUser[userID] = append(l.byUser[userID], t.ID)
	l.mu.Unlock()

	entry.reserved = entry.reserved.Add(required)
	evt := journal.Event{
		Type:     journal.EventTradeOpened,
		TradeID:  t.ID,
		UserID:   userID,
		Symbol:   symbol,
		Side:     string(side),
		Size:     size,
		Price:    price,
		PriceSeq: seq,
		At:       t.OpenedAt,
	}
	entry.mu.Unlock()

	l.append(ctx, evt)
	return t.ID, nil
}

// CloseTrade settles the caller's own open trade.
func (l *Ledger) CloseTrade(ctx context.Context, userID, tradeID int64) (decimal.Decimal, error) {
	return l.close(ctx, tradeID, &userID)
}

// AdminCloseTrade settles any open trade. The admin capability is a boolean
// resolved by the caller; the ledger never inspects credentials.
func (l *Ledger) AdminCloseTrade(ctx context.Context, tradeID int64, callerIsAdmin bool) (decimal.Decimal, error) {
	if !callerIsAdmin {
		return decimal.Decimal{}, ErrNotAdmin
	}
	return l.close(ctx, tradeID, nil)
}

// close is the single settlement path. The status flip, closePrice,
// realizedPnL and balance update all happen under the owner's lock, so no
// reader ever sees a closed trade with the balance unapplied.
func (l *Ledger) close(ctx context.Context, tradeID int64, owner *int64) (decimal.Decimal, error) {
	l.mu.RLock()
	t := l.trades[tradeID]
	l.mu.RUnlock()
	if t == nil {
		return decimal.Decimal{}, ErrTradeNotFound
	}
	if owner != nil && t.UserID != *owner {
		return decimal.Decimal{}, ErrTradeNotFound
	}
	entry := l.entry(t.UserID)
	if entry == nil {
		return decimal.Decimal{}, ErrUserNotFound
	}

	entry.mu.Lock()
	if t.Status != types.TradeStatusOpen {
		entry.mu.Unlock()
		return decimal.Decimal{}, ErrTradeNotFound
	}
	price, seq := l.feed.Snapshot()
	pnl := margin.PnL(t.Side, t.OpenPrice, price, t.Size, l.cfg.ContractSize)
	now := time.Now().UTC()

	t.Status = types.TradeStatusClosed
	closePrice := price
	t.ClosePrice = &closePrice
	realized := pnl
	t.RealizedPnL = &realized
	t.ClosedAt = &now
	entry.user.Balance = entry.user.Balance.Add(pnl)
	entry.reserved = entry.reserved.Sub(t.Margin)

	evt := journal.Event{
		Type:     journal.EventTradeClosed,
		TradeID:  t.ID,
		UserID:   t.UserID,
		Symbol:   t.Symbol,
		Side:     string(t.Side),
		Size:     t.Size,
		Price:    price,
		PriceSeq: seq,
		PnL:      pnl,
		At:       now,
	}
	entry.mu.Unlock()

	l.append(ctx, evt)
	return pnl, nil
}

// Trades lists the user's trades in creation order. Unknown users get nil.
func (l *Ledger) Trades(userID int64) []model.Trade {
	l.mu.RLock()
	ids := append([]int64(nil), l.byUser[userID]...)
	ptrs := make([]*model.Trade, 0, len(ids))
	for _, id := range ids {
		ptrs = append(ptrs, l.trades[id])
	}
	entry := l.users[userID]
	l.mu.RUnlock()
	if entry == nil {
		return nil
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	out := make([]model.Trade, 0, len(ptrs))
	for _, t := range ptrs {
		out = append(out, *t)
	}
	return out
}

// Users returns a snapshot of every registered user, ordered by id.
func (l *Ledger) Users() []model.User {
	l.mu.RLock()
	entries := make([]*userEntry, 0, len(l.users))
	for _, e := range l.users {
		entries = append(entries, e)
	}
	l.mu.RUnlock()
	out := make([]model.User, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.user)
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllTrades returns a snapshot of every trade, ordered by id.
func (l *Ledger) AllTrades() []model.Trade {
	l.mu.RLock()
	userIDs := make([]int64, 0, len(l.byUser))
	for id := range l.byUser {
		userIDs = append(userIDs, id)
	}
	l.mu.RUnlock()
	var out []model.Trade
	for _, uid := range userIDs {
		out = append(out, l.Trades(uid)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (l *Ledger) entry(userID int64) *userEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.users[userID]
}

// append records the event outside any ledger lock. The in-memory state is
// authoritative; a journal failure is logged and never unwinds settlement.
func (l *Ledger) append(ctx context.Context, evt journal.Event) {
	if err := l.journal.Append(ctx, evt); err != nil {
		log.Printf("[ledger] journal append failed: %v", err)
	}
}
