package journal

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
create table if not exists trade_events (
	id bigserial primary key,
	event_type text not null,
	trade_id bigint not null,
	user_id bigint not null,
	symbol text not null,
	side text not null,
	size numeric not null,
	price numeric not null,
	price_seq bigint not null,
	pnl numeric not null,
	created_at timestamptz not null
)`

// PGJournal appends trade events to Postgres.
type PGJournal struct {
	pool *pgxpool.Pool
}

func NewPGJournal(ctx context.Context, dsn string) (*PGJournal, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}
	return &PGJournal{pool: pool}, nil
}

func (j *PGJournal) Append(ctx context.Context, evt Event) error {
	_, err := j.pool.Exec(ctx, "insert into trade_events (event_type, trade_id, user_id, symbol, side, size, price, price_seq, pnl, created_at) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)",
		string(evt.Type), evt.TradeID, evt.UserID, evt.Symbol, evt.Side, evt.Size, evt.Price, evt.PriceSeq, evt.PnL, evt.At)
	return err
}

func (j *PGJournal) Load(ctx context.Context) ([]Event, error) {
	rows, err := j.pool.Query(ctx, "select event_type, trade_id, user_id, symbol, side, size, price, price_seq, pnl, created_at from trade_events order by id asc")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var evt Event
		var typ string
		if err := rows.Scan(&typ, &evt.TradeID, &evt.UserID, &evt.Symbol, &evt.Side, &evt.Size, &evt.Price, &evt.PriceSeq, &evt.PnL, &evt.At); err != nil {
			return nil, err
		}
		evt.Type = EventType(typ)
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (j *PGJournal) Close() {
	j.pool.Close()
}
