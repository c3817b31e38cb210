package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SolSignal/internal/domain/models"
	domrepo "SolSignal/internal/domain/repository"
	pkgch "SolSignal/pkg/clickhouse"
	applogger "SolSignal/pkg/logger"
)

// CHBarStore implements BarStore backed by ClickHouse. Only raw OHLCV is
// persisted; indicators are recomputed on read by the features package.
type CHBarStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client, table string) *CHBarStore {
	return &CHBarStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHBarStore) Init(ctx context.Context) error {
	stmt := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            symbol String,
            d      Date,
            open   Float64,
            high   Float64,
            low    Float64,
            close  Float64,
            vol    Float64
        ) ENGINE = ReplacingMergeTree ORDER BY (symbol, d)
    `, s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("init bars table: %w", err)
	}
	return nil
}

// InsertBars upserts daily bars. ReplacingMergeTree deduplicates re-synced
// days on merge, so repeated syncs of the same range are safe.
func (s *CHBarStore) InsertBars(ctx context.Context, symbol string, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	q := fmt.Sprintf("INSERT INTO %s (symbol, d, open, high, low, close, vol) VALUES (?, ?, ?, ?, ?, ?, ?)", s.table)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			_ = tx.Rollback()
			if s.l != nil {
				s.l.Error("clickhouse insert bar error",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("insert bar: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

// GetBars returns the most recent limit bars in date-ascending order.
// FINAL collapses ReplacingMergeTree duplicates at read time.
func (s *CHBarStore) GetBars(ctx context.Context, symbol string, limit int) ([]models.PriceBar, error) {
	q := fmt.Sprintf(`
        SELECT symbol, d, open, high, low, close, vol
        FROM %s FINAL
        WHERE symbol = ?
        ORDER BY d DESC
        LIMIT ?
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_bars query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.PriceBar, 0, limit)
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	// query is newest-first for the LIMIT; flip back to ascending
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// LastDate returns the unix time of the newest stored bar, 0 when empty.
func (s *CHBarStore) LastDate(ctx context.Context, symbol string) (int64, error) {
	q := fmt.Sprintf("SELECT max(d) FROM %s WHERE symbol = ?", s.table)
	var d time.Time
	if err := s.db.QueryRowContext(ctx, q, symbol).Scan(&d); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("last date: %w", err)
	}
	if d.IsZero() || d.Unix() < 0 {
		return 0, nil
	}
	return d.Unix(), nil
}

func (s *CHBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHBarStore) Close() error { return nil }

var _ domrepo.BarStore = (*CHBarStore)(nil)
