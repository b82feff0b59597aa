package postgres

import (
	"context"
	"database/sql"
	"time"

	dataDomain "etf-fortune/internal/domain/dataingestion"
)

// Repo 提供 ETF 日 K 的 Postgres 存取。
type Repo struct {
	db *sql.DB
}

// NewRepo 建立 Postgres 資料存取實例。
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// UpsertDailyPrice 以 symbol + trade_date 為唯一鍵寫入或更新單日日 K。
func (r *Repo) UpsertDailyPrice(ctx context.Context, price dataDomain.DailyPrice) error {
	const q = `
INSERT INTO etf_daily_prices (symbol, market, trade_date, open_price, high_price, low_price, close_price, volume, change, change_percent, source)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (symbol, trade_date)
DO UPDATE SET open_price = EXCLUDED.open_price,
              high_price = EXCLUDED.high_price,
              low_price = EXCLUDED.low_price,
              close_price = EXCLUDED.close_price,
              volume = EXCLUDED.volume,
              change = EXCLUDED.change,
              change_percent = EXCLUDED.change_percent,
              source = EXCLUDED.source,
              updated_at = NOW();
`
	_, err := r.db.ExecContext(ctx, q,
		price.Symbol,
		string(price.Market),
		price.TradeDate,
		price.Open,
		price.High,
		price.Low,
		price.Close,
		price.Volume,
		price.Change,
		price.ChangePercent,
		string(price.Source),
	)
	return err
}

// ListDailyPrices 取區間內日 K（遞增日期，含首尾）。
func (r *Repo) ListDailyPrices(ctx context.Context, symbol string, start, end time.Time) ([]dataDomain.DailyPrice, error) {
	const q = `
SELECT symbol, market, trade_date, open_price, high_price, low_price, close_price, volume, change, change_percent, source
FROM etf_daily_prices
WHERE symbol = $1 AND trade_date BETWEEN $2 AND $3
ORDER BY trade_date;
`
	rows, err := r.db.QueryContext(ctx, q, symbol, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dataDomain.DailyPrice
	for rows.Next() {
		var p dataDomain.DailyPrice
		var market, source string
		if err := rows.Scan(&p.Symbol, &market, &p.TradeDate, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &p.Change, &p.ChangePercent, &source); err != nil {
			return nil, err
		}
		p.Market = dataDomain.Market(market)
		p.Source = dataDomain.DataSource(source)
		out = append(out, p)
	}
	return out, rows.Err()
}
