package db

import (
	"context"
	"database/sql"
	"time"

	"etf-fortune/internal/infrastructure/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const pingTimeout = 5 * time.Second

// Connect 建立 PostgreSQL 連線池；若未設定 DSN 則回傳 nil，由呼叫端改用記憶體儲存。
func Connect(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, nil
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.MaxIdleTime)

	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Health 健康檢查回報的連線池狀態。
type Health struct {
	Status          string `json:"status"`
	Error           string `json:"error,omitempty"`
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
	Idle            int    `json:"idle"`
}

// Check 以 ping 檢查資料庫；db 為 nil 表示使用記憶體儲存。
func Check(ctx context.Context, db *sql.DB) Health {
	if db == nil {
		return Health{Status: "memory"}
	}
	stats := db.Stats()
	h := Health{
		Status:          "ok",
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
	}
	if err := ping(ctx, db); err != nil {
		h.Status = "error"
		h.Error = err.Error()
	}
	return h
}

func ping(ctx context.Context, db *sql.DB) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pingTimeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}
