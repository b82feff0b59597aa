package main

import (
	"database/sql"
	"flag"
	"os"
	"path/filepath"
	"sort"

	"etf-fortune/internal/infrastructure/config"
	"etf-fortune/internal/infrastructure/logger"

	_ "github.com/lib/pq"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	migrationsPath := flag.String("dir", "db/migrations", "path to migrations directory")
	flag.Parse()

	cfg, err := config.LoadFromFile(*cfgPath)
	l := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: true})
	if err != nil {
		l.Fatal().Err(err).Msg("讀取組態失敗")
	}

	if cfg.DB.DSN == "" {
		l.Fatal().Msg("config.db.dsn 未設定，無法執行 migration")
	}

	absDir, err := filepath.Abs(*migrationsPath)
	if err != nil {
		l.Fatal().Err(err).Msg("解析 migrations 路徑失敗")
	}
	files, err := filepath.Glob(filepath.Join(absDir, "*.sql"))
	if err != nil {
		l.Fatal().Err(err).Msg("讀取 migrations 失敗")
	}
	if len(files) == 0 {
		l.Fatal().Str("dir", absDir).Msg("找不到任何 .sql migration 檔案")
	}
	sort.Strings(files)

	db, err := sql.Open("postgres", cfg.DB.DSN)
	if err != nil {
		l.Fatal().Err(err).Msg("連線資料庫失敗")
	}
	defer db.Close()

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			l.Fatal().Err(err).Str("file", f).Msg("讀取檔案失敗")
		}
		l.Info().Str("file", filepath.Base(f)).Msg("執行 migration")
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			l.Fatal().Err(err).Str("file", filepath.Base(f)).Msg("執行 migration 失敗")
		}
	}
	l.Info().Int("files", len(files)).Msg("migration 完成")
}
