package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"etf-fortune/internal/application/almanac"
	appauth "etf-fortune/internal/application/auth"
	appingest "etf-fortune/internal/application/dataingestion"
	"etf-fortune/internal/application/digest"
	"etf-fortune/internal/application/disclaimer"
	appfortune "etf-fortune/internal/application/fortune"
	"etf-fortune/internal/application/market"
	"etf-fortune/internal/application/pricequery"
	"etf-fortune/internal/application/profile"
	authDomain "etf-fortune/internal/domain/auth"
	"etf-fortune/internal/domain/fortune"
	"etf-fortune/internal/infra/memory"
	"etf-fortune/internal/infrastructure/cache"
	"etf-fortune/internal/infrastructure/config"
	"etf-fortune/internal/infrastructure/db"
	"etf-fortune/internal/infrastructure/external/finmind"
	"etf-fortune/internal/infrastructure/lunar"
	"etf-fortune/internal/infrastructure/notify"
	"etf-fortune/internal/infrastructure/persistence/postgres"
	"etf-fortune/internal/infrastructure/scheduler"
	httpapi "etf-fortune/internal/interface/http"

	"github.com/rs/zerolog"
	"github.com/valkey-io/valkey-go"
)

// storage 為 Postgres 或記憶體兩種後端共用的介面組合。
type storage struct {
	users    appauth.UserRepository
	sessions authDomain.SessionStore
	profiles profile.Repository
	prices   interface {
		appingest.PriceRepository
		pricequery.PriceReader
	}
	acks disclaimer.AckRepository
}

type app struct {
	cfg    config.Config
	log    zerolog.Logger
	db     *sql.DB
	valkey valkey.Client
	sched  *scheduler.Scheduler

	engine *appfortune.Engine
	ingest *appingest.IngestUseCase
	server *httpapi.Server
}

// newApp 組裝所有相依；未設定 DB_DSN 或連線失敗時改用記憶體儲存。
func newApp(ctx context.Context, cfg config.Config, l zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: l}

	store, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	var priceCache pricequery.SeriesCache = cache.NewMemoryCache()
	priceBackend := "memory"
	if cfg.Valkey.Enabled() {
		addr := cfg.Valkey.URL
		if addr == "" {
			addr = cfg.Valkey.Addr
		}
		client, err := cache.NewValkeyClient(ctx, addr)
		if err != nil {
			l.Warn().Err(err).Msg("valkey unavailable, using in-memory price cache")
		} else {
			a.valkey = client
			priceCache = cache.NewValkeyCache(client, "etf-fortune:")
			priceBackend = "valkey"
		}
	}

	var source appingest.PriceSource
	if !cfg.Ingestion.UseSynthetic {
		source = finmind.NewClient(cfg.FinMind.BaseURL, cfg.FinMind.Token, cfg.FinMind.Timeout)
	}
	a.ingest = appingest.NewIngestUseCase(source, store.prices)

	cal := lunar.NewCalendar()
	a.engine = appfortune.NewEngine(cal, appfortune.WithCacheCapacity(cfg.Fortune.CacheCapacity))

	a.server = httpapi.NewServer(cfg, httpapi.Deps{
		DB:           a.db,
		Users:        store.users,
		Sessions:     store.sessions,
		Engine:       a.engine,
		Almanac:      almanac.NewService(cal),
		Profiles:     profile.NewService(store.profiles),
		Prices:       pricequery.NewService(priceCache, store.prices, a.ingest, cfg.Valkey.PriceTTL),
		Ingest:       a.ingest,
		Disclaimers:  disclaimer.NewService(store.acks),
		PriceBackend: priceBackend,
		Logger:       l,
	})
	a.sched = scheduler.New(l, market.Location())
	return a, nil
}

func (a *app) openStorage(ctx context.Context) (storage, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := db.Connect(connectCtx, a.cfg.DB)
	switch {
	case err != nil:
		a.log.Warn().Err(err).Msg("database connection failed, falling back to in-memory store")
	case pool == nil:
		a.log.Info().Msg("no DB_DSN provided; running with in-memory store only")
	default:
		a.db = pool
		authRepo := postgres.NewAuthRepo(pool)
		if err := authRepo.SeedDefaults(ctx); err != nil {
			pool.Close()
			return storage{}, fmt.Errorf("seed default users: %w", err)
		}
		a.log.Info().Msg("database connected")
		return storage{
			users:    authRepo,
			sessions: authRepo,
			profiles: postgres.NewProfileRepo(pool),
			prices:   postgres.NewRepo(pool),
			acks:     postgres.NewAckRepo(pool),
		}, nil
	}

	mem := memory.NewStore()
	if err := mem.SeedUsers(); err != nil {
		return storage{}, fmt.Errorf("seed memory users: %w", err)
	}
	return storage{users: mem, sessions: mem, profiles: mem, prices: mem, acks: mem}, nil
}

// startJobs 註冊排程：收盤後抓取日 K，啟用 Telegram 時推送每日運勢。
func (a *app) startJobs() error {
	job := scheduler.NewIngestDailyJob(a.ingest, a.cfg.Fortune.DefaultSymbol, a.cfg.Ingestion.LookbackDays)
	if err := a.sched.AddJob(a.cfg.Ingestion.Cron, job); err != nil {
		return err
	}

	tg := a.cfg.Notifier.Telegram
	if tg.Enabled && tg.Token != "" && tg.ChatID != 0 {
		p := fortune.UserProfile{
			Name:      tg.Profile.Name,
			BirthDate: tg.Profile.BirthDate,
			BirthTime: tg.Profile.BirthTime,
			Zodiac:    fortune.Zodiac(tg.Profile.Zodiac),
		}
		if err := p.Validate(time.Now()); err != nil {
			return fmt.Errorf("telegram digest profile: %w", err)
		}
		client := notify.NewTelegramClient(tg.Token, tg.ChatID, "0050 運勢")
		if err := a.sched.AddJob(tg.Cron, scheduler.NewDigestJob(digest.New(a.engine, client, p.Normalized()))); err != nil {
			return err
		}
	}

	a.sched.Start()
	a.log.Info().Int("jobs", a.sched.Entries()).Msg("scheduled jobs registered")
	return nil
}

func (a *app) Close() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.valkey != nil {
		a.valkey.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
