package pricequery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	appingest "etf-fortune/internal/application/dataingestion"
	"etf-fortune/internal/application/market"
	"etf-fortune/internal/domain/dataingestion"

	"github.com/rs/zerolog/log"
)

// DefaultTTL 價格序列快取的預設存活時間。
const DefaultTTL = 5 * time.Minute

const dateLayout = "2006-01-02"

// DefaultLookbackDays Summary 預設回看天數。
const DefaultLookbackDays = 90

// SeriesCache 依 key 存放價格序列並在 ttl 後失效。
type SeriesCache interface {
	Get(ctx context.Context, key string) ([]dataingestion.DailyPrice, bool, error)
	Set(ctx context.Context, key string, prices []dataingestion.DailyPrice, ttl time.Duration) error
}

// PriceReader 讀取已儲存的日 K。
type PriceReader interface {
	ListDailyPrices(ctx context.Context, symbol string, start, end time.Time) ([]dataingestion.DailyPrice, error)
}

// Ingestor 於儲存層沒有資料時即時抓取。
type Ingestor interface {
	Execute(ctx context.Context, input appingest.IngestInput) (appingest.IngestResult, error)
}

// Service 依序查詢快取、資料庫與外部來源。
type Service struct {
	cache    SeriesCache
	repo     PriceReader
	ingestor Ingestor
	ttl      time.Duration
	now      func() time.Time
}

func NewService(cache SeriesCache, repo PriceReader, ingestor Ingestor, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{cache: cache, repo: repo, ingestor: ingestor, ttl: ttl, now: time.Now}
}

// Series 回傳 [start, end] 的日 K，依日期由舊到新排序。
func (s *Service) Series(ctx context.Context, symbol string, start, end time.Time) ([]dataingestion.DailyPrice, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = dataingestion.DefaultSymbol
	}
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, appingest.ErrInvalidRange
	}
	key := cacheKey(symbol, start, end)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("price cache get failed")
		} else if ok {
			return cached, nil
		}
	}

	prices, err := s.load(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].TradeDate.Before(prices[j].TradeDate) })

	if s.cache != nil && len(prices) > 0 {
		if err := s.cache.Set(ctx, key, prices, s.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("price cache set failed")
		}
	}
	return prices, nil
}

func (s *Service) load(ctx context.Context, symbol string, start, end time.Time) ([]dataingestion.DailyPrice, error) {
	var stored []dataingestion.DailyPrice
	if s.repo != nil {
		rows, err := s.repo.ListDailyPrices(ctx, symbol, start, end)
		if err != nil {
			return nil, fmt.Errorf("list prices: %w", err)
		}
		stored = rows
	}
	if s.ingestor == nil {
		return stored, nil
	}
	if len(stored) == 0 {
		res, err := s.ingestor.Execute(ctx, appingest.IngestInput{Symbol: symbol, Start: start, End: end})
		if err != nil {
			return nil, fmt.Errorf("ingest prices: %w", err)
		}
		return res.Prices, nil
	}

	var fetched []dataingestion.DailyPrice
	for _, gap := range s.missingRanges(stored, start, end) {
		res, err := s.ingestor.Execute(ctx, appingest.IngestInput{Symbol: symbol, Start: gap[0], End: gap[1]})
		if err != nil {
			log.Warn().Err(err).
				Str("symbol", symbol).
				Str("start", gap[0].Format(dateLayout)).
				Str("end", gap[1].Format(dateLayout)).
				Msg("fill price gap failed, using stored rows")
			continue
		}
		fetched = append(fetched, res.Prices...)
	}
	return mergeByDate(stored, fetched), nil
}

// missingRanges 以區間內第一個交易日與最後一個已收盤交易日檢查儲存資料是否完整，
// 回傳需要補抓的頭尾區段。
func (s *Service) missingRanges(stored []dataingestion.DailyPrice, start, end time.Time) [][2]time.Time {
	first, last := civil(stored[0].TradeDate), civil(stored[0].TradeDate)
	for _, p := range stored[1:] {
		d := civil(p.TradeDate)
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	from, to := civil(start), civil(end)
	// 當日行情可能尚未產生
	if today := civil(s.now().In(market.Location())); !to.Before(today) {
		to = today.AddDate(0, 0, -1)
	}

	var gaps [][2]time.Time
	if want, ok := firstTradingDay(from, to); ok && first.After(want) {
		gaps = append(gaps, [2]time.Time{from, first.AddDate(0, 0, -1)})
	}
	if want, ok := lastTradingDay(from, to); ok && last.Before(want) {
		gaps = append(gaps, [2]time.Time{last.AddDate(0, 0, 1), civil(end)})
	}
	return gaps
}

func firstTradingDay(from, to time.Time) (time.Time, bool) {
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if market.IsTradingDay(d) {
			return d, true
		}
	}
	return time.Time{}, false
}

func lastTradingDay(from, to time.Time) (time.Time, bool) {
	for d := to; !d.Before(from); d = d.AddDate(0, 0, -1) {
		if market.IsTradingDay(d) {
			return d, true
		}
	}
	return time.Time{}, false
}

// mergeByDate 同一交易日以已儲存的資料為準。
func mergeByDate(stored, fetched []dataingestion.DailyPrice) []dataingestion.DailyPrice {
	seen := make(map[string]bool, len(stored)+len(fetched))
	out := make([]dataingestion.DailyPrice, 0, len(stored)+len(fetched))
	for _, group := range [][]dataingestion.DailyPrice{stored, fetched} {
		for _, p := range group {
			key := civil(p.TradeDate).Format(dateLayout)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}

// civil 取 t 在自身時區的年月日，以 UTC 零時表示。
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Summary 最新價格與技術指標。
type Summary struct {
	Symbol        string                   `json:"symbol"`
	Date          string                   `json:"date"`
	Close         float64                  `json:"close"`
	Change        float64                  `json:"change"`
	ChangePercent float64                  `json:"change_percent"`
	Volume        int64                    `json:"volume"`
	DataSource    dataingestion.DataSource `json:"data_source"`
	Points        int                      `json:"points"`
	Indicators    Indicators               `json:"indicators"`
}

// ErrNoPrices 區間內沒有任何價格。
var ErrNoPrices = errors.New("no price data")

// Summary 以最近 lookbackDays 天的資料計算摘要；lookbackDays <= 0 使用預設值。
func (s *Service) Summary(ctx context.Context, symbol string, lookbackDays int) (Summary, error) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	end := s.now()
	start := end.AddDate(0, 0, -lookbackDays)
	prices, err := s.Series(ctx, symbol, start, end)
	if err != nil {
		return Summary{}, err
	}
	if len(prices) == 0 {
		return Summary{}, ErrNoPrices
	}

	closes := make([]float64, len(prices))
	for i, p := range prices {
		closes[i] = p.Close
	}
	latest := prices[len(prices)-1]
	return Summary{
		Symbol:        latest.Symbol,
		Date:          latest.TradeDate.Format(dateLayout),
		Close:         latest.Close,
		Change:        latest.Change,
		ChangePercent: latest.ChangePercent,
		Volume:        latest.Volume,
		DataSource:    latest.Source,
		Points:        len(prices),
		Indicators:    ComputeIndicators(closes),
	}, nil
}

func cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("prices:%s:%s:%s", symbol, start.Format("20060102"), end.Format("20060102"))
}
