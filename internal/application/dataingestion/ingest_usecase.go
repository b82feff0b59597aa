package dataingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"etf-fortune/internal/domain/dataingestion"

	"github.com/rs/zerolog/log"
)

// PriceSource 抽象化外部行情來源（FinMind 等）。
type PriceSource interface {
	FetchRange(ctx context.Context, symbol string, start, end time.Time) ([]dataingestion.DailyPrice, error)
}

// PriceRepository 定義儲存介面。
type PriceRepository interface {
	UpsertDailyPrice(ctx context.Context, price dataingestion.DailyPrice) error
}

// ErrInvalidRange 起訖日期缺漏或顛倒。
var ErrInvalidRange = errors.New("invalid date range")

// IngestUseCase 抓取行情並寫入；外部來源失敗或無資料時改用模擬資料。
type IngestUseCase struct {
	source    PriceSource
	repo      PriceRepository
	synthetic *SyntheticSource
}

// NewIngestUseCase source 可為 nil，此時一律使用模擬資料。
func NewIngestUseCase(source PriceSource, repo PriceRepository) *IngestUseCase {
	return &IngestUseCase{
		source:    source,
		repo:      repo,
		synthetic: NewSyntheticSource(),
	}
}

// IngestInput 控制一次資料抓取行為。
type IngestInput struct {
	Symbol         string
	Start          time.Time
	End            time.Time
	ForceSynthetic bool
}

type Failure struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

type IngestResult struct {
	DataSource   dataingestion.DataSource   `json:"data_source"`
	SuccessCount int                        `json:"success_count"`
	FailedCount  int                        `json:"failed_count"`
	Failures     []Failure                  `json:"failures,omitempty"`
	Prices       []dataingestion.DailyPrice `json:"-"`
}

// Execute 執行一次資料抓取與寫入。
func (u *IngestUseCase) Execute(ctx context.Context, input IngestInput) (IngestResult, error) {
	result := IngestResult{}

	if input.Start.IsZero() || input.End.IsZero() || input.End.Before(input.Start) {
		return result, ErrInvalidRange
	}
	symbol := strings.TrimSpace(input.Symbol)
	if symbol == "" {
		symbol = dataingestion.DefaultSymbol
	}

	prices, source := u.fetch(ctx, symbol, input)
	result.DataSource = source

	for _, p := range prices {
		if p.Source == "" {
			p.Source = source
		}
		if err := p.Validate(); err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, Failure{
				Date:   p.TradeDate.Format("2006-01-02"),
				Reason: err.Error(),
			})
			continue
		}

		if u.repo != nil {
			if err := u.repo.UpsertDailyPrice(ctx, p); err != nil {
				result.FailedCount++
				result.Failures = append(result.Failures, Failure{
					Date:   p.TradeDate.Format("2006-01-02"),
					Reason: fmt.Sprintf("store failed: %v", err),
				})
				continue
			}
		}

		result.SuccessCount++
		result.Prices = append(result.Prices, p)
	}

	log.Info().
		Str("symbol", symbol).
		Str("data_source", string(result.DataSource)).
		Int("success", result.SuccessCount).
		Int("failed", result.FailedCount).
		Msg("ingestion finished")
	return result, nil
}

func (u *IngestUseCase) fetch(ctx context.Context, symbol string, input IngestInput) ([]dataingestion.DailyPrice, dataingestion.DataSource) {
	if !input.ForceSynthetic && u.source != nil {
		prices, err := u.source.FetchRange(ctx, symbol, input.Start, input.End)
		if err == nil && len(prices) > 0 {
			return prices, dataingestion.SourceFinMind
		}
		ev := log.Warn().Str("symbol", symbol).Str("data_source", string(dataingestion.SourceSynthetic))
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg("price source unavailable, using synthetic data")
	}

	prices, _ := u.synthetic.FetchRange(ctx, symbol, input.Start, input.End)
	return prices, dataingestion.SourceSynthetic
}
