package dataingestion

import (
	"errors"
	"fmt"
	"time"
)

// Market 列舉支援的市場別。
type Market string

const (
	MarketTWSE Market = "TWSE"
	MarketTPEx Market = "TPEx"
)

// DataSource 標示價格資料的來源。
type DataSource string

const (
	SourceFinMind   DataSource = "finmind"
	SourceSynthetic DataSource = "synthetic"
	SourceDatabase  DataSource = "database"
)

// DefaultSymbol 元大台灣50。
const DefaultSymbol = "0050"

// DailyPrice 描述 ETF 單日的 OHLC 與成交量。
type DailyPrice struct {
	Symbol        string     `json:"symbol" msgpack:"symbol"`
	Market        Market     `json:"market" msgpack:"market"`
	TradeDate     time.Time  `json:"date" msgpack:"date"`
	Open          float64    `json:"open" msgpack:"open"`
	High          float64    `json:"high" msgpack:"high"`
	Low           float64    `json:"low" msgpack:"low"`
	Close         float64    `json:"close" msgpack:"close"`
	Volume        int64      `json:"volume" msgpack:"volume"` // 成交量（股）
	Change        float64    `json:"change" msgpack:"change"`
	ChangePercent float64    `json:"change_percent" msgpack:"change_percent"`
	Source        DataSource `json:"source" msgpack:"source"`
}

// ValidationError 收集多個驗證失敗原因。
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("daily price validation failed: %v", e.Reasons)
}

// Validate 檢查欄位是否符合基本完整性條件。
func (p DailyPrice) Validate() error {
	var reasons []string

	if p.Symbol == "" {
		reasons = append(reasons, "symbol is required")
	}

	if p.TradeDate.IsZero() {
		reasons = append(reasons, "trade_date is required")
	}

	switch p.Market {
	case MarketTWSE, MarketTPEx:
	default:
		reasons = append(reasons, "unsupported market")
	}

	if p.Open <= 0 || p.High <= 0 || p.Low <= 0 || p.Close <= 0 {
		reasons = append(reasons, "price fields must be > 0")
	}

	if p.High < maxFloat64(p.Open, p.Close, p.Low) {
		reasons = append(reasons, "high must be >= open/close/low")
	}

	if p.Low > minFloat64(p.Open, p.Close, p.High) {
		reasons = append(reasons, "low must be <= open/close/high")
	}

	if p.Volume < 0 {
		reasons = append(reasons, "volume must be >= 0")
	}

	switch p.Source {
	case SourceFinMind, SourceSynthetic, SourceDatabase:
	default:
		reasons = append(reasons, "unknown data source")
	}

	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

// WithChange 依開盤與收盤價填入漲跌與漲跌幅（%）。
func (p DailyPrice) WithChange() DailyPrice {
	p.Change = p.Close - p.Open
	if p.Open != 0 {
		p.ChangePercent = p.Change / p.Open * 100
	}
	return p
}

func maxFloat64(values ...float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func minFloat64(values ...float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// IsValidationError 檢查錯誤是否為每日價格的驗證錯誤。
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
