package pricequery

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

const tradingDaysPerYear = 252

// MACD 指標最新值。
type MACD struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// Bollinger 布林通道最新值。
type Bollinger struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Indicators 資料不足的指標為 nil。
type Indicators struct {
	SMA5       *float64   `json:"sma5"`
	SMA10      *float64   `json:"sma10"`
	SMA20      *float64   `json:"sma20"`
	RSI14      *float64   `json:"rsi14"`
	MACD       *MACD      `json:"macd"`
	Bollinger  *Bollinger `json:"bollinger"`
	Volatility *float64   `json:"annualized_volatility"`
}

// ComputeIndicators 以收盤價序列（舊到新）計算技術指標。
func ComputeIndicators(closes []float64) Indicators {
	return Indicators{
		SMA5:       sma(closes, 5),
		SMA10:      sma(closes, 10),
		SMA20:      sma(closes, 20),
		RSI14:      rsi(closes, 14),
		MACD:       macd(closes, 12, 26, 9),
		Bollinger:  bollinger(closes, 20, 2),
		Volatility: AnnualizedVolatility(closes),
	}
}

func sma(closes []float64, n int) *float64 {
	if len(closes) < n {
		return nil
	}
	return last(talib.Sma(closes, n))
}

func rsi(closes []float64, n int) *float64 {
	if len(closes) < n+1 {
		return nil
	}
	return last(talib.Rsi(closes, n))
}

func macd(closes []float64, fast, slow, signal int) *MACD {
	if len(closes) < slow+signal-1 {
		return nil
	}
	m, s, h := talib.Macd(closes, fast, slow, signal)
	mv, sv, hv := last(m), last(s), last(h)
	if mv == nil || sv == nil || hv == nil {
		return nil
	}
	return &MACD{MACD: *mv, Signal: *sv, Histogram: *hv}
}

func bollinger(closes []float64, n int, k float64) *Bollinger {
	if len(closes) < n {
		return nil
	}
	upper, middle, lower := talib.BBands(closes, n, k, k, 0)
	u, m, l := last(upper), last(middle), last(lower)
	if u == nil || m == nil || l == nil {
		return nil
	}
	return &Bollinger{Upper: *u, Middle: *m, Lower: *l}
}

// AnnualizedVolatility 日報酬標準差 × √252，以百分比表示；少於三筆收盤價為 nil。
func AnnualizedVolatility(closes []float64) *float64 {
	if len(closes) < 3 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	if len(returns) < 2 {
		return nil
	}
	v := stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear) * 100
	return &v
}

func last(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	v := values[len(values)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
