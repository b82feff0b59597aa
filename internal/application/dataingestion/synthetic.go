package dataingestion

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"etf-fortune/internal/domain/dataingestion"
)

const (
	syntheticBasePrice = 165.50
	syntheticVariation = 0.03
	syntheticMinVolume = 10000
	syntheticVolRange  = 50000
)

// SyntheticSource 產生可重現的模擬日 K：自 165.50 起隨機漫步，只含平日。
type SyntheticSource struct{}

func NewSyntheticSource() *SyntheticSource {
	return &SyntheticSource{}
}

// FetchRange 同一組 (symbol, start, end) 永遠得到相同序列。
func (s *SyntheticSource) FetchRange(_ context.Context, symbol string, start, end time.Time) ([]dataingestion.DailyPrice, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol + start.Format("20060102") + end.Format("20060102")))
	rnd := rand.New(rand.NewSource(int64(h.Sum64())))

	start = truncateDay(start)
	end = truncateDay(end)

	var out []dataingestion.DailyPrice
	prevClose := syntheticBasePrice
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		open := round2(prevClose)
		closePrice := round2(open * (1 + (rnd.Float64()*2-1)*syntheticVariation))
		high := round2(math.Max(open, closePrice) * (1 + rnd.Float64()*0.01))
		low := round2(math.Min(open, closePrice) * (1 - rnd.Float64()*0.01))
		volume := int64(syntheticMinVolume + rnd.Intn(syntheticVolRange+1))

		out = append(out, dataingestion.DailyPrice{
			Symbol:    symbol,
			Market:    dataingestion.MarketTWSE,
			TradeDate: d,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			Source:    dataingestion.SourceSynthetic,
		}.WithChange())
		prevClose = closePrice
	}
	return out, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
