package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"etf-fortune/internal/application/disclaimer"
	"etf-fortune/internal/application/market"
	"etf-fortune/internal/domain/fortune"

	"github.com/rs/zerolog/log"
)

// Notifier 推送文字訊息。
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}

// FortuneCalculator 由運勢引擎實作。
type FortuneCalculator interface {
	CalculateDailyFortune(profile fortune.UserProfile, date time.Time) (*fortune.FortuneResult, error)
}

// Digest 每個交易日推送設定使用者的當日運勢。
type Digest struct {
	engine   FortuneCalculator
	notifier Notifier
	profile  fortune.UserProfile
	now      func() time.Time
}

func New(engine FortuneCalculator, notifier Notifier, profile fortune.UserProfile) *Digest {
	return &Digest{engine: engine, notifier: notifier, profile: profile, now: time.Now}
}

// Run 非交易日不推送並回傳 sent=false。
func (d *Digest) Run(ctx context.Context) (bool, error) {
	if d.notifier == nil {
		return false, errors.New("digest notifier is nil")
	}
	today := d.now().In(market.Location())
	if !market.IsTradingDay(today) {
		log.Info().Str("date", today.Format("2006-01-02")).Msg("digest skipped: market closed")
		return false, nil
	}

	date := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	res, err := d.engine.CalculateDailyFortune(d.profile, date)
	if err != nil {
		return false, fmt.Errorf("calculate fortune: %w", err)
	}
	if err := d.notifier.SendMessage(ctx, Format(d.profile.Name, res)); err != nil {
		return false, fmt.Errorf("send digest: %w", err)
	}
	log.Info().Str("date", res.Date).Int("investment", res.InvestmentScore).Msg("digest sent")
	return true, nil
}

var recommendationLabels = map[fortune.Recommendation]string{
	fortune.RecommendBuy:  "買進",
	fortune.RecommendHold: "持有",
	fortune.RecommendSell: "賣出",
}

// Format 產生推播內容。
func Format(name string, res *fortune.FortuneResult) string {
	d := disclaimer.Create(res.InvestmentScore, res.Recommendation)
	var b strings.Builder
	fmt.Fprintf(&b, "%s 0050 投資運勢（%s）\n", res.Date, name)
	fmt.Fprintf(&b, "總體運勢：%d　投資運勢：%d\n", res.OverallScore, res.InvestmentScore)
	fmt.Fprintf(&b, "建議：%s\n", recommendationLabels[res.Recommendation])
	fmt.Fprintf(&b, "吉時：%s\n", res.LuckyTime)
	fmt.Fprintf(&b, "避開：%s\n", res.AvoidTime)
	fmt.Fprintf(&b, "%s\n", res.Advice)
	if len(d.Messages) > 0 {
		fmt.Fprintf(&b, "注意：%s", d.Messages[0])
	}
	return b.String()
}
