package fortune

import (
	"errors"
	"fmt"
	"time"

	"etf-fortune/internal/domain/fortune"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrInvalidDate 日期為零值或無法解析。
	ErrInvalidDate = errors.New("無效的日期")
	// ErrIncompleteProfile 姓名、生日、出生時間缺一。
	ErrIncompleteProfile = errors.New("使用者資料不完整")
	// ErrInvalidProfile 生日不是 YYYY-MM-DD 或出生時間不是 HH:MM。
	ErrInvalidProfile = errors.New("使用者資料格式錯誤")
)

const (
	birthDateLayout = "2006-01-02"
	birthTimeLayout = "15:04"
)

// Calendar 提供指定日期的日柱與月柱。
type Calendar interface {
	DayPillar(date time.Time) (fortune.Pillar, error)
	MonthPillar(date time.Time) (fortune.Pillar, error)
}

// Engine 計算每日運勢並快取結果，每個實例擁有自己的快取。
type Engine struct {
	calendar Calendar
	cache    *Cache
	group    singleflight.Group
	newRand  func(seed uint32) *Rand
}

// Option 調整 Engine 設定。
type Option func(*Engine)

// WithCacheCapacity 指定快取容量。
func WithCacheCapacity(n int) Option {
	return func(e *Engine) {
		e.cache = NewCache(n)
	}
}

func NewEngine(calendar Calendar, opts ...Option) *Engine {
	e := &Engine{
		calendar: calendar,
		cache:    NewCache(DefaultCacheCapacity),
		newRand:  NewRand,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CalculateDailyFortune 回傳 (profile, date) 的運勢；同一組輸入永遠得到相同結果，
// 命中快取時回傳同一個已儲存的物件。
func (e *Engine) CalculateDailyFortune(profile fortune.UserProfile, date time.Time) (*fortune.FortuneResult, error) {
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	if !profile.IsComplete() {
		return nil, ErrIncompleteProfile
	}
	if err := checkFormats(profile); err != nil {
		return nil, err
	}

	key := CacheKey(profile, date)
	if cached, ok := e.cache.Get(key); ok {
		return cached, nil
	}

	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		if cached, ok := e.cache.Get(key); ok {
			return cached, nil
		}
		res, err := e.compute(profile, date)
		if err != nil {
			return nil, err
		}
		e.cache.Set(key, res)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*fortune.FortuneResult), nil
}

// checkFormats 生日與出生時間必須為固定長度格式，快取 key 才不會因分隔符號而重疊。
func checkFormats(p fortune.UserProfile) error {
	if len(p.BirthDate) != len(birthDateLayout) {
		return fmt.Errorf("%w: birth_date %q", ErrInvalidProfile, p.BirthDate)
	}
	if _, err := time.Parse(birthDateLayout, p.BirthDate); err != nil {
		return fmt.Errorf("%w: birth_date %q", ErrInvalidProfile, p.BirthDate)
	}
	if len(p.BirthTime) != len(birthTimeLayout) {
		return fmt.Errorf("%w: birth_time %q", ErrInvalidProfile, p.BirthTime)
	}
	if _, err := time.Parse(birthTimeLayout, p.BirthTime); err != nil {
		return fmt.Errorf("%w: birth_time %q", ErrInvalidProfile, p.BirthTime)
	}
	return nil
}

func (e *Engine) compute(profile fortune.UserProfile, date time.Time) (*fortune.FortuneResult, error) {
	day, err := e.calendar.DayPillar(date)
	if err != nil {
		return nil, fmt.Errorf("day pillar: %w", err)
	}
	month, err := e.calendar.MonthPillar(date)
	if err != nil {
		return nil, fmt.Errorf("month pillar: %w", err)
	}

	// 無法辨識的生肖視為無加成、無吉時。
	zodiac, _ := fortune.ParseZodiac(string(profile.Zodiac))

	seed := DeriveSeed(profile, date)
	elements := computeElements(day, month, e.newRand(seed+offsetElements))
	overall := overallScore(elements)
	investment := investmentScore(overall, zodiac, e.newRand(seed+offsetInvestment))

	// 建議與提示以四捨五入後的分數判斷，與回傳的分數一致。
	overallRounded := roundHalfUp(overall)
	investmentRounded := roundHalfUp(investment)

	res := &fortune.FortuneResult{
		Date:            date.Format("2006-01-02"),
		OverallScore:    int(overallRounded),
		InvestmentScore: int(investmentRounded),
		Recommendation:  Recommend(investmentRounded, overallRounded),
		Advice:          AdviceFor(investmentRounded),
		LuckyTime:       luckyPeriod(zodiac, day, e.newRand(seed+offsetLuckyTime)).Label(),
		AvoidTime:       avoidPeriod(zodiac, day, e.newRand(seed+offsetAvoidTime)).Label(),
		Elements:        elements,
	}

	log.Debug().
		Str("date", res.Date).
		Str("day_pillar", day.String()).
		Str("month_pillar", month.String()).
		Uint32("seed", seed).
		Int("overall", res.OverallScore).
		Int("investment", res.InvestmentScore).
		Str("recommendation", string(res.Recommendation)).
		Msg("fortune computed")
	return res, nil
}

// ClearCache 清空運勢快取。
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// CacheStats 回傳快取大小與上限。
func (e *Engine) CacheStats() CacheStats {
	return e.cache.Stats()
}
