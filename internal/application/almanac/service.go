package almanac

import (
	"fmt"
	"math"
	"strings"
	"time"

	"etf-fortune/internal/application/apperr"
	appfortune "etf-fortune/internal/application/fortune"
	"etf-fortune/internal/domain/almanac"
	"etf-fortune/internal/domain/fortune"
)

// Source 提供單日農民曆。
type Source interface {
	Day(date time.Time) (almanac.Day, error)
}

// RiskLevel 風險等級。
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Action 建議操作。
type Action string

const (
	ActionBuy     Action = "buy"
	ActionHold    Action = "hold"
	ActionObserve Action = "observe"
	ActionSell    Action = "sell"
)

// InvestmentAdvice 依干支與宜忌推算的當日建議。
type InvestmentAdvice struct {
	LuckyScore     int       `json:"lucky_score"`
	LuckyTime      string    `json:"lucky_time"`
	LuckyDirection string    `json:"lucky_direction"`
	Advice         string    `json:"advice"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Action         Action    `json:"recommended_action"`
}

// Daily 農民曆加上投資建議。
type Daily struct {
	Almanac almanac.Day      `json:"almanac"`
	Advice  InvestmentAdvice `json:"advice"`
}

// TimeSlot 盤中以時辰切分的時段。
type TimeSlot struct {
	Time        string `json:"time"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

// TradingTimes 推薦與避開的盤中時段。
type TradingTimes struct {
	Date        string     `json:"date"`
	DayGanZhi   string     `json:"day_gan_zhi"`
	Recommended []TimeSlot `json:"recommended_times"`
	Avoid       []TimeSlot `json:"avoid_times"`
}

// CacheCapacity 每日建議快取的日期數上限。
const CacheCapacity = 366

// Service 計算每日農民曆建議並依日期快取。
type Service struct {
	source Source
	cache  *appfortune.FIFO[Daily]
}

func NewService(source Source) *Service {
	return &Service{source: source, cache: appfortune.NewFIFO[Daily](CacheCapacity, CacheCapacity)}
}

// Daily 回傳指定日期的農民曆與建議。
func (s *Service) Daily(date time.Time) (Daily, error) {
	key := date.Format("2006-01-02")
	if d, ok := s.cache.Get(key); ok {
		return d, nil
	}

	day, err := s.source.Day(date)
	if err != nil {
		return Daily{}, apperr.New(apperr.CodeCalendar, fmt.Sprintf("almanac %s", key), err)
	}
	out := Daily{Almanac: day, Advice: Advise(day)}

	s.cache.Set(key, out)
	return out, nil
}

// ClearCache 清除日期快取。
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// Advise 依干支分數與宜忌分數的平均決定建議。
func Advise(day almanac.Day) InvestmentAdvice {
	ganZhi := GanZhiScore(day.YearPillar, day.DayPillar)
	yiJi := YiJiScore(day.Yi, day.Ji)
	score := int(math.Floor(float64(ganZhi+yiJi)/2 + 0.5))

	adv := InvestmentAdvice{
		LuckyScore:     score,
		LuckyTime:      LuckyTime(day.DayPillar.Stem),
		LuckyDirection: LuckyDirection(day.DayPillar.Stem),
	}
	switch {
	case score >= 80:
		adv.Advice = fmt.Sprintf("今日%s，天時地利，適合積極投資。建議把握機會進場。", day.YearGanZhi)
		adv.RiskLevel, adv.Action = RiskLow, ActionBuy
	case score >= 60:
		adv.Advice = "今日運勢平穩，適合持有現有部位，小量加減碼。"
		adv.RiskLevel, adv.Action = RiskMedium, ActionHold
	case score >= 40:
		adv.Advice = "今日宜觀望，避免大額交易，可考慮減少風險部位。"
		adv.RiskLevel, adv.Action = RiskMedium, ActionObserve
	default:
		adv.Advice = "今日運勢不佳，建議減倉避險，暫停新投資計畫。"
		adv.RiskLevel, adv.Action = RiskHigh, ActionSell
	}
	return adv
}

var (
	luckyStems    = map[fortune.Stem]bool{fortune.StemJia: true, fortune.StemYi: true, fortune.StemBing: true, fortune.StemDing: true, fortune.StemWu: true}
	luckyBranches = map[fortune.Branch]bool{fortune.BranchZi: true, fortune.BranchYin: true, fortune.BranchMao: true, fortune.BranchWu: true, fortune.BranchWei: true, fortune.BranchYou: true}

	investmentYi = []string{"開市", "交易", "立券", "納財", "求財"}
	investmentJi = []string{"破財", "大耗", "劫煞", "災煞"}
)

// GanZhiScore 年柱干支各 +10，日柱干支各 +15，基礎 50。
func GanZhiScore(year, day fortune.Pillar) int {
	score := 50
	if luckyStems[year.Stem] {
		score += 10
	}
	if luckyBranches[year.Branch] {
		score += 10
	}
	if luckyStems[day.Stem] {
		score += 15
	}
	if luckyBranches[day.Branch] {
		score += 15
	}
	return clampScore(score)
}

// YiJiScore 每個與投資相關的宜 +10、忌 -15，基礎 50。
func YiJiScore(yi, ji []string) int {
	score := 50
	for _, item := range yi {
		if containsAny(item, investmentYi) {
			score += 10
		}
	}
	for _, item := range ji {
		if containsAny(item, investmentJi) {
			score -= 15
		}
	}
	return clampScore(score)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

var luckyTimes = map[fortune.Stem]string{
	fortune.StemJia:  "卯時 (05:00-07:00)",
	fortune.StemYi:   "辰時 (07:00-09:00)",
	fortune.StemBing: "午時 (11:00-13:00)",
	fortune.StemDing: "未時 (13:00-15:00)",
	fortune.StemWu:   "申時 (15:00-17:00)",
	fortune.StemJi:   "酉時 (17:00-19:00)",
	fortune.StemGeng: "戌時 (19:00-21:00)",
	fortune.StemXin:  "亥時 (21:00-23:00)",
	fortune.StemRen:  "子時 (23:00-01:00)",
	fortune.StemGui:  "丑時 (01:00-03:00)",
}

var luckyDirections = map[fortune.Stem]string{
	fortune.StemJia:  "東方",
	fortune.StemYi:   "東南",
	fortune.StemBing: "南方",
	fortune.StemDing: "西南",
	fortune.StemWu:   "中央",
	fortune.StemJi:   "中央",
	fortune.StemGeng: "西方",
	fortune.StemXin:  "西北",
	fortune.StemRen:  "北方",
	fortune.StemGui:  "東北",
}

// LuckyTime 依日干回傳吉時，未知日干為午時。
func LuckyTime(stem fortune.Stem) string {
	if t, ok := luckyTimes[stem]; ok {
		return t
	}
	return "午時 (11:00-13:00)"
}

// LuckyDirection 依日干回傳財位方向，未知日干為東方。
func LuckyDirection(stem fortune.Stem) string {
	if d, ok := luckyDirections[stem]; ok {
		return d
	}
	return "東方"
}
