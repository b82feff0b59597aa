package lunar

import (
	"container/list"
	"fmt"
	"time"

	appfortune "etf-fortune/internal/application/fortune"
	"etf-fortune/internal/domain/almanac"
	"etf-fortune/internal/domain/fortune"

	"github.com/6tail/lunar-go/calendar"
)

// DayCacheCapacity 日期快取上限，約一年份。
const DayCacheCapacity = 366

// Calendar 以 lunar-go 計算干支與農民曆；函式庫輸出的簡體字在此轉為繁體。
type Calendar struct {
	cache *appfortune.FIFO[almanac.Day]
}

// NewCalendar 建立日曆轉接器，依日期快取計算結果，超過上限時淘汰最早的日期。
func NewCalendar() *Calendar {
	return &Calendar{cache: appfortune.NewFIFO[almanac.Day](DayCacheCapacity, DayCacheCapacity)}
}

// DayPillar 回傳日柱。
func (c *Calendar) DayPillar(date time.Time) (fortune.Pillar, error) {
	d, err := c.Day(date)
	if err != nil {
		return fortune.Pillar{}, err
	}
	return d.DayPillar, nil
}

// MonthPillar 回傳月柱（以節氣分月）。
func (c *Calendar) MonthPillar(date time.Time) (fortune.Pillar, error) {
	d, err := c.Day(date)
	if err != nil {
		return fortune.Pillar{}, err
	}
	return d.MonthPillar, nil
}

// Day 回傳指定日期（取其年月日）的農民曆。
func (c *Calendar) Day(date time.Time) (almanac.Day, error) {
	if date.IsZero() {
		return almanac.Day{}, fmt.Errorf("lunar: zero date")
	}
	key := date.Format("2006-01-02")

	if d, ok := c.cache.Get(key); ok {
		return d, nil
	}

	d, err := compute(date)
	if err != nil {
		return almanac.Day{}, err
	}

	c.cache.Set(key, d)
	return d, nil
}

// ClearCache 清除日期快取。
func (c *Calendar) ClearCache() {
	c.cache.Clear()
}

func compute(date time.Time) (day almanac.Day, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lunar: 無法計算農民曆資料 %s: %v", date.Format("2006-01-02"), r)
		}
	}()

	solar := calendar.NewSolarFromYmd(date.Year(), int(date.Month()), date.Day())
	l := solar.GetLunar()

	dayPillar, err := pillar(l.GetDayGan(), l.GetDayZhi())
	if err != nil {
		return almanac.Day{}, fmt.Errorf("day pillar: %w", err)
	}
	monthPillar, err := pillar(l.GetMonthGan(), l.GetMonthZhi())
	if err != nil {
		return almanac.Day{}, fmt.Errorf("month pillar: %w", err)
	}
	yearPillar, err := pillar(l.GetYearGan(), l.GetYearZhi())
	if err != nil {
		return almanac.Day{}, fmt.Errorf("year pillar: %w", err)
	}
	zodiac, _ := fortune.ParseZodiac(l.GetYearShengXiao())

	festivals := toTraditionalList(l.GetFestivals())
	festivals = append(festivals, toTraditionalList(solar.GetFestivals())...)

	return almanac.Day{
		Date:        date.Format("2006-01-02"),
		LunarYear:   ToTraditional(l.GetYearInChinese()),
		LunarMonth:  ToTraditional(l.GetMonthInChinese()),
		LunarDay:    ToTraditional(l.GetDayInChinese()),
		YearGanZhi:  yearPillar.String(),
		MonthGanZhi: monthPillar.String(),
		DayGanZhi:   dayPillar.String(),
		Zodiac:      zodiac,
		JieQi:       ToTraditional(l.GetJieQi()),
		Festivals:   festivals,
		Yi:          toTraditionalList(l.GetDayYi()),
		Ji:          toTraditionalList(l.GetDayJi()),
		YearPillar:  yearPillar,
		DayPillar:   dayPillar,
		MonthPillar: monthPillar,
	}, nil
}

func pillar(gan, zhi string) (fortune.Pillar, error) {
	s, err := fortune.ParseStem(gan)
	if err != nil {
		return fortune.Pillar{}, err
	}
	b, err := fortune.ParseBranch(zhi)
	if err != nil {
		return fortune.Pillar{}, err
	}
	return fortune.Pillar{Stem: s, Branch: b}, nil
}

func toTraditionalList(l *list.List) []string {
	out := []string{}
	if l == nil {
		return out
	}
	for e := l.Front(); e != nil; e = e.Next() {
		if s, ok := e.Value.(string); ok && s != "" {
			out = append(out, ToTraditional(s))
		}
	}
	return out
}

// ZodiacOfYear 回傳公曆年份對應的生肖。
func ZodiacOfYear(year int) fortune.Zodiac {
	return fortune.ZodiacOfYear(year)
}
