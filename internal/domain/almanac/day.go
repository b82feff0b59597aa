package almanac

import "etf-fortune/internal/domain/fortune"

// Day 單日農民曆資料，文字皆為繁體。
type Day struct {
	Date        string         `json:"date"`
	LunarYear   string         `json:"lunar_year"`
	LunarMonth  string         `json:"lunar_month"`
	LunarDay    string         `json:"lunar_day"`
	YearGanZhi  string         `json:"gan_zhi"`
	MonthGanZhi string         `json:"month_gan_zhi"`
	DayGanZhi   string         `json:"day_gan_zhi"`
	Zodiac      fortune.Zodiac `json:"zodiac"`
	JieQi       string         `json:"jie_qi"`
	Festivals   []string       `json:"festivals"`
	Yi          []string       `json:"yi"`
	Ji          []string       `json:"ji"`

	YearPillar  fortune.Pillar `json:"-"`
	MonthPillar fortune.Pillar `json:"-"`
	DayPillar   fortune.Pillar `json:"-"`
}
