package fortune

import (
	"fmt"
	"math"

	"etf-fortune/internal/domain/fortune"
)

// TradingPeriod 台股盤中的細分時段。
type TradingPeriod struct {
	Name        string `json:"name"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
	startHour   int
}

func period(name, start, end, desc string) TradingPeriod {
	var h, m int
	_, _ = fmt.Sscanf(start, "%d:%d", &h, &m)
	return TradingPeriod{Name: name, Start: start, End: end, Description: desc, startHour: h}
}

// StartHour 回傳時段起始的小時。
func (p TradingPeriod) StartHour() int { return p.startHour }

// Label 格式為 "HH:MM-HH:MM (名稱)"。
func (p TradingPeriod) Label() string {
	return fmt.Sprintf("%s-%s (%s)", p.Start, p.End, p.Name)
}

// LuckyPeriods 台股 09:00-13:30 細分的候選進場時段。
var LuckyPeriods = []TradingPeriod{
	period("開盤搶進", "09:00", "09:30", "適合搶進強勢股"),
	period("早盤選股", "09:30", "10:00", "適合觀察選股"),
	period("上午中段", "10:00", "10:30", "適合逢低買入"),
	period("盤中整理", "10:30", "11:00", "適合觀察整理"),
	period("午前加碼", "11:00", "11:30", "適合加碼投資"),
	period("盤整觀望", "11:30", "12:00", "適合觀望等待"),
	period("午後佈局", "12:00", "12:30", "適合佈局進場"),
	period("收盤前段", "12:30", "13:00", "適合短線操作"),
	period("尾盤衝刺", "13:00", "13:30", "適合尾盤衝刺"),
}

// AvoidPeriods 需要避開的時段。
var AvoidPeriods = []TradingPeriod{
	period("開盤震盪", "09:00", "09:15", "開盤價格震盪劇烈"),
	period("早盤追高", "09:45", "10:15", "容易追高套牢"),
	period("中場休息", "10:45", "11:15", "交易量萎縮整理"),
	period("午前賣壓", "11:45", "12:15", "獲利了結賣壓"),
	period("尾盤殺跌", "13:15", "13:30", "尾盤容易殺跌"),
}

// HourBranch 時辰與鐘點的對應，Anchor 為該時辰起始小時。
type HourBranch struct {
	Branch fortune.Branch
	Start  string
	End    string
	Anchor int
}

var hourBranches = map[fortune.Branch]HourBranch{
	fortune.BranchZi:   {fortune.BranchZi, "23:00", "01:00", 23},
	fortune.BranchChou: {fortune.BranchChou, "01:00", "03:00", 1},
	fortune.BranchYin:  {fortune.BranchYin, "03:00", "05:00", 3},
	fortune.BranchMao:  {fortune.BranchMao, "05:00", "07:00", 5},
	fortune.BranchChen: {fortune.BranchChen, "07:00", "09:00", 7},
	fortune.BranchSi:   {fortune.BranchSi, "09:00", "11:00", 9},
	fortune.BranchWu:   {fortune.BranchWu, "11:00", "13:00", 11},
	fortune.BranchWei:  {fortune.BranchWei, "13:00", "15:00", 13},
	fortune.BranchShen: {fortune.BranchShen, "15:00", "17:00", 15},
	fortune.BranchYou:  {fortune.BranchYou, "17:00", "19:00", 17},
	fortune.BranchXu:   {fortune.BranchXu, "19:00", "21:00", 19},
	fortune.BranchHai:  {fortune.BranchHai, "21:00", "23:00", 21},
}

// HourOf 回傳地支對應的時辰。
func HourOf(b fortune.Branch) (HourBranch, bool) {
	h, ok := hourBranches[b]
	return h, ok
}

var zodiacLuckyBranches = map[fortune.Zodiac][]fortune.Branch{
	fortune.ZodiacRat:     {fortune.BranchZi, fortune.BranchShen, fortune.BranchChen},
	fortune.ZodiacOx:      {fortune.BranchChou, fortune.BranchSi, fortune.BranchYou},
	fortune.ZodiacTiger:   {fortune.BranchYin, fortune.BranchWu, fortune.BranchXu},
	fortune.ZodiacRabbit:  {fortune.BranchMao, fortune.BranchHai, fortune.BranchWei},
	fortune.ZodiacDragon:  {fortune.BranchChen, fortune.BranchZi, fortune.BranchShen},
	fortune.ZodiacSnake:   {fortune.BranchSi, fortune.BranchYou, fortune.BranchChou},
	fortune.ZodiacHorse:   {fortune.BranchWu, fortune.BranchXu, fortune.BranchYin},
	fortune.ZodiacGoat:    {fortune.BranchWei, fortune.BranchMao, fortune.BranchHai},
	fortune.ZodiacMonkey:  {fortune.BranchShen, fortune.BranchChen, fortune.BranchZi},
	fortune.ZodiacRooster: {fortune.BranchYou, fortune.BranchChou, fortune.BranchSi},
	fortune.ZodiacDog:     {fortune.BranchXu, fortune.BranchYin, fortune.BranchWu},
	fortune.ZodiacPig:     {fortune.BranchHai, fortune.BranchWei, fortune.BranchMao},
}

var zodiacConflictBranch = map[fortune.Zodiac]fortune.Branch{
	fortune.ZodiacRat:     fortune.BranchWu,
	fortune.ZodiacOx:      fortune.BranchWei,
	fortune.ZodiacTiger:   fortune.BranchShen,
	fortune.ZodiacRabbit:  fortune.BranchYou,
	fortune.ZodiacDragon:  fortune.BranchXu,
	fortune.ZodiacSnake:   fortune.BranchHai,
	fortune.ZodiacHorse:   fortune.BranchZi,
	fortune.ZodiacGoat:    fortune.BranchChou,
	fortune.ZodiacMonkey:  fortune.BranchYin,
	fortune.ZodiacRooster: fortune.BranchMao,
	fortune.ZodiacDog:     fortune.BranchChen,
	fortune.ZodiacPig:     fortune.BranchSi,
}

// LuckyBranches 回傳生肖的吉利時辰。
func LuckyBranches(z fortune.Zodiac) []fortune.Branch {
	return zodiacLuckyBranches[z]
}

// ConflictBranches 回傳與生肖相沖的時辰（至多一個）。
func ConflictBranches(z fortune.Zodiac) []fortune.Branch {
	if b, ok := zodiacConflictBranch[z]; ok {
		return []fortune.Branch{b}
	}
	return nil
}

const anchorWindowHours = 1

// candidates 收集起始小時與時辰錨點相差在一小時內的時段；依地支逐一附加，可能重複。
func candidates(branches []fortune.Branch, periods []TradingPeriod) []TradingPeriod {
	var out []TradingPeriod
	for _, b := range branches {
		hb, ok := hourBranches[b]
		if !ok {
			continue
		}
		for _, p := range periods {
			if abs(p.startHour-hb.Anchor) <= anchorWindowHours {
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		return periods
	}
	return out
}

func filterByHour(periods []TradingPeriod, keep func(hour int) bool) []TradingPeriod {
	var out []TradingPeriod
	for _, p := range periods {
		if keep(p.startHour) {
			out = append(out, p)
		}
	}
	return out
}

func pick(filtered, targets []TradingPeriod, rnd source) TradingPeriod {
	r := rnd.Float64()
	if len(filtered) == 0 {
		return targets[0]
	}
	return filtered[int(math.Floor(r*float64(len(filtered))))]
}

func isWoodDay(day fortune.Pillar) bool {
	return day.Stem == fortune.StemJia || day.Stem == fortune.StemYi ||
		day.Branch == fortune.BranchYin || day.Branch == fortune.BranchMao
}

func isFireDay(day fortune.Pillar) bool {
	return day.Stem == fortune.StemBing || day.Stem == fortune.StemDing ||
		day.Branch == fortune.BranchSi || day.Branch == fortune.BranchWu
}

func isMetalDay(day fortune.Pillar) bool {
	return day.Stem == fortune.StemGeng || day.Stem == fortune.StemXin ||
		day.Branch == fortune.BranchShen || day.Branch == fortune.BranchYou
}

func isWaterDay(day fortune.Pillar) bool {
	return day.Stem == fortune.StemRen || day.Stem == fortune.StemGui ||
		day.Branch == fortune.BranchZi || day.Branch == fortune.BranchHai
}

// luckyPeriod 木旺日偏好上午（9-11 點），火旺日偏好中午（11-13 點）。
func luckyPeriod(zodiac fortune.Zodiac, day fortune.Pillar, rnd source) TradingPeriod {
	targets := candidates(LuckyBranches(zodiac), LuckyPeriods)
	filtered := targets
	switch {
	case isWoodDay(day):
		filtered = filterByHour(targets, func(h int) bool { return h >= 9 && h <= 11 })
	case isFireDay(day):
		filtered = filterByHour(targets, func(h int) bool { return h >= 11 && h <= 13 })
	}
	return pick(filtered, targets, rnd)
}

// avoidPeriod 金旺日避開午後（12 點起），水旺日避開早盤（10 點前）。
func avoidPeriod(zodiac fortune.Zodiac, day fortune.Pillar, rnd source) TradingPeriod {
	targets := candidates(ConflictBranches(zodiac), AvoidPeriods)
	filtered := targets
	switch {
	case isMetalDay(day):
		filtered = filterByHour(targets, func(h int) bool { return h >= 12 })
	case isWaterDay(day):
		filtered = filterByHour(targets, func(h int) bool { return h <= 10 })
	}
	return pick(filtered, targets, rnd)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
