package almanac

import (
	"fmt"
	"time"

	"etf-fortune/internal/domain/fortune"
)

// 各日干的吉時地支。
var luckyHours = map[fortune.Stem][]fortune.Branch{
	fortune.StemJia:  {fortune.BranchZi, fortune.BranchMao, fortune.BranchWu, fortune.BranchYou},
	fortune.StemYi:   {fortune.BranchChou, fortune.BranchChen, fortune.BranchWei, fortune.BranchXu},
	fortune.StemBing: {fortune.BranchYin, fortune.BranchSi, fortune.BranchShen, fortune.BranchHai},
	fortune.StemDing: {fortune.BranchMao, fortune.BranchWu, fortune.BranchYou, fortune.BranchZi},
	fortune.StemWu:   {fortune.BranchChen, fortune.BranchWei, fortune.BranchXu, fortune.BranchChou},
	fortune.StemJi:   {fortune.BranchSi, fortune.BranchShen, fortune.BranchHai, fortune.BranchYin},
	fortune.StemGeng: {fortune.BranchWu, fortune.BranchYou, fortune.BranchZi, fortune.BranchMao},
	fortune.StemXin:  {fortune.BranchWei, fortune.BranchXu, fortune.BranchChou, fortune.BranchChen},
	fortune.StemRen:  {fortune.BranchShen, fortune.BranchHai, fortune.BranchYin, fortune.BranchSi},
	fortune.StemGui:  {fortune.BranchYou, fortune.BranchZi, fortune.BranchMao, fortune.BranchWu},
}

type sessionHour struct {
	time        string
	branch      fortune.Branch
	description string
}

// 台股 09:00-13:30 依時辰切成五段。
var sessionHours = []sessionHour{
	{"09:00-10:00", fortune.BranchSi, "早盤交易"},
	{"10:00-11:00", fortune.BranchSi, "上午盤中"},
	{"11:00-12:00", fortune.BranchWu, "午盤交易"},
	{"12:00-13:00", fortune.BranchWu, "午盤後段"},
	{"13:00-13:30", fortune.BranchWei, "收盤交易"},
}

// LuckyHours 回傳日干的吉時地支。
func LuckyHours(stem fortune.Stem) []fortune.Branch {
	return luckyHours[stem]
}

// TradingTimeAnalysis 將盤中五個時段依日干吉時分為推薦與避開。
func (s *Service) TradingTimeAnalysis(date time.Time) (TradingTimes, error) {
	d, err := s.Daily(date)
	if err != nil {
		return TradingTimes{}, err
	}
	return splitSession(d.Almanac.Date, d.Almanac.DayGanZhi, d.Almanac.DayPillar.Stem), nil
}

func splitSession(date, dayGanZhi string, stem fortune.Stem) TradingTimes {
	lucky := make(map[fortune.Branch]bool)
	for _, b := range luckyHours[stem] {
		lucky[b] = true
	}
	out := TradingTimes{Date: date, DayGanZhi: dayGanZhi, Recommended: []TimeSlot{}, Avoid: []TimeSlot{}}
	for _, h := range sessionHours {
		if lucky[h.branch] {
			out.Recommended = append(out.Recommended, TimeSlot{
				Time:        h.time,
				Description: h.description,
				Reason:      fmt.Sprintf("%s時為今日吉時，適合進場操作", h.branch),
			})
			continue
		}
		out.Avoid = append(out.Avoid, TimeSlot{
			Time:        h.time,
			Description: h.description,
			Reason:      fmt.Sprintf("%s時為今日平時或凶時，宜謹慎觀望", h.branch),
		})
	}
	return out
}
