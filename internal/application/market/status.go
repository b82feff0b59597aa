package market

import (
	"fmt"
	"time"
)

// Phase 盤前、盤中、盤後或休市。
type Phase string

const (
	PhaseClosed     Phase = "closed"
	PhasePreMarket  Phase = "pre_market"
	PhaseTrading    Phase = "trading"
	PhasePostMarket Phase = "post_market"
)

// Status 目前的交易狀態。
type Status struct {
	IsOpen         bool   `json:"is_open"`
	Phase          Phase  `json:"status"`
	Message        string `json:"message"`
	NextTradingDay string `json:"next_trading_day,omitempty"`
}

// StatusAt 判斷 now（台北時間）的交易狀態。
func StatusAt(now time.Time) Status {
	local := now.In(Location())
	if !IsTradingDay(local) {
		next := NextTradingDay(local)
		return Status{
			Phase:          PhaseClosed,
			Message:        fmt.Sprintf("今日休市，下個交易日為 %s", FormatDay(next)),
			NextTradingDay: next.Format(dateLayout),
		}
	}

	m := minuteOfDay(local)
	switch {
	case m < openMinutes:
		return Status{Phase: PhasePreMarket, Message: "尚未開盤，交易時間 09:00-13:30"}
	case m <= closeMinutes:
		return Status{IsOpen: true, Phase: PhaseTrading, Message: "交易時間中"}
	default:
		next := NextTradingDay(local)
		return Status{
			Phase:          PhasePostMarket,
			Message:        fmt.Sprintf("今日交易結束，下個交易日為 %s", FormatDay(next)),
			NextTradingDay: next.Format(dateLayout),
		}
	}
}

// PeriodKind 盤中時段分類。
type PeriodKind string

const (
	KindOpening PeriodKind = "opening"
	KindMorning PeriodKind = "morning"
	KindMidday  PeriodKind = "midday"
	KindClosing PeriodKind = "closing"
)

// Period 具名的盤中時段。
type Period struct {
	Name        string     `json:"name"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	Description string     `json:"description"`
	Kind        PeriodKind `json:"type"`
}

var periods = []Period{
	{"開盤競價", "09:00", "09:05", "開盤集合競價時段", KindOpening},
	{"早盤交易", "09:05", "10:00", "早盤活躍交易時段", KindMorning},
	{"上午盤中", "10:00", "11:00", "上午盤中交易", KindMorning},
	{"午前交易", "11:00", "12:00", "午前交易時段", KindMidday},
	{"午後開盤", "12:00", "13:00", "午後開盤交易", KindMidday},
	{"收盤前段", "13:00", "13:25", "收盤前交易", KindClosing},
	{"收盤競價", "13:25", "13:30", "收盤集合競價", KindClosing},
}

// Periods 回傳盤中七個時段的複本。
func Periods() []Period {
	out := make([]Period, len(periods))
	copy(out, periods)
	return out
}
