package market

import (
	"fmt"
	"time"
)

const (
	openMinutes  = 9 * 60
	closeMinutes = 13*60 + 30
	dateLayout   = "2006-01-02"
)

// 政府行事曆休市日（含補假）。
var holidays = map[string]string{
	"2024-01-01": "元旦",
	"2024-02-08": "農曆除夕前一日調整放假",
	"2024-02-09": "農曆除夕",
	"2024-02-10": "春節",
	"2024-02-11": "農曆正月初二",
	"2024-02-12": "農曆正月初三",
	"2024-02-13": "農曆正月初四調整放假",
	"2024-02-14": "農曆正月初五調整放假",
	"2024-02-28": "和平紀念日",
	"2024-04-04": "兒童節",
	"2024-04-05": "清明節",
	"2024-05-01": "勞動節",
	"2024-06-10": "端午節",
	"2024-09-17": "中秋節",
	"2024-10-10": "國慶日",

	"2025-01-01": "元旦",
	"2025-01-27": "農曆除夕調整放假",
	"2025-01-28": "農曆除夕",
	"2025-01-29": "春節",
	"2025-01-30": "農曆正月初二",
	"2025-01-31": "農曆正月初三",
	"2025-02-28": "和平紀念日",
	"2025-04-03": "兒童節調整放假",
	"2025-04-04": "兒童節",
	"2025-04-05": "清明節",
	"2025-05-01": "勞動節",
	"2025-05-31": "端午節",
	"2025-09-28": "教師節",
	"2025-10-06": "中秋節",
	"2025-10-10": "國慶日",
}

// Location 回傳台北時區，系統缺少時區資料時退回固定 +08:00。
func Location() *time.Location {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		return time.FixedZone("Asia/Taipei", 8*3600)
	}
	return loc
}

// Holiday 回傳休市日名稱。
func Holiday(t time.Time) (string, bool) {
	name, ok := holidays[t.In(Location()).Format(dateLayout)]
	return name, ok
}

// IsTradingDay 週一至週五且非國定假日。
func IsTradingDay(t time.Time) bool {
	local := t.In(Location())
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := holidays[local.Format(dateLayout)]
	return !holiday
}

// IsInTradingHours 交易日的 09:00 到 13:30（含）之間。
func IsInTradingHours(t time.Time) bool {
	if !IsTradingDay(t) {
		return false
	}
	m := minuteOfDay(t.In(Location()))
	return m >= openMinutes && m <= closeMinutes
}

// NextTradingDay 回傳 t 之後（不含當天）的第一個交易日，時刻保留。
func NextTradingDay(t time.Time) time.Time {
	next := t.In(Location())
	for {
		next = next.AddDate(0, 0, 1)
		if IsTradingDay(next) {
			return next
		}
	}
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

var weekdayNames = [...]string{"日", "一", "二", "三", "四", "五", "六"}

// FormatDay 例如 "1/16 (週二)"。
func FormatDay(t time.Time) string {
	local := t.In(Location())
	return fmt.Sprintf("%d/%d (週%s)", int(local.Month()), local.Day(), weekdayNames[local.Weekday()])
}
