package fortune

import "etf-fortune/internal/domain/fortune"

const (
	buyThreshold  = 70.0
	holdThreshold = 40.0
)

// Advice 依投資分數分為四段的建議文字。
const (
	AdviceHigh   = "今日財運亨通，適合積極投資。建議在台股開盤時段（09:00-13:30）把握進場機會。"
	AdviceMedium = "今日運勢平穩，可考慮適量投資。建議觀察台股開盤後走勢再決定進場時機。"
	AdviceLow    = "今日運勢一般，建議保持觀望。如有台股持倉建議持有，避免盤中頻繁交易。"
	AdvicePoor   = "今日運勢較弱，不宜投資。建議等待台股收盤後檢視，尋找更好的進場時機。"
)

// Recommend 以 (投資分數 + 總體分數) / 2 判斷：≥70 買進、≥40 持有，其餘賣出。
func Recommend(investment, overall float64) fortune.Recommendation {
	combined := (investment + overall) / 2
	switch {
	case combined >= buyThreshold:
		return fortune.RecommendBuy
	case combined >= holdThreshold:
		return fortune.RecommendHold
	default:
		return fortune.RecommendSell
	}
}

// AdviceFor 只看投資分數，門檻與 Recommend 不同（80/60/40）。
func AdviceFor(investment float64) string {
	switch {
	case investment >= 80:
		return AdviceHigh
	case investment >= 60:
		return AdviceMedium
	case investment >= 40:
		return AdviceLow
	default:
		return AdvicePoor
	}
}
