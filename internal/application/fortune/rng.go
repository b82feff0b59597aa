package fortune

const (
	lcgA uint32 = 1664525
	lcgC uint32 = 1013904223
	lcgM        = 1 << 32
)

// 各用途的子序列種子偏移。
const (
	offsetElements   uint32 = 0
	offsetInvestment uint32 = 1000
	offsetLuckyTime  uint32 = 2000
	offsetAvoidTime  uint32 = 3000
)

// source 為引擎內部使用的亂數來源。
type source interface {
	Float64() float64
}

// Rand 為可重現的線性同餘亂數序列，輸出介於 [0,1)。
type Rand struct {
	state uint32
}

// NewRand 以種子建立新的序列。
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// Float64 前進一步並回傳 state / 2^32。
func (r *Rand) Float64() float64 {
	r.state = lcgA*r.state + lcgC
	return float64(r.state) / lcgM
}
