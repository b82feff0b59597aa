package fortune

// ElementEnergy 五行能量，每項介於 10 到 100。
type ElementEnergy struct {
	Metal int `json:"metal"`
	Wood  int `json:"wood"`
	Water int `json:"water"`
	Fire  int `json:"fire"`
	Earth int `json:"earth"`
}

// Values 依 metal, wood, water, fire, earth 順序回傳。
func (e ElementEnergy) Values() []float64 {
	return []float64{float64(e.Metal), float64(e.Wood), float64(e.Water), float64(e.Fire), float64(e.Earth)}
}

// Get 依五行取值。
func (e ElementEnergy) Get(el Element) int {
	switch el {
	case ElementMetal:
		return e.Metal
	case ElementWood:
		return e.Wood
	case ElementWater:
		return e.Water
	case ElementFire:
		return e.Fire
	case ElementEarth:
		return e.Earth
	}
	return 0
}

// Set 依五行寫入值。
func (e *ElementEnergy) Set(el Element, v int) {
	switch el {
	case ElementMetal:
		e.Metal = v
	case ElementWood:
		e.Wood = v
	case ElementWater:
		e.Water = v
	case ElementFire:
		e.Fire = v
	case ElementEarth:
		e.Earth = v
	}
}

// Recommendation 買進/持有/賣出。
type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendHold Recommendation = "HOLD"
	RecommendSell Recommendation = "SELL"
)

// FortuneResult 某使用者某日的運勢結果，建立後不再修改。
type FortuneResult struct {
	Date            string         `json:"date"`
	OverallScore    int            `json:"overall_score"`
	InvestmentScore int            `json:"investment_score"`
	Recommendation  Recommendation `json:"recommendation"`
	Advice          string         `json:"advice"`
	LuckyTime       string         `json:"lucky_time"`
	AvoidTime       string         `json:"avoid_time"`
	Elements        ElementEnergy  `json:"elements"`
}
