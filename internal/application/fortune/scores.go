package fortune

import (
	"math"

	"etf-fortune/internal/domain/fortune"

	"gonum.org/v1/gonum/stat"
)

const (
	idealAverage     = 65.0
	investmentJitter = 10.0
	balanceCeiling   = 100.0
	overallWeight    = 0.5
	scoreMin         = 0.0
	scoreMax         = 100.0
)

var zodiacBonus = map[fortune.Zodiac]float64{
	fortune.ZodiacRat:     5,
	fortune.ZodiacOx:      8,
	fortune.ZodiacTiger:   3,
	fortune.ZodiacRabbit:  6,
	fortune.ZodiacDragon:  10,
	fortune.ZodiacSnake:   7,
	fortune.ZodiacHorse:   4,
	fortune.ZodiacGoat:    2,
	fortune.ZodiacMonkey:  9,
	fortune.ZodiacRooster: 6,
	fortune.ZodiacDog:     5,
	fortune.ZodiacPig:     8,
}

// overallScore = (平衡度 + 平均接近度) * 0.5。
// 平衡度 = max(0, 100 - 母體變異數)，平均接近度 = 100 - |平均 - 65|。
func overallScore(e fortune.ElementEnergy) float64 {
	mean, variance := stat.PopMeanVariance(e.Values(), nil)
	balance := math.Max(0, balanceCeiling-variance)
	closeness := 100 - math.Abs(mean-idealAverage)
	return (balance + closeness) * overallWeight
}

// investmentScore 在總體分數上加生肖加成與 ±5 的隨機調整，結果限制在 [0,100]。
func investmentScore(overall float64, zodiac fortune.Zodiac, rnd source) float64 {
	score := overall + zodiacBonus[zodiac]
	score += (rnd.Float64() - 0.5) * investmentJitter
	return clamp(score, scoreMin, scoreMax)
}
