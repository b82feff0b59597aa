package fortune

import (
	"math"

	"etf-fortune/internal/domain/fortune"
)

const (
	elementBase     = 50.0
	elementMin      = 10.0
	elementMax      = 100.0
	elementJitter   = 20.0
	monthPillarRate = 0.5
)

type modifier struct {
	element fortune.Element
	weight  float64
}

var stemModifiers = map[fortune.Stem]modifier{
	fortune.StemJia:  {fortune.ElementWood, 20},
	fortune.StemYi:   {fortune.ElementWood, 15},
	fortune.StemBing: {fortune.ElementFire, 20},
	fortune.StemDing: {fortune.ElementFire, 15},
	fortune.StemWu:   {fortune.ElementEarth, 20},
	fortune.StemJi:   {fortune.ElementEarth, 15},
	fortune.StemGeng: {fortune.ElementMetal, 20},
	fortune.StemXin:  {fortune.ElementMetal, 15},
	fortune.StemRen:  {fortune.ElementWater, 20},
	fortune.StemGui:  {fortune.ElementWater, 15},
}

var branchModifiers = map[fortune.Branch]modifier{
	fortune.BranchZi:   {fortune.ElementWater, 15},
	fortune.BranchWu:   {fortune.ElementFire, 15},
	fortune.BranchMao:  {fortune.ElementWood, 15},
	fortune.BranchYou:  {fortune.ElementMetal, 15},
	fortune.BranchYin:  {fortune.ElementWood, 10},
	fortune.BranchShen: {fortune.ElementMetal, 10},
	fortune.BranchSi:   {fortune.ElementFire, 10},
	fortune.BranchHai:  {fortune.ElementWater, 10},
	fortune.BranchChen: {fortune.ElementEarth, 10},
	fortune.BranchXu:   {fortune.ElementEarth, 10},
	fortune.BranchChou: {fortune.ElementEarth, 10},
	fortune.BranchWei:  {fortune.ElementEarth, 10},
}

// computeElements 以日柱（全權重）與月柱（半權重）修正五行基礎值，再加上隨機抖動。
func computeElements(day, month fortune.Pillar, rnd source) fortune.ElementEnergy {
	base := map[fortune.Element]float64{}
	for _, el := range fortune.Elements {
		base[el] = elementBase
	}

	apply := func(m modifier, ok bool, rate float64) {
		if !ok {
			return
		}
		base[m.element] += m.weight * rate
	}
	m, ok := stemModifiers[day.Stem]
	apply(m, ok, 1)
	m, ok = branchModifiers[day.Branch]
	apply(m, ok, 1)
	m, ok = stemModifiers[month.Stem]
	apply(m, ok, monthPillarRate)
	m, ok = branchModifiers[month.Branch]
	apply(m, ok, monthPillarRate)

	var out fortune.ElementEnergy
	for _, el := range fortune.Elements {
		v := base[el] + (rnd.Float64()-0.5)*elementJitter
		out.Set(el, int(roundHalfUp(clamp(v, elementMin, elementMax))))
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// roundHalfUp 與 x.5 一律進位的四捨五入一致（僅用於非負值）。
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
