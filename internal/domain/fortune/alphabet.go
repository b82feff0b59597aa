package fortune

import "fmt"

// Stem 天干。
type Stem string

const (
	StemJia  Stem = "甲"
	StemYi   Stem = "乙"
	StemBing Stem = "丙"
	StemDing Stem = "丁"
	StemWu   Stem = "戊"
	StemJi   Stem = "己"
	StemGeng Stem = "庚"
	StemXin  Stem = "辛"
	StemRen  Stem = "壬"
	StemGui  Stem = "癸"
)

// Stems 依序列出十天干。
var Stems = []Stem{StemJia, StemYi, StemBing, StemDing, StemWu, StemJi, StemGeng, StemXin, StemRen, StemGui}

// ParseStem 將字串轉為天干，未知值回傳錯誤。
func ParseStem(s string) (Stem, error) {
	for _, st := range Stems {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stem %q", s)
}

// Branch 地支。
type Branch string

const (
	BranchZi   Branch = "子"
	BranchChou Branch = "丑"
	BranchYin  Branch = "寅"
	BranchMao  Branch = "卯"
	BranchChen Branch = "辰"
	BranchSi   Branch = "巳"
	BranchWu   Branch = "午"
	BranchWei  Branch = "未"
	BranchShen Branch = "申"
	BranchYou  Branch = "酉"
	BranchXu   Branch = "戌"
	BranchHai  Branch = "亥"
)

// Branches 依序列出十二地支。
var Branches = []Branch{
	BranchZi, BranchChou, BranchYin, BranchMao, BranchChen, BranchSi,
	BranchWu, BranchWei, BranchShen, BranchYou, BranchXu, BranchHai,
}

// ParseBranch 將字串轉為地支，未知值回傳錯誤。
func ParseBranch(s string) (Branch, error) {
	for _, b := range Branches {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown branch %q", s)
}

// Zodiac 生肖（繁體）。
type Zodiac string

const (
	ZodiacRat     Zodiac = "鼠"
	ZodiacOx      Zodiac = "牛"
	ZodiacTiger   Zodiac = "虎"
	ZodiacRabbit  Zodiac = "兔"
	ZodiacDragon  Zodiac = "龍"
	ZodiacSnake   Zodiac = "蛇"
	ZodiacHorse   Zodiac = "馬"
	ZodiacGoat    Zodiac = "羊"
	ZodiacMonkey  Zodiac = "猴"
	ZodiacRooster Zodiac = "雞"
	ZodiacDog     Zodiac = "狗"
	ZodiacPig     Zodiac = "豬"
)

// Zodiacs 依地支順序（子鼠起）列出十二生肖。
var Zodiacs = []Zodiac{
	ZodiacRat, ZodiacOx, ZodiacTiger, ZodiacRabbit, ZodiacDragon, ZodiacSnake,
	ZodiacHorse, ZodiacGoat, ZodiacMonkey, ZodiacRooster, ZodiacDog, ZodiacPig,
}

var simplifiedZodiac = map[string]Zodiac{
	"龙": ZodiacDragon,
	"马": ZodiacHorse,
	"鸡": ZodiacRooster,
	"猪": ZodiacPig,
}

// ParseZodiac 接受繁體或簡體生肖字，統一回傳繁體。
func ParseZodiac(s string) (Zodiac, error) {
	for _, z := range Zodiacs {
		if string(z) == s {
			return z, nil
		}
	}
	if z, ok := simplifiedZodiac[s]; ok {
		return z, nil
	}
	return "", fmt.Errorf("unknown zodiac %q", s)
}

// ZodiacOfYear 以 (year-4) mod 12 推算西元年的生肖（不考慮立春/正月分界）。
func ZodiacOfYear(year int) Zodiac {
	idx := (year - 4) % 12
	if idx < 0 {
		idx += 12
	}
	return Zodiacs[idx]
}

// Element 五行。
type Element string

const (
	ElementMetal Element = "metal"
	ElementWood  Element = "wood"
	ElementWater Element = "water"
	ElementFire  Element = "fire"
	ElementEarth Element = "earth"
)

// Elements 是五行的固定迭代順序，隨機抖動依此順序抽取。
var Elements = []Element{ElementMetal, ElementWood, ElementWater, ElementFire, ElementEarth}

var elementChinese = map[Element]string{
	ElementMetal: "金",
	ElementWood:  "木",
	ElementWater: "水",
	ElementFire:  "火",
	ElementEarth: "土",
}

// Chinese 回傳五行的中文字。
func (e Element) Chinese() string {
	return elementChinese[e]
}

// ParseElement 接受英文標籤或中文字（金木水火土）。
func ParseElement(s string) (Element, error) {
	for _, e := range Elements {
		if string(e) == s || elementChinese[e] == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown element %q", s)
}

// Pillar 一組干支（年柱、月柱或日柱）。
type Pillar struct {
	Stem   Stem   `json:"stem"`
	Branch Branch `json:"branch"`
}

func (p Pillar) String() string {
	return string(p.Stem) + string(p.Branch)
}
