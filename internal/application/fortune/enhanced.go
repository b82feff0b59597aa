package fortune

import (
	"fmt"
	"math"
	"time"

	"etf-fortune/internal/application/disclaimer"
	"etf-fortune/internal/domain/fortune"
)

// Transparency 說明演算法、資料來源與限制。
type Transparency struct {
	AlgorithmExplanation string    `json:"algorithm_explanation"`
	DataSources          []string  `json:"data_sources"`
	Limitations          []string  `json:"limitations"`
	ConfidenceLevel      float64   `json:"confidence_level"`
	LastUpdated          time.Time `json:"last_updated"`
}

// EducationalCard 搭配運勢結果的教育內容。
type EducationalCard struct {
	Category      string   `json:"category"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Difficulty    string   `json:"difficulty"`
	RelatedTopics []string `json:"related_topics"`
}

// EnhancedFortune 基本運勢加上免責聲明、透明度與教育內容。
type EnhancedFortune struct {
	*fortune.FortuneResult
	Disclaimer         disclaimer.Disclaimer `json:"disclaimer"`
	Transparency       Transparency          `json:"transparency"`
	EducationalContent []EducationalCard     `json:"educational_content"`
}

const algorithmExplanation = `運勢計算演算法結合以下元素：
1. 農民曆分析：根據指定日期的天干地支計算五行能量
2. 個人資料：以姓名、出生年月日時產生固定種子
3. 生肖相性：根據生肖屬性計算吉利時段
4. 五行平衡：計算金木水火土五行的平衡度
5. 加權評分：綜合各項因素計算總體運勢和投資分數

計算公式：
總體運勢 = (五行平衡度 + 平均值分數) × 0.5
投資運勢 = 總體運勢 + 生肖加成 + 隨機波動

注意：此演算法僅供文化娛樂參考，不具備科學預測能力。`

var (
	dataSources = []string{
		"FinMind API - 台灣金融數據開源平台",
		"lunar-go - 農民曆計算函式庫",
		"傳統八字五行理論",
		"生肖運勢對照表",
	}
	limitations = []string{
		"運勢計算基於傳統文化，缺乏科學驗證",
		"市場受多種因素影響，歷史表現不保證未來結果",
		"個人運勢分析不考慮實際財務狀況",
		"僅適用於台股 0050 ETF，不建議用於其他投資標的",
	}
)

// Confidence = min(95, 60 + 總體分數 × 0.3)。
func Confidence(overallScore int) float64 {
	return math.Min(95, 60+float64(overallScore)*0.3)
}

// CalculateEnhancedFortune 在每日運勢外附加免責聲明與說明內容。
func (e *Engine) CalculateEnhancedFortune(profile fortune.UserProfile, date time.Time) (*EnhancedFortune, error) {
	base, err := e.CalculateDailyFortune(profile, date)
	if err != nil {
		return nil, err
	}
	return &EnhancedFortune{
		FortuneResult: base,
		Disclaimer:    disclaimer.Create(base.InvestmentScore, base.Recommendation),
		Transparency: Transparency{
			AlgorithmExplanation: algorithmExplanation,
			DataSources:          dataSources,
			Limitations:          limitations,
			ConfidenceLevel:      Confidence(base.OverallScore),
			LastUpdated:          time.Now().UTC(),
		},
		EducationalContent: educationalContent(base),
	}, nil
}

func educationalContent(f *fortune.FortuneResult) []EducationalCard {
	cards := []EducationalCard{
		{
			Category: "lunar-calendar",
			Title:    "今日農民曆解讀",
			Content: fmt.Sprintf("今天是 %s，根據農民曆，五行能量分別為：\n金: %d | 木: %d | 水: %d | 火: %d | 土: %d\n\n五行平衡度影響整體運勢，當各元素數值接近時，代表運勢較為穩定。",
				f.Date, f.Elements.Metal, f.Elements.Wood, f.Elements.Water, f.Elements.Fire, f.Elements.Earth),
			Difficulty:    "beginner",
			RelatedTopics: []string{"五行理論", "農民曆基礎"},
		},
		{
			Category:      "investment",
			Title:         "0050 ETF 基礎認識",
			Content:       "元大台灣50ETF(0050)追蹤台灣50指數，包含台灣市值最大的50家公司。是台灣最主流的ETF之一，適合長期投資和定期定額。",
			Difficulty:    "beginner",
			RelatedTopics: []string{"ETF基礎", "台灣股市"},
		},
	}
	if f.InvestmentScore <= 40 {
		cards = append(cards, EducationalCard{
			Category:      "risk-management",
			Title:         "低運勢日投資策略",
			Content:       "運勢較低時建議：1. 避免重大投資決策 2. 專注研究分析 3. 保持現金部位 4. 回顧投資策略。記住，市場機會隨時存在，不急於一時。",
			Difficulty:    "intermediate",
			RelatedTopics: []string{"風險控制", "情緒管理"},
		})
	}
	return cards
}
