package disclaimer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"etf-fortune/internal/domain/fortune"

	"github.com/google/uuid"
)

// Level 免責聲明強度。
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// ParseLevel 將字串轉為 Level。
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelLow, LevelMedium, LevelHigh, LevelCritical:
		return Level(s), nil
	}
	return "", fmt.Errorf("unknown disclaimer level %q", s)
}

var templates = map[Level][]string{
	LevelLow: {
		"本系統提供的運勢分析僅供參考，不構成任何投資建議。",
		"市場存在波動風險，投資決策應基於個人財務狀況和專業建議。",
	},
	LevelMedium: {
		"本系統運勢分析基於傳統農民曆理論，僅供娛樂參考使用。",
		"投資有風險，過往績效不保證未來表現，請謹慎評估。",
		"建議在做出投資決定前，諮詢專業理財顧問。",
	},
	LevelHigh: {
		"⚠️ 重要提醒：本系統所有分析結果均不構成投資建議或買賣推薦。",
		"0050 ETF 價格波動可能導致本金損失，投資前請充分了解產品風險。",
		"運勢分析僅為傳統文化元素，與實際投資表現無直接關聯。",
		"請勿根據本系統分析做出重大財務決策，應基於個人風險承受能力。",
	},
	LevelCritical: {
		"🚨 重要免責聲明：本系統提供之所有內容，包括但不限於運勢分析、投資建議等，均不構成任何形式的投資建議。",
		"投資涉及風險，本金可能遭受損失。0050 ETF 價格受多種因素影響，歷史表現不保證未來結果。",
		"本系統採用傳統農民曆、生肖、五行等文化元素進行分析，這些方法缺乏科學驗證，僅供文化娛樂參考。",
		"使用者應充分了解自身財務狀況、投資目標和風險承受能力，並在必要時尋求獨立專業意見。",
		"本系統開發團隊不對因使用本系統資訊所造成的任何直接或間接損失承擔責任。",
		"如無法理解或同意本免責聲明，請立即停止使用本系統。",
	},
}

const (
	highScoreNote = "高運勢分數僅代表演算法計算結果，不保證實際投資表現。"
	lowScoreNote  = "低運勢分數不應作為避開投資機會的唯一依據。"

	// AckValidity 確認紀錄的有效期間，超過即需重新顯示。
	AckValidity = 7 * 24 * time.Hour
)

// Disclaimer 附加在運勢結果上的免責聲明。
type Disclaimer struct {
	Level                  Level    `json:"level"`
	Messages               []string `json:"messages"`
	RequiresAcknowledgment bool     `json:"requires_acknowledgment"`
}

// LevelFor 買進建議最嚴格（≥80 為 critical），賣出為 medium，持有依分數分 medium/low。
func LevelFor(investmentScore int, rec fortune.Recommendation) Level {
	switch rec {
	case fortune.RecommendBuy:
		if investmentScore >= 80 {
			return LevelCritical
		}
		return LevelHigh
	case fortune.RecommendSell:
		return LevelMedium
	default:
		if investmentScore >= 60 {
			return LevelMedium
		}
		return LevelLow
	}
}

// Create 產生對應分數與建議的免責聲明。
func Create(investmentScore int, rec fortune.Recommendation) Disclaimer {
	level := LevelFor(investmentScore, rec)
	msgs := append([]string(nil), templates[level]...)
	if investmentScore >= 80 {
		msgs = append(msgs, highScoreNote)
	}
	if investmentScore <= 40 {
		msgs = append(msgs, lowScoreNote)
	}
	return Disclaimer{
		Level:                  level,
		Messages:               msgs,
		RequiresAcknowledgment: level == LevelCritical || level == LevelHigh,
	}
}

// ShouldForceDisplay 需要確認且（從未確認或確認已超過七天）時強制顯示。
func ShouldForceDisplay(d Disclaimer, lastAck *time.Time, now time.Time) bool {
	if !d.RequiresAcknowledgment {
		return false
	}
	if lastAck == nil || lastAck.IsZero() {
		return true
	}
	return now.Sub(*lastAck) > AckValidity
}

// Acknowledgment 使用者對某強度免責聲明的確認紀錄。
type Acknowledgment struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Level          Level     `json:"level"`
	AcknowledgedAt time.Time `json:"acknowledged_at"`
}

// ErrNoAcknowledgment 查無確認紀錄。
var ErrNoAcknowledgment = errors.New("no acknowledgment")

// AckRepository 儲存確認紀錄。
type AckRepository interface {
	SaveAcknowledgment(ctx context.Context, ack Acknowledgment) error
	LatestAcknowledgment(ctx context.Context, userID string, level Level) (Acknowledgment, error)
}

// Service 管理確認紀錄。
type Service struct {
	repo AckRepository
	now  func() time.Time
}

func NewService(repo AckRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Acknowledge 記錄使用者已閱讀指定強度的聲明。
func (s *Service) Acknowledge(ctx context.Context, userID string, level Level) (Acknowledgment, error) {
	if userID == "" {
		return Acknowledgment{}, errors.New("user id required")
	}
	ack := Acknowledgment{
		ID:             uuid.NewString(),
		UserID:         userID,
		Level:          level,
		AcknowledgedAt: s.now().UTC(),
	}
	if err := s.repo.SaveAcknowledgment(ctx, ack); err != nil {
		return Acknowledgment{}, fmt.Errorf("save acknowledgment: %w", err)
	}
	return ack, nil
}

// Status 回傳最近確認時間（可能為 nil）與是否需要強制顯示。
func (s *Service) Status(ctx context.Context, userID string, d Disclaimer) (*time.Time, bool, error) {
	ack, err := s.repo.LatestAcknowledgment(ctx, userID, d.Level)
	if errors.Is(err, ErrNoAcknowledgment) {
		return nil, ShouldForceDisplay(d, nil, s.now()), nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("latest acknowledgment: %w", err)
	}
	at := ack.AcknowledgedAt
	return &at, ShouldForceDisplay(d, &at, s.now()), nil
}

// ForLevel 回傳指定強度的標準聲明（不含分數附註）。
func ForLevel(level Level) Disclaimer {
	return Disclaimer{
		Level:                  level,
		Messages:               append([]string(nil), templates[level]...),
		RequiresAcknowledgment: level == LevelCritical || level == LevelHigh,
	}
}
