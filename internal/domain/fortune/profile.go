package fortune

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	birthDateLayout = "2006-01-02"
	birthTimeLayout = "15:04"
)

// UserProfile 描述使用者的身分與命理屬性，對運勢引擎而言為唯讀輸入。
type UserProfile struct {
	Name         string   `json:"name"`
	BirthDate    string   `json:"birth_date"`
	BirthTime    string   `json:"birth_time"`
	Zodiac       Zodiac   `json:"zodiac"`
	Element      Element  `json:"element"`
	LuckyColors  []string `json:"lucky_colors"`
	LuckyNumbers []int    `json:"lucky_numbers"`
}

// IsComplete 姓名、生日、出生時間皆有值才允許計算運勢。
func (p UserProfile) IsComplete() bool {
	return strings.TrimSpace(p.Name) != "" && p.BirthDate != "" && p.BirthTime != ""
}

// ValidationError 收集多個驗證失敗原因。
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("profile validation failed: %v", e.Reasons)
}

// IsValidationError 檢查錯誤是否為使用者資料驗證錯誤。
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate 檢查欄位完整性；now 用於判斷生日是否在未來。
func (p UserProfile) Validate(now time.Time) error {
	var reasons []string

	if strings.TrimSpace(p.Name) == "" {
		reasons = append(reasons, "name is required")
	}

	if p.BirthDate == "" {
		reasons = append(reasons, "birth_date is required")
	} else if bd, err := time.Parse(birthDateLayout, p.BirthDate); err != nil {
		reasons = append(reasons, "birth_date must be YYYY-MM-DD")
	} else {
		y, m, d := now.Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if bd.After(today) {
			reasons = append(reasons, "birth_date must not be in the future")
		}
	}

	if p.BirthTime == "" {
		reasons = append(reasons, "birth_time is required")
	} else if _, err := time.Parse(birthTimeLayout, p.BirthTime); err != nil {
		reasons = append(reasons, "birth_time must be HH:MM")
	}

	if p.Zodiac != "" {
		if _, err := ParseZodiac(string(p.Zodiac)); err != nil {
			reasons = append(reasons, err.Error())
		}
	}
	if p.Element != "" {
		if _, err := ParseElement(string(p.Element)); err != nil {
			reasons = append(reasons, err.Error())
		}
	}

	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

// Normalized 將生肖、五行轉為標準標籤；無法辨識的值保持原樣。
func (p UserProfile) Normalized() UserProfile {
	out := p
	out.Name = strings.TrimSpace(p.Name)
	if z, err := ParseZodiac(string(p.Zodiac)); err == nil {
		out.Zodiac = z
	}
	if e, err := ParseElement(string(p.Element)); err == nil {
		out.Element = e
	}
	return out
}
