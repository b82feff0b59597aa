package fortune

import (
	"strings"
	"time"
	"unicode/utf16"

	"etf-fortune/internal/domain/fortune"
)

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// DeriveSeed 以 FNV-1a 對「日期 + 使用者身分」字串雜湊，逐一處理 UTF-16 code unit。
func DeriveSeed(profile fortune.UserProfile, date time.Time) uint32 {
	return fnv1a(dateDigits(date) + identity(profile))
}

// identity 為姓名 + 生日（去除 -）+ 出生時間（去除第一個冒號）。
func identity(p fortune.UserProfile) string {
	return p.Name + strings.ReplaceAll(p.BirthDate, "-", "") + strings.Replace(p.BirthTime, ":", "", 1)
}

func dateDigits(date time.Time) string {
	return date.Format("20060102")
}

func fnv1a(s string) uint32 {
	hash := fnvOffsetBasis
	for _, unit := range utf16.Encode([]rune(s)) {
		hash ^= uint32(unit)
		hash *= fnvPrime
	}
	return hash
}
