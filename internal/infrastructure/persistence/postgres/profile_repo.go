package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"etf-fortune/internal/application/profile"
	"etf-fortune/internal/domain/fortune"
)

// ProfileRepo 存取 user_profiles。
type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// FindProfile 查無資料時回傳 profile.ErrNotFound。
func (r *ProfileRepo) FindProfile(ctx context.Context, userID string) (fortune.UserProfile, error) {
	const q = `
SELECT name, birth_date, birth_time, zodiac, element, lucky_colors, lucky_numbers
FROM user_profiles
WHERE user_id = $1;
`
	var p fortune.UserProfile
	var zodiac, element string
	var colors, numbers []byte
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&p.Name, &p.BirthDate, &p.BirthTime, &zodiac, &element, &colors, &numbers)
	if errors.Is(err, sql.ErrNoRows) {
		return fortune.UserProfile{}, profile.ErrNotFound
	}
	if err != nil {
		return fortune.UserProfile{}, err
	}
	p.Zodiac = fortune.Zodiac(zodiac)
	p.Element = fortune.Element(element)
	if len(colors) > 0 {
		if err := json.Unmarshal(colors, &p.LuckyColors); err != nil {
			return fortune.UserProfile{}, fmt.Errorf("decode lucky_colors: %w", err)
		}
	}
	if len(numbers) > 0 {
		if err := json.Unmarshal(numbers, &p.LuckyNumbers); err != nil {
			return fortune.UserProfile{}, fmt.Errorf("decode lucky_numbers: %w", err)
		}
	}
	return p, nil
}

// SaveProfile 以 user_id 為鍵 upsert。
func (r *ProfileRepo) SaveProfile(ctx context.Context, userID string, p fortune.UserProfile) error {
	const q = `
INSERT INTO user_profiles (user_id, name, birth_date, birth_time, zodiac, element, lucky_colors, lucky_numbers)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id)
DO UPDATE SET name = EXCLUDED.name,
              birth_date = EXCLUDED.birth_date,
              birth_time = EXCLUDED.birth_time,
              zodiac = EXCLUDED.zodiac,
              element = EXCLUDED.element,
              lucky_colors = EXCLUDED.lucky_colors,
              lucky_numbers = EXCLUDED.lucky_numbers,
              updated_at = NOW();
`
	colors, err := json.Marshal(nonNilStrings(p.LuckyColors))
	if err != nil {
		return err
	}
	numbers, err := json.Marshal(nonNilInts(p.LuckyNumbers))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, userID, p.Name, p.BirthDate, p.BirthTime, string(p.Zodiac), string(p.Element), colors, numbers)
	return err
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
