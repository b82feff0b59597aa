package profile

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"etf-fortune/internal/domain/fortune"
)

// ErrNotFound 使用者尚未建立個人資料。
var ErrNotFound = errors.New("profile not found")

// Repository 依使用者 ID 存取個人資料。
type Repository interface {
	FindProfile(ctx context.Context, userID string) (fortune.UserProfile, error)
	SaveProfile(ctx context.Context, userID string, p fortune.UserProfile) error
}

// Service 驗證並保存使用者的命理資料。
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Get 回傳已保存的資料；不存在時回傳 ErrNotFound。
func (s *Service) Get(ctx context.Context, userID string) (fortune.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return fortune.UserProfile{}, ErrNotFound
	}
	return s.repo.FindProfile(ctx, userID)
}

// Save 驗證後保存；未填生肖時依出生年推算。
func (s *Service) Save(ctx context.Context, userID string, p fortune.UserProfile) (fortune.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return fortune.UserProfile{}, errors.New("user id is required")
	}
	if err := p.Validate(s.now()); err != nil {
		return fortune.UserProfile{}, err
	}
	p = p.Normalized()
	if p.Zodiac == "" {
		if year, err := strconv.Atoi(p.BirthDate[:4]); err == nil {
			p.Zodiac = fortune.ZodiacOfYear(year)
		}
	}
	if err := s.repo.SaveProfile(ctx, userID, p); err != nil {
		return fortune.UserProfile{}, err
	}
	return p, nil
}
