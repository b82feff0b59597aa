package auth

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound refresh token 不存在。
var ErrSessionNotFound = errors.New("session not found")

// Session 紀錄 refresh token 與其生命週期。
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
	UserAgent string
	IPAddress string
	CreatedAt time.Time
}

// Active 未過期且未撤銷。
func (s Session) Active(now time.Time) bool {
	if !s.ExpiresAt.After(now) {
		return false
	}
	return s.RevokedAt == nil || s.RevokedAt.IsZero()
}

// SessionStore 提供 refresh token 儲存/查詢/撤銷。
type SessionStore interface {
	SaveSession(ctx context.Context, sess Session) error
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string) error
}

// TokenMeta 簽發 token 時附帶的連線資訊。
type TokenMeta struct {
	UserAgent string
	IP        string
}

// TokenPair 封裝 access/refresh token。
type TokenPair struct {
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token"`
	AccessExpiry  time.Time `json:"access_expires_at"`
	RefreshExpiry time.Time `json:"refresh_expires_at"`
}
