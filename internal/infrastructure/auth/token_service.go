package authinfra

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	appauth "etf-fortune/internal/application/auth"
	"etf-fortune/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer       = "etf-fortune"
	refreshTokenBytes = 32
)

var (
	ErrInvalidToken     = errors.New("invalid access token")
	ErrRefreshRequired  = errors.New("refresh token required")
	ErrSessionInactive  = errors.New("session expired or revoked")
	ErrNoSessionStore   = errors.New("session store not configured")
	ErrAccountSuspended = errors.New("user disabled")
)

// TokenConfig 簽章金鑰與兩種 token 的有效期。
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// UserFinder refresh 時重新讀取使用者，確認仍為啟用狀態並取得最新角色。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (auth.User, error)
}

// Claims access token 內容；Perms 為簽發當下角色擁有的權限。
type Claims struct {
	UserID string   `json:"uid"`
	Role   string   `json:"role"`
	Perms  []string `json:"perms,omitempty"`
	jwt.RegisteredClaims
}

// Has 回傳 token 是否帶有指定權限。
func (c Claims) Has(perm appauth.Permission) bool {
	return slices.Contains(c.Perms, string(perm))
}

// TokenService 以 HS256 簽發 access token，refresh token 為隨機字串並存成 session。
type TokenService struct {
	cfg      TokenConfig
	key      []byte
	sessions auth.SessionStore
	users    UserFinder
	now      func() time.Time
}

// NewTokenService sessions 為 nil 時不保存 refresh session，Refresh 一律失敗。
func NewTokenService(cfg TokenConfig, sessions auth.SessionStore, users UserFinder) *TokenService {
	return &TokenService{
		cfg:      cfg,
		key:      []byte(cfg.Secret),
		sessions: sessions,
		users:    users,
		now:      time.Now,
	}
}

// Issue 登入成功後簽發一組 token。
func (s *TokenService) Issue(ctx context.Context, user auth.User, meta auth.TokenMeta) (auth.TokenPair, error) {
	now := s.now()
	access, accessExp, err := s.sign(user, now)
	if err != nil {
		return auth.TokenPair{}, err
	}
	refresh, refreshExp, err := s.openSession(ctx, user.ID, meta, now)
	if err != nil {
		return auth.TokenPair{}, err
	}
	return auth.TokenPair{
		AccessToken:   access,
		RefreshToken:  refresh,
		AccessExpiry:  accessExp,
		RefreshExpiry: refreshExp,
	}, nil
}

// Refresh 作廢舊 session 後重新簽發；同一個 refresh token 只能使用一次。
func (s *TokenService) Refresh(ctx context.Context, token string) (auth.TokenPair, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.TokenPair{}, ErrRefreshRequired
	}
	if s.sessions == nil {
		return auth.TokenPair{}, ErrNoSessionStore
	}

	sess, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("get session: %w", err)
	}
	if !sess.Active(s.now()) {
		return auth.TokenPair{}, ErrSessionInactive
	}
	if err := s.sessions.RevokeSession(ctx, token); err != nil {
		return auth.TokenPair{}, fmt.Errorf("revoke session: %w", err)
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive() {
		return auth.TokenPair{}, ErrAccountSuspended
	}
	return s.Issue(ctx, user, auth.TokenMeta{UserAgent: sess.UserAgent, IP: sess.IPAddress})
}

// RevokeRefresh 登出時作廢 refresh token；空字串或沒有 session store 時不做事。
func (s *TokenService) RevokeRefresh(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" || s.sessions == nil {
		return nil
	}
	return s.sessions.RevokeSession(ctx, token)
}

// ParseAccessToken 驗證簽章、簽發者與有效期。
func (s *TokenService) ParseAccessToken(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, s.keyFunc,
		jwt.WithIssuer(tokenIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID == "" || claims.Subject != claims.UserID {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) keyFunc(*jwt.Token) (interface{}, error) {
	return s.key, nil
}

func (s *TokenService) sign(user auth.User, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.cfg.AccessTTL)
	perms := make([]string, 0, len(appauth.RolePermissions[user.Role]))
	for _, p := range appauth.RolePermissions[user.Role] {
		perms = append(perms, string(p))
	}
	claims := Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		Perms:  perms,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, exp, nil
}

func (s *TokenService) openSession(ctx context.Context, userID string, meta auth.TokenMeta, now time.Time) (string, time.Time, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("refresh token: %w", err)
	}
	token := hex.EncodeToString(buf)
	exp := now.Add(s.cfg.RefreshTTL)
	if s.sessions == nil {
		return token, exp, nil
	}
	err := s.sessions.SaveSession(ctx, auth.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: exp,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IP,
		CreatedAt: now,
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("save session: %w", err)
	}
	return token, exp, nil
}
