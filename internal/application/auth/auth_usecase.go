package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"etf-fortune/internal/domain/auth"
)

var (
	ErrMissingCredentials = errors.New("email and password required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
)

// UserRepository 存取使用者。
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (auth.User, error)
	FindByID(ctx context.Context, id string) (auth.User, error)
}

// PasswordHasher 驗證密碼。
type PasswordHasher interface {
	Compare(hashed, plain string) bool
}

// TokenIssuer 簽發/輪替/作廢 token。
type TokenIssuer interface {
	Issue(ctx context.Context, user auth.User, meta auth.TokenMeta) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	RevokeRefresh(ctx context.Context, token string) error
}

// Permission 表示功能權限。
type Permission string

const (
	PermFortuneAdmin          Permission = "fortune:admin"
	PermProfileRead           Permission = "profile:read"
	PermProfileWrite          Permission = "profile:write"
	PermDisclaimerAck         Permission = "disclaimer:ack"
	PermIngestionTriggerDaily Permission = "ingestion.trigger_daily"
)

// RolePermissions 角色權限表。
var RolePermissions = map[auth.Role][]Permission{
	auth.RoleAdmin: {
		PermFortuneAdmin,
		PermProfileRead,
		PermProfileWrite,
		PermDisclaimerAck,
		PermIngestionTriggerDaily,
	},
	auth.RoleUser: {
		PermProfileRead,
		PermProfileWrite,
		PermDisclaimerAck,
	},
}

// AuthorizeInput 定義授權需求。
type AuthorizeInput struct {
	UserID   string
	Required []Permission
}

// AuthorizeResult 回傳授權結果。
type AuthorizeResult struct {
	Allowed bool
	Reason  string
}

// LoginUseCase 驗證帳密並簽發 token。
type LoginUseCase struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewLoginUseCase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *LoginUseCase {
	return &LoginUseCase{users: users, hasher: hasher, tokens: tokens}
}

type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IP        string
}

type LoginResult struct {
	User  auth.User
	Token auth.TokenPair
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (LoginResult, error) {
	var out LoginResult
	email := auth.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return out, ErrMissingCredentials
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if errors.Is(err, auth.ErrUserNotFound) {
		return out, ErrInvalidCredentials
	}
	if err != nil {
		return out, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive() {
		return out, ErrUserDisabled
	}
	if !uc.hasher.Compare(user.Password, input.Password) {
		return out, ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(ctx, user, auth.TokenMeta{UserAgent: input.UserAgent, IP: input.IP})
	if err != nil {
		return out, fmt.Errorf("issue token: %w", err)
	}

	out.User = user
	out.Token = token
	return out, nil
}

// RefreshUseCase 以 refresh token 換發新 token。
type RefreshUseCase struct {
	tokens TokenIssuer
}

func NewRefreshUseCase(tokens TokenIssuer) *RefreshUseCase {
	return &RefreshUseCase{tokens: tokens}
}

func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	if refreshToken == "" {
		return auth.TokenPair{}, errors.New("refresh token required")
	}
	return uc.tokens.Refresh(ctx, refreshToken)
}

// LogoutUseCase 處理 refresh token 作廢。
type LogoutUseCase struct {
	tokens TokenIssuer
}

func NewLogoutUseCase(tokens TokenIssuer) *LogoutUseCase {
	return &LogoutUseCase{tokens: tokens}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return errors.New("refresh token required")
	}
	return uc.tokens.RevokeRefresh(ctx, refreshToken)
}

// Authorizer 檢查角色/權限。
type Authorizer struct {
	users UserRepository
}

func NewAuthorizer(users UserRepository) *Authorizer {
	return &Authorizer{users: users}
}

func (a *Authorizer) HasPermission(role auth.Role, perm Permission) bool {
	return slices.Contains(RolePermissions[role], perm)
}

// Authorize 檢查使用者仍為啟用狀態且具備全部所需權限。
func (a *Authorizer) Authorize(ctx context.Context, input AuthorizeInput) (AuthorizeResult, error) {
	user, err := a.users.FindByID(ctx, input.UserID)
	if err != nil {
		return AuthorizeResult{Allowed: false, Reason: "user not found"}, err
	}
	if !user.IsActive() {
		return AuthorizeResult{Allowed: false, Reason: "user disabled"}, nil
	}

	for _, perm := range input.Required {
		if !a.HasPermission(user.Role, perm) {
			return AuthorizeResult{Allowed: false, Reason: fmt.Sprintf("missing permission %s", perm)}, nil
		}
	}
	return AuthorizeResult{Allowed: true}, nil
}
