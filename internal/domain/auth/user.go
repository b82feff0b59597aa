package auth

import (
	"errors"
	"strings"
)

// ErrUserNotFound 查無帳號。
var ErrUserNotFound = errors.New("user not found")

// Role 定義系統角色。
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid 是否為已知角色。
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Status 定義帳號狀態。
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// User 基本帳號資料。
type User struct {
	ID       string
	Email    string
	Name     string
	Role     Role
	Status   Status
	Password string // 雜湊後密碼
}

// Validate 基本欄位檢查。
func (u User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("valid email is required")
	}
	if !u.Role.Valid() {
		return errors.New("unknown role")
	}
	if u.Status == "" {
		return errors.New("status is required")
	}
	return nil
}

// IsActive 檢查是否可登入。
func (u User) IsActive() bool {
	return u.Status == StatusActive
}

// NormalizeEmail 統一 email 比對格式。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
