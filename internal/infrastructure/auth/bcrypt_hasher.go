package authinfra

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword 為種子帳號的預設密碼。
const DefaultPassword = "password123"

// BcryptHasher 使用 bcrypt 檢查密碼。
type BcryptHasher struct{}

func (BcryptHasher) Compare(hashed, plain string) bool {
	if hashed == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

func (BcryptHasher) Hash(plain string) (string, error) {
	return HashPassword(plain)
}

// HashPassword 產生 bcrypt 雜湊，種子帳號與建立帳號共用。
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("password required")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
