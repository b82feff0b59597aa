package authinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	appauth "etf-fortune/internal/application/auth"
	"etf-fortune/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
)

type mockSessionStore struct {
	sessions map[string]auth.Session
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: map[string]auth.Session{}}
}

func (m *mockSessionStore) SaveSession(_ context.Context, sess auth.Session) error {
	m.sessions[sess.Token] = sess
	return nil
}

func (m *mockSessionStore) GetSession(_ context.Context, token string) (auth.Session, error) {
	sess, ok := m.sessions[token]
	if !ok {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return sess, nil
}

func (m *mockSessionStore) RevokeSession(_ context.Context, token string) error {
	sess, ok := m.sessions[token]
	if !ok {
		return nil
	}
	now := time.Now()
	sess.RevokedAt = &now
	m.sessions[token] = sess
	return nil
}

type mockUserFinder struct {
	status auth.Status
}

func (m *mockUserFinder) FindByID(_ context.Context, id string) (auth.User, error) {
	status := m.status
	if status == "" {
		status = auth.StatusActive
	}
	return auth.User{ID: id, Role: auth.RoleAdmin, Status: status}, nil
}

func newService(secret string, accessTTL, refreshTTL time.Duration, sessions auth.SessionStore, users UserFinder) *TokenService {
	return NewTokenService(TokenConfig{Secret: secret, AccessTTL: accessTTL, RefreshTTL: refreshTTL}, sessions, users)
}

func TestTokenService_IssueAndParse(t *testing.T) {
	issuer := newService("secret", time.Hour, time.Hour*24, newMockSessionStore(), &mockUserFinder{})
	user := auth.User{ID: "u-1", Role: auth.RoleAdmin}

	pair, err := issuer.Issue(context.Background(), user, auth.TokenMeta{})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := issuer.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "u-1" || claims.Issuer != tokenIssuer || claims.ID == "" {
		t.Errorf("unexpected registered claims: %+v", claims.RegisteredClaims)
	}
	if !claims.Has(appauth.PermIngestionTriggerDaily) || !claims.Has(appauth.PermProfileWrite) {
		t.Errorf("admin token should carry role permissions: %v", claims.Perms)
	}
}

func TestTokenService_UserTokenCarriesUserPermissions(t *testing.T) {
	issuer := newService("secret", time.Hour, time.Hour, nil, &mockUserFinder{})
	pair, err := issuer.Issue(context.Background(), auth.User{ID: "u-2", Role: auth.RoleUser}, auth.TokenMeta{})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	claims, err := issuer.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if claims.Has(appauth.PermFortuneAdmin) || claims.Has(appauth.PermIngestionTriggerDaily) {
		t.Errorf("user token should not carry admin permissions: %v", claims.Perms)
	}
	if !claims.Has(appauth.PermDisclaimerAck) {
		t.Errorf("user token missing disclaimer permission: %v", claims.Perms)
	}
}

func TestTokenService_RejectsOtherSigningMethod(t *testing.T) {
	issuer := newService("secret", time.Hour, time.Hour, nil, &mockUserFinder{})
	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           "u-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "u-1"},
	})
	signed, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := issuer.ParseAccessToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsWrongSecretAndExpired(t *testing.T) {
	issuer := newService("secret", time.Minute, time.Hour, nil, &mockUserFinder{})
	pair, err := issuer.Issue(context.Background(), auth.User{ID: "u-1", Role: auth.RoleUser}, auth.TokenMeta{})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	other := newService("other-secret", time.Minute, time.Hour, nil, &mockUserFinder{})
	if _, err := other.ParseAccessToken(pair.AccessToken); err == nil {
		t.Error("expected signature error")
	}

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := issuer.ParseAccessToken(pair.AccessToken); err == nil {
		t.Error("expected expiry error")
	}
}

func TestTokenService_RefreshRotatesSession(t *testing.T) {
	store := newMockSessionStore()
	issuer := newService("secret", time.Hour, time.Hour*24, store, &mockUserFinder{})

	first, err := issuer.Issue(context.Background(), auth.User{ID: "u-1", Role: auth.RoleUser}, auth.TokenMeta{UserAgent: "UA", IP: "127.0.0.1"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	second, err := issuer.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token should rotate")
	}
	if store.sessions[second.RefreshToken].UserAgent != "UA" {
		t.Error("meta should carry over to rotated session")
	}

	if _, err := issuer.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, ErrSessionInactive) {
		t.Error("reusing a rotated refresh token should fail")
	}
	if _, err := issuer.Refresh(context.Background(), "unknown"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestTokenService_RefreshDisabledUser(t *testing.T) {
	store := newMockSessionStore()
	issuer := newService("secret", time.Hour, time.Hour, store, &mockUserFinder{status: auth.StatusDisabled})
	pair, err := issuer.Issue(context.Background(), auth.User{ID: "u-1", Role: auth.RoleUser}, auth.TokenMeta{})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := issuer.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrAccountSuspended) {
		t.Errorf("expected ErrAccountSuspended, got %v", err)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{}
	hashed, err := h.Hash(DefaultPassword)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !h.Compare(hashed, DefaultPassword) {
		t.Error("Compare failed")
	}
	if h.Compare(hashed, "wrong") {
		t.Error("Compare should have failed")
	}
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password should be rejected")
	}
}
