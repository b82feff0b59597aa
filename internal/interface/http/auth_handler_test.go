package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"etf-fortune/internal/domain/auth"
	authinfra "etf-fortune/internal/infrastructure/auth"
)

func authMeta() auth.TokenMeta {
	return auth.TokenMeta{UserAgent: "test", IP: "127.0.0.1"}
}

func TestAuthHandler_Login(t *testing.T) {
	env := newTestServer(t)

	t.Run("LoginSuccess", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "admin@example.com",
			"password": authinfra.DefaultPassword,
		}, "")
		expectStatus(t, w, http.StatusOK)

		resp := decode(t, w)
		if resp["success"] != true {
			t.Errorf("expected success true, got %v", resp["success"])
		}
		if tok, _ := resp["access_token"].(string); tok == "" {
			t.Error("expected access_token, got empty")
		}
		if findCookie(w, refreshCookieName) == nil {
			t.Error("expected refresh_token cookie")
		}
	})

	t.Run("LoginFailure", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "admin@example.com",
			"password": "wrong-password",
		}, "")
		expectErrorCode(t, w, http.StatusUnauthorized, errCodeInvalidCredentials)
	})

	t.Run("MissingFields", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@example.com"}, "")
		expectErrorCode(t, w, http.StatusBadRequest, errCodeBadRequest)
	})
}

func TestAuthHandler_RefreshAndLogout(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": authinfra.DefaultPassword,
	}, "")
	expectStatus(t, w, http.StatusOK)
	refresh := findCookie(w, refreshCookieName)
	if refresh == nil {
		t.Fatal("missing refresh cookie")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refresh.Value})
	w = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	expectStatus(t, w, http.StatusOK)
	rotated := findCookie(w, refreshCookieName)
	if rotated == nil || rotated.Value == refresh.Value {
		t.Fatal("expected rotated refresh cookie")
	}

	// 舊 token 已被輪替
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: refresh.Value})
	w = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	expectStatus(t, w, http.StatusUnauthorized)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: rotated.Value})
	w = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	expectStatus(t, w, http.StatusOK)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: rotated.Value})
	w = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestAuthHandler_RefreshWithoutCookie(t *testing.T) {
	env := newTestServer(t)
	w := env.do(t, http.MethodPost, "/api/auth/refresh", nil, "")
	expectStatus(t, w, http.StatusUnauthorized)
	if !strings.Contains(w.Body.String(), "refresh token missing") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
