package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"etf-fortune/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	errUnauthorized = "AUTH_UNAUTHORIZED"
	errForbidden    = "AUTH_FORBIDDEN"
	errInvalidCreds = "AUTH_INVALID_CREDENTIALS"
	errIncomplete   = "INCOMPLETE_PROFILE"
	defaultPassword = "password123"
)

func newTestApp(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		Auth:      config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour, RefreshTTL: 24 * time.Hour},
		Fortune:   config.FortuneConfig{CacheCapacity: 10, DefaultSymbol: "0050"},
		Ingestion: config.IngestionConfig{UseSynthetic: true, Cron: "0 30 14 * * 1-5", LookbackDays: 7},
		Valkey:    config.ValkeyConfig{PriceTTL: time.Minute},
	}
	a, err := newApp(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(a.Close)
	if err := a.startJobs(); err != nil {
		t.Fatalf("startJobs: %v", err)
	}

	ts := httptest.NewServer(a.server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// TestFortuneE2EFlow 覆蓋登入、保存個人資料、計算運勢、確認免責聲明與健康檢查。
func TestFortuneE2EFlow(t *testing.T) {
	ts := newTestApp(t)

	userToken := login(t, ts, "user@example.com", defaultPassword)
	putJSON(t, ts, "/api/profile", userToken, map[string]string{
		"name":       "測試用戶",
		"birth_date": "1990-05-15",
		"birth_time": "10:30",
	}, http.StatusOK)

	daily := postJSON(t, ts, "/api/fortune/daily", userToken, map[string]string{"date": "2024-01-15"}, http.StatusOK)
	var res struct {
		Success bool `json:"success"`
		Data    struct {
			Date            string `json:"date"`
			InvestmentScore int    `json:"investment_score"`
			Recommendation  string `json:"recommendation"`
		} `json:"data"`
	}
	decode(t, daily.RawBody, &res)
	if !res.Success || res.Data.Date != "2024-01-15" || res.Data.Recommendation == "" {
		t.Fatalf("unexpected fortune response: %s", daily.RawBody)
	}

	enhanced := postJSON(t, ts, "/api/fortune/enhanced", userToken, map[string]string{"date": "2024-01-15"}, http.StatusOK)
	var enh struct {
		Data struct {
			Disclaimer struct {
				Level string `json:"level"`
			} `json:"disclaimer"`
		} `json:"data"`
	}
	decode(t, enhanced.RawBody, &enh)
	if enh.Data.Disclaimer.Level == "" {
		t.Fatalf("expected disclaimer level: %s", enhanced.RawBody)
	}
	postJSON(t, ts, "/api/disclaimer/ack", userToken, map[string]string{"level": enh.Data.Disclaimer.Level}, http.StatusOK)

	adminToken := login(t, ts, "admin@example.com", defaultPassword)
	postJSON(t, ts, "/api/admin/ingestion/daily", adminToken, map[string]interface{}{
		"start_date": "2024-01-08",
		"end_date":   "2024-01-12",
	}, http.StatusOK)
	getJSON(t, ts, "/api/etf/prices?start_date=2024-01-08&end_date=2024-01-12", "", http.StatusOK)

	health := getJSON(t, ts, "/api/health", "", http.StatusOK)
	if !health.Success {
		t.Fatalf("health should be success")
	}
}

// TestAuthErrors 檢查未帶 token、錯誤密碼、權限不足的行為。
func TestAuthErrors(t *testing.T) {
	ts := newTestApp(t)

	resp := getJSON(t, ts, "/api/profile", "", http.StatusUnauthorized)
	if resp.ErrorCode != errUnauthorized {
		t.Fatalf("expected error_code=%s got=%s", errUnauthorized, resp.ErrorCode)
	}

	fail := postJSON(t, ts, "/api/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "wrong",
	}, http.StatusUnauthorized)
	if fail.ErrorCode != errInvalidCreds {
		t.Fatalf("expected error_code=%s got=%s", errInvalidCreds, fail.ErrorCode)
	}

	userToken := login(t, ts, "user@example.com", defaultPassword)
	forbidden := postJSON(t, ts, "/api/admin/ingestion/daily", userToken, map[string]interface{}{
		"start_date": "2024-01-08",
		"end_date":   "2024-01-12",
	}, http.StatusForbidden)
	if forbidden.ErrorCode != errForbidden {
		t.Fatalf("expected forbidden for user")
	}

	// 尚未保存個人資料
	incomplete := postJSON(t, ts, "/api/fortune/daily", userToken, map[string]string{"date": "2024-01-15"}, http.StatusBadRequest)
	if incomplete.ErrorCode != errIncomplete {
		t.Fatalf("expected error_code=%s got=%s", errIncomplete, incomplete.ErrorCode)
	}
}

// --- helpers ---

type apiError struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
}

func login(t *testing.T, ts *httptest.Server, email, password string) string {
	resp := postJSON(t, ts, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, http.StatusOK)

	var body struct {
		Success     bool   `json:"success"`
		AccessToken string `json:"access_token"`
	}
	decode(t, resp.RawBody, &body)
	if !body.Success || body.AccessToken == "" {
		t.Fatalf("login failed for %s", email)
	}
	return body.AccessToken
}

type apiResponse struct {
	apiError
	Status  int
	RawBody []byte
}

func postJSON(t *testing.T, ts *httptest.Server, path, token string, payload interface{}, expect int) apiResponse {
	return sendJSON(t, ts, http.MethodPost, path, token, payload, expect)
}

func putJSON(t *testing.T, ts *httptest.Server, path, token string, payload interface{}, expect int) apiResponse {
	return sendJSON(t, ts, http.MethodPut, path, token, payload, expect)
}

func sendJSON(t *testing.T, ts *httptest.Server, method, path, token string, payload interface{}, expect int) apiResponse {
	buf, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	body := decodeError(t, res)
	if res.StatusCode != expect {
		t.Fatalf("%s %s expected %d got %d (code=%s err=%s)", method, path, expect, res.StatusCode, body.ErrorCode, body.Error)
	}
	body.Status = res.StatusCode
	return body
}

func getJSON(t *testing.T, ts *httptest.Server, path, token string, expect int) apiResponse {
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	body := decodeError(t, res)
	if res.StatusCode != expect {
		t.Fatalf("GET %s expected %d got %d (code=%s err=%s)", path, expect, res.StatusCode, body.ErrorCode, body.Error)
	}
	body.Status = res.StatusCode
	return body
}

func decodeError(t *testing.T, res *http.Response) apiResponse {
	var body apiError
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return apiResponse{apiError: body, RawBody: raw}
}

func decode(t *testing.T, raw []byte, out interface{}) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}
