package httpapi

import (
	"net/http"
	"testing"
)

func TestIngestionDaily(t *testing.T) {
	env := newTestServer(t)
	token := env.tokenFor(t, "admin@example.com")

	w := env.do(t, http.MethodPost, "/api/admin/ingestion/daily", map[string]interface{}{
		"start_date":      "2024-01-08",
		"end_date":        "2024-01-12",
		"force_synthetic": true,
	}, token)
	expectStatus(t, w, http.StatusOK)

	resp := decode(t, w)
	if resp["symbol"] != "0050" || resp["start_date"] != "2024-01-08" {
		t.Errorf("unexpected response %v", resp)
	}
	if resp["triggered_by"] == "" {
		t.Error("expected triggered_by")
	}
	// 週一至週五共五個交易日
	if n := env.store.PriceCount(); n != 5 {
		t.Errorf("expected 5 stored prices, got %d", n)
	}
}

func TestIngestionDaily_Validation(t *testing.T) {
	env := newTestServer(t)
	token := env.tokenFor(t, "admin@example.com")

	w := env.do(t, http.MethodPost, "/api/admin/ingestion/daily", map[string]string{"end_date": "2024-99-01"}, token)
	expectErrorCode(t, w, http.StatusBadRequest, errCodeBadRequest)

	w = env.do(t, http.MethodPost, "/api/admin/ingestion/daily", map[string]string{
		"start_date": "2024-02-01",
		"end_date":   "2024-01-01",
	}, token)
	expectErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
}

func TestIngestionDaily_RequiresAdmin(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodPost, "/api/admin/ingestion/daily", nil, env.tokenFor(t, "user@example.com"))
	expectErrorCode(t, w, http.StatusForbidden, "AUTH_FORBIDDEN")
}
