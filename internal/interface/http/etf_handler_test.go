package httpapi

import (
	"net/http"
	"testing"
)

func TestETFPrices(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodGet, "/api/etf/prices?start_date=2024-01-01&end_date=2024-01-31", nil, "")
	expectStatus(t, w, http.StatusOK)
	resp := decode(t, w)
	if resp["symbol"] != "0050" {
		t.Errorf("expected default symbol 0050, got %v", resp["symbol"])
	}
	prices, _ := resp["data"].([]interface{})
	if len(prices) == 0 || resp["count"] != float64(len(prices)) {
		t.Fatalf("expected synthetic prices, got %v", resp)
	}
	if env.store.PriceCount() != len(prices) {
		t.Errorf("expected ingested prices persisted, store has %d", env.store.PriceCount())
	}
}

func TestETFPrices_InvalidRange(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodGet, "/api/etf/prices?start_date=2024-02-01&end_date=2024-01-01", nil, "")
	expectErrorCode(t, w, http.StatusBadRequest, errCodeBadRequest)

	w = env.do(t, http.MethodGet, "/api/etf/prices?start_date=yesterday", nil, "")
	expectErrorCode(t, w, http.StatusBadRequest, errCodeBadRequest)
}

func TestETFSummary(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodGet, "/api/etf/summary?lookback_days=90", nil, "")
	expectStatus(t, w, http.StatusOK)
	data := dataOf(t, w)
	if data["symbol"] != "0050" {
		t.Errorf("unexpected symbol %v", data["symbol"])
	}
	if last, _ := data["close"].(float64); last <= 0 {
		t.Errorf("expected positive close, got %v", data["close"])
	}

	w = env.do(t, http.MethodGet, "/api/etf/summary?lookback_days=0", nil, "")
	expectErrorCode(t, w, http.StatusBadRequest, errCodeBadRequest)
}
