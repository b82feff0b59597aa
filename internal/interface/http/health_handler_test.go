package httpapi

import (
	"net/http"
	"testing"
)

func TestPing(t *testing.T) {
	env := newTestServer(t)
	w := env.do(t, http.MethodGet, "/api/ping", nil, "")
	expectStatus(t, w, http.StatusOK)
	if resp := decode(t, w); resp["message"] != "pong" {
		t.Errorf("expected pong, got %v", resp["message"])
	}
}

func TestHealth_MemoryBackend(t *testing.T) {
	env := newTestServer(t)
	w := env.do(t, http.MethodGet, "/api/health", nil, "")
	expectStatus(t, w, http.StatusOK)

	resp := decode(t, w)
	if resp["health"] != "ok" {
		t.Errorf("expected ok, got %v", resp["health"])
	}
	dbInfo, _ := resp["db"].(map[string]interface{})
	if dbInfo["status"] != "memory" {
		t.Errorf("expected memory db status, got %v", dbInfo)
	}
	cache, _ := resp["cache"].(map[string]interface{})
	if cache["prices"] != "memory" {
		t.Errorf("expected memory price cache, got %v", cache)
	}
	if _, ok := cache["fortune"].(map[string]interface{}); !ok {
		t.Errorf("expected fortune cache stats, got %v", cache["fortune"])
	}
	host, _ := resp["host"].(map[string]interface{})
	if g, _ := host["goroutines"].(float64); g <= 0 {
		t.Errorf("expected goroutine count, got %v", host)
	}
}
