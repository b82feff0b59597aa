package httpapi

import (
	"net/http"
	"testing"
)

var testProfile = map[string]interface{}{
	"name":       "測試用戶",
	"birth_date": "1990-05-15",
	"birth_time": "10:30",
	"zodiac":     "馬",
}

func TestFortuneDaily(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodPost, "/api/fortune/daily", map[string]interface{}{
		"profile": testProfile,
		"date":    "2024-01-15",
	}, "")
	expectStatus(t, w, http.StatusOK)

	data := dataOf(t, w)
	if data["date"] != "2024-01-15" {
		t.Errorf("unexpected date %v", data["date"])
	}
	for _, key := range []string{"overall_score", "investment_score"} {
		score, ok := data[key].(float64)
		if !ok || score < 0 || score > 100 {
			t.Errorf("%s out of range: %v", key, data[key])
		}
	}
	switch data["recommendation"] {
	case "BUY", "SELL", "HOLD":
	default:
		t.Errorf("unexpected recommendation %v", data["recommendation"])
	}

	// 相同輸入應得到相同結果
	again := dataOf(t, env.do(t, http.MethodPost, "/api/fortune/daily", map[string]interface{}{
		"profile": testProfile,
		"date":    "2024-01-15",
	}, ""))
	if again["investment_score"] != data["investment_score"] || again["lucky_time"] != data["lucky_time"] {
		t.Errorf("expected deterministic result, got %v vs %v", again, data)
	}
}

func TestFortuneDaily_Errors(t *testing.T) {
	env := newTestServer(t)

	t.Run("InvalidDate", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/fortune/daily", map[string]interface{}{
			"profile": testProfile,
			"date":    "2024-13-45",
		}, "")
		expectErrorCode(t, w, http.StatusBadRequest, "INVALID_DATE")
	})

	t.Run("IncompleteProfile", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/fortune/daily", map[string]interface{}{
			"profile": map[string]string{"name": "小明"},
			"date":    "2024-01-15",
		}, "")
		expectErrorCode(t, w, http.StatusBadRequest, "INCOMPLETE_PROFILE")
	})

	t.Run("MalformedBirthDate", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/fortune/daily", map[string]interface{}{
			"profile": map[string]string{"name": "a", "birth_date": "b_c", "birth_time": "10:30"},
			"date":    "2024-01-15",
		}, "")
		expectErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("UnknownZodiacInBody", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/fortune/daily", map[string]interface{}{
			"profile": map[string]string{"name": "a", "birth_date": "1990-05-15", "birth_time": "10:30", "zodiac": "貓"},
			"date":    "2024-01-15",
		}, "")
		expectErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("AnonymousWithoutProfile", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/fortune/daily", nil, "")
		expectErrorCode(t, w, http.StatusBadRequest, "INCOMPLETE_PROFILE")
	})

	t.Run("MalformedBody", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/fortune/daily", "not-an-object", "")
		expectErrorCode(t, w, http.StatusBadRequest, errCodeBadRequest)
	})
}

func TestFortuneDaily_UsesSavedProfile(t *testing.T) {
	env := newTestServer(t)
	token := env.tokenFor(t, "user@example.com")

	w := env.do(t, http.MethodPut, "/api/profile", testProfile, token)
	expectStatus(t, w, http.StatusOK)

	w = env.do(t, http.MethodPost, "/api/fortune/daily", map[string]string{"date": "2024-01-15"}, token)
	expectStatus(t, w, http.StatusOK)
	saved := dataOf(t, w)

	explicit := dataOf(t, env.do(t, http.MethodPost, "/api/fortune/daily", map[string]interface{}{
		"profile": testProfile,
		"date":    "2024-01-15",
	}, ""))
	if saved["investment_score"] != explicit["investment_score"] {
		t.Errorf("saved profile result %v differs from explicit %v", saved["investment_score"], explicit["investment_score"])
	}
}

func TestFortuneEnhanced(t *testing.T) {
	env := newTestServer(t)
	token := env.tokenFor(t, "user@example.com")

	w := env.do(t, http.MethodPost, "/api/fortune/enhanced", map[string]interface{}{
		"profile": testProfile,
		"date":    "2024-01-15",
	}, token)
	expectStatus(t, w, http.StatusOK)

	resp := decode(t, w)
	data := resp["data"].(map[string]interface{})
	disc, ok := data["disclaimer"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing disclaimer: %v", data)
	}
	if msgs, _ := disc["messages"].([]interface{}); len(msgs) == 0 {
		t.Error("expected disclaimer messages")
	}
	if _, ok := data["transparency"]; !ok {
		t.Error("missing transparency")
	}
	if cards, _ := data["educational_content"].([]interface{}); len(cards) == 0 {
		t.Error("expected educational content")
	}
	if _, ok := resp["disclaimer_status"]; !ok {
		t.Error("expected disclaimer_status for authenticated request")
	}

	anon := decode(t, env.do(t, http.MethodPost, "/api/fortune/enhanced", map[string]interface{}{
		"profile": testProfile,
		"date":    "2024-01-15",
	}, ""))
	if _, ok := anon["disclaimer_status"]; ok {
		t.Error("anonymous request should not include disclaimer_status")
	}
}

func TestFortuneCache(t *testing.T) {
	env := newTestServer(t)

	for _, date := range []string{"2024-01-15", "2024-01-16"} {
		w := env.do(t, http.MethodPost, "/api/fortune/daily", map[string]interface{}{
			"profile": testProfile,
			"date":    date,
		}, "")
		expectStatus(t, w, http.StatusOK)
	}

	stats := dataOf(t, env.do(t, http.MethodGet, "/api/fortune/cache/stats", nil, ""))
	if stats["size"] != float64(2) || stats["max_size"] != float64(10) {
		t.Fatalf("unexpected stats %v", stats)
	}

	token := env.tokenFor(t, "admin@example.com")
	cleared := dataOf(t, env.do(t, http.MethodDelete, "/api/admin/fortune/cache", nil, token))
	if cleared["size"] != float64(0) {
		t.Errorf("expected empty cache after clear, got %v", cleared)
	}
}
