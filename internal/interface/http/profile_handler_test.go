package httpapi

import (
	"net/http"
	"testing"
)

func TestProfileHandler(t *testing.T) {
	env := newTestServer(t)
	token := env.tokenFor(t, "user@example.com")

	t.Run("NotFoundBeforeSave", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/profile", nil, token)
		expectErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("SaveDerivesZodiac", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/profile", map[string]string{
			"name":       "王小明",
			"birth_date": "1990-05-15",
			"birth_time": "10:30",
		}, token)
		expectStatus(t, w, http.StatusOK)
		if z := dataOf(t, w)["zodiac"]; z != "馬" {
			t.Errorf("expected derived zodiac 馬, got %v", z)
		}

		got := dataOf(t, env.do(t, http.MethodGet, "/api/profile", nil, token))
		if got["name"] != "王小明" || got["birth_time"] != "10:30" {
			t.Errorf("unexpected stored profile %v", got)
		}
	})

	t.Run("ValidationError", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/profile", map[string]string{
			"name":       "王小明",
			"birth_date": "1990/05/15",
			"birth_time": "25:99",
		}, token)
		expectErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("UnknownZodiacRejected", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/profile", map[string]string{
			"name":       "王小明",
			"birth_date": "1990-05-15",
			"birth_time": "10:30",
			"zodiac":     "貓",
		}, token)
		expectErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
	})
}
