package httpapi

import (
	"fmt"
	"strings"
	"time"

	"etf-fortune/internal/application/market"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// parseDate 解析 YYYY-MM-DD（台北時區）；空字串回傳今日。
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	loc := market.Location()
	if raw == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}

// parseDateRange 預設為最近 defaultDays 天。
func parseDateRange(c *gin.Context, defaultDays int) (time.Time, time.Time, error) {
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date")
	}
	startStr := c.Query("start_date")
	if startStr == "" {
		return end.AddDate(0, 0, -defaultDays), end, nil
	}
	start, err := parseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date before start_date")
	}
	return start, end, nil
}

func (s *Server) symbolParam(c *gin.Context) string {
	if sym := strings.TrimSpace(c.Query("symbol")); sym != "" {
		return sym
	}
	return s.defaultSymbol
}

func (s *Server) setRefreshCookie(c *gin.Context, token string, expiry time.Time) {
	host, _, _ := strings.Cut(c.Request.Host, ":")
	isLocal := host == "localhost" || host == "127.0.0.1" || host == ""

	c.SetCookie(
		refreshCookieName,
		token,
		int(time.Until(expiry).Seconds()),
		"/",
		"",
		!isLocal, // Secure: only if not local
		true,     // HttpOnly
	)
}

func parseBearer(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
