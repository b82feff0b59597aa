package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"etf-fortune/internal/application/profile"
	"etf-fortune/internal/domain/fortune"

	"github.com/gin-gonic/gin"
)

type fortuneRequest struct {
	Profile *fortune.UserProfile `json:"profile"`
	Date    string               `json:"date"`
}

// bindFortuneRequest 未帶 profile 時使用登入者已保存的資料。
func (s *Server) bindFortuneRequest(c *gin.Context) (fortune.UserProfile, time.Time, bool) {
	var req fortuneRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return fortune.UserProfile{}, time.Time{}, false
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.writeAppError(c, invalidDate(err))
		return fortune.UserProfile{}, time.Time{}, false
	}

	if req.Profile != nil {
		p := *req.Profile
		// 不完整的資料交給引擎回報 INCOMPLETE_PROFILE
		if p.IsComplete() {
			if err := p.Validate(time.Now()); err != nil {
				s.writeAppError(c, err)
				return fortune.UserProfile{}, time.Time{}, false
			}
		}
		return p, date, true
	}
	userID := currentUserID(c)
	if userID == "" {
		return fortune.UserProfile{}, date, true
	}
	p, err := s.deps.Profiles.Get(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		s.writeAppError(c, err)
		return fortune.UserProfile{}, time.Time{}, false
	}
	return p, date, true
}

func (s *Server) handleFortuneDaily(c *gin.Context) {
	p, date, ok := s.bindFortuneRequest(c)
	if !ok {
		return
	}
	res, err := s.deps.Engine.CalculateDailyFortune(p, date)
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	writeData(c, res)
}

func (s *Server) handleFortuneEnhanced(c *gin.Context) {
	p, date, ok := s.bindFortuneRequest(c)
	if !ok {
		return
	}
	res, err := s.deps.Engine.CalculateEnhancedFortune(p, date)
	if err != nil {
		s.writeAppError(c, err)
		return
	}

	body := gin.H{"success": true, "data": res}
	if userID := currentUserID(c); userID != "" && s.deps.Disclaimers != nil {
		lastAck, force, err := s.deps.Disclaimers.Status(c.Request.Context(), userID, res.Disclaimer)
		if err != nil {
			s.writeAppError(c, err)
			return
		}
		body["disclaimer_status"] = gin.H{
			"last_acknowledged_at": lastAck,
			"force_display":        force,
		}
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleFortuneCacheStats(c *gin.Context) {
	writeData(c, s.deps.Engine.CacheStats())
}

func (s *Server) handleFortuneCacheClear(c *gin.Context) {
	s.deps.Engine.ClearCache()
	if s.deps.Almanac != nil {
		s.deps.Almanac.ClearCache()
	}
	s.log.Info().Str("user_id", currentUserID(c)).Msg("fortune cache cleared")
	writeData(c, s.deps.Engine.CacheStats())
}
