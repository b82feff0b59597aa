package httpapi

import (
	"etf-fortune/internal/application/market"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleAlmanac(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		s.writeAppError(c, invalidDate(err))
		return
	}
	d, err := s.deps.Almanac.Daily(date)
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	writeData(c, d)
}

func (s *Server) handleTradingTimes(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		s.writeAppError(c, invalidDate(err))
		return
	}
	tt, err := s.deps.Almanac.TradingTimeAnalysis(date)
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	writeData(c, gin.H{
		"trading_times":  tt,
		"is_trading_day": market.IsTradingDay(date),
	})
}
