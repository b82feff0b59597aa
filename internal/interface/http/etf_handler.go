package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultPriceDays = 30

func (s *Server) handleETFPrices(c *gin.Context) {
	start, end, err := parseDateRange(c, defaultPriceDays)
	if err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, err.Error())
		return
	}
	symbol := s.symbolParam(c)
	prices, err := s.deps.Prices.Series(c.Request.Context(), symbol, start, end)
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"symbol":     symbol,
		"start_date": start.Format(dateLayout),
		"end_date":   end.Format(dateLayout),
		"count":      len(prices),
		"data":       prices,
	})
}

func (s *Server) handleETFSummary(c *gin.Context) {
	lookback := 0
	if raw := c.Query("lookback_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 3650 {
			writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid lookback_days")
			return
		}
		lookback = n
	}
	summary, err := s.deps.Prices.Summary(c.Request.Context(), s.symbolParam(c), lookback)
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	writeData(c, summary)
}
