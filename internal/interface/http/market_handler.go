package httpapi

import (
	"time"

	"etf-fortune/internal/application/market"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleMarketStatus(c *gin.Context) {
	writeData(c, market.StatusAt(time.Now()))
}

func (s *Server) handleMarketPeriods(c *gin.Context) {
	writeData(c, market.Periods())
}
