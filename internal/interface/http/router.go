package httpapi

import (
	"etf-fortune/internal/application/auth"

	"github.com/gin-gonic/gin"
)

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.ginLogger(), corsMiddleware())
	r.NoRoute(func(c *gin.Context) {
		writeError(c, 404, errCodeNotFound, "route not found")
	})

	api := r.Group("/api")
	api.GET("/ping", s.handlePing)
	api.GET("/health", s.handleHealth)

	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/refresh", s.handleRefresh)
	api.POST("/auth/logout", s.handleLogout)

	fortune := api.Group("/fortune", s.optionalAuth())
	fortune.POST("/daily", s.handleFortuneDaily)
	fortune.POST("/enhanced", s.handleFortuneEnhanced)
	fortune.GET("/cache/stats", s.handleFortuneCacheStats)

	api.GET("/profile", s.requireAuth(auth.PermProfileRead), s.handleGetProfile)
	api.PUT("/profile", s.requireAuth(auth.PermProfileWrite), s.handlePutProfile)

	api.GET("/almanac", s.handleAlmanac)
	api.GET("/almanac/trading-times", s.handleTradingTimes)

	api.GET("/market/status", s.handleMarketStatus)
	api.GET("/market/periods", s.handleMarketPeriods)

	api.GET("/etf/prices", s.handleETFPrices)
	api.GET("/etf/summary", s.handleETFSummary)

	api.POST("/disclaimer/ack", s.requireAuth(auth.PermDisclaimerAck), s.handleDisclaimerAck)
	api.GET("/disclaimer/status", s.requireAuth(auth.PermDisclaimerAck), s.handleDisclaimerStatus)

	admin := api.Group("/admin")
	admin.DELETE("/fortune/cache", s.requireAuth(auth.PermFortuneAdmin), s.handleFortuneCacheClear)
	admin.POST("/ingestion/daily", s.requireAuth(auth.PermIngestionTriggerDaily), s.handleIngestionDaily)
	return r
}
