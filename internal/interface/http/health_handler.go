package httpapi

import (
	"net/http"
	"runtime"
	"time"

	"etf-fortune/internal/infrastructure/db"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"status":    "alive",
	})
}

type hostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Goroutines    int     `json:"goroutines"`
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx := c.Request.Context()
	dbHealth := db.Check(ctx, s.deps.DB)

	host := hostStats{Goroutines: runtime.NumGoroutine()}
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		host.CPUPercent = pct[0]
	} else if err != nil {
		s.log.Warn().Err(err).Msg("cpu stats unavailable")
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		host.MemoryPercent = vm.UsedPercent
	} else {
		s.log.Warn().Err(err).Msg("memory stats unavailable")
	}

	health := "ok"
	if dbHealth.Status == "error" {
		health = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"health":  health,
		"db":      dbHealth,
		"cache": gin.H{
			"fortune": s.deps.Engine.CacheStats(),
			"prices":  s.deps.PriceBackend,
		},
		"host":           host,
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
		"time":           time.Now().Format(time.RFC3339),
	})
}
