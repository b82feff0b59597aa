package httpapi

import (
	"net/http"

	"etf-fortune/internal/application/disclaimer"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleDisclaimerAck(c *gin.Context) {
	var body struct {
		Level string `json:"level"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	level, err := disclaimer.ParseLevel(body.Level)
	if err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, err.Error())
		return
	}
	ack, err := s.deps.Disclaimers.Acknowledge(c.Request.Context(), currentUserID(c), level)
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	writeData(c, ack)
}

func (s *Server) handleDisclaimerStatus(c *gin.Context) {
	level, err := disclaimer.ParseLevel(c.DefaultQuery("level", string(disclaimer.LevelHigh)))
	if err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, err.Error())
		return
	}
	d := disclaimer.ForLevel(level)
	lastAck, force, err := s.deps.Disclaimers.Status(c.Request.Context(), currentUserID(c), d)
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	writeData(c, gin.H{
		"level":                level,
		"disclaimer":           d,
		"last_acknowledged_at": lastAck,
		"force_display":        force,
	})
}
