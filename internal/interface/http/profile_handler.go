package httpapi

import (
	"net/http"

	"etf-fortune/internal/domain/fortune"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleGetProfile(c *gin.Context) {
	p, err := s.deps.Profiles.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	writeData(c, p)
}

func (s *Server) handlePutProfile(c *gin.Context) {
	var body fortune.UserProfile
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	saved, err := s.deps.Profiles.Save(c.Request.Context(), currentUserID(c), body)
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	writeData(c, saved)
}
