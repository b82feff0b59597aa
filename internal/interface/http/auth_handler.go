package httpapi

import (
	"errors"
	"net/http"
	"time"

	"etf-fortune/internal/application/apperr"
	"etf-fortune/internal/application/auth"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleLogin(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}

	res, err := s.loginUC.Execute(c.Request.Context(), auth.LoginInput{
		Email:     body.Email,
		Password:  body.Password,
		UserAgent: c.GetHeader("User-Agent"),
		IP:        c.ClientIP(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("email", body.Email).Msg("login failure")
		if errors.Is(err, auth.ErrMissingCredentials) {
			writeError(c, http.StatusBadRequest, errCodeBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusUnauthorized, errCodeInvalidCredentials, "invalid email or password")
		return
	}

	s.setRefreshCookie(c, res.Token.RefreshToken, res.Token.RefreshExpiry)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":    res.User.ID,
			"email": res.User.Email,
			"name":  res.User.Name,
			"role":  res.User.Role,
		},
		"access_token": res.Token.AccessToken,
		"token_type":   "Bearer",
		"expiry":       res.Token.AccessExpiry.Format(time.RFC3339),
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		writeError(c, http.StatusUnauthorized, apperr.CodeUnauthorized, "refresh token missing")
		return
	}

	res, err := s.refreshUC.Execute(c.Request.Context(), refreshToken)
	if err != nil {
		writeError(c, http.StatusUnauthorized, apperr.CodeUnauthorized, "invalid refresh token")
		return
	}

	s.setRefreshCookie(c, res.RefreshToken, res.RefreshExpiry)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"access_token": res.AccessToken,
		"token_type":   "Bearer",
		"expiry":       res.AccessExpiry.Format(time.RFC3339),
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	if refreshToken, _ := c.Cookie(refreshCookieName); refreshToken != "" {
		if err := s.logoutUC.Execute(c.Request.Context(), refreshToken); err != nil {
			s.log.Warn().Err(err).Msg("revoke refresh token failed")
		}
	}
	c.SetCookie(refreshCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
