package httpapi

import (
	"net/http"
	"time"

	"etf-fortune/internal/application/apperr"
	"etf-fortune/internal/application/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	userIDKey       = "userID"
)

// requireAuth 驗證 access token，perm 非空時一併檢查權限。
func (s *Server) requireAuth(perm auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerOrCookie(c)
		if token == "" {
			writeError(c, http.StatusUnauthorized, apperr.CodeUnauthorized, "unauthorized")
			return
		}

		claims, err := s.tokenSvc.ParseAccessToken(token)
		if err != nil {
			writeError(c, http.StatusUnauthorized, apperr.CodeUnauthorized, "invalid token")
			return
		}

		if perm != "" {
			// token 內的權限先行過濾，再以資料庫中的角色與狀態確認。
			if !claims.Has(perm) {
				writeError(c, http.StatusForbidden, apperr.CodeForbidden, "forbidden")
				return
			}
			res, err := s.authz.Authorize(c.Request.Context(), auth.AuthorizeInput{
				UserID:   claims.UserID,
				Required: []auth.Permission{perm},
			})
			if err != nil || !res.Allowed {
				writeError(c, http.StatusForbidden, apperr.CodeForbidden, "forbidden")
				return
			}
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// optionalAuth 帶有效 token 時設定 userID，否則以匿名身分繼續。
func (s *Server) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerOrCookie(c); token != "" {
			if claims, err := s.tokenSvc.ParseAccessToken(token); err == nil {
				c.Set(userIDKey, claims.UserID)
			}
		}
		c.Next()
	}
}

func bearerOrCookie(c *gin.Context) string {
	token := parseBearer(c.GetHeader("Authorization"))
	if token == "" {
		if t, err := c.Cookie("access_token"); err == nil {
			token = t
		}
	}
	return token
}

// requestID 沿用上游的 X-Request-ID，沒有則產生新的 uuid。
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) ginLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", c.Writer.Status()).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("HTTP request")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
