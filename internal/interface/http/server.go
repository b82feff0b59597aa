package httpapi

import (
	"database/sql"
	"net/http"
	"time"

	"etf-fortune/internal/application/almanac"
	"etf-fortune/internal/application/auth"
	appingest "etf-fortune/internal/application/dataingestion"
	"etf-fortune/internal/application/disclaimer"
	appfortune "etf-fortune/internal/application/fortune"
	"etf-fortune/internal/application/pricequery"
	"etf-fortune/internal/application/profile"
	authDomain "etf-fortune/internal/domain/auth"
	"etf-fortune/internal/domain/fortune"
	authinfra "etf-fortune/internal/infrastructure/auth"
	"etf-fortune/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	errCodeBadRequest         = "BAD_REQUEST"
	errCodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	errCodeNotFound           = "NOT_FOUND"
	refreshCookieName         = "refresh_token"
)

// FortuneEngine 為 HTTP 層使用的運勢計算介面。
type FortuneEngine interface {
	CalculateDailyFortune(p fortune.UserProfile, date time.Time) (*fortune.FortuneResult, error)
	CalculateEnhancedFortune(p fortune.UserProfile, date time.Time) (*appfortune.EnhancedFortune, error)
	ClearCache()
	CacheStats() appfortune.CacheStats
}

// Deps 由 main 組裝後注入的相依。
type Deps struct {
	DB           *sql.DB
	Users        auth.UserRepository
	Sessions     authDomain.SessionStore
	Engine       FortuneEngine
	Almanac      *almanac.Service
	Profiles     *profile.Service
	Prices       *pricequery.Service
	Ingest       *appingest.IngestUseCase
	Disclaimers  *disclaimer.Service
	PriceBackend string // valkey 或 memory，健康檢查顯示用
	Logger       zerolog.Logger
}

// Server 封裝 gin 路由與依賴。
type Server struct {
	router        *gin.Engine
	log           zerolog.Logger
	deps          Deps
	loginUC       *auth.LoginUseCase
	refreshUC     *auth.RefreshUseCase
	logoutUC      *auth.LogoutUseCase
	authz         *auth.Authorizer
	tokenSvc      *authinfra.TokenService
	defaultSymbol string
	started       time.Time
}

// NewServer 建立 API 伺服器。
func NewServer(cfg config.Config, deps Deps) *Server {
	tokenSvc := authinfra.NewTokenService(authinfra.TokenConfig{
		Secret:     cfg.Auth.Secret,
		AccessTTL:  cfg.Auth.TokenTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	}, deps.Sessions, deps.Users)
	symbol := cfg.Fortune.DefaultSymbol
	if symbol == "" {
		symbol = "0050"
	}

	s := &Server{
		log:           deps.Logger,
		deps:          deps,
		loginUC:       auth.NewLoginUseCase(deps.Users, authinfra.BcryptHasher{}, tokenSvc),
		refreshUC:     auth.NewRefreshUseCase(tokenSvc),
		logoutUC:      auth.NewLogoutUseCase(tokenSvc),
		authz:         auth.NewAuthorizer(deps.Users),
		tokenSvc:      tokenSvc,
		defaultSymbol: symbol,
		started:       time.Now(),
	}
	s.router = s.newRouter()
	return s
}

// Handler 回傳路由處理器，供 HTTP server 掛載。
func (s *Server) Handler() http.Handler {
	return s.router
}
