package httpapi

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"fx-alert-hub/internal/application/alerts"
	appAuth "fx-alert-hub/internal/application/auth"
	"fx-alert-hub/internal/application/bias"
	"fx-alert-hub/internal/application/monitor"
	authinfra "fx-alert-hub/internal/infrastructure/auth"
	"fx-alert-hub/internal/infrastructure/config"
	"fx-alert-hub/internal/infrastructure/external/gemini"
	"fx-alert-hub/internal/infrastructure/notify"
	"fx-alert-hub/internal/infrastructure/persistence/postgres"
	"fx-alert-hub/internal/infrastructure/pricefeed"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const seedTimeout = 5 * time.Second

const (
	errCodeBadRequest         = "BAD_REQUEST"
	errCodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	errCodeUnauthorized       = "AUTH_UNAUTHORIZED"
	errCodeForbidden          = "AUTH_FORBIDDEN"
	errCodeNotFound           = "NOT_FOUND"
	errCodeBiasDisabled       = "BIAS_DISABLED"
	errCodeInternal           = "INTERNAL_ERROR"
)

// PriceSource 供 /api/prices 直接查詢即時報價。
type PriceSource interface {
	FetchPrices(ctx context.Context, instruments []string) (map[string]decimal.Decimal, error)
}

// Server 封裝 HTTP 路由與依賴。
type Server struct {
	engine   *gin.Engine
	alerts   *alerts.Service
	store    monitor.AlertStore
	checker  *monitor.Engine
	feed     PriceSource
	biasSvc  *bias.Service
	loginUC  *appAuth.LoginUseCase
	tokenSvc *authinfra.JWTIssuer
	db       *sql.DB
}

// NewServer 建立 API 伺服器並完成依賴組裝。db 為必要依賴，
// bias 服務視設定而定，未啟用時相關端點回傳 503。
func NewServer(cfg config.Config, db *sql.DB) *Server {
	alertRepo := postgres.NewAlertRepo(db)
	userRepo := postgres.NewUserRepo(db)

	feed := pricefeed.NewClient(cfg.Feed.BaseURL, cfg.Feed.UserAgent, cfg.Feed.Timeout)

	// 未設定 Telegram 時傳入 nil client：Send 會回報錯誤而非 panic，
	// 觸發仍會提交，只是通知標記為失敗。
	var tgClient *notify.TelegramClient
	if cfg.Notifier.Telegram.Enabled && cfg.Notifier.Telegram.Token != "" && cfg.Notifier.Telegram.ChatID != 0 {
		tgClient = notify.NewTelegramClient(cfg.Notifier.Telegram.Token, cfg.Notifier.Telegram.ChatID)
	}
	checker := monitor.NewEngine(alertRepo, feed, tgClient)

	var biasSvc *bias.Service
	if cfg.Bias.Enabled && cfg.Bias.APIKey != "" {
		gem, err := gemini.NewClient(context.Background(), cfg.Bias.APIKey, cfg.Bias.Model)
		if err != nil {
			log.Printf("[Server] gemini client unavailable, bias endpoints disabled: %v", err)
		} else {
			biasSvc = bias.NewService(postgres.NewBiasRepo(db), gem)
		}
	}

	tokenSvc := authinfra.NewJWTIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	loginUC := appAuth.NewLoginUseCase(userRepo, authinfra.BcryptHasher{}, tokenSvc)

	s := &Server{
		alerts:   alerts.NewService(alertRepo),
		store:    alertRepo,
		checker:  checker,
		feed:     feed,
		biasSvc:  biasSvc,
		loginUC:  loginUC,
		tokenSvc: tokenSvc,
		db:       db,
	}

	if cfg.Auth.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
		defer cancel()
		if err := userRepo.SeedAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			log.Printf("[Server] seed admin failed: %v", err)
		}
	}

	s.engine = s.buildRouter()
	return s
}

// Handler 回傳路由處理器，供 HTTP server 掛載。
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Checker 回傳監控引擎，供背景 worker 與 CLI 共用同一組依賴。
func (s *Server) Checker() *monitor.Engine {
	return s.checker
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.ginLogger(), corsMiddleware())

	r.GET("/api/ping", s.handlePing)
	r.GET("/api/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/api/auth/login", s.handleLogin)

	api := r.Group("/api", s.requireAuth())
	{
		api.GET("/alerts", s.handleListAlerts)
		api.POST("/alerts", s.handleCreateAlert)
		api.PATCH("/alerts/:id", s.handleUpdateAlertStatus)
		api.DELETE("/alerts/:id", s.handleDeleteAlert)

		api.POST("/check-alerts", s.handleCheckAlerts)
		api.GET("/prices", s.handlePrices)

		api.GET("/bias", s.handleGetBias)
		api.POST("/bias/generate", s.handleGenerateBias)
	}

	// 前端操作介面
	r.NoRoute(gin.WrapH(http.FileServer(http.Dir("web"))))
	return r
}
