package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mercatto/pos/internal/application/cashier"
	"github.com/mercatto/pos/internal/application/checkout"
	"github.com/mercatto/pos/internal/infrastructure/config"
	"github.com/mercatto/pos/internal/infrastructure/logger"
	"github.com/mercatto/pos/internal/interfaces/http/handler"
	"github.com/mercatto/pos/internal/interfaces/http/middleware"
)

// New builds the gin engine with all terminal routes wired
func New(cfg *config.Config, log *zap.Logger, checkoutSvc *checkout.Service, session *cashier.SessionService) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.App.Name})
	})

	api := engine.Group("/api/v1")
	api.Use(middleware.Auth(cfg.Auth.Secret, cfg.Auth.Issuer))

	handler.NewCheckoutHandler(checkoutSvc).RegisterRoutes(api)
	handler.NewCashboxHandler(session).RegisterRoutes(api)

	return engine
}
