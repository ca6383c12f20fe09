package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/savingsvault/internal/metrics"
	"github.com/polkiloo/savingsvault/internal/server/http/handlers"
	"github.com/polkiloo/savingsvault/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.SavingsFacade, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.RequestMetrics(m))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	vaultHandler := handlers.NewVaultHandler(facade)
	depositHandler := handlers.NewDepositHandler(facade)
	accountHandler := handlers.NewAccountHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	api := engine.Group("/api/v1")
	signed := middleware.SignedRequest()

	vaults := api.Group("/vaults")
	vaults.POST("", signed, vaultHandler.Open)
	vaults.GET("", vaultHandler.List)
	vaults.GET("/:vault", vaultHandler.Summary)
	vaults.GET("/:vault/accounts", vaultHandler.Accounts)
	vaults.POST("/:vault/admin-deposits", signed, depositHandler.AdminDeposit)
	vaults.GET("/:vault/deposits", depositHandler.List)

	api.GET("/audit", vaultHandler.Audit)

	accounts := api.Group("/accounts")
	accounts.POST("", signed, accountHandler.Initialize)
	accounts.GET("/:owner", accountHandler.Get)

	return engine
}
