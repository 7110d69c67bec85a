package routes

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"trackpay-backend/internal/config"
	handler "trackpay-backend/internal/handlers"
	"trackpay-backend/internal/models"
	"trackpay-backend/internal/repository"
	"trackpay-backend/internal/services/accounts"
	"trackpay-backend/internal/services/dashboard"
	"trackpay-backend/internal/services/synth"
)

type Services struct {
	Dashboard *dashboard.Service
	Accounts  *accounts.Service
}

// NewServices migrates the settings schema, wires the repositories and
// seeds the in-memory ledger.
func NewServices(db *gorm.DB, cfg *config.Config, log zerolog.Logger) (Services, error) {
	if err := db.AutoMigrate(&models.Preference{}); err != nil {
		return Services{}, fmt.Errorf("migrate: %w", err)
	}

	txRepo := repository.NewTransactionRepository()
	accountRepo := repository.NewAccountRepository()
	prefRepo := repository.NewPreferenceRepository(db)

	seed := cfg.Seed.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	dash := dashboard.NewService(txRepo, accountRepo, prefRepo, log)
	err := dash.Seed(synth.Config{
		Count:             cfg.Seed.Count,
		IncomeProbability: cfg.Seed.IncomeProbability,
		WindowDays:        cfg.Seed.WindowDays,
		Seed:              seed,
	})
	if err != nil {
		return Services{}, err
	}

	acctSvc := accounts.NewService(
		accountRepo,
		accounts.NewSimulatedProvider(cfg.Accounts.RefreshDelay, seed),
		accounts.Options{
			Retries: cfg.Accounts.RefreshRetries,
			Timeout: cfg.Accounts.RefreshTimeout,
		},
		log,
	)

	return Services{Dashboard: dash, Accounts: acctSvc}, nil
}

func RegisterRoutes(r *gin.Engine, s Services) {
	dashHandler := handler.NewDashboardHandler(s.Dashboard)
	accountsHandler := handler.NewAccountsHandler(s.Accounts)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	tx := api.Group("/transactions")
	tx.GET("", dashHandler.ListTransactions)
	tx.POST("", dashHandler.CreateTransaction)
	tx.POST("/import", dashHandler.ImportTransactions)
	tx.DELETE("/:id", dashHandler.DeleteTransaction)

	analytics := api.Group("/analytics")
	analytics.GET("/summary", dashHandler.Summary)
	analytics.GET("/trend", dashHandler.Trend)
	analytics.GET("/categories", dashHandler.Categories)
	analytics.GET("/options", dashHandler.Options)

	api.POST("/classify", dashHandler.Classify)

	exports := api.Group("/export")
	{
		exports.GET("/csv", dashHandler.ExportCSV)
		exports.GET("/xlsx", dashHandler.ExportXLSX)
	}

	accts := api.Group("/accounts")
	accts.GET("", accountsHandler.List)
	accts.POST("", accountsHandler.Create)
	accts.GET("/alerts", accountsHandler.Alerts)
	accts.GET("/:id", accountsHandler.Get)
	accts.PUT("/:id", accountsHandler.Update)
	accts.DELETE("/:id", accountsHandler.Delete)
	accts.POST("/:id/primary", accountsHandler.SetPrimary)
	accts.POST("/:id/refresh", accountsHandler.Refresh)

	onboarding := api.Group("/onboarding")
	onboarding.GET("", dashHandler.GetOnboarding)
	onboarding.POST("/dismiss", dashHandler.DismissOnboarding)
}
