package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/call-review/pkg/validator"

	"github.com/johnquangdev/call-review/internal/adapter/handler"
	"github.com/johnquangdev/call-review/internal/adapter/repository"
	"github.com/johnquangdev/call-review/internal/infrastructure/cache"
	httpmw "github.com/johnquangdev/call-review/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/call-review/internal/usecase/dashboard"
	"github.com/johnquangdev/call-review/internal/usecase/intake"
	"github.com/johnquangdev/call-review/pkg/analysis"
	"github.com/johnquangdev/call-review/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())

	// Structured access log
	e.Use(httpmw.RequestLogger(logger))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	logger.Info("🔧 Initializing dependencies...")

	callRepo := repository.NewCallRepository()

	logger.Info("🎧 Initializing analysis client...", zap.String("base_url", cfg.Analysis.BaseURL))
	if cfg.Analysis.APIKey == "" {
		logger.Warn("⚠️  ANALYSIS_API_KEY is empty, requests will be sent without a key")
	}
	analysisClient := analysis.NewClient(&cfg.Analysis, logger)

	notices := cache.NewNoticeBoard(cfg.Notices.TTL)
	defer notices.Close()

	intakeService := intake.NewService(cfg, callRepo, analysisClient, notices, logger)
	dashboardService := dashboard.NewService(callRepo)

	callHandler := handler.NewCallHandler(intakeService, dashboardService, notices, logger)
	viewHandler := handler.NewViewHandler(dashboardService, logger)

	logger.Info("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, callHandler, viewHandler, dashboardService)
	router.Setup(e)

	// Start server
	go func() {
		addr := cfg.GetServerAddr()
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
			zap.Duration("poll_interval", cfg.Analysis.PollInterval),
			zap.Int("max_poll_attempts", cfg.Analysis.MaxPollAttempts),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}

	// In-flight jobs are cancelled and rolled back
	if err := intakeService.Shutdown(ctx); err != nil {
		logger.Error("❌ Call jobs did not stop in time", zap.Error(err))
	}

	logger.Info("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
