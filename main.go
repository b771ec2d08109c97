package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/config"
	"github.com/yeremiapane/restaurant-frontdesk/database"
	"github.com/yeremiapane/restaurant-frontdesk/hub"
	"github.com/yeremiapane/restaurant-frontdesk/router"
	"github.com/yeremiapane/restaurant-frontdesk/services"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if err := database.SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed admin: %v", err)
	}

	floorHub := hub.New()
	signer := utils.NewTokenSigner(cfg.JWTSecret, cfg.JWTIssuer)
	authService := services.NewAuthService(db, signer, cfg.AccessTTL, cfg.RefreshTTL)
	tableService := services.NewTableService(db, floorHub)

	sweeper := services.NewRevocationSweeper(authService, cfg.RevocationSweep)
	sweeper.Start()

	r := router.SetupRouter(router.Deps{
		DB:               db,
		Hub:              floorHub,
		Auth:             authService,
		Tables:           tableService,
		Orders:           services.NewOrderService(db, tableService, floorHub, cfg.ReleaseTableOnClose),
		Payments:         services.NewPaymentService(db, floorHub),
		Menu:             services.NewMenuService(db),
		Users:            services.NewUserService(db),
		CORSOrigin:       cfg.CORSOrigin,
		LoginRatePerMin:  cfg.LoginRatePerMin,
		GlobalRatePerSec: cfg.GlobalRatePerSec,
		HSTS:             cfg.GinMode == "release",
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Infof("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	shutdown(ctx, srv, sweeper, db)
	utils.InfoLogger.Info("Server exited")
}

// shutdown drains HTTP first, then background jobs, and closes the pool last.
func shutdown(ctx context.Context, srv *http.Server, sweeper *services.RevocationSweeper, db *gorm.DB) {
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Errorf("forced shutdown: %v", err)
	}
	sweeper.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
