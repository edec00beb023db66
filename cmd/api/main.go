package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodbank-inventory/internal/handler"
	"foodbank-inventory/internal/repository"
	"foodbank-inventory/internal/resolver"
	"foodbank-inventory/internal/service"
	"foodbank-inventory/pkg/config"
	"foodbank-inventory/pkg/database"
	"foodbank-inventory/pkg/jwt"
	"foodbank-inventory/pkg/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLog.Sync()

	// 2. Setup Database
	db, err := database.Open(cfg.DBDriver, cfg.DSN(), gormlogger.Warn)
	if err != nil {
		appLog.Fatal("database connection failed", "driver", cfg.DBDriver, "error", err)
	}
	// AutoMigrate is fine for this schema; switch to versioned migrations once it stops being additive
	if err := database.Migrate(db); err != nil {
		appLog.Fatal("migration failed", "error", err)
	}
	appLog.Info("database ready", "driver", cfg.DBDriver)

	loc, err := time.LoadLocation(cfg.DBTimezone)
	if err != nil {
		appLog.Warn("unknown DB_TIMEZONE, using UTC", "timezone", cfg.DBTimezone)
		loc = time.UTC
	}

	// 3. Dependency Injection (Wiring Layers)
	store := repository.NewStore(db)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer)

	invService := service.NewInventoryService(store, appLog)
	authService := service.NewAuthService(store.Users, tokens, appLog)
	dashService := service.NewDashboardService(store, loc)

	// 4. Seed admin account
	seedAdmin(cfg, store, authService, appLog)

	r := resolver.New(invService, authService, dashService)

	// 5. Setup Fiber
	app := handler.NewApp(r, authService, appLog, handler.AppOptions{
		Name:           "Food Bank Inventory v1.0",
		LoginRateLimit: cfg.LoginRateLimit,
		RequestLog:     !cfg.IsProduction(),
	})

	// 6. Graceful Shutdown
	go func() {
		appLog.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLog.Fatal("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	appLog.Info("server exited")
}

// seedAdmin creates the ADMIN_EMAIL account if it is configured and missing
func seedAdmin(cfg *config.Config, store *repository.Store, auth service.AuthService, log *logger.Logger) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	ctx := context.Background()
	_, err := store.Users.FindByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("admin lookup failed", "error", err)
		return
	}

	if _, err := auth.AddUser(ctx, &service.AddUserRequest{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		log.Warn("failed to create admin user", "error", err)
		return
	}
	log.Info("admin user created", "email", cfg.AdminEmail)
}
