package main

import (
	"context"
	"flag"
	"log"
	"time"

	"foodbank-inventory/internal/repository"
	"foodbank-inventory/internal/service"
	"foodbank-inventory/pkg/config"
	"foodbank-inventory/pkg/database"
	"foodbank-inventory/pkg/jwt"
	"foodbank-inventory/pkg/logger"

	gormlogger "gorm.io/gorm/logger"
)

func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal("-email and -password are required")
	}

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 2. Setup Database
	db, err := database.Open(cfg.DBDriver, cfg.DSN(), gormlogger.Warn)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// 3. Reset
	store := repository.NewStore(db)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer)
	auth := service.NewAuthService(store.Users, tokens, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := auth.ResetPassword(ctx, *email, *password); err != nil {
		log.Fatalf("reset password for %s: %v", *email, err)
	}

	log.Printf("Password for %s has been reset", *email)
}
