package main

import (
	"fmt"
	"os"

	"github.com/dimitrije/fanmint-api/internal/config"
	"github.com/dimitrije/fanmint-api/internal/logger"
	"github.com/dimitrije/fanmint-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: issue-admin-token <subject>")
		os.Exit(1)
	}

	subject := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		logger.L.Fatal("failed to load config", zap.Error(err))
	}

	if !cfg.AdminAuthEnabled() {
		logger.L.Fatal("ADMIN_JWT_SECRET must be set to issue admin tokens")
	}

	jwtService := services.NewJWTService(cfg.AdminJWTSecret, cfg.AdminTokenExpiry)
	token, err := jwtService.GenerateToken(subject, services.RoleAdmin)
	if err != nil {
		logger.L.Fatal("failed to sign token", zap.Error(err))
	}

	fmt.Fprintf(os.Stderr, "Issued admin token for %s (expires in %s)\n", subject, jwtService.Expiry())
	fmt.Println(token)
}
