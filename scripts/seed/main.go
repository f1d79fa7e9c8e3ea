package main

import (
	"context"
	"os"

	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/db"
	"github.com/newsportal/internal/logger"
)

// Seeds a development database with an admin account, a few authors and
// sample articles.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, Service: "seed"})

	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log.Errorf("failed to initialize database: %v", err)
		os.Exit(1)
	}

	email, password := cfg.SuperRootEmail, cfg.SuperRootPassword
	if email == "" || password == "" {
		email, password = demoAdminEmail, demoAdminPassword
	}
	if err := db.EnsureUser(gdb, "admin", email, password); err != nil {
		logger.Log.Errorf("failed to create admin: %v", err)
		os.Exit(1)
	}

	n, err := seedDemoData(context.Background(), gdb)
	if err != nil {
		logger.Log.Errorf("failed to seed demo data: %v", err)
		os.Exit(1)
	}
	logger.InfoWithFields("demo data ready", logger.Fields{"articles": n, "admin": email})
}
