package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/app"
	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/db"
	"github.com/newsportal/internal/handler"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, Service: "collection"})
	gin.SetMode(cfg.GinMode)

	gdb, err := db.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log.Errorf("failed to initialize database: %v", err)
		os.Exit(1)
	}
	if err := db.EnsureUser(gdb, cfg.SuperRootUserName, cfg.SuperRootEmail, cfg.SuperRootPassword); err != nil {
		logger.Log.Errorf("failed to ensure admin user: %v", err)
		os.Exit(1)
	}

	api := handler.NewAPI(gdb, cfg.UploadDir, cfg.UploadURLPath)
	r := router.SetupRouter(api, router.Config{
		UploadDir:     cfg.UploadDir,
		UploadURLPath: cfg.UploadURLPath,
	})

	if err := app.Serve(context.Background(), "collection", cfg.ListenAddr, router.WithCORS(r, cfg.CORSAllowedOrigins)); err != nil {
		logger.Log.Errorf("failed to run server: %v", err)
		os.Exit(1)
	}
}
