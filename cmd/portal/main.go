package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/aggregator"
	"github.com/newsportal/internal/app"
	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/portal"
	"github.com/newsportal/internal/storeclient"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, Service: "portal"})
	gin.SetMode(cfg.GinMode)

	store := storeclient.New(cfg.StoreBaseURL, storeclient.WithTimeout(cfg.StoreTimeout))
	p, err := portal.New(portal.Deps{
		News:          aggregator.New(store, store),
		Backend:       store,
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.SecureCookies,
	})
	if err != nil {
		logger.Log.Errorf("failed to build portal: %v", err)
		os.Exit(1)
	}

	if err := app.Serve(context.Background(), "portal", cfg.PortalListenAddr, p.Router()); err != nil {
		logger.Log.Errorf("failed to run portal: %v", err)
		os.Exit(1)
	}
}
