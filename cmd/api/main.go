package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"battery-savings/internal/api"
	"battery-savings/internal/config"
	"battery-savings/internal/data"
	"battery-savings/internal/log"
	"battery-savings/internal/metrics"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadServer()
	log.SetDefaultLogLevel(log.ParseLevel(cfg.LogLevel))
	logger := log.Default()

	loc, err := cfg.MeterLocation()
	if err != nil {
		logger.Error("invalid METER_TIMEZONE", "error", err)
		os.Exit(1)
	}

	if info, err := os.Stat(cfg.BatteryDir); err == nil && info.IsDir() {
		logger.Info("battery directory found", "dir", cfg.BatteryDir)
	} else {
		logger.Warn("battery directory not found", "dir", cfg.BatteryDir, "error", err)
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Init()

	router := api.NewRouter(api.Options{
		Cache:          data.NewUploadCache(cfg.UploadTTL),
		Location:       loc,
		BatteryDir:     cfg.BatteryDir,
		StaticDir:      cfg.StaticDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigins:    cfg.CORSOrigins,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting API server", "addr", addr, "env", cfg.Env, "upload_ttl", cfg.UploadTTL.String(), "time_zone", loc.String())
	if err := router.Run(addr); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
