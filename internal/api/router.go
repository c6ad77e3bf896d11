// Package api wires the HTTP routes of the savings service.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"battery-savings/internal/api/handlers"
	"battery-savings/internal/api/middleware"
	"battery-savings/internal/data"
	"battery-savings/internal/log"
	"battery-savings/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Options configures NewRouter.
type Options struct {
	Cache          *data.UploadCache
	Location       *time.Location
	BatteryDir     string
	StaticDir      string
	MaxUploadBytes int64
	CORSOrigins    []string
}

// NewRouter builds the gin engine with all API routes.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	router.Use(middleware.CORS(opts.CORSOrigins...))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	uploadHandler := handlers.NewUploadHandler(opts.Cache, opts.Location, opts.MaxUploadBytes)
	analyzeHandler := handlers.NewAnalyzeHandler(opts.Cache, opts.BatteryDir)
	batteryHandler := handlers.NewBatteryHandler(opts.BatteryDir)
	parameterHandler := handlers.NewParameterHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/uploads", uploadHandler.Upload)
		api.GET("/uploads/:id", uploadHandler.GetUpload)
		api.POST("/uploads/:id/analyze", analyzeHandler.Analyze)

		api.GET("/batteries", batteryHandler.ListBatteries)
		api.GET("/parameters", parameterHandler.ListParameters)
	}

	serveStatic(router, opts.StaticDir)
	return router
}

// serveStatic serves a built single-page frontend, if present.
func serveStatic(router *gin.Engine, staticDir string) {
	if staticDir == "" {
		return
	}
	if _, err := os.Stat(staticDir); err != nil {
		log.Default().Info("static directory not found, skipping static file serving", "dir", staticDir)
		return
	}
	router.Static("/assets", filepath.Join(staticDir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))

	// index.html for all non-API routes (SPA routing)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
	log.Default().Info("serving static files", "dir", staticDir)
}
