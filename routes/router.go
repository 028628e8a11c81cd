package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lanbeam/lanbeam/config"
	"github.com/lanbeam/lanbeam/controllers"
	"github.com/lanbeam/lanbeam/core"
	"github.com/lanbeam/lanbeam/middleware"
	"github.com/lanbeam/lanbeam/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(c *core.Core, auth *middleware.Auth, baseURL string) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", middleware.HeaderSessionID, middleware.HeaderDeviceID, middleware.HeaderDeviceName},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	authController := controllers.NewAuthController(c, auth, baseURL)
	transferController := controllers.NewTransferController(c)
	settingsController := controllers.NewSettingsController(c)
	wsController := controllers.NewWSController(c)

	// Token exchange sits behind the rate limiter: pairing tokens are the
	// only thing on this surface worth brute-forcing.
	r.GET("/", middleware.RateLimitMiddleware(), authController.Index)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authorized := r.Group("", auth.Require(false))
	authorized.GET("/records", transferController.Records)
	authorized.POST("/upload", transferController.Upload)
	authorized.GET("/files/:id", transferController.Download)
	authorized.POST("/files/:id/save", transferController.Save)
	authorized.GET("/settings", settingsController.Get)

	trusted := r.Group("", auth.RequireTrusted())
	trusted.GET("/auth/mobile-token", authController.MobileToken)
	trusted.POST("/upload-desktop-path", transferController.UploadDesktopPath)
	trusted.POST("/settings/upload-limit", settingsController.UpdateUploadLimit)
	trusted.POST("/settings/download-dir", settingsController.UpdateDownloadDir)

	// Handshake may carry the session id as a query parameter.
	r.GET("/ws", auth.Require(true), wsController.Handle)

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})

	return r
}
