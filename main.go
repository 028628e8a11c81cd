package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lanbeam/lanbeam/config"
	"github.com/lanbeam/lanbeam/core"
	"github.com/lanbeam/lanbeam/discovery"
	"github.com/lanbeam/lanbeam/middleware"
	"github.com/lanbeam/lanbeam/routes"
	"github.com/lanbeam/lanbeam/storage"
	"github.com/lanbeam/lanbeam/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	history, err := storage.OpenHistory(cfg.HistoryDBPath, cfg.LogLevel)
	if err != nil {
		utils.Sugar.Fatalf("open history store: %v", err)
	}
	defer history.Close()

	port, err := strconv.Atoi(cfg.AppPort)
	if err != nil {
		utils.Sugar.Fatalf("invalid port %q", cfg.AppPort)
	}
	if !cfg.StrictPort {
		free, err := utils.FindAvailablePort(port, 100)
		if err != nil {
			utils.Sugar.Fatalf("no free port: %v", err)
		}
		if free != port {
			utils.Sugar.Infof("port %d is occupied, switched to %d", port, free)
			port = free
		}
	}

	lanIP := cfg.LANIP
	if lanIP == "" {
		lanIP = utils.LANIP()
	}
	baseURL := fmt.Sprintf("http://%s:%d", lanIP, port)

	c := core.New(core.Options{
		History:      history,
		TokenTTL:     time.Duration(cfg.TokenTTLSeconds) * time.Second,
		SessionTTL:   time.Duration(cfg.SessionTTLSeconds) * time.Second,
		MaxUpload:    cfg.MaxUploadBytes,
		DownloadDir:  cfg.DownloadDir,
		TransientDir: cfg.TransientDir,
		Logger:       utils.Sugar,
	})
	auth := middleware.NewAuth(c, []string{"127.0.0.1", "::1", lanIP})

	r := routes.SetupRouter(c, auth, baseURL)

	if cfg.MDNSAnnounce {
		announcer, err := discovery.Announce(cfg.MDNSInstance, port)
		if err != nil {
			utils.Sugar.Warnf("mDNS announce failed: %v", err)
		} else {
			defer announcer.Shutdown()
		}
	}

	token, _ := c.IssueToken(false)
	utils.Sugar.Infof("desktop page: %s/", baseURL)
	utils.Sugar.Infof("mobile pairing: %s/?token=%s", baseURL, token)

	utils.Sugar.Infof("Starting server on port %d (graceful)", port)
	if err := utils.GraceServer(fmt.Sprintf(":%d", port), r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
