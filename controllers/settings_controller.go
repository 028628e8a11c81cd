package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lanbeam/lanbeam/config"
	"github.com/lanbeam/lanbeam/core"
	"github.com/lanbeam/lanbeam/utils"
)

const (
	minUploadLimit = 1 << 20   // 1 MiB
	maxUploadLimit = 100 << 30 // 100 GiB
)

// SettingsController exposes the runtime-mutable settings: the upload byte
// cap and the download directory. Mutations are trusted-origin only and
// persisted across restarts.
type SettingsController struct {
	core *core.Core
}

func NewSettingsController(c *core.Core) *SettingsController {
	return &SettingsController{core: c}
}

// Get returns the current settings visible to any authenticated caller.
func (s *SettingsController) Get(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"max_upload_bytes":    s.core.MaxUploadBytes(),
		"session_ttl_seconds": int(s.core.SessionTTL().Seconds()),
		"download_dir":        s.core.DownloadDir(),
	})
}

// UpdateUploadLimit replaces the upload byte cap within 1MiB..100GiB.
func (s *SettingsController) UpdateUploadLimit(ctx *gin.Context) {
	var body struct {
		MaxUploadBytes int64 `json:"max_upload_bytes"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "max_upload_bytes must be an integer")
		return
	}
	if body.MaxUploadBytes < minUploadLimit || body.MaxUploadBytes > maxUploadLimit {
		utils.Error(ctx, http.StatusBadRequest, 40011, "upload limit must be between 1MB and 100GB")
		return
	}

	s.core.SetMaxUploadBytes(body.MaxUploadBytes)
	config.PersistMaxUploadBytes(body.MaxUploadBytes)
	utils.Success(ctx, gin.H{"max_upload_bytes": body.MaxUploadBytes})
}

// UpdateDownloadDir replaces the download directory; absolute paths only.
func (s *SettingsController) UpdateDownloadDir(ctx *gin.Context) {
	var body struct {
		DownloadDir string `json:"download_dir"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "download_dir required")
		return
	}
	dir := strings.TrimSpace(body.DownloadDir)
	if dir == "" || !filepath.IsAbs(dir) {
		utils.Error(ctx, http.StatusBadRequest, 40013, "download_dir must be an absolute path")
		return
	}
	dir = filepath.Clean(dir)

	s.core.SetDownloadDir(dir)
	config.PersistDownloadDir(dir)
	utils.Success(ctx, gin.H{"download_dir": dir})
}
