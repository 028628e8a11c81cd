package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lanbeam/lanbeam/core"
	"github.com/lanbeam/lanbeam/middleware"
	"github.com/lanbeam/lanbeam/utils"
)

// TransferController handles records listing, uploads, downloads and
// save-to-folder.
type TransferController struct {
	core *core.Core
}

func NewTransferController(c *core.Core) *TransferController {
	return &TransferController{core: c}
}

// Records returns the device-scoped history view: everything (with file
// paths) for the desktop, own records (without paths) for a phone.
func (t *TransferController) Records(ctx *gin.Context) {
	isDesktop := middleware.IsDesktop(ctx)
	deviceID := ""
	if !isDesktop {
		declID, declName := middleware.DeclaredDevice(ctx, false)
		id, _, err := t.core.ResolveDevice(false, declID, declName)
		if err != nil {
			writeError(ctx, err)
			return
		}
		deviceID = id
	}

	records, err := t.core.ListVisibleRecords(isDesktop, deviceID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"records": records})
}

// Upload streams a multipart file to disk. The multipart reader is walked
// part by part instead of FormFile so the byte cap is enforced while
// streaming, not after the whole body already landed in a temp file.
func (t *TransferController) Upload(ctx *gin.Context) {
	reader, err := ctx.Request.MultipartReader()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "multipart body required")
		return
	}

	declID, declName := middleware.DeclaredDevice(ctx, false)
	for {
		part, err := reader.NextPart()
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40021, "file field missing")
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}
		fileName := strings.TrimSpace(part.FileName())
		if fileName == "" {
			_ = part.Close()
			utils.Error(ctx, http.StatusBadRequest, 40022, "file name missing")
			return
		}

		view, err := t.core.Upload(core.UploadInput{
			Trusted:       middleware.IsDesktop(ctx),
			DeviceID:      declID,
			DeviceName:    declName,
			FileName:      fileName,
			Body:          part,
			ContentLength: ctx.Request.ContentLength,
		})
		_ = part.Close()
		if err != nil {
			writeError(ctx, err)
			return
		}
		utils.Success(ctx, gin.H{"record": view})
		return
	}
}

// UploadDesktopPath registers a local file by absolute path without
// copying. Route is trusted-origin only.
func (t *TransferController) UploadDesktopPath(ctx *gin.Context) {
	var body struct {
		FilePath string `json:"file_path"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.FilePath) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "file_path required")
		return
	}

	view, err := t.core.UploadLocalPath(body.FilePath)
	if err != nil {
		writeError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"record": view})
}

// Download streams a record's file to its owning device (or the desktop).
func (t *TransferController) Download(ctx *gin.Context) {
	declID, declName := middleware.DeclaredDevice(ctx, false)
	res, err := t.core.Download(middleware.IsDesktop(ctx), declID, declName, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.FileAttachment(res.Path, res.Name)
}

// Save copies a record into the download directory and reclaims transient
// records.
func (t *TransferController) Save(ctx *gin.Context) {
	declID, declName := middleware.DeclaredDevice(ctx, false)
	res, err := t.core.SaveToFolder(middleware.IsDesktop(ctx), declID, declName, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"saved_path":   res.SavedPath,
		"file_name":    res.FileName,
		"download_dir": res.DownloadDir,
	})
}
