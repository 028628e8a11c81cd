package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanbeam/lanbeam/core"
	"github.com/lanbeam/lanbeam/utils"
)

// writeError maps the core error taxonomy onto the JSON envelope. Auth
// rejections and not-found are terminal for the caller; limit and storage
// failures signal that nothing was committed.
func writeError(ctx *gin.Context, err error) {
	if kind, ok := core.IsAuthError(err); ok {
		switch kind {
		case core.AuthMissingDeviceID:
			utils.Error(ctx, http.StatusBadRequest, 40001, err.Error())
		case core.AuthForbidden:
			utils.Error(ctx, http.StatusForbidden, 40302, err.Error())
		case core.AuthTokenMissing, core.AuthOriginUnknown, core.AuthTokenInvalid,
			core.AuthTokenConsumed, core.AuthTokenExpired:
			utils.Error(ctx, http.StatusForbidden, 40310+int(kind), err.Error())
		default:
			utils.Error(ctx, http.StatusUnauthorized, 40101, err.Error())
		}
		return
	}

	var limitErr *core.LimitExceededError
	if errors.As(err, &limitErr) {
		utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, limitErr.Error())
		return
	}
	if errors.Is(err, core.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40401, "record or file not found")
		return
	}

	var storageErr *core.StorageError
	if errors.As(err, &storageErr) {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "history persistence failed, nothing was committed")
		return
	}
	var ioErr *core.IOError
	if errors.As(err, &ioErr) {
		utils.Error(ctx, http.StatusInternalServerError, 50002, ioErr.Error())
		return
	}
	utils.Error(ctx, http.StatusInternalServerError, 50000, "internal error")
}
