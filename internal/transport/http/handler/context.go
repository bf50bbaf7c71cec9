package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"excel-analytics/internal/access"
	"excel-analytics/internal/app"
	"excel-analytics/internal/transport/http/middleware"
	"excel-analytics/internal/transport/http/response"
)

func getCallerFromContext(c *gin.Context) (access.Caller, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return access.Caller{}, false
	}
	userID, ok := userIDAny.(uint)
	if !ok || userID == 0 {
		return access.Caller{}, false
	}
	return access.Caller{UserID: userID, Role: access.Role(c.GetString(middleware.ContextRoleKey))}, true
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}

// writeServiceError maps service sentinels onto the response envelope.
// Anything unrecognised is reported with fallback only.
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrUnsupportedFileKind):
		response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFile, app.ErrUnsupportedFileKind.Error())
	case errors.Is(err, app.ErrEmptyDataset):
		response.Error(c, http.StatusBadRequest, response.CodeEmptyDataset, app.ErrEmptyDataset.Error())
	case errors.Is(err, app.ErrInvalidFile):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidFile, app.ErrInvalidFile.Error())
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, app.ErrNotFound.Error())
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, app.ErrForbidden.Error())
	case errors.Is(err, app.ErrStorage):
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, response.CodeStorageUnavailable, app.ErrStorage.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
