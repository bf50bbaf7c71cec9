package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"excel-analytics/internal/app"
	"excel-analytics/internal/dataset"
	"excel-analytics/internal/transport/http/response"
)

type UploadHandler struct {
	uploadService *app.UploadService
	maxBytes      int64
}

func NewUploadHandler(uploadService *app.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, maxBytes: maxBytes}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	caller, ok := getCallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no file uploaded")
		return
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeFileTooLarge,
			fmt.Sprintf("file exceeds %d bytes", h.maxBytes))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read uploaded file failed")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read uploaded file failed")
		return
	}

	result, err := h.uploadService.Upload(c.Request.Context(), app.UploadInput{
		Caller:   caller,
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		writeServiceError(c, err, "upload failed")
		return
	}

	renamed := result.Dataset.Renamed
	if renamed == nil {
		renamed = []dataset.ColumnRename{}
	}
	response.OK(c, gin.H{
		"upload":          result.Upload,
		"columns":         result.Dataset.Columns,
		"rows":            result.Dataset.Rows,
		"renamed_columns": renamed,
	})
}

func (h *UploadHandler) ListHistory(c *gin.Context) {
	caller, ok := getCallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	items, err := h.uploadService.ListHistory(c.Request.Context(), caller)
	if err != nil {
		writeServiceError(c, err, "list upload history failed")
		return
	}
	response.OK(c, items)
}

func (h *UploadHandler) GetDataset(c *gin.Context) {
	caller, ok := getCallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	uploadID, ok := parseUintParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid upload id")
		return
	}

	ds, err := h.uploadService.ViewDataset(c.Request.Context(), caller, uploadID)
	if err != nil {
		writeServiceError(c, err, "fetch dataset failed")
		return
	}
	response.OK(c, ds)
}

func (h *UploadHandler) Delete(c *gin.Context) {
	caller, ok := getCallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	uploadID, ok := parseUintParam(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid upload id")
		return
	}

	if err := h.uploadService.DeleteUpload(c.Request.Context(), caller, uploadID); err != nil {
		writeServiceError(c, err, "delete upload failed")
		return
	}
	response.OK(c, gin.H{"deleted": uploadID})
}
