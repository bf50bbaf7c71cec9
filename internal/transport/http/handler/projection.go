package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"excel-analytics/internal/app"
	"excel-analytics/internal/dataset"
	"excel-analytics/internal/transport/http/response"
)

// ProjectionRequest selects data by upload_id, dataset_id or an inline dataset.
type ProjectionRequest struct {
	UploadID  uint             `json:"upload_id"`
	DatasetID string           `json:"dataset_id"`
	Dataset   *dataset.Dataset `json:"dataset"`
	XColumn   string           `json:"x_column"`
	YColumn   string           `json:"y_column"`
	Chart     string           `json:"chart" binding:"required"`
}

type ProjectionHandler struct {
	uploadService *app.UploadService
}

func NewProjectionHandler(uploadService *app.UploadService) *ProjectionHandler {
	return &ProjectionHandler{uploadService: uploadService}
}

func (h *ProjectionHandler) Project(c *gin.Context) {
	caller, ok := getCallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.uploadService.Project(c.Request.Context(), app.ProjectInput{
		Caller:    caller,
		UploadID:  req.UploadID,
		DatasetID: req.DatasetID,
		Inline:    req.Dataset,
		XColumn:   req.XColumn,
		YColumn:   req.YColumn,
		Chart:     req.Chart,
	})
	if err != nil {
		writeServiceError(c, err, "projection failed")
		return
	}
	response.OK(c, result)
}
