package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"excel-analytics/internal/app"
	"excel-analytics/internal/transport/http/response"
)

func Dashboard(c *gin.Context) {
	caller, ok := getCallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	message, err := app.DashboardMessage(caller)
	if err != nil {
		writeServiceError(c, err, "dashboard failed")
		return
	}
	response.OK(c, gin.H{"message": message})
}
