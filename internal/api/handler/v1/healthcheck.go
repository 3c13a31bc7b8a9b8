package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dabali-bf/canteen-api/internal/api/handler/v1/response"
)

// HandleHealthcheck godoc
// @Summary      Check whether the API is up
// @Tags         healthcheck
// @Produce      json
// @Success      200 {object} response.Body
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	response.OKMessage(ctx, http.StatusOK, "ok")
}
