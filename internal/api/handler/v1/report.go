package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dabali-bf/canteen-api/internal/api/handler/v1/response"
	"github.com/dabali-bf/canteen-api/internal/domain"
)

type ReportService interface {
	Dashboard(ctx context.Context, scope domain.Scope) (domain.DashboardStats, error)
}

type ReportHandler struct {
	svc    ReportService
	access AccessResolver
}

func NewReportHandler(svc ReportService, access AccessResolver) *ReportHandler {
	return &ReportHandler{
		svc:    svc,
		access: access,
	}
}

// HandleDashboard godoc
// @Summary      Live dashboard statistics for the caller's scope
// @Tags         reports
// @Produce      json
// @Success      200 {object} response.Body
// @Failure      500 {object} response.Err
// @Router       /reports/dashboard [get]
func (h *ReportHandler) HandleDashboard(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleDashboard -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	stats, err := h.svc.Dashboard(ctx.Request.Context(), scope)
	if err != nil {
		err = fmt.Errorf("v1.HandleDashboard -> h.svc.Dashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, stats)
}
