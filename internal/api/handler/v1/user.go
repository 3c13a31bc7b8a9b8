package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dabali-bf/canteen-api/internal/api/handler/v1/response"
	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/service"
)

type UserService interface {
	ListCanteenManagers(ctx context.Context, principal domain.User) ([]domain.User, error)
	DeleteCanteenManager(ctx context.Context, principal domain.User, managerID uint) error
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleListCanteenManagers godoc
// @Summary      List the caller's school's canteen managers
// @Tags         users
// @Produce      json
// @Success      200 {object} response.Body
// @Failure      500 {object} response.Err
// @Router       /users/canteen-managers [get]
func (h *UserHandler) HandleListCanteenManagers(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	managers, err := h.svc.ListCanteenManagers(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleListCanteenManagers -> h.svc.ListCanteenManagers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, managers)
}

// HandleDeleteCanteenManager godoc
// @Summary      Delete a canteen manager of the caller's school
// @Tags         users
// @Produce      json
// @Param        managerID   path      int  true  "manager ID"
// @Success      200 {object} response.Body
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /users/canteen-managers/{managerID} [delete]
func (h *UserHandler) HandleDeleteCanteenManager(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "managerID")
	if !ok {
		return
	}

	if err := h.svc.DeleteCanteenManager(ctx.Request.Context(), principal, id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteCanteenManager -> h.svc.DeleteCanteenManager -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OKMessage(ctx, http.StatusOK, "canteen manager deleted")
}
