package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dabali-bf/canteen-api/internal/api/handler/v1/request"
	"github.com/dabali-bf/canteen-api/internal/api/handler/v1/response"
	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/service"
)

type MenuService interface {
	CreateMenu(ctx context.Context, menu domain.Menu, creator domain.User) (domain.Menu, error)
	CreateAnnualMenu(ctx context.Context, menu domain.Menu, creator domain.User) (domain.Menu, error)
	GetMenu(ctx context.Context, id uint, principal domain.User, scope domain.Scope) (domain.Menu, error)
	ListMenus(ctx context.Context, principal domain.User, scope domain.Scope, date *time.Time, mealType, status string) ([]domain.Menu, error)
	UpdateMenu(ctx context.Context, id uint, update service.MenuUpdate, principal domain.User) (domain.Menu, error)
	DeleteMenu(ctx context.Context, id uint, principal domain.User) error
	ApproveMenu(ctx context.Context, id uint, approved bool, reason string, approver domain.User) (domain.Menu, error)
}

type MenuHandler struct {
	svc    MenuService
	access AccessResolver
}

func NewMenuHandler(svc MenuService, access AccessResolver) *MenuHandler {
	return &MenuHandler{
		svc:    svc,
		access: access,
	}
}

func (h *MenuHandler) renderMenuErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrMenuNotFound), errors.Is(err, service.ErrSchoolNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrMenuAccessDenied):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrMenuNotPending),
		errors.Is(err, service.ErrRejectionReasonRequired),
		errors.Is(err, service.ErrInvalidMealType):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		err = fmt.Errorf("v1.%s -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleCreateMenu godoc
// @Summary      Create a menu awaiting approval
// @Tags         menus
// @Produce      json
// @Param        request   body      request.CreateMenuRequest true "request body"
// @Success      201      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /menus [post]
func (h *MenuHandler) HandleCreateMenu(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req := request.CreateMenuRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	menu, err := h.svc.CreateMenu(ctx.Request.Context(), domain.Menu{
		SchoolID:    req.SchoolID,
		Date:        *date,
		MealType:    req.MealType,
		Description: req.Description,
		Items:       req.Items,
		Allergens:   req.Allergens,
	}, principal)
	if err != nil {
		h.renderMenuErr(ctx, "HandleCreateMenu -> h.svc.CreateMenu", err)

		return
	}

	response.OK(ctx, http.StatusCreated, menu)
}

// HandleCreateAnnualMenu godoc
// @Summary      Create a recurring weekly menu through year end
// @Tags         menus
// @Produce      json
// @Param        request   body      request.CreateAnnualMenuRequest true "request body"
// @Success      201      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /menus/annual [post]
func (h *MenuHandler) HandleCreateAnnualMenu(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req := request.CreateAnnualMenuRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	menu, err := h.svc.CreateAnnualMenu(ctx.Request.Context(), domain.Menu{
		SchoolID:    req.SchoolID,
		Date:        *startDate,
		MealType:    req.MealType,
		Description: req.Description,
		Items:       req.Items,
		Allergens:   req.Allergens,
	}, principal)
	if err != nil {
		h.renderMenuErr(ctx, "HandleCreateAnnualMenu -> h.svc.CreateAnnualMenu", err)

		return
	}

	response.OK(ctx, http.StatusCreated, menu)
}

// HandleListMenus godoc
// @Summary      List menus visible to the caller
// @Tags         menus
// @Produce      json
// @Param        date        query     string  false  "filter by date (YYYY-MM-DD)"
// @Param        meal_type   query     string  false  "filter by meal type"
// @Param        status      query     string  false  "filter by status"
// @Success      200 {object} response.Body
// @Failure      400 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /menus [get]
func (h *MenuHandler) HandleListMenus(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	date, err := parseDate(ctx.Query("date"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMenus -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	menus, err := h.svc.ListMenus(ctx.Request.Context(), principal, scope, date, ctx.Query("meal_type"), ctx.Query("status"))
	if err != nil {
		err = fmt.Errorf("v1.HandleListMenus -> h.svc.ListMenus -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, menus)
}

// HandleGetMenu godoc
// @Summary      Get one menu
// @Tags         menus
// @Produce      json
// @Param        menuID   path      int  true  "menu ID"
// @Success      200 {object} response.Body
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /menus/{menuID} [get]
func (h *MenuHandler) HandleGetMenu(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "menuID")
	if !ok {
		return
	}

	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMenu -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	menu, err := h.svc.GetMenu(ctx.Request.Context(), id, principal, scope)
	if err != nil {
		h.renderMenuErr(ctx, "HandleGetMenu -> h.svc.GetMenu", err)

		return
	}

	response.OK(ctx, http.StatusOK, menu)
}

// HandleUpdateMenu godoc
// @Summary      Update a menu's content
// @Tags         menus
// @Produce      json
// @Param        menuID   path      int  true  "menu ID"
// @Param        request  body      request.UpdateMenuRequest true "request body"
// @Success      200 {object} response.Body
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /menus/{menuID} [put]
func (h *MenuHandler) HandleUpdateMenu(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "menuID")
	if !ok {
		return
	}

	req := request.UpdateMenuRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	menu, err := h.svc.UpdateMenu(ctx.Request.Context(), id, service.MenuUpdate{
		Description: req.Description,
		Items:       req.Items,
		Allergens:   req.Allergens,
		MealType:    req.MealType,
	}, principal)
	if err != nil {
		h.renderMenuErr(ctx, "HandleUpdateMenu -> h.svc.UpdateMenu", err)

		return
	}

	response.OK(ctx, http.StatusOK, menu)
}

// HandleDeleteMenu godoc
// @Summary      Delete a menu, including all annual siblings
// @Tags         menus
// @Produce      json
// @Param        menuID   path      int  true  "menu ID"
// @Success      200 {object} response.Body
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /menus/{menuID} [delete]
func (h *MenuHandler) HandleDeleteMenu(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "menuID")
	if !ok {
		return
	}

	if err := h.svc.DeleteMenu(ctx.Request.Context(), id, principal); err != nil {
		h.renderMenuErr(ctx, "HandleDeleteMenu -> h.svc.DeleteMenu", err)

		return
	}

	response.OKMessage(ctx, http.StatusOK, "menu deleted")
}

// HandleApproveMenu godoc
// @Summary      Approve or reject a pending menu
// @Tags         menus
// @Produce      json
// @Param        menuID   path      int  true  "menu ID"
// @Param        request  body      request.ApproveMenuRequest true "request body"
// @Success      200 {object} response.Body
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /menus/{menuID}/approve [put]
func (h *MenuHandler) HandleApproveMenu(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "menuID")
	if !ok {
		return
	}

	req := request.ApproveMenuRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	menu, err := h.svc.ApproveMenu(ctx.Request.Context(), id, req.Approved, req.RejectionReason, principal)
	if err != nil {
		h.renderMenuErr(ctx, "HandleApproveMenu -> h.svc.ApproveMenu", err)

		return
	}

	response.OK(ctx, http.StatusOK, menu)
}
