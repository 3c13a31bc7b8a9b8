package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dabali-bf/canteen-api/internal/api/handler/v1/request"
	"github.com/dabali-bf/canteen-api/internal/api/handler/v1/response"
	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/service"
)

type SubscriptionService interface {
	CreateSubscription(ctx context.Context, sub domain.Subscription, creator domain.User) (domain.Subscription, error)
	GetSubscription(ctx context.Context, id uint, principal domain.User, scope domain.Scope) (domain.Subscription, error)
	ListSubscriptions(ctx context.Context, principal domain.User, scope domain.Scope, studentID *uint, status string) ([]domain.Subscription, error)
	OverrideStatus(ctx context.Context, id uint, status string) (domain.Subscription, error)
	DeleteSubscription(ctx context.Context, id uint) error
}

type SubscriptionHandler struct {
	svc    SubscriptionService
	access AccessResolver
}

func NewSubscriptionHandler(svc SubscriptionService, access AccessResolver) *SubscriptionHandler {
	return &SubscriptionHandler{
		svc:    svc,
		access: access,
	}
}

// HandleCreateSubscription godoc
// @Summary      Subscribe one of the caller's children to the canteen
// @Tags         subscriptions
// @Produce      json
// @Param        request   body      request.CreateSubscriptionRequest true "request body"
// @Success      201      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /subscriptions [post]
func (h *SubscriptionHandler) HandleCreateSubscription(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req := request.CreateSubscriptionRequest{}
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

	endDate, err := parseDate(req.EndDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	sub, err := h.svc.CreateSubscription(ctx.Request.Context(), domain.Subscription{
		StudentID: req.StudentID,
		StartDate: *startDate,
		EndDate:   *endDate,
		MealPlan:  req.MealPlan,
		Price:     req.Price,
	}, principal)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrNotParentOfStudent):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleCreateSubscription -> h.svc.CreateSubscription -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusCreated, sub)
}

// HandleListSubscriptions godoc
// @Summary      List subscriptions visible to the caller
// @Tags         subscriptions
// @Produce      json
// @Param        student_id   query     int     false  "filter by student"
// @Param        status       query     string  false  "filter by status"
// @Success      200 {object} response.Body
// @Failure      500 {object} response.Err
// @Router       /subscriptions [get]
func (h *SubscriptionHandler) HandleListSubscriptions(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	var studentID *uint
	if raw := ctx.Query("student_id"); raw != "" {
		id, ok := parseQueryID(ctx, raw, "student_id")
		if !ok {
			return
		}
		studentID = &id
	}

	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleListSubscriptions -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	subs, err := h.svc.ListSubscriptions(ctx.Request.Context(), principal, scope, studentID, ctx.Query("status"))
	if err != nil {
		err = fmt.Errorf("v1.HandleListSubscriptions -> h.svc.ListSubscriptions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, subs)
}

// HandleGetSubscription godoc
// @Summary      Get one subscription
// @Tags         subscriptions
// @Produce      json
// @Param        subscriptionID   path      int  true  "subscription ID"
// @Success      200 {object} response.Body
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /subscriptions/{subscriptionID} [get]
func (h *SubscriptionHandler) HandleGetSubscription(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "subscriptionID")
	if !ok {
		return
	}

	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetSubscription -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	sub, err := h.svc.GetSubscription(ctx.Request.Context(), id, principal, scope)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) || errors.Is(err, service.ErrStudentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleGetSubscription -> h.svc.GetSubscription -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, sub)
}

// HandleOverrideSubscriptionStatus godoc
// @Summary      Force a subscription into a given status
// @Tags         subscriptions
// @Produce      json
// @Param        subscriptionID   path      int  true  "subscription ID"
// @Param        request          body      request.OverrideSubscriptionStatusRequest true "request body"
// @Success      200 {object} response.Body
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /subscriptions/{subscriptionID}/status [put]
func (h *SubscriptionHandler) HandleOverrideSubscriptionStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "subscriptionID")
	if !ok {
		return
	}

	req := request.OverrideSubscriptionStatusRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	sub, err := h.svc.OverrideStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrInvalidSubscriptionState):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleOverrideSubscriptionStatus -> h.svc.OverrideStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusOK, sub)
}

// HandleDeleteSubscription godoc
// @Summary      Delete a subscription without payments
// @Tags         subscriptions
// @Produce      json
// @Param        subscriptionID   path      int  true  "subscription ID"
// @Success      200 {object} response.Body
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /subscriptions/{subscriptionID} [delete]
func (h *SubscriptionHandler) HandleDeleteSubscription(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "subscriptionID")
	if !ok {
		return
	}

	if err := h.svc.DeleteSubscription(ctx.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrSubscriptionHasPayments):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleDeleteSubscription -> h.svc.DeleteSubscription -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OKMessage(ctx, http.StatusOK, "subscription deleted")
}
