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

type PaymentService interface {
	CreatePayment(ctx context.Context, subscriptionID uint, amount float64, method string, payer domain.User) (domain.Payment, error)
	VerifyPayment(ctx context.Context, paymentID uint, rawStatus string, code *string, caller domain.User) (domain.Payment, error)
	ValidatePayment(ctx context.Context, paymentID uint, rawStatus string) (domain.Payment, error)
	GetPayment(ctx context.Context, id uint, principal domain.User) (domain.Payment, error)
	ListPayments(ctx context.Context, principal domain.User, scope domain.Scope, status string) ([]domain.Payment, error)
}

type PaymentHandler struct {
	svc    PaymentService
	access AccessResolver
}

func NewPaymentHandler(svc PaymentService, access AccessResolver) *PaymentHandler {
	return &PaymentHandler{
		svc:    svc,
		access: access,
	}
}

// HandleCreatePayment godoc
// @Summary      Record a payment against a subscription
// @Tags         payments
// @Produce      json
// @Param        request   body      request.CreatePaymentRequest true "request body"
// @Success      201      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /payments [post]
func (h *PaymentHandler) HandleCreatePayment(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req := request.CreatePaymentRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	payment, err := h.svc.CreatePayment(ctx.Request.Context(), req.SubscriptionID, req.Amount, req.Method, principal)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrInvalidPaymentMethod):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreatePayment -> h.svc.CreatePayment -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusCreated, payment)
}

// HandleListPayments godoc
// @Summary      List payments visible to the caller
// @Tags         payments
// @Produce      json
// @Param        status   query     string  false  "filter by status"
// @Success      200 {object} response.Body
// @Failure      500 {object} response.Err
// @Router       /payments [get]
func (h *PaymentHandler) HandleListPayments(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleListPayments -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	payments, err := h.svc.ListPayments(ctx.Request.Context(), principal, scope, ctx.Query("status"))
	if err != nil {
		err = fmt.Errorf("v1.HandleListPayments -> h.svc.ListPayments -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, payments)
}

// HandleGetPayment godoc
// @Summary      Get one payment
// @Tags         payments
// @Produce      json
// @Param        paymentID   path      int  true  "payment ID"
// @Success      200 {object} response.Body
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /payments/{paymentID} [get]
func (h *PaymentHandler) HandleGetPayment(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "paymentID")
	if !ok {
		return
	}

	payment, err := h.svc.GetPayment(ctx.Request.Context(), id, principal)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleGetPayment -> h.svc.GetPayment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, payment)
}

// HandleVerifyPayment godoc
// @Summary      Settle a mobile money payment with its verification code
// @Tags         payments
// @Produce      json
// @Param        paymentID   path      int  true  "payment ID"
// @Param        request     body      request.VerifyPaymentRequest true "request body"
// @Success      200 {object} response.Body
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /payments/{paymentID}/verify [post]
func (h *PaymentHandler) HandleVerifyPayment(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "paymentID")
	if !ok {
		return
	}

	req := request.VerifyPaymentRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	payment, err := h.svc.VerifyPayment(ctx.Request.Context(), id, req.Status, req.VerificationCode, principal)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrWrongVerificationCode), errors.Is(err, service.ErrInvalidPaymentStatus):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleVerifyPayment -> h.svc.VerifyPayment -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusOK, payment)
}

// HandleValidatePayment godoc
// @Summary      Set a payment's status as an admin
// @Tags         payments
// @Produce      json
// @Param        paymentID   path      int  true  "payment ID"
// @Param        request     body      request.ValidatePaymentRequest true "request body"
// @Success      200 {object} response.Body
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /payments/{paymentID}/validate [post]
func (h *PaymentHandler) HandleValidatePayment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "paymentID")
	if !ok {
		return
	}

	req := request.ValidatePaymentRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	payment, err := h.svc.ValidatePayment(ctx.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrInvalidPaymentStatus):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleValidatePayment -> h.svc.ValidatePayment -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusOK, payment)
}
