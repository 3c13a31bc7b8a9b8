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

type NotificationService interface {
	ListNotifications(ctx context.Context, userID uint, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type NotificationHandler struct {
	svc NotificationService
}

func NewNotificationHandler(svc NotificationService) *NotificationHandler {
	return &NotificationHandler{
		svc: svc,
	}
}

// HandleListNotifications godoc
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Param        unread   query     bool  false  "only unread notifications"
// @Success      200 {object} response.Body
// @Failure      500 {object} response.Err
// @Router       /notifications [get]
func (h *NotificationHandler) HandleListNotifications(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	unreadOnly := ctx.Query("unread") == "true"

	notifications, err := h.svc.ListNotifications(ctx.Request.Context(), principal.ID, unreadOnly)
	if err != nil {
		err = fmt.Errorf("v1.HandleListNotifications -> h.svc.ListNotifications -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, notifications)
}

// HandleMarkNotificationRead godoc
// @Summary      Mark one notification as read
// @Tags         notifications
// @Produce      json
// @Param        notificationID   path      int  true  "notification ID"
// @Success      200 {object} response.Body
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /notifications/{notificationID}/read [put]
func (h *NotificationHandler) HandleMarkNotificationRead(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "notificationID")
	if !ok {
		return
	}

	if err := h.svc.MarkRead(ctx.Request.Context(), id, principal.ID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleMarkNotificationRead -> h.svc.MarkRead -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OKMessage(ctx, http.StatusOK, "notification marked as read")
}

// HandleMarkAllNotificationsRead godoc
// @Summary      Mark all of the caller's notifications as read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.Body
// @Failure      500 {object} response.Err
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) HandleMarkAllNotificationsRead(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	if err := h.svc.MarkAllRead(ctx.Request.Context(), principal.ID); err != nil {
		err = fmt.Errorf("v1.HandleMarkAllNotificationsRead -> h.svc.MarkAllRead -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OKMessage(ctx, http.StatusOK, "all notifications marked as read")
}
