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

type AttendanceService interface {
	MarkAttendance(ctx context.Context, attendance domain.Attendance, marker domain.User, scope domain.Scope) (domain.AttendanceResult, error)
	ListAttendance(ctx context.Context, principal domain.User, scope domain.Scope, studentID, menuID *uint, date *time.Time) ([]domain.Attendance, error)
}

type AttendanceHandler struct {
	svc    AttendanceService
	access AccessResolver
}

func NewAttendanceHandler(svc AttendanceService, access AccessResolver) *AttendanceHandler {
	return &AttendanceHandler{
		svc:    svc,
		access: access,
	}
}

// HandleMarkAttendance godoc
// @Summary      Mark a student's attendance for a menu
// @Tags         attendance
// @Produce      json
// @Param        request   body      request.MarkAttendanceRequest true "request body"
// @Success      201      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /attendance [post]
func (h *AttendanceHandler) HandleMarkAttendance(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req := request.MarkAttendanceRequest{}
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

	attendance := domain.Attendance{
		StudentID:           req.StudentID,
		MenuID:              req.MenuID,
		Present:             req.Present,
		Justified:           req.Justified,
		JustificationReason: req.JustificationReason,
	}
	if date != nil {
		attendance.Date = *date
	}

	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleMarkAttendance -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	result, err := h.svc.MarkAttendance(ctx.Request.Context(), attendance, principal, scope)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrMenuNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrAttendanceExists):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleMarkAttendance -> h.svc.MarkAttendance -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusCreated, result)
}

// HandleListAttendance godoc
// @Summary      List attendance records visible to the caller
// @Tags         attendance
// @Produce      json
// @Param        student_id   query     int     false  "filter by student"
// @Param        menu_id      query     int     false  "filter by menu"
// @Param        date         query     string  false  "filter by date (YYYY-MM-DD)"
// @Success      200 {object} response.Body
// @Failure      400 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /attendance [get]
func (h *AttendanceHandler) HandleListAttendance(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	var studentID, menuID *uint
	if raw := ctx.Query("student_id"); raw != "" {
		id, ok := parseQueryID(ctx, raw, "student_id")
		if !ok {
			return
		}
		studentID = &id
	}
	if raw := ctx.Query("menu_id"); raw != "" {
		id, ok := parseQueryID(ctx, raw, "menu_id")
		if !ok {
			return
		}
		menuID = &id
	}

	date, err := parseDate(ctx.Query("date"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleListAttendance -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	records, err := h.svc.ListAttendance(ctx.Request.Context(), principal, scope, studentID, menuID, date)
	if err != nil {
		err = fmt.Errorf("v1.HandleListAttendance -> h.svc.ListAttendance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, records)
}
