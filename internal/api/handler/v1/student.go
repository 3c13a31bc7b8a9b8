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

type StudentService interface {
	CreateStudent(ctx context.Context, student domain.Student, scope domain.Scope) (domain.Student, error)
	GetStudent(ctx context.Context, id uint, principal domain.User, scope domain.Scope) (domain.Student, error)
	ListStudents(ctx context.Context, principal domain.User, scope domain.Scope, className string) ([]domain.Student, error)
	UpdateStudent(ctx context.Context, id uint, update domain.Student, principal domain.User, scope domain.Scope) (domain.Student, error)
	DeleteStudent(ctx context.Context, id uint, principal domain.User, scope domain.Scope) error
	ClaimStudent(ctx context.Context, identity domain.StudentIdentity, parentID uint) (domain.Student, error)
	ImportStudents(ctx context.Context, schoolID uint, rows []domain.Student, scope domain.Scope) (service.ImportResult, error)
}

type StudentHandler struct {
	svc    StudentService
	access AccessResolver
}

func NewStudentHandler(svc StudentService, access AccessResolver) *StudentHandler {
	return &StudentHandler{
		svc:    svc,
		access: access,
	}
}

func (h *StudentHandler) resolveScope(ctx *gin.Context, principal domain.User) (domain.Scope, bool) {
	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.StudentHandler -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return domain.Scope{}, false
	}

	return scope, true
}

// HandleCreateStudent godoc
// @Summary      Create a student
// @Tags         students
// @Produce      json
// @Param        request   body      request.CreateStudentRequest true "request body"
// @Success      201      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /students [post]
func (h *StudentHandler) HandleCreateStudent(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req := request.CreateStudentRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	scope, ok := h.resolveScope(ctx, principal)
	if !ok {
		return
	}

	student, err := h.svc.CreateStudent(ctx.Request.Context(), domain.Student{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		ClassName:   req.ClassName,
		BirthDate:   birthDate,
		StudentCode: req.StudentCode,
		SchoolID:    req.SchoolID,
	}, scope)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSchoolNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrStudentCodeExists):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleCreateStudent -> h.svc.CreateStudent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusCreated, student)
}

// HandleListStudents godoc
// @Summary      List students visible to the caller
// @Tags         students
// @Produce      json
// @Param        school_id   query     int     false  "filter by school"
// @Param        class       query     string  false  "filter by class name"
// @Success      200 {object} response.Body
// @Failure      500 {object} response.Err
// @Router       /students [get]
func (h *StudentHandler) HandleListStudents(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	scope, ok := h.resolveScope(ctx, principal)
	if !ok {
		return
	}

	// A school filter narrows the scope, never widens it.
	if raw := ctx.Query("school_id"); raw != "" {
		schoolID, ok := parseQueryID(ctx, raw, "school_id")
		if !ok {
			return
		}
		if !scope.Contains(schoolID) {
			response.OK(ctx, http.StatusOK, []domain.Student{})

			return
		}
		scope = domain.ScopeOf(schoolID)
	}

	students, err := h.svc.ListStudents(ctx.Request.Context(), principal, scope, ctx.Query("class"))
	if err != nil {
		err = fmt.Errorf("v1.HandleListStudents -> h.svc.ListStudents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, students)
}

// HandleGetStudent godoc
// @Summary      Get one student
// @Tags         students
// @Produce      json
// @Param        studentID   path      int  true  "student ID"
// @Success      200 {object} response.Body
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /students/{studentID} [get]
func (h *StudentHandler) HandleGetStudent(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "studentID")
	if !ok {
		return
	}

	scope, ok := h.resolveScope(ctx, principal)
	if !ok {
		return
	}

	student, err := h.svc.GetStudent(ctx.Request.Context(), id, principal, scope)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleGetStudent -> h.svc.GetStudent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, student)
}

// HandleUpdateStudent godoc
// @Summary      Update a student
// @Tags         students
// @Produce      json
// @Param        studentID   path      int  true  "student ID"
// @Param        request     body      request.UpdateStudentRequest true "request body"
// @Success      200 {object} response.Body
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      409 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /students/{studentID} [put]
func (h *StudentHandler) HandleUpdateStudent(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "studentID")
	if !ok {
		return
	}

	req := request.UpdateStudentRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	scope, ok := h.resolveScope(ctx, principal)
	if !ok {
		return
	}

	student, err := h.svc.UpdateStudent(ctx.Request.Context(), id, domain.Student{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		ClassName:   req.ClassName,
		BirthDate:   birthDate,
		StudentCode: req.StudentCode,
	}, principal, scope)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrStudentCodeExists):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateStudent -> h.svc.UpdateStudent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusOK, student)
}

// HandleDeleteStudent godoc
// @Summary      Delete a student
// @Tags         students
// @Produce      json
// @Param        studentID   path      int  true  "student ID"
// @Success      200 {object} response.Body
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /students/{studentID} [delete]
func (h *StudentHandler) HandleDeleteStudent(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "studentID")
	if !ok {
		return
	}

	scope, ok := h.resolveScope(ctx, principal)
	if !ok {
		return
	}

	if err := h.svc.DeleteStudent(ctx.Request.Context(), id, principal, scope); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteStudent -> h.svc.DeleteStudent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OKMessage(ctx, http.StatusOK, "student deleted")
}

// HandleClaimStudent godoc
// @Summary      Link the calling parent to an existing student
// @Tags         students
// @Produce      json
// @Param        request   body      request.ClaimStudentRequest true "request body"
// @Success      200      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /students/claim [post]
func (h *StudentHandler) HandleClaimStudent(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req := request.ClaimStudentRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	student, err := h.svc.ClaimStudent(ctx.Request.Context(), domain.StudentIdentity{
		SchoolID:    req.SchoolID,
		StudentCode: req.StudentCode,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		BirthDate:   birthDate,
		ClassName:   req.ClassName,
	}, principal.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrStudentAlreadyClaimed):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleClaimStudent -> h.svc.ClaimStudent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusOK, student)
}

// HandleImportStudents godoc
// @Summary      Bulk import students for a school
// @Tags         students
// @Produce      json
// @Param        request   body      request.ImportStudentsRequest true "request body"
// @Success      200      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /students/import [post]
func (h *StudentHandler) HandleImportStudents(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req := request.ImportStudentsRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	rows := make([]domain.Student, 0, len(req.Students))
	for _, row := range req.Students {
		birthDate, err := parseDate(row.BirthDate)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		rows = append(rows, domain.Student{
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			ClassName:   row.ClassName,
			BirthDate:   birthDate,
			StudentCode: row.StudentCode,
		})
	}

	scope, ok := h.resolveScope(ctx, principal)
	if !ok {
		return
	}

	result, err := h.svc.ImportStudents(ctx.Request.Context(), req.SchoolID, rows, scope)
	if err != nil {
		if errors.Is(err, service.ErrSchoolNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleImportStudents -> h.svc.ImportStudents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, result)
}
