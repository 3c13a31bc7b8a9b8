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

type SchoolService interface {
	CreateSchool(ctx context.Context, school domain.School) (domain.School, error)
	GetSchool(ctx context.Context, id uint, scope domain.Scope) (domain.School, error)
	ListSchools(ctx context.Context, scope domain.Scope) ([]domain.School, error)
	UpdateSchool(ctx context.Context, id uint, name, address, city string, scope domain.Scope) (domain.School, error)
	DeleteSchool(ctx context.Context, id uint) error
}

type SchoolHandler struct {
	svc    SchoolService
	access AccessResolver
}

func NewSchoolHandler(svc SchoolService, access AccessResolver) *SchoolHandler {
	return &SchoolHandler{
		svc:    svc,
		access: access,
	}
}

// HandleCreateSchool godoc
// @Summary      Create a school
// @Tags         schools
// @Produce      json
// @Param        request   body      request.CreateSchoolRequest true "request body"
// @Success      201      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /schools [post]
func (h *SchoolHandler) HandleCreateSchool(ctx *gin.Context) {
	req := request.CreateSchoolRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	school, err := h.svc.CreateSchool(ctx.Request.Context(), domain.School{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateSchool -> h.svc.CreateSchool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusCreated, school)
}

// HandleListSchools godoc
// @Summary      List schools visible to the caller
// @Tags         schools
// @Produce      json
// @Success      200 {object} response.Body
// @Failure      500 {object} response.Err
// @Router       /schools [get]
func (h *SchoolHandler) HandleListSchools(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleListSchools -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	schools, err := h.svc.ListSchools(ctx.Request.Context(), scope)
	if err != nil {
		err = fmt.Errorf("v1.HandleListSchools -> h.svc.ListSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, schools)
}

// HandleGetSchool godoc
// @Summary      Get one school
// @Tags         schools
// @Produce      json
// @Param        schoolID   path      int  true  "school ID"
// @Success      200 {object} response.Body
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /schools/{schoolID} [get]
func (h *SchoolHandler) HandleGetSchool(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "schoolID")
	if !ok {
		return
	}

	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetSchool -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	school, err := h.svc.GetSchool(ctx.Request.Context(), id, scope)
	if err != nil {
		if errors.Is(err, service.ErrSchoolNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleGetSchool -> h.svc.GetSchool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, school)
}

// HandleUpdateSchool godoc
// @Summary      Update a school
// @Tags         schools
// @Produce      json
// @Param        schoolID   path      int  true  "school ID"
// @Param        request    body      request.UpdateSchoolRequest true "request body"
// @Success      200 {object} response.Body
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /schools/{schoolID} [put]
func (h *SchoolHandler) HandleUpdateSchool(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "schoolID")
	if !ok {
		return
	}

	req := request.UpdateSchoolRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	scope, err := h.access.ResolveSchools(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateSchool -> h.access.ResolveSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	school, err := h.svc.UpdateSchool(ctx.Request.Context(), id, req.Name, req.Address, req.City, scope)
	if err != nil {
		if errors.Is(err, service.ErrSchoolNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateSchool -> h.svc.UpdateSchool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, school)
}

// HandleDeleteSchool godoc
// @Summary      Delete a school
// @Tags         schools
// @Produce      json
// @Param        schoolID   path      int  true  "school ID"
// @Success      200 {object} response.Body
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /schools/{schoolID} [delete]
func (h *SchoolHandler) HandleDeleteSchool(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "schoolID")
	if !ok {
		return
	}

	if err := h.svc.DeleteSchool(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrSchoolNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteSchool -> h.svc.DeleteSchool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OKMessage(ctx, http.StatusOK, "school deleted")
}
