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
	"github.com/dabali-bf/canteen-api/internal/config"
	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/pkg/jwthelper"
	"github.com/dabali-bf/canteen-api/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.User, error)
	Register(ctx context.Context, user domain.User) (domain.User, error)
	RegisterSchoolAdmin(ctx context.Context, firstName, lastName, phone string, schoolID uint) (service.SchoolAdminRegistration, error)
	RegisterCanteenManager(ctx context.Context, principal domain.User, firstName, lastName, email string) (service.SchoolAdminRegistration, error)
	ChangeTemporaryPassword(ctx context.Context, userID uint, newPassword string) (domain.User, error)
	UpdateCredentials(ctx context.Context, userID uint, currentPassword, newEmail, newPassword string) (domain.User, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleLogin godoc
// @Summary      Login with email and password
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.Body
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> h.generateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, response.LoginResponse{
		Token:              token,
		User:               user,
		MustChangePassword: user.IsTemporaryPassword,
	})
}

// HandleRegister godoc
// @Summary      Register a parent or the initial super admin
// @Tags         auth
// @Produce      json
// @Param        request   body      request.RegisterRequest true "request body"
// @Success      201      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	req := request.RegisterRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Register(ctx.Request.Context(), domain.User{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserEmailExists):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrSuperAdminExists):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusCreated, user)
}

// HandleRegisterSchoolAdmin godoc
// @Summary      Create a school admin with generated credentials
// @Tags         auth
// @Produce      json
// @Param        request   body      request.RegisterSchoolAdminRequest true "request body"
// @Success      201      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/register-school-admin [post]
func (h *AuthHandler) HandleRegisterSchoolAdmin(ctx *gin.Context) {
	req := request.RegisterSchoolAdminRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	registration, err := h.svc.RegisterSchoolAdmin(ctx.Request.Context(), req.FirstName, req.LastName, req.Phone, req.SchoolID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSchoolNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrSchoolHasAdmin), errors.Is(err, service.ErrUserEmailExists):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleRegisterSchoolAdmin -> h.svc.RegisterSchoolAdmin -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusCreated, response.SchoolAdminResponse{
		User:              registration.User,
		TemporaryPassword: registration.TemporaryPassword,
	})
}

// HandleRegisterCanteenManager godoc
// @Summary      Create a canteen manager for the caller's school
// @Tags         auth
// @Produce      json
// @Param        request   body      request.RegisterCanteenManagerRequest true "request body"
// @Success      201      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/register-canteen-manager [post]
func (h *AuthHandler) HandleRegisterCanteenManager(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req := request.RegisterCanteenManagerRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	registration, err := h.svc.RegisterCanteenManager(ctx.Request.Context(), principal, req.FirstName, req.LastName, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSchoolNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrInvalidManagerEmail), errors.Is(err, service.ErrUserEmailExists):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleRegisterCanteenManager -> h.svc.RegisterCanteenManager -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusCreated, response.SchoolAdminResponse{
		User:              registration.User,
		TemporaryPassword: registration.TemporaryPassword,
	})
}

// HandleChangeTemporaryPassword godoc
// @Summary      Replace a generated temporary password
// @Tags         auth
// @Produce      json
// @Param        request   body      request.ChangeTemporaryPasswordRequest true "request body"
// @Success      200      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/change-temporary-password [post]
func (h *AuthHandler) HandleChangeTemporaryPassword(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req := request.ChangeTemporaryPasswordRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.ChangeTemporaryPassword(ctx.Request.Context(), principal.ID, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrNoTemporaryPassword) {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		err = fmt.Errorf("v1.HandleChangeTemporaryPassword -> h.svc.ChangeTemporaryPassword -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	response.OK(ctx, http.StatusOK, user)
}

// HandleUpdateCredentials godoc
// @Summary      Update own email or password
// @Tags         auth
// @Produce      json
// @Param        request   body      request.UpdateCredentialsRequest true "request body"
// @Success      200      {object}   response.Body
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/update-credentials [put]
func (h *AuthHandler) HandleUpdateCredentials(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req := request.UpdateCredentialsRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.UpdateCredentials(ctx.Request.Context(), principal.ID, req.CurrentPassword, req.NewEmail, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
		case errors.Is(err, service.ErrUserEmailExists):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateCredentials -> h.svc.UpdateCredentials -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	response.OK(ctx, http.StatusOK, user)
}

func (h *AuthHandler) generateToken(user domain.User) (string, error) {
	lifetime := time.Duration(h.conf.JWTLifetimeHours) * time.Hour

	return jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), user.ID, user.Role, lifetime)
}
