package v1

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dabali-bf/canteen-api/internal/api/handler/v1/response"
	"github.com/dabali-bf/canteen-api/internal/api/middleware"
	"github.com/dabali-bf/canteen-api/internal/domain"
)

// AccessResolver turns the caller into the set of schools it may read.
type AccessResolver interface {
	ResolveSchools(ctx context.Context, principal domain.User) (domain.Scope, error)
}

var errNotAuthenticated = errors.New("not authenticated")

func currentUser(ctx *gin.Context) (domain.User, bool) {
	user, ok := middleware.GetUser(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(errNotAuthenticated.Error()))

		return domain.User{}, false
	}

	return user, true
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New(name+" must be a positive integer")))

		return 0, false
	}

	return uint(id), true
}

func parseQueryID(ctx *gin.Context, raw, name string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New(name+" must be a positive integer")))

		return 0, false
	}

	return uint(id), true
}

const dateLayout = "2006-01-02"

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}
