package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dabali-bf/canteen-api/internal/api/handler/v1/response"
)

var errInsufficientRole = errors.New("insufficient role for this operation")

// RequireRoles rejects callers whose role is outside the allow-list. It must
// run after VerifyJWT.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := GetUser(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized("not authenticated"))

			return
		}

		for _, role := range roles {
			if user.Role == role {
				ctx.Next()

				return
			}
		}

		response.RenderErr(ctx, response.ErrPermissionDenied(errInsufficientRole))
	}
}
