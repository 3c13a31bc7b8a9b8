package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dabali-bf/canteen-api/internal/api/handler/v1/response"
	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/pkg/jwthelper"
)

const ContextKeyUser = "authenticated_user"

type UserLoader interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type Authenticator struct {
	signingKey []byte
	users      UserLoader
}

func NewAuthenticator(signingKey string, users UserLoader) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		users:      users,
	}
}

// VerifyJWT checks the bearer token and loads the current user into the
// context. Deleted users fail authentication even with a valid token.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("missing bearer token"))

			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid token"))

			return
		}

		user, err := a.users.FindByID(ctx.Request.Context(), claims.UserID)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid token"))

			return
		}

		ctx.Set(ContextKeyUser, user)
		ctx.Next()
	}
}

// GetUser returns the user stored by VerifyJWT.
func GetUser(ctx *gin.Context) (domain.User, bool) {
	value, exists := ctx.Get(ContextKeyUser)
	if !exists {
		return domain.User{}, false
	}

	user, ok := value.(domain.User)

	return user, ok
}
