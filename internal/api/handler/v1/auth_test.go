package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dabali-bf/canteen-api/internal/config"
	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/service"
)

type stubAuthService struct {
	loginUser domain.User
	loginErr  error
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (domain.User, error) {
	return s.loginUser, s.loginErr
}

func (s *stubAuthService) Register(_ context.Context, user domain.User) (domain.User, error) {
	return user, nil
}

func (s *stubAuthService) RegisterSchoolAdmin(_ context.Context, _, _, _ string, _ uint) (service.SchoolAdminRegistration, error) {
	return service.SchoolAdminRegistration{}, nil
}

func (s *stubAuthService) RegisterCanteenManager(_ context.Context, _ domain.User, _, _, _ string) (service.SchoolAdminRegistration, error) {
	return service.SchoolAdminRegistration{}, nil
}

func (s *stubAuthService) ChangeTemporaryPassword(_ context.Context, _ uint, _ string) (domain.User, error) {
	return domain.User{}, nil
}

func (s *stubAuthService) UpdateCredentials(_ context.Context, _ uint, _, _, _ string) (domain.User, error) {
	return domain.User{}, nil
}

func newAuthTestRouter(svc *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	conf := &config.APIConfig{JWTSigningKey: "test-signing-key", JWTLifetimeHours: 1}
	h := NewAuthHandler(conf, svc)

	router := gin.New()
	router.POST("/auth/login", h.HandleLogin)
	router.GET("/", HandleHealthcheck)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandleHealthcheck(t *testing.T) {
	router := newAuthTestRouter(&stubAuthService{})

	rec := doJSON(t, router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["message"])
}

func TestHandleLoginSuccess(t *testing.T) {
	svc := &stubAuthService{loginUser: domain.User{ID: 1, Email: "jean@example.com", Role: domain.RoleParent}}
	router := newAuthTestRouter(svc)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"jean@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Token              string `json:"token"`
			MustChangePassword bool   `json:"must_change_password"`
			User               struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Data.Token)
	assert.False(t, body.Data.MustChangePassword)
	assert.Equal(t, "jean@example.com", body.Data.User.Email)
}

func TestHandleLoginFlagsTemporaryPassword(t *testing.T) {
	svc := &stubAuthService{loginUser: domain.User{
		ID:                  2,
		Email:               "admin.jean.dupont@monecole.dabali.bf",
		Role:                domain.RoleSchoolAdmin,
		IsTemporaryPassword: true,
	}}
	router := newAuthTestRouter(svc)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"admin.jean.dupont@monecole.dabali.bf","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			MustChangePassword bool `json:"must_change_password"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.MustChangePassword)
}

func TestHandleLoginWrongCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: service.ErrWrongPassword}
	router := newAuthTestRouter(svc)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"jean@example.com","password":"nope12345"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "wrong credentials", body["message"])
}

func TestHandleLoginRejectsBadBody(t *testing.T) {
	router := newAuthTestRouter(&stubAuthService{})

	rec := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
