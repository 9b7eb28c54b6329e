package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	return cfg
}

func performAuthenticated(t *testing.T, m *AuthMiddleware, authHeader string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := m.Authenticate(next)(c)
	require.NoError(t, err)

	return rec
}

func TestAuthMiddleware_Authenticate_SetsIdentity(t *testing.T) {
	cfg := newAuthTestConfig()
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	userID := uuid.New()
	accessToken, _, err := tokenSvc.GenerateTokens(userID, []string{"user", "admin"})
	require.NoError(t, err)

	m := NewAuthMiddleware(tokenSvc, cfg)

	var gotUserID uuid.UUID
	var gotRoles []string
	rec := performAuthenticated(t, m, "Bearer "+accessToken, func(c echo.Context) error {
		gotUserID, _ = c.Get("userID").(uuid.UUID)
		gotRoles, _ = c.Get("roles").([]string)

		return c.NoContent(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID)
	assert.Equal(t, []string{"user", "admin"}, gotRoles)
}

func TestAuthMiddleware_Authenticate_RejectsMissingHeader(t *testing.T) {
	cfg := newAuthTestConfig()
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	m := NewAuthMiddleware(tokenSvc, cfg)

	rec := performAuthenticated(t, m, "", func(c echo.Context) error {
		t.Fatal("handler should not run without a token")

		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate_RejectsGarbageToken(t *testing.T) {
	cfg := newAuthTestConfig()
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	m := NewAuthMiddleware(tokenSvc, cfg)

	rec := performAuthenticated(t, m, "Bearer not-a-token", func(c echo.Context) error {
		t.Fatal("handler should not run with an invalid token")

		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	cfg := newAuthTestConfig()
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	m := NewAuthMiddleware(tokenSvc, cfg)

	e := echo.New()

	run := func(roles []string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if roles != nil {
			c.Set("roles", roles)
		}

		err := m.RequireRole(entity.RoleAdmin)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})(c)
		require.NoError(t, err)

		return rec
	}

	assert.Equal(t, http.StatusOK, run([]string{"user", "admin"}).Code)
	assert.Equal(t, http.StatusForbidden, run([]string{"user"}).Code)
	assert.Equal(t, http.StatusForbidden, run(nil).Code)
}
