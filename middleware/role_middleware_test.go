package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func invokeWithRole(t *testing.T, role string, allowed ...string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	reached := false
	handler := RequireRole(allowed...)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))
	return rec, reached
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	rec, reached := invokeWithRole(t, "recruiter", "recruiter", "company")
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	rec, reached := invokeWithRole(t, "candidate", "recruiter", "company")
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAdminBypass(t *testing.T) {
	rec, reached := invokeWithRole(t, "admin", "recruiter")
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleMissingRole(t *testing.T) {
	rec, reached := invokeWithRole(t, "")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, refresh, err := GenerateJWT("656f1e3a9b2c4d0012345678", "user@example.com", "recruiter")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, token, refresh)
}

func TestTokenBlacklist(t *testing.T) {
	token := "some.jwt.token"
	assert.False(t, IsTokenBlacklisted(token))

	BlacklistToken(token, time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(token))
}
