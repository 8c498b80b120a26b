package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newVerifier() *auth.JWTVerifier {
	return auth.NewJWTVerifier(config.AuthConfig{
		JWTSecret: "test-secret-that-is-long-enough-for-hs256",
		RoleClaim: "app_metadata.role",
		AdminRole: "admin",
	})
}

func adminRouter(v *auth.JWTVerifier) *gin.Engine {
	r := gin.New()
	r.GET("/admin", AdminAuth(v, nil), func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTSubject(c)+":"+GetPrincipal(c).Role)
	})
	return r
}

func TestAdminAuth(t *testing.T) {
	v := newVerifier()
	r := adminRouter(v)

	t.Run("admin token passes", func(t *testing.T) {
		token, err := v.Sign("user-1", "admin", time.Hour)
		require.NoError(t, err)

		w := perform(t, r, http.MethodGet, "/admin", map[string]string{AuthHeaderKey: BearerPrefix + token})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1:admin", w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := perform(t, r, http.MethodGet, "/admin", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := perform(t, r, http.MethodGet, "/admin", map[string]string{AuthHeaderKey: "Basic dXNlcjpwYXNz"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin role is forbidden", func(t *testing.T) {
		token, err := v.Sign("user-2", "customer", time.Hour)
		require.NoError(t, err)

		w := perform(t, r, http.MethodGet, "/admin", map[string]string{AuthHeaderKey: BearerPrefix + token})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := v.Sign("user-1", "admin", -time.Minute)
		require.NoError(t, err)

		w := perform(t, r, http.MethodGet, "/admin", map[string]string{AuthHeaderKey: BearerPrefix + token})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTVerifier(config.AuthConfig{JWTSecret: "another-secret-another-secret-xx", RoleClaim: "app_metadata.role", AdminRole: "admin"})
		token, err := other.Sign("user-1", "admin", time.Hour)
		require.NoError(t, err)

		w := perform(t, r, http.MethodGet, "/admin", map[string]string{AuthHeaderKey: BearerPrefix + token})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		called := false
		r := gin.New()
		r.GET("/admin", AdminAuthWithConfig(AdminAuthConfig{
			Verifier: v,
			OnError: func(c *gin.Context, err error) {
				called = true
				c.AbortWithStatus(http.StatusTeapot)
			},
		}), okHandler)

		w := perform(t, r, http.MethodGet, "/admin", nil)
		assert.True(t, called)
		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}

func TestAdminAudit(t *testing.T) {
	v := newVerifier()
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	admin := r.Group("/admin", AdminAuth(v, nil), AdminAudit(zap.New(core)))
	admin.GET("/products", okHandler)
	admin.DELETE("/products/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	token, err := v.Sign("editor-7", "admin", time.Hour)
	require.NoError(t, err)
	headers := map[string]string{AuthHeaderKey: BearerPrefix + token}

	perform(t, r, http.MethodGet, "/admin/products", headers)
	assert.Zero(t, logs.Len())

	w := perform(t, r, http.MethodDelete, "/admin/products/42", headers)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, 1, logs.Len())

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "editor-7", fields["subject"])
	assert.Equal(t, "DELETE", fields["method"])
	assert.Equal(t, "/admin/products/:id", fields["route"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])

	perform(t, r, http.MethodDelete, "/admin/products/42", nil)
	assert.Equal(t, 1, logs.Len(), "rejected requests carry no principal")
}
