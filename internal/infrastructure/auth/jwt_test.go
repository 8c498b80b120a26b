package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "this-is-a-test-secret-of-32-bytes!!"

func newTestVerifier(roleClaim string) *JWTVerifier {
	return NewJWTVerifier(config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "storefront-auth",
		RoleClaim: roleClaim,
		AdminRole: "admin",
	})
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	v := newTestVerifier("")

	token, err := v.Sign("user-1", "admin", time.Hour)
	require.NoError(t, err)

	p, err := v.VerifyAdmin(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.Subject)
	assert.Equal(t, "admin", p.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), p.Expires, 5*time.Second)
}

func TestJWTVerifier_NestedRoleClaim(t *testing.T) {
	v := newTestVerifier("app_metadata.role")

	token, err := v.Sign("user-2", "admin", time.Hour)
	require.NoError(t, err)

	p, err := v.VerifyAdmin(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", p.Role)
}

func TestJWTVerifier_Rejections(t *testing.T) {
	v := newTestVerifier("")

	t.Run("non admin role", func(t *testing.T) {
		token, _ := v.Sign("user-3", "authenticated", time.Hour)
		p, err := v.VerifyAdmin(token)
		assert.ErrorIs(t, err, ErrForbiddenRole)
		require.NotNil(t, p)
		assert.Equal(t, "authenticated", p.Role)
	})

	t.Run("expired", func(t *testing.T) {
		token, _ := v.Sign("user-4", "admin", -time.Minute)
		_, err := v.Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTVerifier(config.AuthConfig{JWTSecret: "another-secret-another-secret-xx", Issuer: "storefront-auth"})
		token, _ := other.Sign("user-5", "admin", time.Hour)
		_, err := v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTVerifier(config.AuthConfig{JWTSecret: testSecret, Issuer: "someone-else"})
		token, _ := other.Sign("user-6", "admin", time.Hour)
		_, err := v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": "x", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(), "iss": "storefront-auth",
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"role": "admin", "exp": time.Now().Add(time.Hour).Unix(), "iss": "storefront-auth",
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrMissingSubject)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestLookupString(t *testing.T) {
	claims := map[string]any{
		"role":         "authenticated",
		"app_metadata": map[string]any{"role": "admin"},
	}
	assert.Equal(t, "authenticated", lookupString(claims, "role"))
	assert.Equal(t, "admin", lookupString(claims, "app_metadata.role"))
	assert.Equal(t, "", lookupString(claims, "user_metadata.role"))
	assert.Equal(t, "", lookupString(claims, "role.x"))
}
