package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTPrincipalKey = "jwt_principal"
	JWTSubjectKey   = "jwt_subject"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// TokenVerifier verifies an admin bearer token
type TokenVerifier interface {
	VerifyAdmin(tokenString string) (*auth.Principal, error)
}

// AdminAuthConfig holds configuration for the admin auth middleware
type AdminAuthConfig struct {
	Verifier TokenVerifier
	// Optional callback if token is invalid (default: JSON 401/403)
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// AdminAuth requires a bearer token carrying the admin role
func AdminAuth(verifier TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	return AdminAuthWithConfig(AdminAuthConfig{Verifier: verifier, Logger: log})
}

// AdminAuthWithConfig creates the admin auth middleware with custom config
func AdminAuthWithConfig(cfg AdminAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing or malformed authorization header")
			return
		}

		principal, err := cfg.Verifier.VerifyAdmin(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(JWTPrincipalKey, principal)
		c.Set(JWTSubjectKey, principal.Subject)

		ctx := logger.WithSubject(c.Request.Context(), principal.Subject)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Admin authentication successful",
				zap.String("subject", principal.Subject),
				zap.String("role", principal.Role),
			)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// handleAuthError handles authentication errors
func handleAuthError(c *gin.Context, cfg AdminAuthConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("Admin authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := dto.ErrCodeUnauthorized
	errorMessage := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = dto.ErrCodeTokenExpired
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingSubject):
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Invalid token"
	case errors.Is(err, auth.ErrForbiddenRole):
		errorCode = dto.ErrCodeForbidden
		errorMessage = "Admin role required"
	}

	c.AbortWithStatusJSON(dto.GetHTTPStatus(errorCode), dto.NewErrorResponse(errorCode, errorMessage))
}

// AdminAudit logs every admin write with the verified subject once the
// handler has answered. Reads are not logged.
func AdminAudit(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			return
		}
		principal := GetPrincipal(c)
		if principal == nil {
			return
		}
		log.Info("Admin change",
			zap.String("subject", principal.Subject),
			zap.String("role", principal.Role),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
		)
	}
}

// GetPrincipal retrieves the verified admin from gin.Context
func GetPrincipal(c *gin.Context) *auth.Principal {
	if p, exists := c.Get(JWTPrincipalKey); exists {
		if principal, ok := p.(*auth.Principal); ok {
			return principal
		}
	}
	return nil
}

// GetJWTSubject retrieves the admin subject from context
func GetJWTSubject(c *gin.Context) string {
	return c.GetString(JWTSubjectKey)
}
