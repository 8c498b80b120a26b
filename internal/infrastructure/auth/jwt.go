// Package auth verifies bearer tokens issued by the external auth provider.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSubject   = errors.New("missing sub in claims")
	ErrForbiddenRole    = errors.New("token does not carry the required role")
)

// Principal is the verified identity behind a request.
type Principal struct {
	Subject string
	Email   string
	Role    string
	Expires time.Time
}

// HasRole reports whether the principal carries role.
func (p *Principal) HasRole(role string) bool {
	return p != nil && p.Role == role
}

// JWTVerifier validates HS256 tokens and extracts the role claim.
type JWTVerifier struct {
	secret    []byte
	issuer    string
	roleClaim string
	adminRole string
	leeway    time.Duration
}

// NewJWTVerifier creates a verifier from the auth config.
func NewJWTVerifier(cfg config.AuthConfig) *JWTVerifier {
	roleClaim := cfg.RoleClaim
	if roleClaim == "" {
		roleClaim = "role"
	}
	return &JWTVerifier{
		secret:    []byte(cfg.JWTSecret),
		issuer:    cfg.Issuer,
		roleClaim: roleClaim,
		adminRole: cfg.AdminRole,
		leeway:    cfg.Leeway,
	}
}

// AdminRole returns the role required for admin endpoints.
func (v *JWTVerifier) AdminRole() string {
	return v.adminRole
}

// Verify parses and validates a token. The role is read from the configured
// claim, which may be a dotted path such as "app_metadata.role".
func (v *JWTVerifier) Verify(tokenString string) (*Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, ErrMissingSubject
	}
	p := &Principal{Subject: sub, Role: lookupString(claims, v.roleClaim)}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		p.Expires = exp.Time
	}
	return p, nil
}

// VerifyAdmin verifies the token and requires the admin role.
func (v *JWTVerifier) VerifyAdmin(tokenString string) (*Principal, error) {
	p, err := v.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if !p.HasRole(v.adminRole) {
		return p, ErrForbiddenRole
	}
	return p, nil
}

// Sign issues a token with the verifier's secret. Used by tests and the
// local development tooling; production tokens come from the auth provider.
func (v *JWTVerifier) Sign(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if v.issuer != "" {
		claims["iss"] = v.issuer
	}
	setPath(claims, v.roleClaim, role)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func lookupString(claims map[string]any, path string) string {
	var cur any = claims
	for part := range strings.SplitSeq(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = m[part]
	}
	s, _ := cur.(string)
	return s
}

func setPath(claims map[string]any, path, value string) {
	parts := strings.Split(path, ".")
	m := claims
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}
