package middleware

import (
	"strings"

	"github.com/dimitrije/fanmint-api/internal/services"
	"github.com/dimitrije/fanmint-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	SubjectKey = "admin_subject"
	RoleKey    = "admin_role"
)

// TokenValidator is satisfied by services.JWTService.
type TokenValidator interface {
	ValidateToken(token string) (*services.Claims, error)
}

// AdminAuth admits only bearer tokens carrying the admin role.
func AdminAuth(validator TokenValidator) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, 401, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abort(c, 401, "invalid authorization header format")
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			abort(c, 401, "invalid or expired token")
			return
		}

		if claims.Role != services.RoleAdmin {
			abort(c, 403, "admin role required")
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Set(RoleKey, claims.Role)

		c.Next()
	}
}

func GetSubject(c *drift.Context) string {
	if subject, ok := c.Get(SubjectKey); ok {
		if s, ok := subject.(string); ok {
			return s
		}
	}
	return ""
}

func abort(c *drift.Context, status int, msg string) {
	_ = c.JSON(status, dto.ErrorResponse{Success: false, Error: msg})
	c.Abort()
}
