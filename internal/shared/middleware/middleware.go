package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"queuely/internal/clinics"
	"queuely/internal/shared/config"
	"queuely/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// JWTAuth creates a JWT authentication middleware
func JWTAuth() gin.HandlerFunc {
	return JWTAuthWithConfig(config.Load())
}

// JWTAuthWithConfig creates a JWT authentication middleware with config
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header is required", nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil)
			c.Abort()
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})

		if err != nil || !token.Valid {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
				response.Error(c, http.StatusUnauthorized, "invalid token type", nil)
				c.Abort()
				return
			}
			c.Set("auth_clinic_id", claims["clinic_id"])
			c.Set("auth_email", claims["email"])
			c.Set("clinic_role", claims["role"])
		}

		c.Next()
	}
}

// RequireRole middleware checks if the authenticated clinic login has the
// required role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("clinic_role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "role not found in context", nil)
			c.Abort()
			return
		}

		if role.(string) != requiredRole {
			response.Error(c, http.StatusForbidden, "Insufficient permissions", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireDoctor gates the queue-driving operations (advance, skip)
func RequireDoctor() gin.HandlerFunc {
	return RequireRole(string(clinics.RoleDoctor))
}

// RequireTenantMatch rejects operator calls whose JWT belongs to a different
// clinic than the one resolved from the request host. Both JWTAuth and
// TenantResolver must run before it.
func RequireTenantMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		authValue, authOK := c.Get("auth_clinic_id")
		tenantValue, tenantOK := c.Get("clinic_id")
		if !authOK || !tenantOK {
			response.Error(c, http.StatusUnauthorized, "clinic not authenticated", nil)
			c.Abort()
			return
		}

		authID, _ := authValue.(string)
		tenantID, ok := tenantValue.(uuid.UUID)
		if !ok || authID != tenantID.String() {
			response.Error(c, http.StatusForbidden, "token does not belong to this clinic", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// ClinicDirectory resolves a clinic from its domain (subset of the clinic
// service, declared here to keep the dependency one-way)
type ClinicDirectory interface {
	GetClinicByDomain(ctx context.Context, domain string) (*clinics.Clinic, error)
}

// TenantResolver resolves the tenant clinic from the request host (or the
// X-Clinic-Domain header for clients that cannot set the host) and stores
// its ID in the request context. Every queue route runs behind it.
func TenantResolver(directory ClinicDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		domain := c.GetHeader("X-Clinic-Domain")
		if domain == "" {
			host := c.Request.Host
			if h, _, err := net.SplitHostPort(host); err == nil {
				host = h
			}
			domain = host
		}

		clinic, err := directory.GetClinicByDomain(c.Request.Context(), strings.ToLower(domain))
		if err != nil {
			response.Error(c, http.StatusNotFound, "clinic not found for this domain", nil)
			c.Abort()
			return
		}

		if !clinic.IsActive {
			response.Error(c, http.StatusForbidden, "clinic account is inactive", nil)
			c.Abort()
			return
		}

		c.Set("clinic_id", clinic.ID)
		c.Set("clinic_domain", clinic.Domain)

		c.Next()
	}
}
