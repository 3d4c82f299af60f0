package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"queuely/internal/clinics"
	"queuely/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	byDomain map[string]*clinics.Clinic
}

func (f *fakeDirectory) GetClinicByDomain(ctx context.Context, domain string) (*clinics.Clinic, error) {
	clinic, ok := f.byDomain[domain]
	if !ok {
		return nil, clinics.ErrClinicNotFound
	}
	return clinic, nil
}

func testAccessToken(t *testing.T, secret, clinicID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"clinic_id": clinicID,
		"email":     "doc@example.com",
		"role":      role,
		"type":      "access",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func resolverEngine(directory ClinicDirectory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/probe", TenantResolver(directory), func(c *gin.Context) {
		clinicID, _ := c.Get("clinic_id")
		c.JSON(http.StatusOK, gin.H{"clinic_id": clinicID})
	})
	return engine
}

func TestTenantResolver(t *testing.T) {
	active := &clinics.Clinic{
		ID:       uuid.New(),
		Domain:   "city-care.queuely.local",
		IsActive: true,
	}
	inactive := &clinics.Clinic{
		ID:     uuid.New(),
		Domain: "closed.queuely.local",
	}
	engine := resolverEngine(&fakeDirectory{byDomain: map[string]*clinics.Clinic{
		active.Domain:   active,
		inactive.Domain: inactive,
	}})

	t.Run("resolves from host", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Host = "city-care.queuely.local:8080"

		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("header overrides host", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Host = "unknown.example.com"
		req.Header.Set("X-Clinic-Domain", "City-Care.Queuely.Local")

		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("unknown domain", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Host = "nobody.queuely.local"

		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("inactive clinic", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Host = "closed.queuely.local"

		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

func TestJWTAuthAndRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
	clinicID := uuid.New()

	engine := gin.New()
	engine.PUT("/next",
		func(c *gin.Context) {
			c.Set("clinic_id", clinicID)
			c.Next()
		},
		JWTAuthWithConfig(cfg),
		RequireDoctor(),
		RequireTenantMatch(),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	do := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/next", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		return recorder
	}

	t.Run("doctor of the resolved clinic passes", func(t *testing.T) {
		token := testAccessToken(t, "test-secret", clinicID.String(), "DOCTOR")
		assert.Equal(t, http.StatusOK, do(token).Code)
	})

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("").Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := testAccessToken(t, "other-secret", clinicID.String(), "DOCTOR")
		assert.Equal(t, http.StatusUnauthorized, do(token).Code)
	})

	t.Run("staff cannot drive the queue", func(t *testing.T) {
		token := testAccessToken(t, "test-secret", clinicID.String(), "STAFF")
		assert.Equal(t, http.StatusForbidden, do(token).Code)
	})

	t.Run("doctor of a different clinic is rejected", func(t *testing.T) {
		token := testAccessToken(t, "test-secret", uuid.NewString(), "DOCTOR")
		assert.Equal(t, http.StatusForbidden, do(token).Code)
	})
}
