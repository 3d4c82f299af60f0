package clinics

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClinicEngine(t *testing.T) (*gin.Engine, Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, _ := newTestClinicService()
	clinicRouter := NewRouter(NewController(svc))

	engine := gin.New()
	clinicRouter.SetupRoutes(engine.Group(""), func(c *gin.Context) { c.Next() })
	return engine, svc
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestSignupAndLoginEndpoints(t *testing.T) {
	engine, _ := newClinicEngine(t)

	recorder := postJSON(t, engine, "/clinics/signup", gin.H{
		"name":     "City Care",
		"email":    "city@example.com",
		"password": "password1",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	t.Run("valid login", func(t *testing.T) {
		recorder := postJSON(t, engine, "/clinics/login", gin.H{
			"email":    "city@example.com",
			"password": "password1",
		})
		require.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Data AuthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.NotEmpty(t, envelope.Data.AccessToken)
		assert.Equal(t, "city-care.queuely.local", envelope.Data.Clinic.Domain)
	})

	t.Run("wrong password", func(t *testing.T) {
		recorder := postJSON(t, engine, "/clinics/login", gin.H{
			"email":    "city@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("duplicate signup", func(t *testing.T) {
		recorder := postJSON(t, engine, "/clinics/signup", gin.H{
			"name":     "City Care",
			"email":    "city@example.com",
			"password": "password2",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("bad refresh token", func(t *testing.T) {
		recorder := postJSON(t, engine, "/clinics/refresh", gin.H{
			"refresh_token": "not-a-token",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
