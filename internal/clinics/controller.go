package clinics

import (
	"errors"
	"net/http"

	"queuely/internal/shared/utils/response"
	"queuely/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
	logger  *logger.Logger
}

func NewController(service Service) *Controller {
	return &Controller{
		service: service,
		logger:  logger.GetDefault(),
	}
}

// Signup handles POST /api/v1/clinics/signup
func (c *Controller) Signup(ctx *gin.Context) {
	var req SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	authResponse, err := c.service.Signup(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists), errors.Is(err, ErrDomainAlreadyExists):
			response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to create clinic", nil)
		}
		return
	}

	c.logger.LogAuthSuccess(ctx.Request.Context(), authResponse.Clinic.ID, "signup")
	response.Success(ctx, http.StatusCreated, "Clinic created successfully", authResponse)
}

// Login handles POST /api/v1/clinics/login
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	authResponse, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.logger.LogAuthFailure(ctx.Request.Context(), "invalid credentials", ctx.ClientIP())
			response.Error(ctx, http.StatusUnauthorized, err.Error(), nil)
		case errors.Is(err, ErrClinicInactive):
			c.logger.LogAuthFailure(ctx.Request.Context(), "clinic inactive", ctx.ClientIP())
			response.Error(ctx, http.StatusForbidden, err.Error(), nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to log in", nil)
		}
		return
	}

	c.logger.LogAuthSuccess(ctx.Request.Context(), authResponse.Clinic.ID, "password")
	response.Success(ctx, http.StatusOK, "Logged in successfully", authResponse)
}

// RefreshToken handles POST /api/v1/clinics/refresh
func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	tokenPair, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		c.logger.LogAuthFailure(ctx.Request.Context(), "invalid refresh token", ctx.ClientIP())
		response.Error(ctx, http.StatusUnauthorized, "invalid or expired refresh token", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Token refreshed successfully", tokenPair)
}

// GetMe handles GET /api/v1/clinics/me
func (c *Controller) GetMe(ctx *gin.Context) {
	value, exists := ctx.Get("auth_clinic_id")
	if !exists {
		response.Error(ctx, http.StatusUnauthorized, "Clinic not authenticated", nil)
		return
	}

	idStr, ok := value.(string)
	if !ok {
		response.Error(ctx, http.StatusInternalServerError, "Invalid clinic ID format", nil)
		return
	}

	clinicID, err := uuid.Parse(idStr)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid clinic ID", nil)
		return
	}

	clinic, err := c.service.GetClinicByID(ctx.Request.Context(), clinicID)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, "Clinic not found", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Clinic retrieved successfully", toClinicResponse(clinic))
}
