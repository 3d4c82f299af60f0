package tickets

import (
	"net/http"

	"queuely/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// clinicIDFromContext reads the tenant set by the resolver middleware
func clinicIDFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	value, exists := ctx.Get("clinic_id")
	if !exists {
		return uuid.Nil, false
	}
	clinicID, ok := value.(uuid.UUID)
	return clinicID, ok
}

// httpStatusFor maps the stable error kind to an HTTP status code
func httpStatusFor(err error) int {
	switch KindOf(err) {
	case KindNotFound, KindQueueEmpty:
		return http.StatusNotFound
	case KindInvariantViolation:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error) {
	response.Error(ctx, httpStatusFor(err), err.Error(), gin.H{"kind": string(KindOf(err))})
}

// CreateTicket handles POST /api/v1/tickets
func (c *Controller) CreateTicket(ctx *gin.Context) {
	clinicID, ok := clinicIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "clinic not resolved", nil)
		return
	}

	var req CreateTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ticket, err := c.service.CreateTicket(ctx.Request.Context(), clinicID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Ticket created successfully", ticket)
}

// ListTickets handles GET /api/v1/tickets
func (c *Controller) ListTickets(ctx *gin.Context) {
	clinicID, ok := clinicIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "clinic not resolved", nil)
		return
	}

	tickets, err := c.service.ListTickets(ctx.Request.Context(), clinicID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Tickets retrieved successfully", tickets)
}

// UpdateTicket handles PUT /api/v1/tickets/:id
func (c *Controller) UpdateTicket(ctx *gin.Context) {
	clinicID, ok := clinicIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "clinic not resolved", nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	var req UpdateTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ticket, err := c.service.UpdateTicket(ctx.Request.Context(), clinicID, id, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket updated successfully", ticket)
}

// DeleteTicket handles DELETE /api/v1/tickets/:id
func (c *Controller) DeleteTicket(ctx *gin.Context) {
	clinicID, ok := clinicIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "clinic not resolved", nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	if err := c.service.DeleteTicket(ctx.Request.Context(), clinicID, id); err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket deleted successfully", DeleteTicketResponse{Message: "Ticket deleted successfully"})
}

// CurrentTicket handles GET /api/v1/tickets/current
func (c *Controller) CurrentTicket(ctx *gin.Context) {
	clinicID, ok := clinicIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "clinic not resolved", nil)
		return
	}

	ticket, err := c.service.CurrentTicket(ctx.Request.Context(), clinicID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	// ticket is null when nothing is being served; that is a valid answer
	response.Success(ctx, http.StatusOK, "Current ticket retrieved successfully", ticket)
}

// QueueStatus handles GET /api/v1/queue/status
func (c *Controller) QueueStatus(ctx *gin.Context) {
	clinicID, ok := clinicIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "clinic not resolved", nil)
		return
	}

	status, err := c.service.QueueStatus(ctx.Request.Context(), clinicID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Queue status retrieved successfully", status)
}

// WaitTime handles GET /api/v1/queue/wait-time
func (c *Controller) WaitTime(ctx *gin.Context) {
	clinicID, ok := clinicIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "clinic not resolved", nil)
		return
	}

	minutes, err := c.service.WaitTime(ctx.Request.Context(), clinicID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Wait time estimated successfully", WaitTimeResponse{AverageWaitMinutes: minutes})
}

// Advance handles PUT /api/v1/queue/next
func (c *Controller) Advance(ctx *gin.Context) {
	clinicID, ok := clinicIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "clinic not resolved", nil)
		return
	}

	ticket, err := c.service.Advance(ctx.Request.Context(), clinicID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Queue advanced successfully", ticket)
}

// Skip handles PUT /api/v1/queue/skip/:id
func (c *Controller) Skip(ctx *gin.Context) {
	clinicID, ok := clinicIDFromContext(ctx)
	if !ok {
		response.Error(ctx, http.StatusBadRequest, "clinic not resolved", nil)
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	ticket, err := c.service.Skip(ctx.Request.Context(), clinicID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket skipped successfully", ticket)
}
