package tickets

import (
	"github.com/gin-gonic/gin"
)

// Router handles ticket and queue routes
type Router struct {
	controller *Controller
	subscribe  gin.HandlerFunc
}

// NewRouter creates a new ticket router. subscribe is the long-lived
// observer endpoint handler (WebSocket upgrade) provided by the broadcast
// package.
func NewRouter(controller *Controller, subscribe gin.HandlerFunc) *Router {
	return &Router{
		controller: controller,
		subscribe:  subscribe,
	}
}

// SetupRoutes registers all ticket and queue routes. The whole group is
// expected to already carry the tenant resolver; operator middleware
// (JWT + role check) is applied only to advance and skip.
func (ticketRouter *Router) SetupRoutes(rg *gin.RouterGroup, operatorOnly ...gin.HandlerFunc) {
	ticketGroup := rg.Group("/tickets")
	{
		ticketGroup.GET("", ticketRouter.controller.ListTickets)
		ticketGroup.POST("", ticketRouter.controller.CreateTicket)
		ticketGroup.GET("/current", ticketRouter.controller.CurrentTicket)
		ticketGroup.PUT("/:id", ticketRouter.controller.UpdateTicket)
		ticketGroup.DELETE("/:id", ticketRouter.controller.DeleteTicket)
	}

	queue := rg.Group("/queue")
	{
		queue.GET("/status", ticketRouter.controller.QueueStatus)
		queue.GET("/wait-time", ticketRouter.controller.WaitTime)
		queue.GET("/subscribe", ticketRouter.subscribe)

		// Operator-only capabilities
		protected := queue.Group("")
		protected.Use(operatorOnly...)
		{
			protected.PUT("/next", ticketRouter.controller.Advance)
			protected.PUT("/skip/:id", ticketRouter.controller.Skip)
		}
	}
}
