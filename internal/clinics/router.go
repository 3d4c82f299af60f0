package clinics

import (
	"github.com/gin-gonic/gin"
)

// Router handles clinic account routes
type Router struct {
	controller *Controller
}

// NewRouter creates a new clinic router
func NewRouter(controller *Controller) *Router {
	return &Router{controller: controller}
}

// SetupRoutes registers all clinic routes. authRequired is the JWT
// middleware protecting the account endpoints.
func (clinicRouter *Router) SetupRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	group := rg.Group("/clinics")
	{
		// Public routes (no authentication required)
		group.POST("/signup", clinicRouter.controller.Signup)
		group.POST("/login", clinicRouter.controller.Login)
		group.POST("/refresh", clinicRouter.controller.RefreshToken)

		// Protected routes (authentication required)
		protected := group.Group("")
		protected.Use(authRequired)
		{
			protected.GET("/me", clinicRouter.controller.GetMe)
		}
	}
}
