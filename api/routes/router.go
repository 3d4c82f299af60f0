// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"queuely/internal/broadcast"
	"queuely/internal/clinics"
	"queuely/internal/shared/config"
	"queuely/internal/shared/database"
	"queuely/internal/shared/middleware"
	"queuely/internal/tickets"
	"queuely/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	hub    *broadcast.Hub
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, hub *broadcast.Hub) *Router {
	return &Router{
		config: cfg,
		db:     db,
		hub:    hub,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Shared clinic service: account routes and tenant resolution both use it
	clinicRepo := clinics.NewRepository(r.db.GetPostgreSQL())
	clinicService := clinics.NewService(clinicRepo, r.config)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupClinicRoutes(api, clinicService)
		r.setupQueueRoutes(api, clinicService)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "queuely-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "queuely-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupClinicRoutes configures clinic signup/login/account routes
func (r *Router) setupClinicRoutes(rg *gin.RouterGroup, clinicService clinics.Service) {
	clinicController := clinics.NewController(clinicService)
	clinicRouter := clinics.NewRouter(clinicController)

	clinicRouter.SetupRoutes(rg, middleware.JWTAuthWithConfig(r.config))
}

// setupQueueRoutes configures the tenant-scoped ticket and queue routes
func (r *Router) setupQueueRoutes(rg *gin.RouterGroup, clinicService clinics.Service) {
	ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())

	var cacheService cache.Service
	if r.db.Redis != nil {
		cacheService = cache.NewService(r.db.GetRedis())
	}

	ticketService := tickets.NewService(ticketRepo, r.hub, cacheService, r.config)
	ticketController := tickets.NewController(ticketService)

	wsHandler := broadcast.NewWebSocketHandler(r.hub)
	ticketRouter := tickets.NewRouter(ticketController, wsHandler.Subscribe)

	// Every queue route runs behind the tenant resolver; advance and skip
	// additionally require an authenticated doctor of that clinic
	tenantScoped := rg.Group("", middleware.TenantResolver(clinicService))
	ticketRouter.SetupRoutes(tenantScoped,
		middleware.JWTAuthWithConfig(r.config),
		middleware.RequireDoctor(),
		middleware.RequireTenantMatch(),
	)
}
