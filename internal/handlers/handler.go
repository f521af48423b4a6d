package handlers

import (
	"studytrack/internal/logger"
	"studytrack/internal/service"

	"github.com/gin-gonic/gin"

	_ "studytrack/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. A nil log discards output.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Task endpoints (protected)
	h.registerTaskRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.POST("/register", h.register)
	r.POST("/login", h.login)
}

func (h *Handler) registerTaskRoutes(r *gin.Engine) {
	tasks := r.Group("/tasks", h.userIdentity)
	{
		tasks.GET("", h.listTasks)
		tasks.POST("", h.createTask)
		tasks.PUT("/:id", h.updateTask)
		tasks.DELETE("/:id", h.deleteTask)
		// WebSocket snapshot stream of the caller's tasks
		tasks.GET("/stream", h.streamTasks)
	}
}
