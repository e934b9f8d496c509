package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"portero-http-service/config"
	"portero-http-service/controllers"
	_ "portero-http-service/docs"
	"portero-http-service/services/container"
)

// SetupRouter initializes the service container and returns the configured
// router together with the container, so the caller owns its shutdown
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, *container.ServiceContainer) {
	r := gin.Default()

	// CORS for the panel frontends served from another origin
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	serviceContainer := container.NewServiceContainer(db, cfg)

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	RegisterRoutes(r, serviceContainer)
	return r, serviceContainer
}

// RegisterRoutes configures every API route on an existing engine
func RegisterRoutes(r *gin.Engine, container *container.ServiceContainer) {
	// Realtime relay, outside the /api group like the panels expect
	r.GET("/ws", controllers.HandleHubFunc(container, "connect"))
	r.GET("/ws/stats", controllers.HandleHubFunc(container, "stats"))

	api := r.Group("/api")

	// Health check
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Auth
	api.POST("/auth/login", controllers.HandleAuthFunc(container, "login"))

	// Departments
	api.GET("/departments", controllers.HandleDepartmentFunc(container, "getDepartments"))
	api.POST("/departments", controllers.HandleDepartmentFunc(container, "createDepartment"))
	api.GET("/departments/:id", controllers.HandleDepartmentFunc(container, "getDepartment"))
	api.PATCH("/departments/:id", controllers.HandleDepartmentFunc(container, "updateDepartment"))
	api.POST("/departments/:id", controllers.HandleDepartmentFunc(container, "callAction"))

	// Call workflow
	api.POST("/call/start", controllers.HandleCallFunc(container, "startCall"))
	api.POST("/call/end", controllers.HandleCallFunc(container, "endCall"))
	api.POST("/call/reject", controllers.HandleCallFunc(container, "rejectCall"))

	// Call history
	api.GET("/call-records", controllers.HandleCallHistoryFunc(container, "getCallHistory"))
	api.GET("/call-records/statistics", controllers.HandleCallHistoryFunc(container, "getCallStatistics"))
}
