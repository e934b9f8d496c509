package container

import (
	"gorm.io/gorm"

	"portero-http-service/config"
	"portero-http-service/services"
)

// ServiceContainer wires every service once and hands them to the controllers
type ServiceContainer struct {
	DB     *gorm.DB
	Config *config.Config

	cacheService       *services.RedisService
	notifierService    *services.ChangeNotifier
	hubService         *services.HubService
	departmentService  services.InterfaceDepartmentService
	callHistoryService services.InterfaceCallHistoryService
	callService        services.InterfaceCallService

	unbindHub func()
}

// NewServiceContainer creates the container and all services
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	c := &ServiceContainer{
		DB:     db,
		Config: cfg,
	}

	c.cacheService = services.NewRedisService(cfg)
	c.notifierService = services.NewChangeNotifier()
	c.hubService = services.NewHubService()
	c.unbindHub = c.hubService.BindNotifier(c.notifierService)

	c.departmentService = services.NewDepartmentService(db, cfg, c.notifierService, c.cacheService)
	c.callHistoryService = services.NewCallHistoryService(db, cfg, c.cacheService)
	c.callService = services.NewCallService(cfg, c.departmentService, c.callHistoryService, c.notifierService)

	return c
}

// GetService returns a service by name
func (c *ServiceContainer) GetService(name string) interface{} {
	switch name {
	case "department":
		return c.departmentService
	case "callHistory":
		return c.callHistoryService
	case "call":
		return c.callService
	case "hub":
		return c.hubService
	case "notifier":
		return c.notifierService
	case "cache":
		return c.cacheService
	default:
		return nil
	}
}

// GetDB returns the database connection
func (c *ServiceContainer) GetDB() *gorm.DB {
	return c.DB
}

// GetConfig returns the loaded configuration
func (c *ServiceContainer) GetConfig() *config.Config {
	return c.Config
}

// GetHub returns the realtime hub
func (c *ServiceContainer) GetHub() services.InterfaceHubService {
	return c.hubService
}

// GetNotifier returns the change notifier
func (c *ServiceContainer) GetNotifier() services.InterfaceChangeNotifier {
	return c.notifierService
}

// Shutdown releases the hub subscription, websocket clients and the cache
func (c *ServiceContainer) Shutdown() {
	if c.unbindHub != nil {
		c.unbindHub()
	}
	c.hubService.Shutdown()
	if err := c.cacheService.Close(); err != nil {
		config.Warning("failed to close redis client: %v", err)
	}
}
