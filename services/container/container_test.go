package container_test

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portero-http-service/config"
	"portero-http-service/models"
	"portero-http-service/routes"
	"portero-http-service/services"
	"portero-http-service/services/container"
)

func newTestContainer(t *testing.T) *container.ServiceContainer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.Department{}, &models.CallHistory{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		PorteroPassword: "admin",
		RedisHost:       "localhost",
		RedisPort:       "1", // nothing listens there, the cache stays disabled
	}
	return container.NewServiceContainer(db, cfg)
}

func TestContainerResolvesServices(t *testing.T) {
	sc := newTestContainer(t)
	defer sc.Shutdown()

	if _, ok := sc.GetService("department").(services.InterfaceDepartmentService); !ok {
		t.Error("department service does not resolve")
	}
	if _, ok := sc.GetService("callHistory").(services.InterfaceCallHistoryService); !ok {
		t.Error("call history service does not resolve")
	}
	if _, ok := sc.GetService("call").(services.InterfaceCallService); !ok {
		t.Error("call service does not resolve")
	}
	if sc.GetService("nope") != nil {
		t.Error("unknown service name resolved")
	}
	if sc.GetHub() == nil || sc.GetNotifier() == nil {
		t.Error("typed getters returned nil")
	}
}

func TestContainerShutdownClosesHubClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sc := newTestContainer(t)

	r := gin.New()
	routes.RegisterRoutes(r, sc)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	hub := sc.GetHub()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && hub.ClientCount() != 1 {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("client count = %d, want 1", hub.ClientCount())
	}

	sc.Shutdown()

	// The server closed the connection; the next read fails
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("connection still alive after container shutdown")
	}

	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && hub.ClientCount() != 0 {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("client count after shutdown = %d, want 0", hub.ClientCount())
	}

	// The bridge is unbound: a late mutation event must not panic
	sc.GetNotifier().NotifyDepartmentChange(models.OperationUpdate, &models.Department{ID: 1, Name: "Ventas"})
}
