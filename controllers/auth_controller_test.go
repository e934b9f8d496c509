package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portero-http-service/config"
	"portero-http-service/controllers"
	"portero-http-service/internal/error/response"
	"portero-http-service/models"
	"portero-http-service/routes"
	"portero-http-service/services/container"
)

// newTestRouter builds a router over a fresh in-memory database seeded with
// one department
func newTestRouter(t *testing.T) (*gin.Engine, *container.ServiceContainer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	seed := models.Department{Name: "Ventas", Password: "ventas123", Status: models.DepartmentStatusAvailable}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("failed to seed department: %v", err)
	}

	cfg := &config.Config{
		PorteroPassword: "admin",
		RedisHost:       "localhost",
		RedisPort:       "1", // nothing listens there, the cache stays disabled
	}

	sc := container.NewServiceContainer(db, cfg)
	t.Cleanup(sc.Shutdown)

	r := gin.New()
	routes.RegisterRoutes(r, sc)
	return r, sc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestLoginPortero(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", controllers.LoginRequest{
		UserType: "portero",
		Password: "admin",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	if !resp.Success {
		t.Error("success = false, want true")
	}
}

func TestLoginPorteroWrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", controllers.LoginRequest{
		UserType: "portero",
		Password: "nope",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLoginDepartment(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", controllers.LoginRequest{
		UserType: "departamento",
		Name:     "Ventas",
		Password: "ventas123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestLoginDepartmentWrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", controllers.LoginRequest{
		UserType: "departamento",
		Name:     "Ventas",
		Password: "mala",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLoginDepartmentUnknownName(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", controllers.LoginRequest{
		UserType: "departamento",
		Name:     "Fantasma",
		Password: "x",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestLoginUnknownUserType(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", controllers.LoginRequest{
		UserType: "visitante",
		Password: "x",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
