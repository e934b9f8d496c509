package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"portero-http-service/controllers"
	"portero-http-service/models"
)

func TestGetDepartments(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/departments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data []models.Department `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Ventas" {
		t.Fatalf("departments = %+v, want the seeded Ventas", resp.Data)
	}
}

func TestGetDepartmentNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/departments/999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetDepartmentBadID(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/departments/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateDepartmentEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/departments", controllers.DepartmentRequest{
		Name:     "Soporte",
		Password: "soporte123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	// Duplicate name is a conflict
	w = doJSON(t, r, http.MethodPost, "/api/departments", controllers.DepartmentRequest{
		Name:     "Soporte",
		Password: "otra",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", w.Code)
	}
}

func TestUpdateDepartmentEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPatch, "/api/departments/1", controllers.DepartmentUpdateRequest{
		Status: "Away",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data models.Department `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Data.Status != models.DepartmentStatusAway {
		t.Errorf("status = %q, want Away", resp.Data.Status)
	}

	w = doJSON(t, r, http.MethodPatch, "/api/departments/1", controllers.DepartmentUpdateRequest{
		Status: "Offline",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status code = %d, want 400", w.Code)
	}
}

func TestCallActionEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/departments/1", controllers.CallActionRequest{
		Action: "set_call",
		From:   "Portero",
		Room:   "room-1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("set_call status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			IncomingCall *models.IncomingCall `json:"incoming_call"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Data.IncomingCall == nil || resp.Data.IncomingCall.Room != "room-1" {
		t.Fatalf("incoming_call = %+v, want room-1", resp.Data.IncomingCall)
	}

	w = doJSON(t, r, http.MethodPost, "/api/departments/1", controllers.CallActionRequest{
		Action: "clear_call",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("clear_call status = %d, want 200: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/departments/1", controllers.CallActionRequest{
		Action: "demolish",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown action status = %d, want 400", w.Code)
	}
}
