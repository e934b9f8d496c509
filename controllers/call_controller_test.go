package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"portero-http-service/controllers"
	"portero-http-service/models"
)

func TestCallLifecycleEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	// Offer a call to the seeded department
	w := doJSON(t, r, http.MethodPost, "/api/call/start", controllers.StartCallRequest{
		FromID:         "portero",
		FromName:       "Portero",
		ToDepartmentID: 1,
		RoomName:       "portero-ventas-1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			IncomingCall *models.IncomingCall `json:"incoming_call"`
			Status       string               `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Data.IncomingCall == nil || resp.Data.IncomingCall.From != "Portero" {
		t.Fatalf("incoming_call = %+v, want from Portero", resp.Data.IncomingCall)
	}

	w = doJSON(t, r, http.MethodPost, "/api/call/end", controllers.CallTargetRequest{DepartmentID: 1})
	if w.Code != http.StatusOK {
		t.Fatalf("end status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Data.IncomingCall != nil {
		t.Errorf("incoming_call = %+v, want nil after end", resp.Data.IncomingCall)
	}
	if resp.Data.Status != string(models.DepartmentStatusAvailable) {
		t.Errorf("status = %q, want Available", resp.Data.Status)
	}
}

func TestStartCallToBusyDepartment(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPatch, "/api/departments/1", controllers.DepartmentUpdateRequest{Status: "Busy"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/call/start", controllers.StartCallRequest{
		FromID:         "portero",
		FromName:       "Portero",
		ToDepartmentID: 1,
		RoomName:       "room-1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("start status = %d, want 400", w.Code)
	}
}

func TestRejectCallEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	// Rejecting with no pending offer fails
	w := doJSON(t, r, http.MethodPost, "/api/call/reject", controllers.CallTargetRequest{DepartmentID: 1})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("reject status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/call/start", controllers.StartCallRequest{
		FromID:         "portero",
		FromName:       "Portero",
		ToDepartmentID: 1,
		RoomName:       "room-r",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/call/reject", controllers.CallTargetRequest{DepartmentID: 1})
	if w.Code != http.StatusOK {
		t.Fatalf("reject status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestCallHistoryEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	// Run one full call so there is something to list
	w := doJSON(t, r, http.MethodPost, "/api/call/start", controllers.StartCallRequest{
		FromID:         "portero",
		FromName:       "Portero",
		ToDepartmentID: 1,
		RoomName:       "room-h",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/call/end", controllers.CallTargetRequest{DepartmentID: 1})
	if w.Code != http.StatusOK {
		t.Fatalf("end status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/call-records?pageNum=1&pageSize=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("records status = %d: %s", w.Code, w.Body.String())
	}
	var listResp struct {
		Data struct {
			Items []models.CallHistory `json:"items"`
			Total int64                `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if listResp.Data.Total != 1 || len(listResp.Data.Items) != 1 {
		t.Fatalf("records = %+v, want 1", listResp.Data)
	}
	if listResp.Data.Items[0].Status != models.CallStatusConnected {
		t.Errorf("record status = %q, want connected", listResp.Data.Items[0].Status)
	}

	w = doJSON(t, r, http.MethodGet, "/api/call-records/statistics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("statistics status = %d: %s", w.Code, w.Body.String())
	}
	var statsResp struct {
		Data struct {
			TotalCalls     int64 `json:"total_calls"`
			ConnectedCalls int64 `json:"connected_calls"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &statsResp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if statsResp.Data.TotalCalls != 1 || statsResp.Data.ConnectedCalls != 1 {
		t.Fatalf("statistics = %+v, want 1 connected of 1", statsResp.Data)
	}
}
