package services

import (
	"errors"
	"fmt"
	"testing"

	"portero-http-service/models"
)

func newHistoryFixture(t *testing.T) (InterfaceCallHistoryService, InterfaceDepartmentService) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	departments := NewDepartmentService(db, cfg, nil, nil)
	history := NewCallHistoryService(db, cfg, nil)
	return history, departments
}

func TestOpenAndCloseCall(t *testing.T) {
	history, departments := newHistoryFixture(t)

	department, err := departments.CreateDepartment("Soporte", "soporte123")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	opened, err := history.OpenCall("portero", department.ID, "room-1")
	if err != nil {
		t.Fatalf("OpenCall failed: %v", err)
	}
	if opened.Status != models.CallStatusMissed {
		t.Errorf("open status = %q, want missed", opened.Status)
	}

	closed, err := history.CloseCall("room-1", models.CallStatusConnected)
	if err != nil {
		t.Fatalf("CloseCall failed: %v", err)
	}
	if closed.Status != models.CallStatusConnected {
		t.Errorf("closed status = %q, want connected", closed.Status)
	}
	if closed.EndTime == nil {
		t.Error("closed call has no end time")
	}

	// The room has no open call left
	if _, err := history.CloseCall("room-1", models.CallStatusConnected); !errors.Is(err, ErrCallHistoryNotFound) {
		t.Errorf("second close error = %v, want ErrCallHistoryNotFound", err)
	}
}

func TestCloseCallUnknownRoom(t *testing.T) {
	history, _ := newHistoryFixture(t)

	_, err := history.CloseCall("no-such-room", models.CallStatusRejected)
	if !errors.Is(err, ErrCallHistoryNotFound) {
		t.Fatalf("error = %v, want ErrCallHistoryNotFound", err)
	}
}

func TestGetAllCallHistoryPagination(t *testing.T) {
	history, departments := newHistoryFixture(t)

	department, err := departments.CreateDepartment("Ventas", "ventas123")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := history.OpenCall("portero", department.ID, fmt.Sprintf("room-%d", i)); err != nil {
			t.Fatalf("OpenCall %d failed: %v", i, err)
		}
	}

	records, total, err := history.GetAllCallHistory(1, 2)
	if err != nil {
		t.Fatalf("GetAllCallHistory failed: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(records) != 2 {
		t.Errorf("page size = %d, want 2", len(records))
	}

	records, _, err = history.GetAllCallHistory(3, 2)
	if err != nil {
		t.Fatalf("GetAllCallHistory page 3 failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("last page size = %d, want 1", len(records))
	}
}

func TestGetCallHistoryByDepartment(t *testing.T) {
	history, departments := newHistoryFixture(t)

	a, err := departments.CreateDepartment("Ventas", "ventas123")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	b, err := departments.CreateDepartment("Soporte", "soporte123")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := history.OpenCall("portero", a.ID, "room-a"); err != nil {
		t.Fatalf("OpenCall failed: %v", err)
	}
	if _, err := history.OpenCall("portero", b.ID, "room-b"); err != nil {
		t.Fatalf("OpenCall failed: %v", err)
	}

	records, total, err := history.GetCallHistoryByDepartment(a.ID, 1, 20)
	if err != nil {
		t.Fatalf("GetCallHistoryByDepartment failed: %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("got %d records (total %d), want 1", len(records), total)
	}
	if records[0].RoomID != "room-a" {
		t.Errorf("room = %q, want room-a", records[0].RoomID)
	}
}

func TestGetCallStatistics(t *testing.T) {
	history, departments := newHistoryFixture(t)

	department, err := departments.CreateDepartment("Soporte", "soporte123")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// One connected, one rejected, one left open (missed)
	if _, err := history.OpenCall("portero", department.ID, "room-1"); err != nil {
		t.Fatalf("OpenCall failed: %v", err)
	}
	if _, err := history.CloseCall("room-1", models.CallStatusConnected); err != nil {
		t.Fatalf("CloseCall failed: %v", err)
	}
	if _, err := history.OpenCall("portero", department.ID, "room-2"); err != nil {
		t.Fatalf("OpenCall failed: %v", err)
	}
	if _, err := history.CloseCall("room-2", models.CallStatusRejected); err != nil {
		t.Fatalf("CloseCall failed: %v", err)
	}
	if _, err := history.OpenCall("portero", department.ID, "room-3"); err != nil {
		t.Fatalf("OpenCall failed: %v", err)
	}

	stats, err := history.GetCallStatistics()
	if err != nil {
		t.Fatalf("GetCallStatistics failed: %v", err)
	}
	if stats.TotalCalls != 3 {
		t.Errorf("total = %d, want 3", stats.TotalCalls)
	}
	if stats.ConnectedCalls != 1 {
		t.Errorf("connected = %d, want 1", stats.ConnectedCalls)
	}
	if stats.MissedCalls != 1 {
		t.Errorf("missed = %d, want 1", stats.MissedCalls)
	}
	if stats.RejectedCalls != 1 {
		t.Errorf("rejected = %d, want 1", stats.RejectedCalls)
	}
}
