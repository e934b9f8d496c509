package services

import (
	"errors"

	"portero-http-service/config"
	"portero-http-service/models"
)

// Call workflow sentinel errors
var (
	ErrDepartmentUnavailable = errors.New("department is not available")
	ErrNoIncomingCall        = errors.New("department has no incoming call")
)

// InterfaceCallService defines the call workflow service interface
type InterfaceCallService interface {
	StartCall(fromID, fromName string, departmentID uint, roomName string) (*models.Department, error)
	EndCall(departmentID uint) (*models.Department, error)
	RejectCall(departmentID uint) (*models.Department, error)
}

// CallService drives the call lifecycle on top of the department store. The
// store mutations are the source of truth; history rows and relay events are
// side effects that never fail the workflow.
type CallService struct {
	Config      *config.Config
	Departments InterfaceDepartmentService
	History     InterfaceCallHistoryService
	Notifier    InterfaceChangeNotifier
}

// NewCallService creates a new call service
func NewCallService(cfg *config.Config, departments InterfaceDepartmentService, history InterfaceCallHistoryService, notifier InterfaceChangeNotifier) InterfaceCallService {
	return &CallService{
		Config:      cfg,
		Departments: departments,
		History:     history,
		Notifier:    notifier,
	}
}

// 1 StartCall offers a call to an Available department
func (s *CallService) StartCall(fromID, fromName string, departmentID uint, roomName string) (*models.Department, error) {
	department, err := s.Departments.GetDepartmentByID(departmentID)
	if err != nil {
		return nil, err
	}
	if department.Status != models.DepartmentStatusAvailable {
		return nil, ErrDepartmentUnavailable
	}

	updated, err := s.Departments.SetIncomingCall(departmentID, fromName, roomName)
	if err != nil {
		return nil, err
	}

	if _, err := s.History.OpenCall(fromID, departmentID, roomName); err != nil {
		config.Error("[Call] failed to record call start for department %d: %v", departmentID, err)
	}

	if s.Notifier != nil {
		s.Notifier.NotifyIncomingCall(departmentID, fromName, roomName)
	}

	return updated, nil
}

// 2 EndCall tears down a call that connected. The offer is cleared first and
// the status reset second; each step notifies on its own.
func (s *CallService) EndCall(departmentID uint) (*models.Department, error) {
	department, err := s.Departments.GetDepartmentByID(departmentID)
	if err != nil {
		return nil, err
	}

	from, room := callContext(department)

	if _, err := s.Departments.ClearIncomingCall(departmentID); err != nil {
		return nil, err
	}

	updated, err := s.Departments.UpdateDepartmentStatus(departmentID, models.DepartmentStatusAvailable)
	if err != nil {
		return nil, err
	}

	if _, err := s.History.CloseCall(room, models.CallStatusConnected); err != nil {
		config.Warning("[Call] no open history row for room %s (caller %s): %v", room, from, err)
	}

	if s.Notifier != nil {
		s.Notifier.NotifyCallEnded(departmentID, room)
	}

	return updated, nil
}

// 3 RejectCall declines a pending offer without changing the status
func (s *CallService) RejectCall(departmentID uint) (*models.Department, error) {
	department, err := s.Departments.GetDepartmentByID(departmentID)
	if err != nil {
		return nil, err
	}
	if department.IncomingCall() == nil {
		return nil, ErrNoIncomingCall
	}

	_, room := callContext(department)

	updated, err := s.Departments.ClearIncomingCall(departmentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.History.CloseCall(room, models.CallStatusRejected); err != nil {
		config.Warning("[Call] no open history row for room %s: %v", room, err)
	}

	if s.Notifier != nil {
		s.Notifier.NotifyCallEnded(departmentID, room)
	}

	return updated, nil
}

// callContext reads the pinned offer with fallbacks for rows that were cleared
// by a concurrent teardown
func callContext(department *models.Department) (from, room string) {
	from, room = "Desconocido", "unknown-room"
	if call := department.IncomingCall(); call != nil {
		if call.From != "" {
			from = call.From
		}
		if call.Room != "" {
			room = call.Room
		}
	}
	return from, room
}
