package services

import (
	"sync"
	"time"

	"portero-http-service/config"
	"portero-http-service/models"
)

// ChangeCallback consumes one store mutation event
type ChangeCallback func(event *models.ChangeEvent)

// InterfaceChangeNotifier defines the in-process change notification registry
type InterfaceChangeNotifier interface {
	Subscribe(callback ChangeCallback) (unsubscribe func())
	NotifyDepartmentChange(operation models.ChangeOperation, record *models.Department)
	NotifyIncomingCall(departmentID uint, from, room string)
	NotifyCallEnded(departmentID uint, room string)
}

type notifierEntry struct {
	id       int
	callback ChangeCallback
}

// ChangeNotifier fans store mutations out to its subscribers. Delivery is
// synchronous and in subscription order; a failing subscriber is isolated so
// the remaining ones still run. Notification is a side effect of the mutation,
// never part of its success contract.
type ChangeNotifier struct {
	mu      sync.Mutex
	nextID  int
	entries []notifierEntry
}

// NewChangeNotifier creates a new change notifier
func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{}
}

// Subscribe registers a callback and returns its unsubscribe handle
func (n *ChangeNotifier) Subscribe(callback ChangeCallback) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.entries = append(n.entries, notifierEntry{id: id, callback: callback})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, entry := range n.entries {
			if entry.id == id {
				n.entries = append(n.entries[:i], n.entries[i+1:]...)
				return
			}
		}
	}
}

// NotifyDepartmentChange publishes a department_update event for one mutation
func (n *ChangeNotifier) NotifyDepartmentChange(operation models.ChangeOperation, record *models.Department) {
	if record == nil {
		return
	}
	config.Info("[Notifier] department change: %s for ID %d", operation, record.ID)

	n.dispatch(&models.ChangeEvent{
		Operation: operation,
		Type:      models.EventDepartmentUpdate,
		Record:    record,
		Data: map[string]interface{}{
			"id":     record.ID,
			"name":   record.Name,
			"status": record.Status,
		},
	})
}

// NotifyIncomingCall publishes an incoming_call event for a department
func (n *ChangeNotifier) NotifyIncomingCall(departmentID uint, from, room string) {
	n.dispatch(&models.ChangeEvent{
		Operation: models.OperationUpdate,
		Type:      models.EventIncomingCall,
		Data: map[string]interface{}{
			"departmentId": departmentID,
			"from":         from,
			"room":         room,
			"timestamp":    time.Now().Format(time.RFC3339),
		},
	})
}

// NotifyCallEnded publishes a call_ended event for a department
func (n *ChangeNotifier) NotifyCallEnded(departmentID uint, room string) {
	n.dispatch(&models.ChangeEvent{
		Operation: models.OperationUpdate,
		Type:      models.EventCallEnded,
		Data: map[string]interface{}{
			"departmentId": departmentID,
			"room":         room,
			"timestamp":    time.Now().Format(time.RFC3339),
		},
	})
}

// dispatch invokes every subscriber with the event. Subscribers registered
// while a dispatch is running see only later events.
func (n *ChangeNotifier) dispatch(event *models.ChangeEvent) {
	n.mu.Lock()
	entries := make([]notifierEntry, len(n.entries))
	copy(entries, n.entries)
	n.mu.Unlock()

	for _, entry := range entries {
		n.invoke(entry, event)
	}
}

func (n *ChangeNotifier) invoke(entry notifierEntry, event *models.ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			config.Error("[Notifier] subscriber %d panicked on %s event: %v", entry.id, event.Type, r)
		}
	}()
	entry.callback(event)
}
