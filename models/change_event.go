package models

// ChangeOperation is the kind of store mutation that produced a ChangeEvent
type ChangeOperation string

const (
	OperationInsert ChangeOperation = "INSERT"
	OperationUpdate ChangeOperation = "UPDATE"
	OperationDelete ChangeOperation = "DELETE"
)

// Change event types understood by the relay bridge
const (
	EventDepartmentUpdate = "department_update"
	EventIncomingCall     = "incoming_call"
	EventCallEnded        = "call_ended"
)

// ChangeEvent describes a single store mutation. It lives only in memory for
// the duration of one notification fan-out and is never persisted.
type ChangeEvent struct {
	Operation ChangeOperation        `json:"operation"`
	Type      string                 `json:"type"`
	Record    *Department            `json:"record,omitempty"`
	Data      map[string]interface{} `json:"data"`
}
