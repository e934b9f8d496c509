package models

import (
	"time"
)

// CallHistoryStatus represents the final state of a call
type CallHistoryStatus string

const (
	CallStatusConnected CallHistoryStatus = "connected"
	CallStatusMissed    CallHistoryStatus = "missed"
	CallStatusRejected  CallHistoryStatus = "rejected"
)

// CallHistory records calls between the doorman and departments. Write-only
// from the call workflow; the relay never reads it back.
type CallHistory struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	CallerID     string            `gorm:"type:varchar(100);not null" json:"caller_id"`
	DepartmentID uint              `gorm:"index" json:"department_id"`
	RoomID       string            `gorm:"type:varchar(100);index;not null" json:"room_id"`
	Status       CallHistoryStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      *time.Time        `json:"end_time"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName keeps the historical table name
func (CallHistory) TableName() string {
	return "call_history"
}
