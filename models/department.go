package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	"portero-http-service/utils"
)

// DepartmentStatus represents the availability of a department
type DepartmentStatus string

const (
	DepartmentStatusAvailable DepartmentStatus = "Available"
	DepartmentStatusBusy      DepartmentStatus = "Busy"
	DepartmentStatusAway      DepartmentStatus = "Away"
)

// ValidDepartmentStatus reports whether s is one of the known statuses
func ValidDepartmentStatus(s DepartmentStatus) bool {
	switch s {
	case DepartmentStatusAvailable, DepartmentStatusBusy, DepartmentStatusAway:
		return true
	}
	return false
}

// IncomingCall is the transient call offer pinned to a department row while a
// call is pending or active
type IncomingCall struct {
	From string `json:"from"`
	Room string `json:"room"`
}

// Department represents a unit of the building reachable from the doorman panel
type Department struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	Name             string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Password         string           `gorm:"type:varchar(100);not null" json:"-"`
	Status           DepartmentStatus `gorm:"type:varchar(20);default:'Available'" json:"status"`
	IncomingCallFrom *string          `gorm:"type:varchar(100)" json:"-"`
	IncomingCallRoom *string          `gorm:"type:varchar(100)" json:"-"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	// Relations
	CallHistory []CallHistory `gorm:"foreignKey:DepartmentID" json:"call_history,omitempty"`
}

// IncomingCall returns the pending call offer, or nil when the line is clear.
// Both columns are written together, so either one identifies an offer.
func (d *Department) IncomingCall() *IncomingCall {
	if d.IncomingCallFrom == nil && d.IncomingCallRoom == nil {
		return nil
	}
	call := &IncomingCall{}
	if d.IncomingCallFrom != nil {
		call.From = *d.IncomingCallFrom
	}
	if d.IncomingCallRoom != nil {
		call.Room = *d.IncomingCallRoom
	}
	return call
}

// MarshalJSON exposes the two incoming-call columns as a single nullable object
func (d Department) MarshalJSON() ([]byte, error) {
	type alias Department
	return json.Marshal(struct {
		alias
		IncomingCall *IncomingCall `json:"incoming_call"`
	}{
		alias:        alias(d),
		IncomingCall: d.IncomingCall(),
	})
}

// UnmarshalJSON restores the incoming-call object into the two row columns so
// cached department lists round-trip losslessly
func (d *Department) UnmarshalJSON(data []byte) error {
	type alias Department
	aux := struct {
		*alias
		IncomingCall *IncomingCall `json:"incoming_call"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.IncomingCall != nil {
		from, room := aux.IncomingCall.From, aux.IncomingCall.Room
		d.IncomingCallFrom = &from
		d.IncomingCallRoom = &room
	} else {
		d.IncomingCallFrom = nil
		d.IncomingCallRoom = nil
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before a new record is created
func (d *Department) BeforeCreate(tx *gorm.DB) error {
	// Hash the password unless it is already a bcrypt digest
	if d.Password != "" && !isBcryptHash(d.Password) {
		hashedPassword, err := utils.HashPassword(d.Password)
		if err != nil {
			return err
		}
		d.Password = hashedPassword
	}
	return nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
