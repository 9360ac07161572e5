package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/employee-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated EventType = "employee_created"
	EventEmployeeUpdated EventType = "employee_updated"
	EventEmployeeDeleted EventType = "employee_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID int64       `json:"employee_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// EmployeePayload carries the employee fields at the time of the event.
type EmployeePayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// NewEmployeeEvent builds an event for the given employee.
func NewEmployeeEvent(eventType EventType, employee *domain.Employee) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EmployeeID: employee.ID,
		Timestamp:  time.Now().UTC(),
		Payload: EmployeePayload{
			FirstName: employee.FirstName,
			LastName:  employee.LastName,
			Email:     employee.Email,
		},
	}
}
