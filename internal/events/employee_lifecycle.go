package events

import "time"

const EmployeeLifecycleTopic = "staff.employee.lifecycle.v1"

const (
	EmployeeAdded   = "employee_added"
	EmployeeJoined  = "employee_joined"
	EmployeeRemoved = "employee_removed"
)

type EmployeeLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	Email      string    `json:"email"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
