package events

import "time"

const VacationLifecycleTopic = "staff.vacation.lifecycle.v1"

const (
	VacationRequested     = "vacation_requested"
	VacationStatusChanged = "vacation_status_changed"
	VacationDeleted       = "vacation_deleted"
)

type VacationLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	VacationID string    `json:"vacation_id"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Days       int       `json:"days"`
	Status     string    `json:"status"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
