package events

import "time"

const LeaveRequestLifecycleTopic = "hr.leave.request.lifecycle.v1"

const (
	EventLeaveRequestCreated   = "leave_request_created"
	EventLeaveApprovalRecorded = "leave_approval_recorded"
	EventLeaveRequestApproved  = "leave_request_approved"
	EventLeaveRequestRejected  = "leave_request_rejected"
	EventLeaveRequestCancelled = "leave_request_cancelled"
)

// LeaveRequestEvent describes one committed transition of a leave or WFH request.
// It carries everything the notification, audit and document sinks need so
// consumers never read the request tables.
type LeaveRequestEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	RequestNumber  string    `json:"request_number"`
	CompanyID      string    `json:"company_id"`
	Kind           string    `json:"kind"`
	EmployeeID     string    `json:"employee_id"`
	ActorID        string    `json:"actor_id"`
	ActorRole      string    `json:"actor_role"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Status         string    `json:"status"`
	Decision       string    `json:"decision,omitempty"`
	Level          int       `json:"level,omitempty"`
	Comments       string    `json:"comments,omitempty"`
	Signature      string    `json:"signature,omitempty"`
	LeaveTypeID    string    `json:"leave_type_id,omitempty"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	TotalDays      int       `json:"total_days"`
	PendingFor     []string  `json:"pending_for,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
