package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	KindLeave = "LEAVE"
	KindWFH   = "WFH"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	DecisionApprove = "APPROVE"
	DecisionReject  = "REJECT"
)

// Request is a leave or WFH request. WFH rows have no leave type and never
// touch the balance ledger.
type Request struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID                   `gorm:"type:uuid;not null;index:idx_leave_requests_employee;uniqueIndex:uq_leave_requests_number"`
	RequestNumber  string                      `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_requests_number"`
	Kind           string                      `gorm:"type:varchar(10);not null"`
	EmployeeID     uuid.UUID                   `gorm:"type:uuid;not null;index:idx_leave_requests_employee;index:idx_leave_requests_period"`
	RequesterRole  string                      `gorm:"type:varchar(30);not null"`
	DepartmentID   *uuid.UUID                  `gorm:"type:uuid"`
	LeaveTypeID    *uuid.UUID                  `gorm:"type:uuid"`
	StartDate      time.Time                   `gorm:"type:date;not null;index:idx_leave_requests_period"`
	EndDate        time.Time                   `gorm:"type:date;not null;index:idx_leave_requests_period"`
	Dates          datatypes.JSONSlice[string] `gorm:"not null"`
	TotalDays      int                         `gorm:"not null;check:chk_leave_requests_days,total_days > 0"`
	BalanceYear    int                         `gorm:"not null"`
	Reason         string                      `gorm:"type:text"`
	SubstituteID   *uuid.UUID                  `gorm:"type:uuid"`
	Status         string                      `gorm:"type:varchar(20);not null;index:idx_leave_requests_employee"`
	WorkflowRuleID *uuid.UUID                  `gorm:"type:uuid"`
	DecidedAt      *time.Time
	CancelledBy    *uuid.UUID `gorm:"type:uuid"`
	CreatedBy      uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Request) TableName() string {
	return "leave_requests"
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ApprovalRecord is one approver's slot in a request's chain. It leaves
// PENDING exactly once.
type ApprovalRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_approval_records_level"`
	Level        int       `gorm:"not null;uniqueIndex:uq_approval_records_level"`
	ApproverID   uuid.UUID `gorm:"type:uuid;not null;index:idx_approval_records_approver"`
	ApproverRole string    `gorm:"type:varchar(40);not null"`
	Status       string    `gorm:"type:varchar(20);not null;index:idx_approval_records_approver"`
	Comments     *string   `gorm:"type:text"`
	Signature    *string   `gorm:"type:text"`
	DecidedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ApprovalRecord) TableName() string {
	return "approval_records"
}

func (a *ApprovalRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
