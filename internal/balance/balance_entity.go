package balance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveType is the per-company entitlement policy for one kind of leave.
type LeaveType struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_types_code"`
	Code                string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_types_code"`
	Name                string    `gorm:"type:varchar(100);not null"`
	DefaultEntitlement  int       `gorm:"not null"`
	CarryForwardEnabled bool      `gorm:"not null"`
	MaxCarryForward     *int      // nil means no cap
	IsActive            bool      `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (LeaveType) TableName() string {
	return "leave_types"
}

func (lt *LeaveType) BeforeCreate(tx *gorm.DB) error {
	if lt.ID == uuid.Nil {
		lt.ID = uuid.New()
	}
	return nil
}

// Balance is the four-bucket ledger row for one (employee, leave type, year).
type Balance struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_balances_company_year"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	LeaveTypeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	Year           int       `gorm:"not null;uniqueIndex:uq_leave_balances_key;index:idx_leave_balances_company_year"`
	Entitled       int       `gorm:"not null;check:chk_leave_balances_invariant,entitled + carried_forward = available + pending + used"`
	Available      int       `gorm:"not null;check:chk_leave_balances_available,available >= 0"`
	Pending        int       `gorm:"not null;check:chk_leave_balances_pending,pending >= 0"`
	Used           int       `gorm:"not null;check:chk_leave_balances_used,used >= 0"`
	CarriedForward int       `gorm:"not null;check:chk_leave_balances_carried,carried_forward >= 0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Balance) TableName() string {
	return "leave_balances"
}

func (b *Balance) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Consistent reports whether the ledger identity holds for b.
func (b Balance) Consistent() bool {
	if b.Available < 0 || b.Pending < 0 || b.Used < 0 || b.CarriedForward < 0 || b.Entitled < 0 {
		return false
	}
	return b.Entitled+b.CarriedForward == b.Available+b.Pending+b.Used
}

// Key addresses exactly one balance row.
type Key struct {
	CompanyID   string
	EmployeeID  string
	LeaveTypeID string
	Year        int
}

// Bucket names the counter a restore moves days out of.
type Bucket string

const (
	BucketPending Bucket = "PENDING"
	BucketUsed    Bucket = "USED"
)
