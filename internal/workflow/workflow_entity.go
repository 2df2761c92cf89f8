package workflow

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rule replaces the default approval chain for the requests it matches.
// Empty condition lists match anything; day bounds are exclusive.
type Rule struct {
	ID                      uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	CompanyID               uuid.UUID                   `gorm:"type:uuid;not null;index:idx_workflow_rules_company_active"`
	Name                    string                      `gorm:"type:varchar(150);not null"`
	Priority                int                         `gorm:"not null;index:idx_workflow_rules_company_active"`
	IsActive                bool                        `gorm:"not null;index:idx_workflow_rules_company_active"`
	RequesterRoles          datatypes.JSONSlice[string] `gorm:"not null"`
	LeaveTypeIDs            datatypes.JSONSlice[string] `gorm:"not null"`
	DepartmentIDs           datatypes.JSONSlice[string] `gorm:"not null"`
	DaysGreaterThan         *int
	DaysLessThan            *int
	ApprovalChain           datatypes.JSONSlice[string] `gorm:"not null"`
	SkipDuplicateSignatures bool                        `gorm:"not null"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (Rule) TableName() string {
	return "workflow_rules"
}

func (r *Rule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
