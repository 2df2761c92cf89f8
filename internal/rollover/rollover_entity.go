package rollover

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Run marks a (company, from year) rollover as executed.
type Run struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_rollover_runs_company_year"`
	FromYear     int        `gorm:"not null;uniqueIndex:uq_rollover_runs_company_year"`
	ToYear       int        `gorm:"not null"`
	ExecutedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedCount int        `gorm:"not null"`
	SkippedCount int        `gorm:"not null"`
	ExecutedAt   time.Time  `gorm:"not null"`
}

func (Run) TableName() string {
	return "rollover_runs"
}

func (r *Run) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
