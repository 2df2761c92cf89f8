package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is append-only; nothing updates or deletes it.
type AuditLog struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	CompanyID *uuid.UUID        `gorm:"type:uuid"`
	ActorID   *uuid.UUID        `gorm:"type:uuid"`
	Action    string            `gorm:"type:varchar(60);not null"`
	Entity    string            `gorm:"type:varchar(60);not null;index:idx_audit_logs_entity"`
	EntityID  string            `gorm:"type:varchar(64);not null;index:idx_audit_logs_entity"`
	OldValues datatypes.JSONMap `gorm:"type:jsonb"`
	NewValues datatypes.JSONMap `gorm:"type:jsonb"`
	RequestID string            `gorm:"type:varchar(64)"`
	CreatedAt time.Time         `gorm:"index:idx_audit_logs_entity"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
