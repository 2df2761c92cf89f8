package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID       uuid.UUID  `gorm:"type:uuid;not null"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_user"`
	Type            string     `gorm:"type:varchar(60);not null"`
	Title           string     `gorm:"type:varchar(200);not null"`
	Message         string     `gorm:"type:text;not null"`
	RelatedEntityID *uuid.UUID `gorm:"type:uuid"`
	IsRead          bool       `gorm:"not null;index:idx_notifications_user"`
	ReadAt          *time.Time
	CreatedAt       time.Time `gorm:"index:idx_notifications_user"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
