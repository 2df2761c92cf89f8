package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_employees_company_role;uniqueIndex:uq_employees_email"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	ManagerID    *uuid.UUID `gorm:"type:uuid"`
	DirectorID   *uuid.UUID `gorm:"type:uuid"`
	FullName     string     `gorm:"type:varchar(150);not null"`
	Email        string     `gorm:"type:varchar(150);not null;uniqueIndex:uq_employees_email"`
	Role         string     `gorm:"type:varchar(30);not null;default:'EMPLOYEE';index:idx_employees_company_role"`
	IsActive     bool       `gorm:"not null;index:idx_employees_company_role"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
