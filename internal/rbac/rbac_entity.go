package rbac

import (
	"time"

	"github.com/google/uuid"
)

// RolePermission grants action on resource to every employee holding Role.
// A nil CompanyID makes the grant global.
type RolePermission struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	CompanyID *uuid.UUID `gorm:"type:uuid"`
	Role      string     `gorm:"type:varchar(30);not null"`
	Resource  string     `gorm:"type:varchar(50);not null"`
	Action    string     `gorm:"type:varchar(30);not null"`
	CreatedAt time.Time
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type EmployeeRoleRow struct {
	EmployeeID string
	Role       string
}

type RolePermissionRow struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
