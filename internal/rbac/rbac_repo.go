package rbac

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	// GetEmployeeRoles lists the organisational role of every active employee.
	GetEmployeeRoles(ctx context.Context, companyID string) ([]EmployeeRoleRow, error)
	// GetRolePermissions merges global grants with the company's own.
	GetRolePermissions(ctx context.Context, companyID string) ([]RolePermissionRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetEmployeeRoles(ctx context.Context, companyID string) ([]EmployeeRoleRow, error) {
	var result []EmployeeRoleRow

	err := r.db.WithContext(ctx).
		Table("employees").
		Select("employees.id AS employee_id, employees.role").
		Where("employees.company_id = ? AND employees.is_active = ?", companyID, true).
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolePermissions(ctx context.Context, companyID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow

	err := r.db.WithContext(ctx).
		Model(&RolePermission{}).
		Distinct("role", "resource", "action").
		Where("company_id IS NULL OR company_id = ?", companyID).
		Order("role").Order("resource").Order("action").
		Scan(&result).Error

	return result, err
}
