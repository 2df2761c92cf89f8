package workflow

import (
	"context"
	"errors"

	"go-leave/internal/domain"
	"go-leave/internal/employee"

	"gorm.io/gorm"
)

type employeeDirectory struct {
	repo employee.Repository
}

// NewEmployeeDirectory resolves approvers from the employees table. Pass a
// repository bound to the caller's transaction.
func NewEmployeeDirectory(repo employee.Repository) Directory {
	return &employeeDirectory{repo: repo}
}

func (d *employeeDirectory) IsActiveEmployee(ctx context.Context, companyID, id string) (bool, error) {
	e, err := d.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return e.IsActive, nil
}

func (d *employeeDirectory) FirstActiveByRole(ctx context.Context, companyID string, role domain.Role, excludeID string) (string, bool, error) {
	found, err := d.repo.FindActiveByRole(ctx, companyID, string(role), excludeID)
	if err != nil {
		return "", false, err
	}
	if len(found) == 0 {
		return "", false, nil
	}
	return found[0].ID.String(), true, nil
}
