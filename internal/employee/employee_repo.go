package employee

import (
	"context"
	"database/sql"
	"strings"

	"go-leave/internal/shared/dbtx"
	"go-leave/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	List(ctx context.Context, companyID string, f ListFilter) ([]Employee, int64, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	// FindActiveByRole lists active employees holding role, never including excludeID.
	FindActiveByRole(ctx context.Context, companyID, role, excludeID string) ([]Employee, error)
	ListActiveIDs(ctx context.Context, companyID string) ([]string, error)
	EmailExists(ctx context.Context, companyID, email string) (bool, error)
}

type ListFilter struct {
	Search       string
	Role         string
	ManagerID    string
	DepartmentID string
	Active       *bool
	// OrderBy is a column name; callers pass only whitelisted values.
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) List(ctx context.Context, companyID string, f ListFilter) ([]Employee, int64, error) {
	q := r.conn(ctx).Model(&Employee{}).Scopes(tenant.Scope(companyID))
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("(LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?)", like, like)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.ManagerID != "" {
		q = q.Where("manager_id = ?", f.ManagerID)
	}
	if f.DepartmentID != "" {
		q = q.Where("department_id = ?", f.DepartmentID)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := f.OrderBy
	if orderBy == "" {
		orderBy = "full_name"
	}
	var employees []Employee
	err := q.
		Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: f.Desc}).
		Order("id ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&employees).Error
	return employees, total, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindActiveByRole(ctx context.Context, companyID, role, excludeID string) ([]Employee, error) {
	var employees []Employee
	q := r.conn(ctx).
		Scopes(tenant.ActiveScope(companyID)).
		Where("role = ?", role)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Order("created_at ASC").Order("id ASC").Find(&employees).Error
	return employees, err
}

func (r *repository) ListActiveIDs(ctx context.Context, companyID string) ([]string, error) {
	var ids []string
	err := r.conn(ctx).
		Model(&Employee{}).
		Scopes(tenant.ActiveScope(companyID)).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) EmailExists(ctx context.Context, companyID, email string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}
