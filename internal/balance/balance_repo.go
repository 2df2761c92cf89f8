package balance

import (
	"context"
	"database/sql"

	"go-leave/internal/shared/dbtx"
	"go-leave/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateLeaveType(ctx context.Context, lt *LeaveType) error
	FindLeaveType(ctx context.Context, companyID, id string) (*LeaveType, error)
	ListLeaveTypes(ctx context.Context, companyID string, activeOnly bool) ([]LeaveType, error)
	LeaveTypeCodeExists(ctx context.Context, companyID, code string) (bool, error)

	FindBalance(ctx context.Context, key Key) (*Balance, error)
	ListBalances(ctx context.Context, companyID, employeeID string, year int) ([]Balance, error)
	ListByYear(ctx context.Context, companyID string, year int) ([]Balance, error)
	// CreateIfMissing inserts b unless a row with the same key exists and reports whether it wrote.
	CreateIfMissing(ctx context.Context, b *Balance) (bool, error)

	// The bucket moves below return the number of rows changed; zero means the guard failed.
	Reserve(ctx context.Context, key Key, days int) (int64, error)
	Finalize(ctx context.Context, key Key, days int) (int64, error)
	RestorePending(ctx context.Context, key Key, days int) (int64, error)
	RestoreUsed(ctx context.Context, key Key, days int) (int64, error)
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

func keyScope(key Key) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ? AND employee_id = ? AND leave_type_id = ? AND year = ?",
			key.CompanyID, key.EmployeeID, key.LeaveTypeID, key.Year)
	}
}

func (r *repository) CreateLeaveType(ctx context.Context, lt *LeaveType) error {
	return r.conn(ctx).Create(lt).Error
}

func (r *repository) FindLeaveType(ctx context.Context, companyID, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&lt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *repository) ListLeaveTypes(ctx context.Context, companyID string, activeOnly bool) ([]LeaveType, error) {
	var types []LeaveType
	q := r.conn(ctx).Scopes(tenant.Scope(companyID))
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("code ASC").Find(&types).Error
	return types, err
}

func (r *repository) LeaveTypeCodeExists(ctx context.Context, companyID, code string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveType{}).
		Scopes(tenant.Scope(companyID)).
		Where("UPPER(code) = UPPER(?)", code).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindBalance(ctx context.Context, key Key) (*Balance, error) {
	var b Balance
	err := r.conn(ctx).Scopes(keyScope(key)).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListBalances(ctx context.Context, companyID, employeeID string, year int) ([]Balance, error) {
	var balances []Balance
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("leave_type_id ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) ListByYear(ctx context.Context, companyID string, year int) ([]Balance, error) {
	var balances []Balance
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("year = ?", year).
		Order("employee_id ASC").
		Order("leave_type_id ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) CreateIfMissing(ctx context.Context, b *Balance) (bool, error) {
	res := r.conn(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(b)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// move shifts days between two buckets, guarded by from >= days.
func (r *repository) move(ctx context.Context, key Key, from, to string, days int) (int64, error) {
	res := r.conn(ctx).
		Model(&Balance{}).
		Scopes(keyScope(key)).
		Where(from+" >= ?", days).
		Updates(map[string]any{
			from: gorm.Expr(from+" - ?", days),
			to:   gorm.Expr(to+" + ?", days),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Reserve(ctx context.Context, key Key, days int) (int64, error) {
	return r.move(ctx, key, "available", "pending", days)
}

func (r *repository) Finalize(ctx context.Context, key Key, days int) (int64, error) {
	return r.move(ctx, key, "pending", "used", days)
}

func (r *repository) RestorePending(ctx context.Context, key Key, days int) (int64, error) {
	return r.move(ctx, key, "pending", "available", days)
}

func (r *repository) RestoreUsed(ctx context.Context, key Key, days int) (int64, error) {
	return r.move(ctx, key, "used", "available", days)
}
