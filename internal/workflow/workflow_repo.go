package workflow

import (
	"context"
	"database/sql"

	"go-leave/internal/shared/dbtx"
	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=workflow_repo.go -destination=mock/workflow_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Rule) error
	Update(ctx context.Context, r *Rule) error
	Delete(ctx context.Context, companyID, id string) (int64, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Rule, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Rule, error)
	FindActiveByCompany(ctx context.Context, companyID string) ([]Rule, error)
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

func (r *repository) Create(ctx context.Context, rule *Rule) error {
	return r.conn(ctx).Create(rule).Error
}

func (r *repository) Update(ctx context.Context, rule *Rule) error {
	return r.conn(ctx).Save(rule).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) (int64, error) {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Rule{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Rule, error) {
	var rule Rule
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&rule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Rule, error) {
	var rules []Rule
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("priority DESC").
		Order("created_at ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) FindActiveByCompany(ctx context.Context, companyID string) ([]Rule, error) {
	var rules []Rule
	err := r.conn(ctx).
		Scopes(tenant.ActiveScope(companyID)).
		Order("priority DESC").
		Order("created_at ASC").
		Find(&rules).Error
	return rules, err
}
