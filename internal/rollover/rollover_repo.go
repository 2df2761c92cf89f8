package rollover

import (
	"context"
	"database/sql"
	"errors"

	"go-leave/internal/shared/dbtx"
	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rollover_repo.go -destination=mock/rollover_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// FindRun returns nil without error when the year has not been rolled over.
	FindRun(ctx context.Context, companyID string, fromYear int) (*Run, error)
	CreateRun(ctx context.Context, run *Run) error
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

func (r *repository) FindRun(ctx context.Context, companyID string, fromYear int) (*Run, error) {
	var run Run
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("from_year = ?", fromYear).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) CreateRun(ctx context.Context, run *Run) error {
	return r.conn(ctx).Create(run).Error
}
