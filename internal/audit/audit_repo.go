package audit

import (
	"context"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

type ListFilter struct {
	Entity   string
	EntityID string
	ActorID  string
	Limit    int
	Offset   int
}

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	List(ctx context.Context, companyID string, f ListFilter) ([]AuditLog, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) List(ctx context.Context, companyID string, f ListFilter) ([]AuditLog, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&AuditLog{}).
		Scopes(tenant.Scope(companyID))
	if f.Entity != "" {
		db = db.Where("entity = ?", f.Entity)
	}
	if f.EntityID != "" {
		db = db.Where("entity_id = ?", f.EntityID)
	}
	if f.ActorID != "" {
		db = db.Where("actor_id = ?", f.ActorID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []AuditLog
	err := db.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&logs).Error
	return logs, total, err
}
