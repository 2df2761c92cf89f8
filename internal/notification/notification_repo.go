package notification

import (
	"context"
	"time"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, companyID, userID string, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, companyID, userID, id string, at time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListByUser(ctx context.Context, companyID, userID string, unreadOnly bool, limit int) ([]Notification, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ?", userID)
	if unreadOnly {
		db = db.Where("is_read = ?", false)
	}

	var items []Notification
	err := db.Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

// MarkRead is a no-op for notifications that are already read.
func (r *repository) MarkRead(ctx context.Context, companyID, userID, id string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"is_read": true, "read_at": gorm.Expr("COALESCE(read_at, ?)", at)})
	return res.RowsAffected, res.Error
}
