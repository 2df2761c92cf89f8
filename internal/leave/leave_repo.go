package leave

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/shared/dbtx"
	"go-leave/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	CreateApprovals(ctx context.Context, records []ApprovalRecord) error
	FindByID(ctx context.Context, companyID, id string) (*Request, error)
	// FindByIDForUpdate locks the request row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*Request, error)
	ListByEmployee(ctx context.Context, companyID, employeeID, kind string) ([]Request, error)
	ListPendingForApprover(ctx context.Context, companyID, approverID string) ([]Request, error)
	FindOverlapping(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]Request, error)
	ListApprovals(ctx context.Context, requestIDs ...string) ([]ApprovalRecord, error)
	MaxLevel(ctx context.Context, requestID string) (int, error)
	// TransitionStatus moves a request out of from; zero rows means it was not in from.
	TransitionStatus(ctx context.Context, id, from, to string, extra map[string]any) (int64, error)
	// DecideApproval flips a PENDING record; zero rows means it was already decided.
	DecideApproval(ctx context.Context, recordID, status string, comments, signature *string, at time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, req *Request) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) CreateApprovals(ctx context.Context, records []ApprovalRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&records).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*Request, error) {
	var req Request
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*Request, error) {
	var req Request
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) ListByEmployee(ctx context.Context, companyID, employeeID, kind string) ([]Request, error) {
	var requests []Request
	q := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	err := q.Order("start_date DESC").Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) ListPendingForApprover(ctx context.Context, companyID, approverID string) ([]Request, error) {
	var requests []Request
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusPending).
		Where("id IN (?)", r.conn(ctx).
			Model(&ApprovalRecord{}).
			Select("request_id").
			Where("approver_id = ? AND status = ?", approverID, StatusPending)).
		Order("start_date ASC").
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindOverlapping(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]Request, error) {
	var requests []Request
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", start, end).
		Find(&requests).Error
	return requests, err
}

func (r *repository) ListApprovals(ctx context.Context, requestIDs ...string) ([]ApprovalRecord, error) {
	var records []ApprovalRecord
	if len(requestIDs) == 0 {
		return records, nil
	}
	err := r.conn(ctx).
		Where("request_id IN ?", requestIDs).
		Order("request_id ASC").
		Order("level ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) MaxLevel(ctx context.Context, requestID string) (int, error) {
	var level int
	err := r.conn(ctx).
		Model(&ApprovalRecord{}).
		Select("COALESCE(MAX(level), 0)").
		Where("request_id = ?", requestID).
		Scan(&level).Error
	return level, err
}

func (r *repository) TransitionStatus(ctx context.Context, id, from, to string, extra map[string]any) (int64, error) {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.conn(ctx).
		Model(&Request{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) DecideApproval(ctx context.Context, recordID, status string, comments, signature *string, at time.Time) (int64, error) {
	res := r.conn(ctx).
		Model(&ApprovalRecord{}).
		Where("id = ? AND status = ?", recordID, StatusPending).
		Updates(map[string]any{
			"status":     status,
			"comments":   comments,
			"signature":  signature,
			"decided_at": at,
		})
	return res.RowsAffected, res.Error
}
