package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, companyID string, q ListAuditLogsQuery) ([]AuditLogResponse, int64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) List(ctx context.Context, companyID string, q ListAuditLogsQuery) ([]AuditLogResponse, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}

	logs, total, err := s.repo.List(ctx, companyID, ListFilter{
		Entity:   q.Entity,
		EntityID: q.EntityID,
		ActorID:  q.ActorID,
		Limit:    q.PageSize,
		Offset:   (q.Page - 1) * q.PageSize,
	})
	if err != nil {
		s.logger.Error("list audit logs failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, 0, err
	}

	res := make([]AuditLogResponse, len(logs))
	for i, l := range logs {
		res[i] = mapToResponse(l)
	}
	return res, total, nil
}

func mapToResponse(l AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:        l.ID.String(),
		Action:    l.Action,
		Entity:    l.Entity,
		EntityID:  l.EntityID,
		OldValues: l.OldValues,
		NewValues: l.NewValues,
		RequestID: l.RequestID,
		CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.ActorID != nil {
		actor := l.ActorID.String()
		resp.ActorID = &actor
	}
	return resp
}
