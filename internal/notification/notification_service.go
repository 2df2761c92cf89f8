package notification

import (
	"context"
	"time"

	notificationerrors "go-leave/internal/notification/errors"
	"go-leave/internal/sideeffect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const listLimit = 100

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	// Notify stores an in-app notification; it satisfies sideeffect.Notifier.
	Notify(ctx context.Context, n sideeffect.Notification) error
	ListMine(ctx context.Context, companyID, userID string, unreadOnly bool) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, companyID, userID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Notify(ctx context.Context, n sideeffect.Notification) error {
	companyID, err := uuid.Parse(n.CompanyID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(n.UserID)
	if err != nil {
		return err
	}
	item := &Notification{
		CompanyID: companyID,
		UserID:    userID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
	}
	if related, err := uuid.Parse(n.RelatedEntityID); err == nil {
		item.RelatedEntityID = &related
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return err
	}
	s.logger.Debug("notification stored",
		zap.String("user_id", n.UserID),
		zap.String("type", n.Type),
		zap.String("notification_id", item.ID.String()),
	)
	return nil
}

func (s *service) ListMine(ctx context.Context, companyID, userID string, unreadOnly bool) ([]NotificationResponse, error) {
	items, err := s.repo.ListByUser(ctx, companyID, userID, unreadOnly, listLimit)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	res := make([]NotificationResponse, len(items))
	for i, n := range items {
		res[i] = NotificationResponse{
			ID:        n.ID.String(),
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		}
		if n.RelatedEntityID != nil {
			related := n.RelatedEntityID.String()
			res[i].RelatedEntityID = &related
		}
	}
	return res, nil
}

func (s *service) MarkRead(ctx context.Context, companyID, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrNotificationNotFound
	}
	n, err := s.repo.MarkRead(ctx, companyID, userID, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if n == 0 {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}
