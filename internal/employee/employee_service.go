package employee

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-leave/internal/domain"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	List(ctx context.Context, companyID string, q ListEmployeesQuery) ([]EmployeeResponse, int64, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

// NewServiceWithOutbox queues an employee_created event in the same transaction as the insert.
func NewServiceWithOutbox(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("role", req.Role),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}
	if !domain.Role(req.Role).Valid() {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmailExists(ctx, companyID, req.Email)
	if err != nil {
		s.logger.Error("create employee email check failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	if exists {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
	}

	managerID, err := s.resolveReference(ctx, qtx, companyID, req.ManagerID, employeeerrors.ErrManagerNotFound)
	if err != nil {
		return EmployeeResponse{}, err
	}
	directorID, err := s.resolveReference(ctx, qtx, companyID, req.DirectorID, employeeerrors.ErrDirectorNotFound)
	if err != nil {
		return EmployeeResponse{}, err
	}

	empl := &Employee{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		DepartmentID: uuidPtr(req.DepartmentID),
		ManagerID:    managerID,
		DirectorID:   directorID,
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event, err := kafka.NewOutboxEvent(rid, "employee", empl.ID.String(), events.EventEmployeeCreated, events.EmployeeLifecycleTopic,
			events.EmployeeCreatedEvent{
				EventType:  events.EventEmployeeCreated,
				RequestID:  rid,
				EmployeeID: empl.ID.String(),
				CompanyID:  companyID,
				Role:       empl.Role,
				OccurredAt: time.Now().UTC(),
			})
		if err != nil {
			s.logger.Error("marshal employee_created failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("role", empl.Role),
	)
	return mapToResponse(*empl), nil
}

// resolveReference checks that an optional manager or director id points at an active colleague.
func (s *service) resolveReference(ctx context.Context, repo Repository, companyID string, ref *string, notFound error) (*uuid.UUID, error) {
	if ref == nil || *ref == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*ref)
	if err != nil {
		return nil, notFound
	}
	e, err := repo.FindByIDAndCompany(ctx, companyID, id.String())
	if err != nil {
		if mapped := mapRepositoryError(err); mapped == employeeerrors.ErrEmployeeNotFound {
			return nil, notFound
		}
		return nil, err
	}
	if !e.IsActive {
		return nil, notFound
	}
	return &id, nil
}

var sortColumns = map[string]string{
	"name":  "full_name",
	"email": "email",
	"role":  "role",
}

func (s *service) List(ctx context.Context, companyID string, q ListEmployeesQuery) ([]EmployeeResponse, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	employees, total, err := s.repo.List(ctx, companyID, ListFilter{
		Search:       strings.TrimSpace(q.Q),
		Role:         q.Role,
		ManagerID:    q.ManagerID,
		DepartmentID: q.DepartmentID,
		Active:       q.Active,
		OrderBy:      sortColumns[q.SortBy],
		Desc:         q.SortDir == "desc",
		Limit:        q.PageSize,
		Offset:       (q.Page - 1) * q.PageSize,
	})
	if err != nil {
		s.logger.Error("list employees failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}
	return mapToListResponse(employees), total, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}
	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*empl), nil
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           empl.ID.String(),
		FullName:     empl.FullName,
		Email:        empl.Email,
		CompanyID:    empl.CompanyID.String(),
		Role:         empl.Role,
		IsActive:     empl.IsActive,
		DepartmentID: uuidToString(empl.DepartmentID),
		ManagerID:    uuidToString(empl.ManagerID),
		DirectorID:   uuidToString(empl.DirectorID),
	}
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		res[i] = mapToResponse(e)
	}
	return res
}

func uuidPtr(v *string) *uuid.UUID {
	if v == nil {
		return nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil
	}
	return &id
}

func uuidToString(v *uuid.UUID) string {
	if v == nil {
		return ""
	}
	return v.String()
}
