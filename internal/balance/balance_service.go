package balance

import (
	"context"
	"database/sql"
	"strings"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetMyBalances(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error)
	// Provision creates one balance per active leave type for year and skips rows that exist.
	Provision(ctx context.Context, companyID, employeeID string, year int) (int, error)
	ListLeaveTypes(ctx context.Context, companyID string) ([]LeaveTypeResponse, error)
	CreateLeaveType(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
}

// EmployeeDirectory lists the employees that hold balances.
type EmployeeDirectory interface {
	ListActiveIDs(ctx context.Context, companyID string) ([]string, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeDirectory
	logger    *zap.Logger
	now       func() time.Time
}

// NewService builds the balance service. With a nil employees directory new
// leave types are created without balances.
func NewService(db *sql.DB, repo Repository, employees EmployeeDirectory, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		logger:    l,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) GetMyBalances(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error) {
	if year == 0 {
		year = s.now().Year()
	}
	if year < 1970 || year > 9999 {
		return nil, balanceerrors.ErrInvalidYear
	}

	balances, err := s.repo.ListBalances(ctx, companyID, employeeID, year)
	if err != nil {
		s.logger.Error("list balances failed",
			zap.String("company_id", companyID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, err
	}
	types, err := s.repo.ListLeaveTypes(ctx, companyID, false)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]LeaveType, len(types))
	for _, t := range types {
		byID[t.ID] = t
	}

	res := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		item := BalanceResponse{
			LeaveTypeID:    b.LeaveTypeID.String(),
			Year:           b.Year,
			Entitled:       b.Entitled,
			Available:      b.Available,
			Pending:        b.Pending,
			Used:           b.Used,
			CarriedForward: b.CarriedForward,
		}
		if t, ok := byID[b.LeaveTypeID]; ok {
			item.LeaveTypeCode = t.Code
			item.LeaveTypeName = t.Name
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *service) Provision(ctx context.Context, companyID, employeeID string, year int) (int, error) {
	rid := contextutil.GetRequestID(ctx)
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return 0, apperror.InvalidField("company_id")
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return 0, apperror.InvalidField("employee_id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("provision balances begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	types, err := qtx.ListLeaveTypes(ctx, companyID, true)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, t := range types {
		ok, err := qtx.CreateIfMissing(ctx, &Balance{
			CompanyID:   companyUUID,
			EmployeeID:  employeeUUID,
			LeaveTypeID: t.ID,
			Year:        year,
			Entitled:    t.DefaultEntitlement,
			Available:   t.DefaultEntitlement,
		})
		if err != nil {
			s.logger.Error("provision balance persist failed",
				zap.String("request_id", rid),
				zap.String("employee_id", employeeID),
				zap.String("leave_type", t.Code),
				zap.Error(err),
			)
			return 0, err
		}
		if ok {
			created++
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("provision balances commit failed", zap.String("request_id", rid), zap.Error(err))
		return 0, err
	}

	s.logger.Info("provision balances success",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
		zap.Int("created", created),
		zap.Int("skipped", len(types)-created),
	)
	return created, nil
}

func (s *service) ListLeaveTypes(ctx context.Context, companyID string) ([]LeaveTypeResponse, error) {
	types, err := s.repo.ListLeaveTypes(ctx, companyID, false)
	if err != nil {
		return nil, err
	}
	res := make([]LeaveTypeResponse, len(types))
	for i, t := range types {
		res[i] = mapLeaveTypeToResponse(t)
	}
	return res, nil
}

func (s *service) CreateLeaveType(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveTypeResponse{}, apperror.InvalidField("company_id")
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var employeeIDs []string
	if s.employees != nil {
		employeeIDs, err = s.employees.ListActiveIDs(ctx, companyID)
		if err != nil {
			s.logger.Error("list active employees failed", zap.String("request_id", rid), zap.Error(err))
			return LeaveTypeResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave type begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.LeaveTypeCodeExists(ctx, companyID, code)
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	if exists {
		return LeaveTypeResponse{}, balanceerrors.ErrLeaveTypeCodeExists
	}

	lt := &LeaveType{
		CompanyID:           companyUUID,
		Code:                code,
		Name:                strings.TrimSpace(req.Name),
		DefaultEntitlement:  req.DefaultEntitlement,
		CarryForwardEnabled: req.CarryForwardEnabled,
		MaxCarryForward:     req.MaxCarryForward,
		IsActive:            true,
	}
	if err := qtx.CreateLeaveType(ctx, lt); err != nil {
		s.logger.Error("create leave type failed", zap.String("request_id", rid), zap.String("code", code), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	// existing employees get the new type for the current year right away
	year := s.now().Year()
	provisioned := 0
	for _, id := range employeeIDs {
		employeeUUID, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		ok, err := qtx.CreateIfMissing(ctx, &Balance{
			CompanyID:   companyUUID,
			EmployeeID:  employeeUUID,
			LeaveTypeID: lt.ID,
			Year:        year,
			Entitled:    lt.DefaultEntitlement,
			Available:   lt.DefaultEntitlement,
		})
		if err != nil {
			s.logger.Error("backfill balance persist failed",
				zap.String("request_id", rid),
				zap.String("employee_id", id),
				zap.String("leave_type", code),
				zap.Error(err),
			)
			return LeaveTypeResponse{}, err
		}
		if ok {
			provisioned++
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave type commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.logger.Info("create leave type success",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("code", code),
		zap.Int("year", year),
		zap.Int("provisioned", provisioned),
	)
	return mapLeaveTypeToResponse(*lt), nil
}

func mapLeaveTypeToResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                  t.ID.String(),
		Code:                t.Code,
		Name:                t.Name,
		DefaultEntitlement:  t.DefaultEntitlement,
		CarryForwardEnabled: t.CarryForwardEnabled,
		MaxCarryForward:     t.MaxCarryForward,
		IsActive:            t.IsActive,
	}
}
