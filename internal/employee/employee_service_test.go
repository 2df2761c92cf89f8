package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	CreateFn           func(ctx context.Context, e *employee.Employee) error
	ListFn             func(ctx context.Context, companyID string, f employee.ListFilter) ([]employee.Employee, int64, error)
	FindByIDFn         func(ctx context.Context, companyID, id string) (*employee.Employee, error)
	FindActiveByRoleFn func(ctx context.Context, companyID, role, excludeID string) ([]employee.Employee, error)
	ListActiveIDsFn    func(ctx context.Context, companyID string) ([]string, error)
	EmailExistsFn      func(ctx context.Context, companyID, email string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, e *employee.Employee) error {
	return f.CreateFn(ctx, e)
}
func (f *fakeRepo) List(ctx context.Context, companyID string, filter employee.ListFilter) ([]employee.Employee, int64, error) {
	return f.ListFn(ctx, companyID, filter)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	return f.FindByIDFn(ctx, companyID, id)
}
func (f *fakeRepo) FindActiveByRole(ctx context.Context, companyID, role, excludeID string) ([]employee.Employee, error) {
	return f.FindActiveByRoleFn(ctx, companyID, role, excludeID)
}
func (f *fakeRepo) ListActiveIDs(ctx context.Context, companyID string) ([]string, error) {
	return f.ListActiveIDsFn(ctx, companyID)
}
func (f *fakeRepo) EmailExists(ctx context.Context, companyID, email string) (bool, error) {
	return f.EmailExistsFn(ctx, companyID, email)
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
	err     error
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) Claim(ctx context.Context, limit int, lease time.Duration) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func TestEmployeeService_Create(t *testing.T) {
	companyID := uuid.New().String()

	t.Run("success stages employee_created", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()

		managerID := uuid.New()
		repo := &fakeRepo{
			EmailExistsFn: func(ctx context.Context, cid, email string) (bool, error) { return false, nil },
			FindByIDFn: func(ctx context.Context, cid, id string) (*employee.Employee, error) {
				assert.Equal(t, managerID.String(), id)
				return &employee.Employee{ID: managerID, IsActive: true}, nil
			},
			CreateFn: func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "jane@example.com", e.Email)
				assert.Equal(t, &managerID, e.ManagerID)
				return nil
			},
		}
		outbox := &fakeOutbox{}
		svc := employee.NewServiceWithOutbox(db, repo, outbox)

		mock.ExpectBegin()
		mock.ExpectCommit()

		mid := managerID.String()
		ctx := contextutil.WithRequestID(context.Background(), "req-1")
		res, err := svc.Create(ctx, companyID, employee.CreateEmployeeRequest{
			FullName:  " Jane Doe ",
			Email:     "Jane@Example.com",
			Role:      "EMPLOYEE",
			ManagerID: &mid,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Jane Doe", res.FullName)
		assert.Equal(t, managerID.String(), res.ManagerID)
		assert.True(t, res.IsActive)
		if assert.Len(t, outbox.created, 1) {
			evt := outbox.created[0]
			assert.Equal(t, events.EmployeeLifecycleTopic, evt.Topic)
			assert.Equal(t, "req-1", evt.RequestID)

			var payload events.EmployeeCreatedEvent
			assert.NoError(t, json.Unmarshal(evt.Payload, &payload))
			assert.Equal(t, res.ID, payload.EmployeeID)
			assert.Equal(t, companyID, payload.CompanyID)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeRepo{
			EmailExistsFn: func(ctx context.Context, cid, email string) (bool, error) { return true, nil },
		}
		svc := employee.NewService(db, repo)

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
			FullName: "Jane", Email: "jane@example.com", Role: "EMPLOYEE",
		})
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inactive manager is rejected", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeRepo{
			EmailExistsFn: func(ctx context.Context, cid, email string) (bool, error) { return false, nil },
			FindByIDFn: func(ctx context.Context, cid, id string) (*employee.Employee, error) {
				return &employee.Employee{IsActive: false}, nil
			},
		}
		svc := employee.NewService(db, repo)

		mock.ExpectBegin()
		mock.ExpectRollback()

		mid := uuid.New().String()
		_, err := svc.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
			FullName: "Jane", Email: "jane@example.com", Role: "EMPLOYEE", ManagerID: &mid,
		})
		assert.ErrorIs(t, err, employeeerrors.ErrManagerNotFound)
	})

	t.Run("unknown director", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeRepo{
			EmailExistsFn: func(ctx context.Context, cid, email string) (bool, error) { return false, nil },
			FindByIDFn: func(ctx context.Context, cid, id string) (*employee.Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := employee.NewService(db, repo)

		mock.ExpectBegin()
		mock.ExpectRollback()

		did := uuid.New().String()
		_, err := svc.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
			FullName: "Jane", Email: "jane@example.com", Role: "MANAGER", DirectorID: &did,
		})
		assert.ErrorIs(t, err, employeeerrors.ErrDirectorNotFound)
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeRepo{
			EmailExistsFn: func(ctx context.Context, cid, email string) (bool, error) { return false, nil },
			CreateFn:      func(ctx context.Context, e *employee.Employee) error { return nil },
		}
		svc := employee.NewServiceWithOutbox(db, repo, &fakeOutbox{err: errors.New("outbox down")})

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(context.Background(), companyID, employee.CreateEmployeeRequest{
			FullName: "Jane", Email: "jane@example.com", Role: "HR",
		})
		assert.EqualError(t, err, "outbox down")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid company id", func(t *testing.T) {
		svc := employee.NewService(nil, &fakeRepo{})
		_, err := svc.Create(context.Background(), "nope", employee.CreateEmployeeRequest{Role: "HR"})
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidCompanyID)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	companyID := uuid.New().String()

	t.Run("not found", func(t *testing.T) {
		repo := &fakeRepo{
			FindByIDFn: func(ctx context.Context, cid, id string) (*employee.Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := employee.NewService(nil, repo)

		_, err := svc.GetByID(context.Background(), companyID, uuid.New().String())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := employee.NewService(nil, &fakeRepo{})
		_, err := svc.GetByID(context.Background(), companyID, "abc")
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_List(t *testing.T) {
	var got employee.ListFilter
	repo := &fakeRepo{
		ListFn: func(ctx context.Context, cid string, f employee.ListFilter) ([]employee.Employee, int64, error) {
			got = f
			return []employee.Employee{{ID: uuid.New(), FullName: "Ann"}}, 41, nil
		},
	}
	svc := employee.NewService(nil, repo)

	items, total, err := svc.List(context.Background(), uuid.NewString(), employee.ListEmployeesQuery{
		Q: "  ann ", SortBy: "email", SortDir: "desc", Page: 3, PageSize: 20,
	})

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(41), total)
	assert.Equal(t, employee.ListFilter{Search: "ann", OrderBy: "email", Desc: true, Limit: 20, Offset: 40}, got)

	_, _, err = svc.List(context.Background(), uuid.NewString(), employee.ListEmployeesQuery{})
	assert.NoError(t, err)
	assert.Equal(t, 20, got.Limit)
	assert.Zero(t, got.Offset)
	assert.Empty(t, got.OrderBy)
}
