package audit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/audit"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/testdb"
	"go-leave/internal/sideeffect"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_RecordAndList(t *testing.T) {
	db, _ := testdb.Open(t, &audit.AuditLog{})
	repo := audit.NewRepository(db)
	sink := audit.NewSink(repo)
	svc := audit.NewService(repo)

	companyID := uuid.NewString()
	actorID := uuid.NewString()
	requestID := uuid.NewString()
	ctx := contextutil.WithRequestID(context.Background(), "req-42")

	require.NoError(t, sink.Record(ctx, sideeffect.AuditEntry{
		CompanyID: companyID,
		ActorID:   actorID,
		Action:    "leave_request.created",
		Entity:    "leave_request",
		EntityID:  requestID,
		NewValues: map[string]any{"status": "PENDING"},
	}))
	require.NoError(t, sink.Record(ctx, sideeffect.AuditEntry{
		CompanyID: companyID,
		ActorID:   actorID,
		Action:    "leave_request.rejected",
		Entity:    "leave_request",
		EntityID:  requestID,
		OldValues: map[string]any{"status": "PENDING"},
		NewValues: map[string]any{"status": "REJECTED"},
	}))
	require.NoError(t, sink.Record(ctx, sideeffect.AuditEntry{
		CompanyID: uuid.NewString(),
		Action:    "leave_request.created",
		Entity:    "leave_request",
		EntityID:  uuid.NewString(),
	}))

	t.Run("scoped to company", func(t *testing.T) {
		logs, total, err := svc.List(ctx, companyID, audit.ListAuditLogsQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, logs, 2)
		for _, l := range logs {
			assert.Equal(t, "req-42", l.RequestID)
			require.NotNil(t, l.ActorID)
			assert.Equal(t, actorID, *l.ActorID)
		}
	})

	t.Run("paged", func(t *testing.T) {
		logs, total, err := svc.List(ctx, companyID, audit.ListAuditLogsQuery{EntityID: requestID, Page: 2, PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, logs, 1)
	})

	t.Run("filter by entity", func(t *testing.T) {
		_, total, err := svc.List(ctx, companyID, audit.ListAuditLogsQuery{Entity: "rollover_run"})
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestStdoutSink(t *testing.T) {
	assert.NoError(t, audit.NewStdoutSink().Record(context.Background(), sideeffect.AuditEntry{Action: "SERVER_SHUTDOWN"}))
}

type fakeAuditService struct {
	ListFn func(ctx context.Context, companyID string, q audit.ListAuditLogsQuery) ([]audit.AuditLogResponse, int64, error)
}

func (f *fakeAuditService) List(ctx context.Context, companyID string, q audit.ListAuditLogsQuery) ([]audit.AuditLogResponse, int64, error) {
	return f.ListFn(ctx, companyID, q)
}

func TestAuditHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns pagination meta", func(t *testing.T) {
		svc := &fakeAuditService{
			ListFn: func(ctx context.Context, companyID string, q audit.ListAuditLogsQuery) ([]audit.AuditLogResponse, int64, error) {
				assert.Equal(t, "company-1", companyID)
				assert.Equal(t, "leave_request", q.Entity)
				return []audit.AuditLogResponse{{ID: "a-1", Action: "leave_request.created"}}, 41, nil
			},
		}
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/admin/audit-logs?entity=leave_request&page_size=20", nil)
		c.Set("company_id", "company-1")

		audit.NewHandler(svc).List(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"totalPages":3`)
		assert.Contains(t, w.Body.String(), "leave_request.created")
	})

	t.Run("invalid page size", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/admin/audit-logs?page_size=1000", nil)

		audit.NewHandler(&fakeAuditService{}).List(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSink_FillsBlankFieldsFromContext(t *testing.T) {
	db, _ := testdb.Open(t, &audit.AuditLog{})
	repo := audit.NewRepository(db)

	companyID := uuid.NewString()
	actorID := uuid.NewString()
	ctx := contextutil.WithRequestID(context.Background(), "req-7")
	ctx = contextutil.WithCompanyID(ctx, companyID)
	ctx = contextutil.WithUserID(ctx, actorID)

	require.NoError(t, audit.NewSink(repo).Record(ctx, sideeffect.AuditEntry{
		Action:   "leave_rollover.executed",
		Entity:   "rollover_run",
		EntityID: "run-1",
	}))

	logs, total, err := repo.List(context.Background(), companyID, audit.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "req-7", logs[0].RequestID)
	require.NotNil(t, logs[0].ActorID)
	assert.Equal(t, actorID, logs[0].ActorID.String())
}
