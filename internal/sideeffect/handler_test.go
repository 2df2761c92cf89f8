package sideeffect_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/events"
	"go-leave/internal/sideeffect"
	sideeffectMock "go-leave/internal/sideeffect/mock"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type handlerDeps struct {
	notifier *sideeffectMock.MockNotifier
	audit    *sideeffectMock.MockAuditSink
	docs     *sideeffectMock.MockDocumentPipeline
	handler  *sideeffect.Handler
}

func setupHandler(t *testing.T) *handlerDeps {
	ctrl := gomock.NewController(t)
	d := &handlerDeps{
		notifier: sideeffectMock.NewMockNotifier(ctrl),
		audit:    sideeffectMock.NewMockAuditSink(ctrl),
		docs:     sideeffectMock.NewMockDocumentPipeline(ctrl),
	}
	d.handler = sideeffect.NewHandler(d.notifier, d.audit, d.docs)
	return d
}

func TestHandler_Created(t *testing.T) {
	d := setupHandler(t)
	evt := events.LeaveRequestEvent{
		EventType:      events.EventLeaveRequestCreated,
		LeaveRequestID: "lr-1",
		RequestNumber:  "LV-000001",
		CompanyID:      "co-1",
		Kind:           "LEAVE",
		EmployeeID:     "emp-1",
		ActorID:        "emp-1",
		Status:         "PENDING",
		PendingFor:     []string{"mgr-1", "hr-1"},
	}

	d.audit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, e sideeffect.AuditEntry) error {
			assert.Equal(t, "leave_request", e.Entity)
			assert.Equal(t, "lr-1", e.EntityID)
			assert.Equal(t, "PENDING", e.NewValues["status"])
			return nil
		})
	d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, n sideeffect.Notification) error {
			assert.Equal(t, sideeffect.NotificationApprovalRequired, n.Type)
			assert.Equal(t, "lr-1", n.RelatedEntityID)
			return nil
		}).Times(2)

	d.handler.Handle(context.Background(), evt)
}

func TestHandler_ApprovedSignsDocument(t *testing.T) {
	d := setupHandler(t)
	evt := events.LeaveRequestEvent{
		EventType:      events.EventLeaveRequestApproved,
		LeaveRequestID: "lr-1",
		CompanyID:      "co-1",
		EmployeeID:     "emp-1",
		ActorID:        "mgr-1",
		ActorRole:      "DIRECT_MANAGER",
		Signature:      "sig-data",
		PreviousStatus: "PENDING",
		Status:         "APPROVED",
		Decision:       "APPROVE",
		Level:          1,
	}

	d.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
	d.docs.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req sideeffect.GenerateRequest) (string, error) {
			assert.Equal(t, sideeffect.ApprovalDocumentTemplate, req.TemplateID)
			assert.Equal(t, "lr-1", req.RequestID)
			return "doc-1", nil
		})
	d.docs.EXPECT().AddSignature(gomock.Any(), "doc-1", "mgr-1", "DIRECT_MANAGER", "sig-data").Return(nil)
	d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, n sideeffect.Notification) error {
			assert.Equal(t, "emp-1", n.UserID)
			assert.Equal(t, sideeffect.NotificationApproved, n.Type)
			return nil
		})

	d.handler.Handle(context.Background(), evt)
}

func TestHandler_SinkFailuresAreSwallowed(t *testing.T) {
	d := setupHandler(t)
	evt := events.LeaveRequestEvent{
		EventType:      events.EventLeaveRequestRejected,
		LeaveRequestID: "lr-1",
		EmployeeID:     "emp-1",
		ActorID:        "exec-2",
		Status:         "REJECTED",
		Comments:       "coverage",
	}

	d.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("audit down"))
	d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("notifier down"))

	assert.NotPanics(t, func() {
		d.handler.Handle(context.Background(), evt)
	})
}

func TestHandler_DocumentFailureSkipsSignature(t *testing.T) {
	d := setupHandler(t)
	evt := events.LeaveRequestEvent{
		EventType:      events.EventLeaveApprovalRecorded,
		LeaveRequestID: "lr-1",
		EmployeeID:     "emp-1",
		ActorID:        "mgr-1",
		Status:         "PENDING",
		Decision:       "APPROVE",
		Level:          1,
	}

	d.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
	d.docs.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", errors.New("renderer down"))
	d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

	d.handler.Handle(context.Background(), evt)
}

func TestInlineDispatcher_AfterCommit(t *testing.T) {
	d := setupHandler(t)
	dispatcher := sideeffect.NewInlineDispatcher(d.handler)

	evt := events.LeaveRequestEvent{
		EventType:      events.EventLeaveRequestCancelled,
		LeaveRequestID: "lr-1",
		EmployeeID:     "emp-1",
		ActorID:        "emp-1",
		Status:         "CANCELLED",
		PendingFor:     []string{"mgr-1"},
	}

	assert.NoError(t, dispatcher.Stage(context.Background(), nil, evt))

	d.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
	d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, n sideeffect.Notification) error {
			assert.Equal(t, "mgr-1", n.UserID)
			assert.Equal(t, sideeffect.NotificationCancelled, n.Type)
			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dispatcher.AfterCommit(ctx, evt)
}
