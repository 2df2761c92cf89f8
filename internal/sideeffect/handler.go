package sideeffect

import (
	"context"
	"fmt"

	"go-leave/internal/events"

	"go.uber.org/zap"
)

type Handler struct {
	notifier Notifier
	audit    AuditSink
	docs     DocumentPipeline
	logger   *zap.Logger
}

// NewHandler accepts nil sinks; a nil sink is skipped.
func NewHandler(notifier Notifier, audit AuditSink, docs DocumentPipeline, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("sideeffect.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sideeffect.handler")
	}
	return &Handler{notifier: notifier, audit: audit, docs: docs, logger: l}
}

func (h *Handler) Handle(ctx context.Context, evt events.LeaveRequestEvent) {
	log := h.logger.With(
		zap.String("event_type", evt.EventType),
		zap.String("request_id", evt.RequestID),
		zap.String("leave_request_id", evt.LeaveRequestID),
	)

	h.recordAudit(ctx, log, evt)

	switch evt.EventType {
	case events.EventLeaveRequestCreated:
		for _, approverID := range evt.PendingFor {
			h.notify(ctx, log, evt, approverID, NotificationApprovalRequired,
				"Approval required",
				fmt.Sprintf("%s %s needs your decision (%s to %s, %d days)", kindLabel(evt.Kind), evt.RequestNumber, evt.StartDate, evt.EndDate, evt.TotalDays))
		}
		if evt.Status == "APPROVED" {
			h.notify(ctx, log, evt, evt.EmployeeID, NotificationApproved,
				"Request approved",
				fmt.Sprintf("%s %s was approved automatically", kindLabel(evt.Kind), evt.RequestNumber))
			h.generate(ctx, log, evt)
		}

	case events.EventLeaveApprovalRecorded:
		h.sign(ctx, log, evt)
		h.notify(ctx, log, evt, evt.EmployeeID, NotificationApprovalProgress,
			"Approval recorded",
			fmt.Sprintf("Level %d approved %s %s", evt.Level, kindLabel(evt.Kind), evt.RequestNumber))

	case events.EventLeaveRequestApproved:
		h.sign(ctx, log, evt)
		h.notify(ctx, log, evt, evt.EmployeeID, NotificationApproved,
			"Request approved",
			fmt.Sprintf("%s %s is fully approved", kindLabel(evt.Kind), evt.RequestNumber))

	case events.EventLeaveRequestRejected:
		h.notify(ctx, log, evt, evt.EmployeeID, NotificationRejected,
			"Request rejected",
			fmt.Sprintf("%s %s was rejected: %s", kindLabel(evt.Kind), evt.RequestNumber, evt.Comments))

	case events.EventLeaveRequestCancelled:
		for _, approverID := range evt.PendingFor {
			h.notify(ctx, log, evt, approverID, NotificationCancelled,
				"Request cancelled",
				fmt.Sprintf("%s %s was cancelled and no longer needs your decision", kindLabel(evt.Kind), evt.RequestNumber))
		}

	default:
		log.Warn("unknown leave request event ignored")
	}
}

func (h *Handler) recordAudit(ctx context.Context, log *zap.Logger, evt events.LeaveRequestEvent) {
	if h.audit == nil {
		return
	}
	entry := AuditEntry{
		CompanyID: evt.CompanyID,
		RequestID: evt.RequestID,
		ActorID:   evt.ActorID,
		Action:    evt.EventType,
		Entity:    "leave_request",
		EntityID:  evt.LeaveRequestID,
		NewValues: map[string]any{
			"status":     evt.Status,
			"total_days": evt.TotalDays,
		},
	}
	if evt.PreviousStatus != "" {
		entry.OldValues = map[string]any{"status": evt.PreviousStatus}
	}
	if evt.Decision != "" {
		entry.NewValues["decision"] = evt.Decision
		entry.NewValues["level"] = evt.Level
	}
	if evt.Comments != "" {
		entry.NewValues["comments"] = evt.Comments
	}
	if err := h.audit.Record(ctx, entry); err != nil {
		log.Error("audit side effect failed", zap.Error(err))
	}
}

func (h *Handler) notify(ctx context.Context, log *zap.Logger, evt events.LeaveRequestEvent, userID, kind, title, message string) {
	if h.notifier == nil || userID == "" {
		return
	}
	err := h.notifier.Notify(ctx, Notification{
		CompanyID:       evt.CompanyID,
		UserID:          userID,
		Type:            kind,
		Title:           title,
		Message:         message,
		RelatedEntityID: evt.LeaveRequestID,
	})
	if err != nil {
		log.Error("notification side effect failed",
			zap.String("user_id", userID),
			zap.String("type", kind),
			zap.Error(err),
		)
	}
}

func (h *Handler) generate(ctx context.Context, log *zap.Logger, evt events.LeaveRequestEvent) (string, bool) {
	if h.docs == nil {
		return "", false
	}
	documentID, err := h.docs.Generate(ctx, GenerateRequest{
		CompanyID:     evt.CompanyID,
		RequestID:     evt.LeaveRequestID,
		RequestNumber: evt.RequestNumber,
		TemplateID:    ApprovalDocumentTemplate,
		EmployeeID:    evt.EmployeeID,
		StartDate:     evt.StartDate,
		EndDate:       evt.EndDate,
		TotalDays:     evt.TotalDays,
	})
	if err != nil {
		log.Error("document generation failed", zap.Error(err))
		return "", false
	}
	return documentID, true
}

func (h *Handler) sign(ctx context.Context, log *zap.Logger, evt events.LeaveRequestEvent) {
	documentID, ok := h.generate(ctx, log, evt)
	if !ok {
		return
	}
	if err := h.docs.AddSignature(ctx, documentID, evt.ActorID, evt.ActorRole, evt.Signature); err != nil {
		log.Error("document signature failed",
			zap.String("document_id", documentID),
			zap.String("actor_id", evt.ActorID),
			zap.Error(err),
		)
	}
}

func kindLabel(kind string) string {
	if kind == "WFH" {
		return "WFH request"
	}
	return "Leave request"
}
