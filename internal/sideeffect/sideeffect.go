// Package sideeffect fans committed leave request transitions out to the
// notification, audit and document sinks. Sink failures are logged and never
// reach the caller.
package sideeffect

import (
	"context"
)

// ApprovalDocumentTemplate is the template every leave approval document is rendered from.
const ApprovalDocumentTemplate = "leave_approval_v1"

const (
	NotificationApprovalRequired = "LEAVE_APPROVAL_REQUIRED"
	NotificationApprovalProgress = "LEAVE_APPROVAL_PROGRESS"
	NotificationApproved         = "LEAVE_APPROVED"
	NotificationRejected         = "LEAVE_REJECTED"
	NotificationCancelled        = "LEAVE_CANCELLED"
)

type Notification struct {
	CompanyID       string
	UserID          string
	Type            string
	Title           string
	Message         string
	RelatedEntityID string
}

type AuditEntry struct {
	CompanyID string
	RequestID string
	ActorID   string
	Action    string
	Entity    string
	EntityID  string
	OldValues map[string]any
	NewValues map[string]any
}

type GenerateRequest struct {
	CompanyID     string
	RequestID     string
	RequestNumber string
	TemplateID    string
	EmployeeID    string
	StartDate     string
	EndDate       string
	TotalDays     int
}

//go:generate mockgen -source=sideeffect.go -destination=mock/sideeffect_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type AuditSink interface {
	Record(ctx context.Context, e AuditEntry) error
}

type DocumentPipeline interface {
	// Generate returns the document for (request, template), creating it on first use.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	AddSignature(ctx context.Context, documentID, actorID, role, signature string) error
}
