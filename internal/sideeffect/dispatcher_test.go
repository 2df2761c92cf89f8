package sideeffect_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/sideeffect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOutbox struct {
	boundTo *sql.Tx
	events  []kafka.OutboxEvent
}

func (r *recordingOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	r.boundTo = tx
	return r
}
func (r *recordingOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	r.events = append(r.events, event)
	return nil
}
func (r *recordingOutbox) Claim(ctx context.Context, limit int, lease time.Duration) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (r *recordingOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (r *recordingOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func TestOutboxDispatcher_Stage(t *testing.T) {
	outbox := &recordingOutbox{}
	dispatcher := sideeffect.NewOutboxDispatcher(outbox)
	tx := &sql.Tx{}

	evt := events.LeaveRequestEvent{
		EventType:      events.EventLeaveRequestRejected,
		RequestID:      "req-9",
		LeaveRequestID: "lr-1",
		Status:         "REJECTED",
	}
	require.NoError(t, dispatcher.Stage(context.Background(), tx, evt))

	assert.Same(t, tx, outbox.boundTo)
	require.Len(t, outbox.events, 1)
	staged := outbox.events[0]
	assert.Equal(t, events.LeaveRequestLifecycleTopic, staged.Topic)
	assert.Equal(t, "lr-1", staged.AggregateID)
	assert.Equal(t, "req-9", staged.RequestID)

	var decoded events.LeaveRequestEvent
	require.NoError(t, json.Unmarshal(staged.Payload, &decoded))
	assert.Equal(t, "REJECTED", decoded.Status)
}
