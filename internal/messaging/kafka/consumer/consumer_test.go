package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader serves msgs once, then blocks until the context is cancelled.
type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.msgs) > 0 {
		msg := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	r.cancel()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeProvisioner struct {
	calls []string
	fail  map[string]bool
}

func (p *fakeProvisioner) Provision(ctx context.Context, companyID, employeeID string, year int) (int, error) {
	p.calls = append(p.calls, employeeID)
	if p.fail[employeeID] {
		return 0, errors.New("db down")
	}
	return 2, nil
}

func encode(t *testing.T, offset int64, v any) kafkago.Message {
	t.Helper()
	b, err := json.Marshal(v)
	assert.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: b}
}

func TestConsumeEmployeeLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
		encode(t, 1, events.EmployeeCreatedEvent{EventType: events.EventEmployeeCreated, EmployeeID: "e-1", CompanyID: "c-1", OccurredAt: at}),
		{Offset: 2, Value: []byte("{not json")},
		encode(t, 3, events.EmployeeCreatedEvent{EventType: events.EventEmployeeCreated, EmployeeID: "e-fail", CompanyID: "c-1", OccurredAt: at}),
	}}
	prov := &fakeProvisioner{fail: map[string]bool{"e-fail": true}}

	consumer.ConsumeEmployeeLifecycle(ctx, reader, prov, zap.NewNop())

	assert.Equal(t, []string{"e-1", "e-fail"}, prov.calls)
	// undecodable messages are committed, failed provisioning is left for redelivery
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

type recordingHandler struct {
	got []events.LeaveRequestEvent
}

func (h *recordingHandler) Handle(ctx context.Context, evt events.LeaveRequestEvent) {
	h.got = append(h.got, evt)
}

func TestConsumeLeaveLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
		encode(t, 10, events.LeaveRequestEvent{EventType: events.EventLeaveRequestApproved, LeaveRequestID: "r-1", RequestNumber: "LV-000001"}),
	}}
	handler := &recordingHandler{}

	consumer.ConsumeLeaveLifecycle(ctx, reader, handler, zap.NewNop())

	if assert.Len(t, handler.got, 1) {
		assert.Equal(t, "LV-000001", handler.got[0].RequestNumber)
	}
	assert.Equal(t, []int64{10}, reader.committed)
}
