package producer

import (
	"context"
	"time"

	"go-leave/internal/messaging/kafka"

	"go.uber.org/zap"
)

type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// Lease is how long a claimed batch stays hidden from other relays.
	Lease time.Duration
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = 3 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.Lease <= 0 {
		c.Lease = 30 * time.Second
	}
	return c
}

// Relay moves committed outbox rows onto kafka. Several relays may share one
// table; claimed rows are leased so each event is published by one of them.
type Relay struct {
	repo   kafka.OutboxRepository
	writer MessageWriter
	logger *zap.Logger
	cfg    WorkerConfig
}

func NewRelay(repo kafka.OutboxRepository, writer MessageWriter, cfg WorkerConfig, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.L()
	}
	return &Relay{
		repo:   repo,
		writer: writer,
		logger: logger.Named("kafka.producer.relay"),
		cfg:    cfg.withDefaults(),
	}
}

// Run drains the outbox every poll interval until ctx is cancelled. A full
// batch triggers another drain straight away.
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("outbox relay started",
		zap.Duration("poll_interval", r.cfg.PollInterval),
		zap.Int("batch_size", r.cfg.BatchSize),
		zap.Duration("lease", r.cfg.Lease),
	)
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			for {
				n, err := r.Drain(ctx)
				if err != nil {
					r.logger.Error("drain outbox failed", zap.Error(err))
					break
				}
				if n < r.cfg.BatchSize || ctx.Err() != nil {
					break
				}
			}
		}
	}
}

// Drain publishes one claimed batch and returns how many events it claimed.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	batch, err := r.repo.Claim(ctx, r.cfg.BatchSize, r.cfg.Lease)
	if err != nil {
		return 0, err
	}

	for _, event := range batch {
		log := r.logger.With(
			zap.String("outbox_id", event.ID),
			zap.String("request_id", event.RequestID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)

		if err := publishEvent(ctx, r.writer, event); err != nil {
			if event.RetryCount+1 >= kafka.MaxPublishAttempts {
				log.Error("outbox event dead-lettered", zap.Int("attempts", event.RetryCount+1), zap.Error(err))
			} else {
				log.Warn("publish outbox event failed", zap.Int("retry_count", event.RetryCount), zap.Error(err))
			}
			if markErr := r.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error("mark outbox failed", zap.Error(markErr))
			}
			continue
		}

		// a lost MarkSent republishes after the lease; consumers tolerate duplicates
		if err := r.repo.MarkSent(ctx, event.ID); err != nil {
			log.Error("mark outbox sent", zap.Error(err))
			continue
		}
		log.Debug("outbox event sent")
	}
	return len(batch), nil
}
