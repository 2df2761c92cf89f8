package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-leave/internal/balance"
	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"
	"go-leave/internal/shared/config"
	"go-leave/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer provisions balances for new employees and runs the leave
// request side effects published by the worker.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := ConnectDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	balanceService := balance.NewService(infra.SQLDB, balance.NewRepository(infra.GormDB), employee.NewRepository(infra.GormDB), logger)
	sideEffects := newSinks(infra.GormDB, logger).handler(logger)

	employeeReader := connection.NewKafkaReader(cfg.Kafka.Brokers, events.EmployeeLifecycleTopic, cfg.Kafka.ConsumerGroup+"-balances")
	defer employeeReader.Close()
	leaveReader := connection.NewKafkaReader(cfg.Kafka.Brokers, events.LeaveRequestLifecycleTopic, cfg.Kafka.ConsumerGroup+"-side-effects")
	defer leaveReader.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeEmployeeLifecycle(ctx, employeeReader, balanceService, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumeLeaveLifecycle(ctx, leaveReader, sideEffects, logger)
	}()

	<-ctx.Done()
	log.Info("consumer shutting down")
	wg.Wait()
	return nil
}
