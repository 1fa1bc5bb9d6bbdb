package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-borrow/library/config"
	"github.com/Astemirdum/library-borrow/library/internal/handler"
	"github.com/Astemirdum/library-borrow/library/internal/jobs"
	"github.com/Astemirdum/library-borrow/library/internal/repository"
	"github.com/Astemirdum/library-borrow/library/internal/server"
	"github.com/Astemirdum/library-borrow/library/internal/service"
	"github.com/Astemirdum/library-borrow/library/migrations"
	"github.com/Astemirdum/library-borrow/pkg/auth"
	"github.com/Astemirdum/library-borrow/pkg/circuit_breaker"
	"github.com/Astemirdum/library-borrow/pkg/kafka"
	"github.com/Astemirdum/library-borrow/pkg/logger"
	"github.com/Astemirdum/library-borrow/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	defer db.Close()
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	tokens := auth.NewTokenManager(cfg.Auth)

	opts := []service.Option{
		service.WithTokenIssuer(tokens),
		service.WithRetry(service.RetryPolicy{
			MaxAttempts: cfg.Borrow.MaxAttempts,
			BaseDelay:   cfg.Borrow.RetryBase,
			Jitter:      service.DefaultRetryPolicy().Jitter,
		}),
	}
	var (
		producer sarama.SyncProducer
		consumer sarama.ConsumerGroup
	)
	if cfg.Kafka.Enabled() {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		defer producer.Close()
		consumer, err = kafka.NewConsumer(cfg.Kafka, kafka.StatsConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		opts = append(opts, service.WithPublisher(
			service.NewKafkaPublisher(producer, circuit_breaker.New(cfg.Breaker))))
	} else {
		log.Warn("kafka is not configured, borrow events are not published")
	}
	svc := service.NewService(repo, log, opts...)

	scheduler, err := jobs.NewScheduler(cfg.Ledger.Schedule, svc, log)
	if err != nil {
		log.Fatal("ledger scheduler", zap.Error(err))
	}

	h := handler.New(svc, tokens, cfg.Server, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	if consumer != nil {
		g.Go(func() error {
			return kafka.Consume(gctx, consumer, handler.NewConsumer(svc.RecordEvent, log), log, kafka.BorrowEventsTopic)
		})
	}
	scheduler.Start()

	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		scheduler.Stop(closeCtx)
		return srv.Stop(closeCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}
