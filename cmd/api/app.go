package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-desk/internal/config"
	"github.com/spec-kit/feedback-desk/internal/dashboard"
	"github.com/spec-kit/feedback-desk/internal/events"
	"github.com/spec-kit/feedback-desk/internal/persistence"
	"github.com/spec-kit/feedback-desk/internal/repository"
	"github.com/spec-kit/feedback-desk/internal/service"
	"github.com/spec-kit/feedback-desk/internal/storage"
	"github.com/spec-kit/feedback-desk/internal/worker"
)

// application holds the wired services shared by every command.
type application struct {
	cfg        *config.Config
	logger     *zap.Logger
	postgres   *persistence.Postgres
	redis      *persistence.Redis
	dispatcher events.Dispatcher
	bugReports *service.BugReportService
	feedback   *service.FeedbackService
	dashboard  *dashboard.Service
}

func newApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			pg.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	var (
		bugRepo repository.BugReportRepository
		fbRepo  repository.FeedbackRepository
	)
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		bugRepo = repository.NewPostgresBugReportRepository(pg.PoolHandle())
		fbRepo = repository.NewPostgresFeedbackRepository(pg.PoolHandle())
	default:
		bugRepo = repository.NewFileBugReportRepository(cfg.Storage.BugReportsFile(), logger)
		fbRepo = repository.NewFileFeedbackRepository(cfg.Storage.FeedbackFile(), logger)
	}
	logger.Info("record store ready", zap.String("backend", cfg.Storage.Backend))

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)

	bugReports := service.NewBugReportService(service.BugReportDependencies{
		Repo:        bugRepo,
		Screenshots: storage.NewScreenshotStore(cfg.Storage.UploadsDir),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	feedback := service.NewFeedbackService(service.FeedbackDependencies{
		Repo:       fbRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	return &application{
		cfg:        cfg,
		logger:     logger,
		postgres:   pg,
		redis:      rdb,
		dispatcher: dispatcher,
		bugReports: bugReports,
		feedback:   feedback,
		dashboard:  dashboard.NewService(bugReports, feedback),
	}, nil
}

// startNotifications subscribes the log, email and Redis consumers.
func (a *application) startNotifications() {
	deps := service.NotificationDependencies{
		Dispatcher: a.dispatcher,
		Logger:     a.logger,
		Config:     a.cfg.Notification,
		Channel:    a.cfg.Redis.EventsChannel,
	}
	if mailer := service.NewSMTPMailer(a.cfg.Notification); mailer != nil {
		deps.Mailer = mailer
	}
	if a.redis.Enabled() {
		deps.Publisher = a.redis
	}
	worker.StartNotificationWorker(service.NewNotificationService(deps))
}

func (a *application) Close() {
	a.redis.Close()
	a.postgres.Close()
}
