package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jmilford/taskward/internal/config"
	"github.com/jmilford/taskward/internal/platform/postgres"
	"github.com/jmilford/taskward/internal/platform/redisq"
	"github.com/jmilford/taskward/internal/reminder"
	"github.com/jmilford/taskward/internal/service"
	"github.com/jmilford/taskward/internal/service/auth"
	"github.com/jmilford/taskward/internal/store"
)

// application holds the wired dependencies of the server process.
type application struct {
	config *config.Config
	logger *slog.Logger

	db          *sql.DB
	redisClient *redis.Client

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	userService service.UserService
	taskService service.TaskService

	reminderWorker *redisq.Worker
}

// newApplication wires configuration into the full dependency graph:
// database and migrations, Redis-backed reminder dispatch, stores,
// services, and authentication. The reminder worker is started here and
// stopped during cleanup.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	// Reminder pipeline: scheduler enqueues into the Redis delayed queue,
	// the worker polls it and delivers due reminders by email.
	queue := redisq.NewQueue(redisClient, logger)
	scheduler := reminder.NewScheduler(queue, logger)

	var mailer reminder.Mailer
	if cfg.Mail.Host != "" {
		mailer = reminder.NewSMTPMailer(cfg.Mail)
	} else {
		logger.Warn("no SMTP host configured, reminders will be logged instead of emailed")
		mailer = &reminder.LogMailer{Logger: logger}
	}

	workerCfg := redisq.DefaultWorkerConfig()
	if cfg.Reminder.PollIntervalSeconds > 0 {
		workerCfg.PollInterval = time.Duration(cfg.Reminder.PollIntervalSeconds) * time.Second
	}
	reminderWorker := redisq.NewWorker(queue, mailer, workerCfg, logger)
	reminderWorker.Start()

	userService := service.NewUserService(userStore, auth.NewBcryptHasher(0), db, logger)
	taskService := service.NewTaskService(taskStore, userStore, scheduler, logger)

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		redisClient:      redisClient,
		userStore:        userStore,
		taskStore:        taskStore,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		userService:      userService,
		taskService:      taskService,
		reminderWorker:   reminderWorker,
	}, nil
}

// cleanup releases the application's long-lived resources. Called after
// the HTTP server has drained.
func (app *application) cleanup() {
	app.reminderWorker.Stop()

	if err := app.redisClient.Close(); err != nil {
		app.logger.Error("failed to close redis client", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
