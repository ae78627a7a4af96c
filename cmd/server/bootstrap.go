package main

import (
	"github.com/bytehub/bytehub/internal/config"
	"github.com/bytehub/bytehub/internal/handlers"
	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/internal/services"
	"github.com/bytehub/bytehub/internal/utils"
	"github.com/bytehub/bytehub/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	notifier        *services.Notifier
	taskQueue       services.TaskQueue
	worker          *services.Worker
	reminderService *services.ReminderService
	authHandler     *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	services.InitSystemLogger(db)
	services.StartLogCleanupScheduler(db, cfg.Log.RetentionDays)
	services.StartNotificationCleanupScheduler(db, cfg.Notifications.RetentionDays)

	// Notification delivery: async via Redis when enabled, in-process
	// goroutines otherwise. Either way the delivery target is the
	// notifications table.
	notificationService := services.NewNotificationService(db)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notificationService.Deliver)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(notificationService.Deliver)
			worker.Start()
		}
	}

	notifier := services.NewNotifier(db, taskQueue)

	reminderService := services.NewReminderService(db, notifier)
	if err := reminderService.Start(); err != nil {
		logger.Warn().Err(err).Msg("Failed to start reminder scheduler")
	}

	authHandler := handlers.NewAuthHandler(db, cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		notifier:        notifier,
		taskQueue:       taskQueue,
		worker:          worker,
		reminderService: reminderService,
		authHandler:     authHandler,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.reminderService.Stop()

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("All services stopped")
}
