package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fashionfiesta/helpdesk/internal/api/http"
	"github.com/fashionfiesta/helpdesk/internal/api/http/handlers"
	"github.com/fashionfiesta/helpdesk/internal/auth"
	"github.com/fashionfiesta/helpdesk/internal/config"
	"github.com/fashionfiesta/helpdesk/internal/events"
	"github.com/fashionfiesta/helpdesk/internal/mail"
	"github.com/fashionfiesta/helpdesk/internal/observability"
	"github.com/fashionfiesta/helpdesk/internal/persistence"
	"github.com/fashionfiesta/helpdesk/internal/repository"
	"github.com/fashionfiesta/helpdesk/internal/service"
	"github.com/fashionfiesta/helpdesk/internal/storage"
	"github.com/fashionfiesta/helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	objectStore, err := storage.NewLocalStore(cfg.Storage.BasePath, cfg.Storage.PublicBaseURL)
	if err != nil {
		logger.Fatal("failed to init object storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	replyRepo := repository.NewReplyRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	mailer := mail.NewSMTPMailer(cfg.SMTP, logger)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		ReplyRepo:      replyRepo,
		AttachmentRepo: attachmentRepo,
		UserRepo:       userRepo,
		Cache:          redis.ClientHandle(),
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	dashboardService := service.NewDashboardService(statsRepo, redis.ClientHandle(), logger)
	reportService := service.NewReportService(ticketRepo, replyRepo, userRepo)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger, cfg.App.BaseURL)
	worker.Start(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Upload.MaxFileSize) * (cfg.Upload.MaxFiles + 1),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, objectStore, cfg.Upload, logger),
		StaffTickets:   handlers.NewStaffTicketsHandler(ticketService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Reports:        handlers.NewReportsHandler(reportService),
		Files:          handlers.NewFilesHandler(objectStore),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	if waiter, ok := dispatcher.(events.Waiter); ok {
		waiter.Wait()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
