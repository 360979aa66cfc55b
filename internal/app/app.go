package app

import (
	"context"
	"fleetdeck/config"
	"fleetdeck/internal/controllers"
	"fleetdeck/internal/database"
	"fleetdeck/internal/events"
	"fleetdeck/internal/handlers/middleware"
	"fleetdeck/internal/jobs"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/services"
	"fleetdeck/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService *services.TransactionService
	SessionService     *services.SessionService
	PaymentService     *services.PaymentService
	MailerService      *services.MailerService
	StorageService     *services.StorageService
	SchedulerService   *services.SchedulerService

	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	sessionService, err := services.NewSessionService(config, db)
	if err != nil {
		return &App{}, log.Err("failed to create session service", err)
	}
	paymentService := services.NewPaymentService(config)
	mailerService := services.NewMailerService(config)
	storageService, err := services.NewStorageService(config)
	if err != nil {
		return &App{}, log.Err("failed to create storage service", err)
	}
	schedulerService := services.NewSchedulerService()

	repos := repositories.New(db)

	websocket, err := websockets.New(eventBus, sessionService, repos.User, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config, repos, sessionService)
	appControllers := controllers.New(repos, controllers.Services{
		Sessions:     sessionService,
		Transactions: transactionService,
		Payments:     paymentService,
		Mailer:       mailerService,
		Storage:      storageService,
	}, eventBus)

	// Register jobs with scheduler if enabled
	if config.SchedulerEnabled {
		oilChangeJob := jobs.NewOilChangeReminderJob(repos, services.DailyMorning)
		if err := schedulerService.AddJob(oilChangeJob); err != nil {
			return &App{}, log.Err("failed to register oil change reminder job", err)
		}
		log.Info("Registered oil change reminder job with scheduler")

		invoiceJob := jobs.NewInvoiceReminderJob(repos, mailerService, services.DailyMorning)
		if err := schedulerService.AddJob(invoiceJob); err != nil {
			return &App{}, log.Err("failed to register invoice reminder job", err)
		}
		log.Info("Registered invoice reminder job with scheduler")

		if err := schedulerService.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:           db,
		Config:             config,
		Middleware:         middleware,
		TransactionService: transactionService,
		SessionService:     sessionService,
		PaymentService:     paymentService,
		MailerService:      mailerService,
		StorageService:     storageService,
		SchedulerService:   schedulerService,
		Repos:              repos,
		Controllers:        appControllers,
		Websocket:          websocket,
		EventBus:           eventBus,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.TransactionService,
		a.SessionService,
		a.PaymentService,
		a.MailerService,
		a.StorageService,
		a.SchedulerService,
		a.Controllers.Activity,
		a.Controllers.Auth,
		a.Controllers.Booking,
		a.Controllers.Calendar,
		a.Controllers.Repair,
		a.Controllers.Invoice,
		a.Controllers.Chat,
		a.Controllers.Notification,
		a.Controllers.Document,
		a.Controllers.User,
		a.Controllers.Yacht,
		a.Repos.User,
		a.Repos.Yacht,
		a.Repos.Booking,
		a.Repos.RepairRequest,
		a.Repos.Invoice,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.SchedulerService != nil {
		if closeErr := a.SchedulerService.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
