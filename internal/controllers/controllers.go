package controllers

import (
	"fleetdeck/internal/events"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/services"

	activityController "fleetdeck/internal/controllers/activity"
	authController "fleetdeck/internal/controllers/auth"
	bookingController "fleetdeck/internal/controllers/bookings"
	calendarController "fleetdeck/internal/controllers/calendarview"
	chatController "fleetdeck/internal/controllers/chat"
	documentController "fleetdeck/internal/controllers/documents"
	invoiceController "fleetdeck/internal/controllers/invoices"
	notificationController "fleetdeck/internal/controllers/notifications"
	repairController "fleetdeck/internal/controllers/repairs"
	userController "fleetdeck/internal/controllers/users"
	yachtController "fleetdeck/internal/controllers/yachts"
)

type Controllers struct {
	Activity     activityController.ActivityControllerInterface
	Auth         authController.AuthControllerInterface
	Booking      bookingController.BookingControllerInterface
	Calendar     calendarController.CalendarControllerInterface
	Repair       repairController.RepairControllerInterface
	Invoice      invoiceController.InvoiceControllerInterface
	Chat         chatController.ChatControllerInterface
	Notification notificationController.NotificationControllerInterface
	Document     documentController.DocumentControllerInterface
	User         userController.UserControllerInterface
	Yacht        yachtController.YachtControllerInterface
}

type Services struct {
	Sessions     *services.SessionService
	Transactions *services.TransactionService
	Payments     *services.PaymentService
	Mailer       *services.MailerService
	Storage      *services.StorageService
}

func New(
	repos repositories.Repository,
	svc Services,
	eventBus *events.EventBus,
) Controllers {
	return Controllers{
		Activity:     activityController.New(repos),
		Auth:         authController.New(svc.Sessions, repos),
		Booking:      bookingController.New(repos, eventBus),
		Calendar:     calendarController.New(repos),
		Repair:       repairController.New(repos, svc.Transactions, eventBus),
		Invoice:      invoiceController.New(repos, svc.Payments, svc.Mailer, eventBus),
		Chat:         chatController.New(repos, eventBus),
		Notification: notificationController.New(repos, eventBus),
		Document:     documentController.New(repos, svc.Storage),
		User:         userController.New(repos),
		Yacht:        yachtController.New(repos),
	}
}
