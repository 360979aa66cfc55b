package repositories

import (
	"fleetdeck/internal/database"
)

type Repository struct {
	User          UserRepository
	Yacht         YachtRepository
	Booking       BookingRepository
	Appointment   AppointmentRepository
	RepairRequest RepairRequestRepository
	Invoice       InvoiceRepository
	ChatMessage   ChatMessageRepository
	Notification  NotificationRepository
	Document      DocumentRepository
	Budget        BudgetRepository
	ActivityLog   ActivityLogRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:          NewUserRepository(db),
		Yacht:         NewYachtRepository(db),
		Booking:       NewBookingRepository(db),
		Appointment:   NewAppointmentRepository(db),
		RepairRequest: NewRepairRequestRepository(db),
		Invoice:       NewInvoiceRepository(db),
		ChatMessage:   NewChatMessageRepository(db),
		Notification:  NewNotificationRepository(db),
		Document:      NewDocumentRepository(db),
		Budget:        NewBudgetRepository(db),
		ActivityLog:   NewActivityLogRepository(db),
	}
}
