package middleware

import (
	"fleetdeck/config"
	"fleetdeck/internal/database"
	"fleetdeck/internal/events"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB       database.DB
	userRepo repositories.UserRepository
	sessions *services.SessionService
	Config   config.Config
	log      logger.Logger
	eventBus *events.EventBus
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	repos repositories.Repository,
	sessions *services.SessionService,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:       db,
		userRepo: repos.User,
		sessions: sessions,
		Config:   config,
		log:      log,
		eventBus: eventBus,
	}
}
