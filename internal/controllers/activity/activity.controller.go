package activityController

import (
	"context"

	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
)

const defaultFeedLimit = 100

type ActivityControllerInterface interface {
	Recent(ctx context.Context, sc scope.Scope, limit int) ([]models.ActivityLog, error)
}

type ActivityController struct {
	activityRepo repositories.ActivityLogRepository
	log          logger.Logger
}

func New(repos repositories.Repository) ActivityControllerInterface {
	return &ActivityController{
		activityRepo: repos.ActivityLog,
		log:          logger.New("activityController"),
	}
}

// Recent returns the newest audit entries visible to the scope. Owners and
// managers see their own yacht's trail only.
func (c *ActivityController) Recent(
	ctx context.Context,
	sc scope.Scope,
	limit int,
) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > defaultFeedLimit {
		limit = defaultFeedLimit
	}
	return c.activityRepo.ListRecent(ctx, sc, limit)
}
