package repairController

import (
	"context"
	"testing"

	"fleetdeck/internal/events"
	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepairRepo struct {
	requests map[uuid.UUID]*models.RepairRequest
}

func newFakeRepairRepo(requests ...*models.RepairRequest) *fakeRepairRepo {
	repo := &fakeRepairRepo{requests: make(map[uuid.UUID]*models.RepairRequest)}
	for _, r := range requests {
		repo.requests[r.ID] = r
	}
	return repo
}

func (f *fakeRepairRepo) GetByID(_ context.Context, id uuid.UUID) (*models.RepairRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (f *fakeRepairRepo) List(_ context.Context, _ scope.Scope) ([]repositories.RepairRequestRow, error) {
	return nil, nil
}

func (f *fakeRepairRepo) ListByStatus(_ context.Context, _ scope.Scope, _ models.RepairStatus) ([]repositories.RepairRequestRow, error) {
	return nil, nil
}

func (f *fakeRepairRepo) Create(_ context.Context, request *models.RepairRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	f.requests[request.ID] = request
	return nil
}

func (f *fakeRepairRepo) Update(_ context.Context, request *models.RepairRequest) error {
	f.requests[request.ID] = request
	return nil
}

type fakeNotificationRepo struct {
	created []models.Notification
}

func (f *fakeNotificationRepo) List(_ context.Context, _ scope.Scope) ([]models.Notification, error) {
	return f.created, nil
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	f.created = append(f.created, *notification)
	return nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, _ scope.Scope, _ uuid.UUID) error {
	return nil
}

type fakeActivityRepo struct {
	entries []models.ActivityLog
}

func (f *fakeActivityRepo) Create(_ context.Context, entry *models.ActivityLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityRepo) ListRecent(_ context.Context, _ scope.Scope, _ int) ([]models.ActivityLog, error) {
	return f.entries, nil
}

type fakePublisher struct {
	published []events.Channel
}

func (f *fakePublisher) Publish(channel events.Channel, _ events.Event) error {
	f.published = append(f.published, channel)
	return nil
}

func (f *fakePublisher) PublishTableChanged(channel events.Channel, _ *uuid.UUID) error {
	f.published = append(f.published, channel)
	return nil
}

func newTestController(repo *fakeRepairRepo) (*RepairController, *fakeNotificationRepo) {
	notifications := &fakeNotificationRepo{}
	return &RepairController{
		repairRepo:       repo,
		notificationRepo: notifications,
		activityRepo:     &fakeActivityRepo{},
		eventBus:         &fakePublisher{},
		log:              logger.New("repairControllerTest"),
	}, notifications
}

func roleScope(role models.Role, yachtID *uuid.UUID) scope.Scope {
	return scope.Resolve(scope.Session{
		UserID:        uuid.New(),
		ActualRole:    role,
		ActualYachtID: yachtID,
	})
}

func pendingRequest(yachtID *uuid.UUID) *models.RepairRequest {
	request := &models.RepairRequest{
		YachtID:       yachtID,
		SubmittedByID: uuid.New(),
		Title:         "Engine misfire",
		Status:        models.RepairStatusPending,
	}
	request.ID = uuid.New()
	return request
}

func TestSubmit_OwnerOwnYacht(t *testing.T) {
	yachtID := uuid.New()
	repo := newFakeRepairRepo()
	controller, notifications := newTestController(repo)

	request, err := controller.Submit(context.Background(), roleScope(models.RoleOwner, &yachtID), &SubmitRepairRequest{
		YachtID: &yachtID,
		Title:   "Generator won't start",
	})

	require.NoError(t, err)
	assert.Equal(t, models.RepairStatusPending, request.Status)

	// Submission raises an admin-wide notification (nil recipient)
	require.Len(t, notifications.created, 1)
	assert.Nil(t, notifications.created[0].RecipientID)
	assert.Equal(t, models.NotificationKindRepair, notifications.created[0].Kind)
}

func TestSubmit_OwnerOtherYacht(t *testing.T) {
	yachtID := uuid.New()
	otherYacht := uuid.New()
	controller, _ := newTestController(newFakeRepairRepo())

	_, err := controller.Submit(context.Background(), roleScope(models.RoleOwner, &yachtID), &SubmitRepairRequest{
		YachtID: &otherYacht,
		Title:   "Bilge pump",
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmit_WalkInRequiresFleetDesk(t *testing.T) {
	yachtID := uuid.New()
	customer := "Walk-in Customer"

	controller, _ := newTestController(newFakeRepairRepo())

	_, err := controller.Submit(context.Background(), roleScope(models.RoleOwner, &yachtID), &SubmitRepairRequest{
		CustomerName: &customer,
		Title:        "Prop damage",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	request, err := controller.Submit(context.Background(), roleScope(models.RoleStaff, nil), &SubmitRepairRequest{
		CustomerName: &customer,
		Title:        "Prop damage",
	})
	require.NoError(t, err)
	assert.Nil(t, request.YachtID)
}

func TestApprove(t *testing.T) {
	yachtID := uuid.New()
	request := pendingRequest(&yachtID)
	repo := newFakeRepairRepo(request)
	controller, notifications := newTestController(repo)

	mechanicID := uuid.New()
	result, err := controller.Approve(context.Background(), roleScope(models.RoleStaff, nil), request.ID, &ResolveRepairRequest{
		MechanicID: &mechanicID,
	})

	require.NoError(t, err)
	assert.Equal(t, models.RepairStatusApproved, result.Status)
	assert.Equal(t, &mechanicID, result.MechanicID)

	// Submitter gets notified of the status change
	require.Len(t, notifications.created, 1)
	require.NotNil(t, notifications.created[0].RecipientID)
	assert.Equal(t, request.SubmittedByID, *notifications.created[0].RecipientID)
}

func TestApprove_RequiresResolverRole(t *testing.T) {
	yachtID := uuid.New()
	request := pendingRequest(&yachtID)
	controller, _ := newTestController(newFakeRepairRepo(request))

	testCases := []models.Role{models.RoleOwner, models.RoleManager}
	for _, role := range testCases {
		t.Run(string(role), func(t *testing.T) {
			_, err := controller.Approve(context.Background(), roleScope(role, &yachtID), request.ID, nil)
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestReject_SetsResolvedAt(t *testing.T) {
	yachtID := uuid.New()
	request := pendingRequest(&yachtID)
	repo := newFakeRepairRepo(request)
	controller, _ := newTestController(repo)

	note := "duplicate request"
	result, err := controller.Reject(context.Background(), roleScope(models.RoleMaster, nil), request.ID, &ResolveRepairRequest{
		ResolutionNote: &note,
	})

	require.NoError(t, err)
	assert.Equal(t, models.RepairStatusRejected, result.Status)
	assert.NotNil(t, result.ResolvedAt)
	assert.Equal(t, &note, result.ResolutionNote)
}

func TestTransition_Lifecycle(t *testing.T) {
	yachtID := uuid.New()

	testCases := []struct {
		name    string
		from    models.RepairStatus
		call    func(c *RepairController, id uuid.UUID) error
		wantErr error
	}{
		{
			name: "approve rejected request",
			from: models.RepairStatusRejected,
			call: func(c *RepairController, id uuid.UUID) error {
				_, err := c.Approve(context.Background(), roleScope(models.RoleMaster, nil), id, nil)
				return err
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name: "reject completed request",
			from: models.RepairStatusCompleted,
			call: func(c *RepairController, id uuid.UUID) error {
				_, err := c.Reject(context.Background(), roleScope(models.RoleMaster, nil), id, nil)
				return err
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name: "approve pending request",
			from: models.RepairStatusPending,
			call: func(c *RepairController, id uuid.UUID) error {
				_, err := c.Approve(context.Background(), roleScope(models.RoleMaster, nil), id, nil)
				return err
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			request := pendingRequest(&yachtID)
			request.Status = tc.from
			controller, _ := newTestController(newFakeRepairRepo(request))

			err := tc.call(controller, request.ID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComplete_Validation(t *testing.T) {
	yachtID := uuid.New()

	t.Run("requires amount", func(t *testing.T) {
		request := pendingRequest(&yachtID)
		request.Status = models.RepairStatusApproved
		controller, _ := newTestController(newFakeRepairRepo(request))

		_, err := controller.Complete(context.Background(), roleScope(models.RoleMechanic, nil), request.ID, &CompleteRepairRequest{})
		assert.ErrorIs(t, err, ErrMissingAmount)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		request := pendingRequest(&yachtID)
		request.Status = models.RepairStatusApproved
		controller, _ := newTestController(newFakeRepairRepo(request))

		_, err := controller.Complete(context.Background(), roleScope(models.RoleMechanic, nil), request.ID, &CompleteRepairRequest{
			Amount: decimal.NewFromInt(-50),
		})
		assert.ErrorIs(t, err, ErrMissingAmount)
	})

	t.Run("pending request cannot complete", func(t *testing.T) {
		request := pendingRequest(&yachtID)
		controller, _ := newTestController(newFakeRepairRepo(request))

		_, err := controller.Complete(context.Background(), roleScope(models.RoleMechanic, nil), request.ID, &CompleteRepairRequest{
			Amount: decimal.NewFromInt(250),
		})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("owner cannot complete", func(t *testing.T) {
		request := pendingRequest(&yachtID)
		request.Status = models.RepairStatusApproved
		controller, _ := newTestController(newFakeRepairRepo(request))

		_, err := controller.Complete(context.Background(), roleScope(models.RoleOwner, &yachtID), request.ID, &CompleteRepairRequest{
			Amount: decimal.NewFromInt(250),
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestUpdateEstimate(t *testing.T) {
	yachtID := uuid.New()

	t.Run("revises estimate on pending request", func(t *testing.T) {
		request := pendingRequest(&yachtID)
		controller, _ := newTestController(newFakeRepairRepo(request))

		updated, err := controller.UpdateEstimate(context.Background(), roleScope(models.RoleMechanic, nil), request.ID, decimal.NewFromInt(1200))
		assert.NoError(t, err)
		assert.True(t, updated.CostEstimate.Equal(decimal.NewFromInt(1200)))
	})

	t.Run("rejects negative estimate", func(t *testing.T) {
		request := pendingRequest(&yachtID)
		controller, _ := newTestController(newFakeRepairRepo(request))

		_, err := controller.UpdateEstimate(context.Background(), roleScope(models.RoleMechanic, nil), request.ID, decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, ErrMissingAmount)
	})

	t.Run("completed request is frozen", func(t *testing.T) {
		request := pendingRequest(&yachtID)
		request.Status = models.RepairStatusCompleted
		controller, _ := newTestController(newFakeRepairRepo(request))

		_, err := controller.UpdateEstimate(context.Background(), roleScope(models.RoleMechanic, nil), request.ID, decimal.NewFromInt(900))
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("owner cannot revise", func(t *testing.T) {
		request := pendingRequest(&yachtID)
		controller, _ := newTestController(newFakeRepairRepo(request))

		_, err := controller.UpdateEstimate(context.Background(), roleScope(models.RoleOwner, &yachtID), request.ID, decimal.NewFromInt(900))
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
