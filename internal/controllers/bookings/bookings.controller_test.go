package bookingController

import (
	"context"
	"testing"
	"time"

	"fleetdeck/internal/events"
	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*models.Booking
	updated  []uuid.UUID
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[uuid.UUID]*models.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) List(_ context.Context, _ scope.Scope) ([]repositories.BookingRow, error) {
	return nil, nil
}

func (f *fakeBookingRepo) ListRange(_ context.Context, _ scope.Scope, _, _ time.Time) ([]repositories.BookingRow, error) {
	return nil, nil
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) Update(_ context.Context, booking *models.Booking) error {
	f.bookings[booking.ID] = booking
	f.updated = append(f.updated, booking.ID)
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.bookings, id)
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
	channels []events.Channel
}

func (f *fakePublisher) PublishTableChanged(channel events.Channel, _ *uuid.UUID) error {
	f.channels = append(f.channels, channel)
	return nil
}

func newTestController(repo *fakeBookingRepo) (*BookingController, *fakePublisher) {
	publisher := &fakePublisher{}
	return &BookingController{
		bookingRepo:  repo,
		activityRepo: &fakeActivityRepo{},
		eventBus:     publisher,
		log:          logger.New("bookingControllerTest"),
	}, publisher
}

func ownerScope(userID uuid.UUID, yachtID uuid.UUID) scope.Scope {
	return scope.Resolve(scope.Session{
		UserID:        userID,
		ActualRole:    models.RoleOwner,
		ActualYachtID: &yachtID,
	})
}

func masterScope(userID uuid.UUID) scope.Scope {
	return scope.Resolve(scope.Session{
		UserID:     userID,
		ActualRole: models.RoleMaster,
	})
}

func testBooking(yachtID uuid.UUID, userID uuid.UUID, start, end time.Time) *models.Booking {
	booking := &models.Booking{
		YachtID: yachtID,
		UserID:  &userID,
		StartAt: start,
		EndAt:   end,
	}
	booking.ID = uuid.New()
	return booking
}

func TestCheckIn_WithinWindow(t *testing.T) {
	now := time.Now()
	userID := uuid.New()
	yachtID := uuid.New()
	booking := testBooking(yachtID, userID, now.Add(-time.Hour), now.Add(24*time.Hour))

	repo := newFakeBookingRepo(booking)
	controller, publisher := newTestController(repo)

	result, err := controller.CheckIn(context.Background(), ownerScope(userID, yachtID), booking.ID, now)

	require.NoError(t, err)
	assert.True(t, result.CheckedIn)
	assert.True(t, repo.bookings[booking.ID].CheckedIn)
	assert.Contains(t, publisher.channels, events.BookingsChannel)
}

func TestCheckIn_OutsideWindow(t *testing.T) {
	now := time.Now()
	userID := uuid.New()
	yachtID := uuid.New()

	testCases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"before window", now.Add(time.Hour), now.Add(48 * time.Hour)},
		{"after window", now.Add(-48 * time.Hour), now.Add(-time.Hour)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			booking := testBooking(yachtID, userID, tc.start, tc.end)
			repo := newFakeBookingRepo(booking)
			controller, publisher := newTestController(repo)

			_, err := controller.CheckIn(context.Background(), ownerScope(userID, yachtID), booking.ID, now)

			assert.ErrorIs(t, err, ErrOutsideWindow)
			assert.False(t, repo.bookings[booking.ID].CheckedIn)
			assert.Empty(t, publisher.channels)
		})
	}
}

func TestCheckIn_AlreadyCheckedIn(t *testing.T) {
	now := time.Now()
	userID := uuid.New()
	yachtID := uuid.New()
	booking := testBooking(yachtID, userID, now.Add(-time.Hour), now.Add(time.Hour))
	booking.CheckedIn = true

	controller, _ := newTestController(newFakeBookingRepo(booking))

	_, err := controller.CheckIn(context.Background(), ownerScope(userID, yachtID), booking.ID, now)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestCheckOut_RequiresCheckIn(t *testing.T) {
	now := time.Now()
	userID := uuid.New()
	yachtID := uuid.New()
	booking := testBooking(yachtID, userID, now.Add(-time.Hour), now.Add(time.Hour))

	controller, _ := newTestController(newFakeBookingRepo(booking))

	_, err := controller.CheckOut(context.Background(), ownerScope(userID, yachtID), booking.ID)
	assert.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestCheckOut(t *testing.T) {
	now := time.Now()
	userID := uuid.New()
	yachtID := uuid.New()
	booking := testBooking(yachtID, userID, now.Add(-time.Hour), now.Add(time.Hour))
	booking.CheckedIn = true

	repo := newFakeBookingRepo(booking)
	controller, _ := newTestController(repo)

	result, err := controller.CheckOut(context.Background(), ownerScope(userID, yachtID), booking.ID)

	require.NoError(t, err)
	assert.True(t, result.CheckedOut)
}

func TestCreate_OwnerLimitedToOwnYacht(t *testing.T) {
	userID := uuid.New()
	yachtID := uuid.New()
	otherYacht := uuid.New()

	controller, _ := newTestController(newFakeBookingRepo())

	_, err := controller.Create(context.Background(), ownerScope(userID, yachtID), &CreateBookingRequest{
		YachtID: otherYacht,
		StartAt: time.Now(),
		EndAt:   time.Now().Add(24 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreate_FleetRoleAnyYacht(t *testing.T) {
	userID := uuid.New()
	yachtID := uuid.New()

	repo := newFakeBookingRepo()
	controller, publisher := newTestController(repo)

	booking, err := controller.Create(context.Background(), masterScope(userID), &CreateBookingRequest{
		YachtID: yachtID,
		StartAt: time.Now(),
		EndAt:   time.Now().Add(24 * time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, yachtID, booking.YachtID)
	assert.Len(t, repo.bookings, 1)
	assert.Contains(t, publisher.channels, events.BookingsChannel)
}

func TestUpdate_OwnerCannotTouchOthersBooking(t *testing.T) {
	now := time.Now()
	ownerID := uuid.New()
	otherOwnerID := uuid.New()
	yachtID := uuid.New()
	booking := testBooking(yachtID, otherOwnerID, now, now.Add(24*time.Hour))

	controller, _ := newTestController(newFakeBookingRepo(booking))

	notes := "changed"
	_, err := controller.Update(context.Background(), ownerScope(ownerID, yachtID), booking.ID, &UpdateBookingRequest{
		Notes: &notes,
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDelete_YachtImpersonationNarrowsMaster(t *testing.T) {
	now := time.Now()
	masterID := uuid.New()
	yachtID := uuid.New()
	otherYacht := uuid.New()
	booking := testBooking(yachtID, uuid.New(), now, now.Add(24*time.Hour))

	controller, _ := newTestController(newFakeBookingRepo(booking))

	// Master pinned to another yacht must not reach this booking
	sc := scope.Resolve(scope.Session{
		UserID:              masterID,
		ActualRole:          models.RoleMaster,
		ImpersonatedYachtID: &otherYacht,
	})

	err := controller.Delete(context.Background(), sc, booking.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
