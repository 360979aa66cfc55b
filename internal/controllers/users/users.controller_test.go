package userController

import (
	"context"
	"testing"

	"fleetdeck/internal/models"
	"fleetdeck/internal/scope"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(_ context.Context, _ scope.Scope) ([]models.User, error) {
	users := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.IsActive = false
	return nil
}

func (f *fakeUserRepo) Restore(_ context.Context, id uuid.UUID) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.IsActive = true
	return nil
}

func newTestController(repo *fakeUserRepo) *UserController {
	return &UserController{
		userRepo: repo,
		log:      logger.New("userController"),
	}
}

func managerScope(role models.Role) scope.Scope {
	return scope.Resolve(scope.Session{
		UserID:     uuid.New(),
		ActualRole: role,
	})
}

func TestCreate_NormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	controller := newTestController(repo)

	profile, err := controller.Create(context.Background(), managerScope(models.RoleMaster), &models.CreateUserRequest{
		FirstName: "Owen",
		LastName:  "Caldwell",
		Email:     "  Owen.Caldwell@Example.COM ",
		Password:  "secret123",
		Role:      models.RoleOwner,
	})
	require.NoError(t, err)
	assert.Equal(t, "owen.caldwell@example.com", profile.Email)

	stored, err := repo.GetByEmail(context.Background(), "owen.caldwell@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.True(t, services.CheckPassword(stored.PasswordHash, "secret123"))
}

func TestCreate_RequiresFleetManager(t *testing.T) {
	controller := newTestController(newFakeUserRepo())

	for _, role := range []models.Role{models.RoleOwner, models.RoleManager, models.RoleMechanic} {
		_, err := controller.Create(context.Background(), managerScope(role), &models.CreateUserRequest{
			Email:    "new@example.com",
			Password: "secret123",
			Role:     models.RoleOwner,
		})
		assert.ErrorIs(t, err, ErrForbidden, "role %s should not manage users", role)
	}
}

func TestCreate_RejectsInvalidRole(t *testing.T) {
	controller := newTestController(newFakeUserRepo())

	_, err := controller.Create(context.Background(), managerScope(models.RoleStaff), &models.CreateUserRequest{
		Email:    "new@example.com",
		Password: "secret123",
		Role:     models.Role("captain"),
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestUpdate_ChangesRoleAndYacht(t *testing.T) {
	user := &models.User{
		FirstName: "Owen",
		LastName:  "Caldwell",
		Email:     "owner@example.com",
		Role:      models.RoleOwner,
		IsActive:  true,
	}
	user.ID = uuid.New()
	repo := newFakeUserRepo(user)
	controller := newTestController(repo)

	newRole := models.RoleManager
	yachtID := uuid.New()
	profile, err := controller.Update(context.Background(), managerScope(models.RoleMaster), user.ID, &UpdateUserRequest{
		Role:    &newRole,
		YachtID: &yachtID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, profile.Role)
	require.NotNil(t, profile.YachtID)
	assert.Equal(t, yachtID, *profile.YachtID)
}

func TestDeactivate_CannotDeactivateSelf(t *testing.T) {
	sc := managerScope(models.RoleMaster)
	user := &models.User{Email: "master@example.com", Role: models.RoleMaster, IsActive: true}
	user.ID = sc.UserID
	controller := newTestController(newFakeUserRepo(user))

	err := controller.Deactivate(context.Background(), sc, sc.UserID)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestDeactivateAndRestore(t *testing.T) {
	user := &models.User{Email: "owner@example.com", Role: models.RoleOwner, IsActive: true}
	user.ID = uuid.New()
	repo := newFakeUserRepo(user)
	controller := newTestController(repo)
	sc := managerScope(models.RoleStaff)

	require.NoError(t, controller.Deactivate(context.Background(), sc, user.ID))
	assert.False(t, repo.users[user.ID].IsActive)

	require.NoError(t, controller.Restore(context.Background(), sc, user.ID))
	assert.True(t, repo.users[user.ID].IsActive)
}
