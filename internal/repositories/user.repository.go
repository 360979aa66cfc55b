package repositories

import (
	"context"
	"time"

	"fleetdeck/internal/database"
	. "fleetdeck/internal/models"
	"fleetdeck/internal/scope"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

const (
	USER_CACHE_EXPIRY  = 24 * time.Hour
	USER_CACHE_PREFIX  = "user:"
	EMAIL_CACHE_PREFIX = "email:"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, sc scope.Scope) ([]User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if found := r.getCacheByID(ctx, id, &user); found {
		return &user, nil
	}

	if err := r.db.SQLWithContext(ctx).Preload("Yacht").First(&user, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get user by id", err, "id", id)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	log := r.log.Function("GetByEmail")

	var user User
	if err := r.db.SQLWithContext(ctx).Preload("Yacht").First(&user, "email = ?", email).Error; err != nil {
		return nil, log.Err("failed to get user by email", err, "email", email)
	}

	return &user, nil
}

// List returns users visible to the scope: fleet-wide scopes see everyone,
// yacht-scoped sessions see their own yacht's users.
func (r *userRepository) List(ctx context.Context, sc scope.Scope) ([]User, error) {
	log := r.log.Function("List")

	var users []User
	tx := sc.ApplyYacht(r.db.SQLWithContext(ctx), "yacht_id")
	if err := tx.Preload("Yacht").Order("full_name").Find(&users).Error; err != nil {
		return nil, log.Err("failed to list users", err)
	}

	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	if err := r.clearUserCache(ctx, user.ID); err != nil {
		log.Warn("failed to clear user cache after update", "userID", user.ID, "error", err)
	}

	return nil
}

// Deactivate soft-disables the account; the row is kept for history.
func (r *userRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.setActive(ctx, id, false)
}

func (r *userRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return r.setActive(ctx, id, true)
}

func (r *userRepository) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	log := r.log.Function("setActive")

	if err := r.db.SQLWithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("is_active", active).Error; err != nil {
		return log.Err("failed to update user active flag", err, "userID", id, "active", active)
	}

	if err := r.clearUserCache(ctx, id); err != nil {
		log.Warn("failed to clear user cache", "userID", id, "error", err)
	}

	return nil
}

func (r *userRepository) getCacheByID(ctx context.Context, userID uuid.UUID, user *User) bool {
	cacheKey := USER_CACHE_PREFIX + userID.String()
	found, err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).WithContext(ctx).Get(user)
	if err != nil {
		r.log.Function("getCacheByID").
			Warn("failed to get user from cache", "userID", userID, "error", err)
		return false
	}

	return found
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) error {
	cacheKey := USER_CACHE_PREFIX + user.ID.String()
	if err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("addUserToCache").
			Err("failed to add user to cache", err, "userID", user.ID)
	}
	return nil
}

func (r *userRepository) clearUserCache(ctx context.Context, userID uuid.UUID) error {
	cacheKey := USER_CACHE_PREFIX + userID.String()
	return database.NewCacheBuilder(r.db.Cache.User, cacheKey).WithContext(ctx).Delete()
}
