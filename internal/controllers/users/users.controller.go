package userController

import (
	"context"
	"errors"
	"strings"

	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/scope"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

var (
	ErrForbidden      = errors.New("user administration requires fleet manager access")
	ErrInvalidRequest = errors.New("invalid user request")
)

type UserControllerInterface interface {
	List(ctx context.Context, sc scope.Scope) ([]models.UserProfile, error)
	Create(ctx context.Context, sc scope.Scope, req *models.CreateUserRequest) (*models.UserProfile, error)
	Update(ctx context.Context, sc scope.Scope, id uuid.UUID, req *UpdateUserRequest) (*models.UserProfile, error)
	Deactivate(ctx context.Context, sc scope.Scope, id uuid.UUID) error
	Restore(ctx context.Context, sc scope.Scope, id uuid.UUID) error
}

type UserController struct {
	userRepo repositories.UserRepository
	log      logger.Logger
}

func New(repos repositories.Repository) UserControllerInterface {
	return &UserController{
		userRepo: repos.User,
		log:      logger.New("userController"),
	}
}

type UpdateUserRequest struct {
	FirstName *string          `json:"firstName,omitempty"`
	LastName  *string          `json:"lastName,omitempty"`
	Phone     *string          `json:"phone,omitempty"`
	Role      *models.Role     `json:"role,omitempty"`
	YachtID   *uuid.UUID       `json:"yachtId,omitempty"`
	Password  *string          `json:"password,omitempty"`
}

func (c *UserController) List(ctx context.Context, sc scope.Scope) ([]models.UserProfile, error) {
	users, err := c.userRepo.List(ctx, sc)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.UserProfile, len(users))
	for i := range users {
		profiles[i] = users[i].ToProfile()
	}
	return profiles, nil
}

func (c *UserController) Create(
	ctx context.Context,
	sc scope.Scope,
	req *models.CreateUserRequest,
) (*models.UserProfile, error) {
	log := c.log.Function("Create")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" || !req.Role.Valid() {
		return nil, ErrInvalidRequest
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
		YachtID:      req.YachtID,
		IsActive:     true,
	}

	if err := c.userRepo.Create(ctx, user); err != nil {
		return nil, log.Err("failed to create user", err, "email", email)
	}

	profile := user.ToProfile()
	return &profile, nil
}

func (c *UserController) Update(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
	req *UpdateUserRequest,
) (*models.UserProfile, error) {
	log := c.log.Function("Update")

	if !sc.CanManageFleet() {
		return nil, ErrForbidden
	}

	user, err := c.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, ErrInvalidRequest
		}
		user.Role = *req.Role
	}
	if req.YachtID != nil {
		user.YachtID = req.YachtID
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := services.HashPassword(*req.Password)
		if err != nil {
			return nil, log.Err("failed to hash password", err)
		}
		user.PasswordHash = hash
	}

	if err := c.userRepo.Update(ctx, user); err != nil {
		return nil, log.Err("failed to update user", err, "userID", id)
	}

	profile := user.ToProfile()
	return &profile, nil
}

// Deactivate suspends an account. The row is kept so historic bookings and
// repair requests keep their submitter.
func (c *UserController) Deactivate(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	if !sc.CanManageFleet() {
		return ErrForbidden
	}
	if id == sc.UserID {
		return ErrInvalidRequest
	}
	return c.userRepo.Deactivate(ctx, id)
}

func (c *UserController) Restore(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	if !sc.CanManageFleet() {
		return ErrForbidden
	}
	return c.userRepo.Restore(ctx, id)
}
