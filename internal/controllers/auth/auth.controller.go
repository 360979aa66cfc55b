package authController

import (
	"context"
	"errors"
	"time"

	"fleetdeck/internal/models"
	"fleetdeck/internal/repositories"
	"fleetdeck/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthControllerInterface interface {
	Login(ctx context.Context, req models.LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

type AuthController struct {
	userRepo repositories.UserRepository
	sessions *services.SessionService
	log      logger.Logger
}

func New(
	sessions *services.SessionService,
	repos repositories.Repository,
) AuthControllerInterface {
	return &AuthController{
		userRepo: repos.User,
		sessions: sessions,
		log:      logger.New("authController"),
	}
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

func (c *AuthController) Login(
	ctx context.Context,
	req models.LoginRequest,
) (*LoginResponse, error) {
	log := c.log.Function("Login")

	user, err := c.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Info("login attempt for unknown email", "email", req.Email)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Info("login attempt for deactivated account", "userID", user.ID)
		return nil, ErrInvalidCredentials
	}

	if !services.CheckPassword(user.PasswordHash, req.Password) {
		log.Info("login attempt with wrong password", "userID", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := c.sessions.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, log.Err("failed to issue session token", err, "userID", user.ID)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := c.userRepo.Update(ctx, user); err != nil {
		// Login still succeeds; the timestamp is informational
		log.Er("failed to record last login", err, "userID", user.ID)
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToProfile(),
	}, nil
}

func (c *AuthController) Logout(ctx context.Context, sessionID string) error {
	log := c.log.Function("Logout")

	if sessionID == "" {
		return log.ErrMsg("missing session id")
	}

	return c.sessions.RevokeSession(ctx, sessionID)
}
