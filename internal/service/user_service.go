package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nudriin/antrian-rest-api/internal/apperr"
	"github.com/nudriin/antrian-rest-api/internal/models"
	"github.com/nudriin/antrian-rest-api/internal/repository"
	"github.com/nudriin/antrian-rest-api/internal/utils"
)

const tokenTTL = 48 * time.Hour

type UserService struct {
	users     repository.UserRepository
	jwtSecret string
	log       zerolog.Logger
}

func NewUserService(users repository.UserRepository, jwtSecret string, log zerolog.Logger) *UserService {
	return &UserService{users: users, jwtSecret: jwtSecret, log: log}
}

func validUserInput(email, name, password string) (string, string, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") || name == "" || len(password) < 6 {
		return "", "", apperr.BadRequest("invalid input")
	}
	return email, name, nil
}

// Register creates a self-service account. Self-registration always gets the
// USER role.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email, name, err := validUserInput(email, name, password)
	if err != nil {
		return nil, err
	}

	n, err := s.users.CountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if n != 0 {
		return nil, apperr.BadRequest("user is exist")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", email).Msg("register user")
	return s.users.Create(ctx, email, name, models.RoleUser, hash)
}

// Login verifies credentials and issues a signed token. Both the unknown
// email and the wrong password produce the same message.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, hash, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, "", err
	}
	if u == nil || !utils.CheckPassword(hash, password) {
		return nil, "", apperr.BadRequest("email or password is wrong")
	}

	token, err := utils.SignJWT(s.jwtSecret, u, tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// requireCaller re-validates the resolved identity against the store; a
// deleted user's still-valid token must not pass.
func (s *UserService) requireCaller(ctx context.Context, caller *models.User) error {
	if caller == nil {
		return apperr.Unauthorized("Unauthorized")
	}
	u, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.Unauthorized("Unauthorized")
	}
	return nil
}

func (s *UserService) FindAll(ctx context.Context, caller *models.User) ([]models.User, error) {
	if err := s.requireCaller(ctx, caller); err != nil {
		return nil, err
	}
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// AdminAdd creates an account with any role; super-admin only (enforced at
// the route).
func (s *UserService) AdminAdd(ctx context.Context, caller *models.User, email, password, name, role string) (*models.User, error) {
	if err := s.requireCaller(ctx, caller); err != nil {
		return nil, err
	}
	email, name, err := validUserInput(email, name, password)
	if err != nil {
		return nil, err
	}
	switch role {
	case models.RoleUser, models.RoleLocketAdmin, models.RoleSuperAdmin:
	default:
		return nil, apperr.BadRequest("invalid role")
	}

	n, err := s.users.CountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if n != 0 {
		return nil, apperr.BadRequest("user is exist")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", email).Str("role", role).Msg("admin add user")
	return s.users.Create(ctx, email, name, role, hash)
}

func (s *UserService) Remove(ctx context.Context, caller *models.User, userID int64) error {
	if err := s.requireCaller(ctx, caller); err != nil {
		return err
	}
	if userID < 1 {
		return apperr.BadRequest("user id must be a positive number")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.NotFound("user not found")
	}

	s.log.Info().Int64("user_id", userID).Msg("remove user")
	return s.users.Delete(ctx, userID)
}
