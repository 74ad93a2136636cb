package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/rs/zerolog"
)

var ErrUserNotFound = errors.New("user not found")

// UserService handles admin-side user management.
type UserService struct {
	repo *repository.UserRepository
	auth *AuthService
	log  zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.UserRepository, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		repo: repo,
		auth: auth,
		log:  log.With().Str("component", "user_service").Logger(),
	}
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns users with pagination and optional role filter.
func (s *UserService) List(ctx context.Context, role *model.Role, page, perPage int) ([]model.User, int, error) {
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}

	users, total, err := s.repo.ListPaginated(ctx, role, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, total, nil
}

// Create adds a user with any role.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Update modifies a user, optionally rotating the password.
func (s *UserService) Update(ctx context.Context, id int, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	user.Role = req.Role

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// Delete removes a user and their session.
func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.auth.Logout(ctx, id); err != nil {
		s.log.Warn().Err(err).Int("user_id", id).Msg("Failed to clear session for deleted user")
	}
	return nil
}
