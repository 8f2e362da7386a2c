package services

import (
	"errors"
	"fmt"

	"pasar/internal/access"
	"pasar/internal/apperr"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNoUsers          = apperr.New(apperr.NotFound, "No users found")
	ErrNoUsersWithRole  = apperr.New(apperr.NotFound, "No users found with this role")
	ErrRoleRequired     = apperr.New(apperr.Validation, "Role is required in the query parameter")
	ErrRoleChangeDenied = apperr.New(apperr.Forbidden, "Only an admin may change a user's role")
)

// UpdateUserInput is the payload for user updates. All fields are optional;
// empty fields are left unchanged.
type UpdateUserInput struct {
	Username string `json:"username" validate:"omitempty,min=3,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"omitempty,max=32"`
}

// UserService handles user administration.
type UserService struct {
	users repositories.UserRepository
	log   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		log:   log.With().Str("service", "user").Logger(),
	}
}

// List retrieves all users.
func (s *UserService) List() ([]models.User, error) {
	users, err := s.users.GetAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}
	return users, nil
}

// ListByRole retrieves all users holding the given role.
func (s *UserService) ListByRole(role string) ([]models.User, error) {
	if role == "" {
		return nil, ErrRoleRequired
	}
	users, err := s.users.GetByRole(role)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	if len(users) == 0 {
		return nil, ErrNoUsersWithRole
	}
	return users, nil
}

// GetByID retrieves a single user by their ID.
func (s *UserService) GetByID(id string) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	return user, nil
}

// Update applies the non-empty fields of input to the user. Role changes
// are validated against the closed role set and restricted to admin actors;
// a new password is re-hashed before storage.
func (s *UserService) Update(id string, input UpdateUserInput, actor *access.Identity) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Role != "" && input.Role != user.Role {
		if !access.ValidRole(input.Role) {
			return nil, access.ErrUnknownRole
		}
		if actor == nil || (actor.Role != access.RoleAdmin && actor.Role != access.RoleSuperAdmin) {
			return nil, ErrRoleChangeDenied
		}
		user.Role = input.Role
	}
	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Server error", fmt.Errorf("failed to hash password: %w", err))
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken.WithCause(err)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	return user, nil
}

// Delete deletes a user by their ID. Admin-only at the route level.
func (s *UserService) Delete(id string) error {
	if err := s.users.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return apperr.Wrap(apperr.Internal, "Server error", err)
	}
	return nil
}
