package services

import (
	"errors"
	"fmt"
	"time"

	"pasar/internal/access"
	"pasar/internal/apperr"
	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/rabbitmq"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Authentication failures. Signature mismatch and expiry are separate
// sentinels so logs can tell them apart, but they carry the same message:
// the API boundary must not reveal which check failed.
var (
	ErrTokenInvalid = apperr.New(apperr.Unauthenticated, "Invalid or expired token")
	ErrTokenExpired = apperr.New(apperr.Unauthenticated, "Invalid or expired token")

	ErrUserNotFound       = apperr.New(apperr.NotFound, "User not found")
	ErrInvalidCredentials = apperr.New(apperr.Validation, "Invalid credentials")
	ErrOldPasswordWrong   = apperr.New(apperr.Validation, "Old password is incorrect")
	ErrUsernameTaken      = apperr.New(apperr.Conflict, "Username already taken")
	ErrEmailTaken         = apperr.New(apperr.Conflict, "Email already registered")
)

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Username    string `json:"username" validate:"required,min=3,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"omitempty,max=32"`
	CompanyName string `json:"companyName" validate:"omitempty,max=200"` // vendor signups only
}

// StaffInput is the payload for staff account creation.
type StaffInput struct {
	Username         string `json:"username" validate:"required,min=3,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	AssignedVendorID string `json:"assignedVendorId" validate:"omitempty,uuid"`
}

// AuthService handles registration, login and session tokens.
type AuthService struct {
	users     repositories.UserRepository
	vendors   repositories.VendorRepository
	staff     repositories.StaffRepository
	events    EventPublisher
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewAuthService creates a new AuthService. The signing key is process-wide
// configuration; tokens are valid for one hour from issuance.
func NewAuthService(users repositories.UserRepository, vendors repositories.VendorRepository, staff repositories.StaffRepository, events EventPublisher, jwtSecret string, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		vendors:   vendors,
		staff:     staff,
		events:    events,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  time.Hour,
		log:       log.With().Str("service", "auth").Logger(),
	}
}

// Register creates a new account after the role policy admits the actor
// creating the target role. A nil actor is an anonymous signup. Vendor
// signups also get a vendor storefront record.
func (s *AuthService) Register(input RegisterInput, actor *access.Identity) (*models.User, error) {
	role := access.Role(input.Role)
	if input.Role == "" {
		role = access.RoleBuyer
	}

	superAdminExists := false
	if role == access.RoleSuperAdmin {
		count, err := s.users.CountByRole(string(access.RoleSuperAdmin))
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Server error", err)
		}
		superAdminExists = count > 0
	}

	if err := access.CanCreate(actor, role, superAdminExists); err != nil {
		return nil, err
	}

	// Fast-path uniqueness checks; the unique indexes are authoritative.
	if existing, err := s.users.GetByUsername(input.Username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, err := s.users.GetByEmail(input.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Server error", fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
		Role:     string(role),
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken.WithCause(err)
		}
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}

	if role == access.RoleVendor {
		companyName := input.CompanyName
		if companyName == "" {
			companyName = input.Username
		}
		vendor := &models.Vendor{CompanyName: companyName, UserID: user.ID}
		if err := s.vendors.Create(vendor); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to create vendor record")
		}
	}

	s.publish(rabbitmq.EventUserRegistered, map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, nil
}

// CreateStaff creates a staff account plus its vendor assignment. The route
// is admin-only; the role policy is still consulted with the acting
// identity so the rule lives in one place.
func (s *AuthService) CreateStaff(input StaffInput, actor *access.Identity) (*models.User, error) {
	user, err := s.Register(RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     string(access.RoleStaff),
	}, actor)
	if err != nil {
		return nil, err
	}

	assignment := &models.StaffAssignment{UserID: user.ID, AssignedVendorID: input.AssignedVendorID}
	if err := s.staff.Create(assignment); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to create staff assignment")
	}
	return user, nil
}

// Login verifies the credentials and issues a session token. An unknown
// email and a wrong password are distinguishable outcomes.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}

	// bcrypt compares in constant time.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken produces a signed token embedding the identity id, its role
// and an absolute expiry exactly one hour from issuance.
func (s *AuthService) IssueToken(userID, role string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "Server error", fmt.Errorf("failed to sign token: %w", err))
	}
	return signed, nil
}

// ValidateToken checks the signature and expiry and returns the embedded
// identity. Expiry and signature mismatch return distinct sentinels with an
// identical caller-facing message.
func (s *AuthService) ValidateToken(tokenString string) (*access.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			s.log.Debug().Err(err).Msg("token expired")
			return nil, ErrTokenExpired
		}
		s.log.Debug().Err(err).Msg("token invalid")
		return nil, ErrTokenInvalid.WithCause(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return nil, ErrTokenInvalid
	}

	return &access.Identity{ID: userID, Role: access.Role(role)}, nil
}

// ChangePassword rotates the password of the session identity after
// verifying the old one. The account is always the caller's own; a
// request-body email is deliberately not accepted here.
func (s *AuthService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return apperr.Wrap(apperr.Internal, "Server error", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Server error", fmt.Errorf("failed to hash password: %w", err))
	}
	user.Password = string(hashed)

	if err := s.users.Update(user); err != nil {
		return apperr.Wrap(apperr.Internal, "Server error", err)
	}
	return nil
}

func (s *AuthService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(event, payload); err != nil {
		s.log.Warn().Err(err).Str("event", event).Msg("failed to publish event")
	}
}
