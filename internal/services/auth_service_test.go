package services_test

import (
	"fmt"
	"testing"
	"time"

	"pasar/internal/access"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByRole(role string) ([]models.User, error) {
	args := m.Called(role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) CountByRole(role string) (int64, error) {
	args := m.Called(role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockVendorRepository is a mock implementation of repositories.VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) Create(vendor *models.Vendor) error {
	args := m.Called(vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) GetByUserID(userID string) (*models.Vendor, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

// MockStaffRepository is a mock implementation of repositories.StaffRepository
type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) Create(assignment *models.StaffAssignment) error {
	args := m.Called(assignment)
	return args.Error(0)
}

func newAuthService(users *MockUserRepository, vendors *MockVendorRepository, staff *MockStaffRepository) *services.AuthService {
	return services.NewAuthService(users, vendors, staff, nil, "test_jwt_secret", zerolog.Nop())
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s not found: %w", what, gorm.ErrRecordNotFound)
}

func TestAuthService_RegisterBuyer(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users, new(MockVendorRepository), new(MockStaffRepository))

	users.On("GetByUsername", "buyer1").Return(nil, notFoundErr("user")).Once()
	users.On("GetByEmail", "buyer1@example.com").Return(nil, notFoundErr("user")).Once()
	users.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := svc.Register(services.RegisterInput{
		Username: "buyer1",
		Email:    "buyer1@example.com",
		Password: "password123",
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, string(access.RoleBuyer), user.Role, "empty role defaults to buyer")
	assert.NotEqual(t, "password123", user.Password, "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	users.AssertExpectations(t)
}

func TestAuthService_RegisterVendorCreatesStorefront(t *testing.T) {
	users := new(MockUserRepository)
	vendors := new(MockVendorRepository)
	svc := newAuthService(users, vendors, new(MockStaffRepository))

	users.On("GetByUsername", "vendor1").Return(nil, notFoundErr("user")).Once()
	users.On("GetByEmail", "vendor1@example.com").Return(nil, notFoundErr("user")).Once()
	users.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	vendors.On("Create", mock.MatchedBy(func(v *models.Vendor) bool {
		return v.CompanyName == "Acme Pte Ltd"
	})).Return(nil).Once()

	user, err := svc.Register(services.RegisterInput{
		Username:    "vendor1",
		Email:       "vendor1@example.com",
		Password:    "password123",
		Role:        "vendor",
		CompanyName: "Acme Pte Ltd",
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, string(access.RoleVendor), user.Role)
	users.AssertExpectations(t)
	vendors.AssertExpectations(t)
}

func TestAuthService_RegisterUnknownRole(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users, new(MockVendorRepository), new(MockStaffRepository))

	// Rejected before any persistence attempt: no repository calls expected.
	_, err := svc.Register(services.RegisterInput{
		Username: "user1",
		Email:    "user1@example.com",
		Password: "password123",
		Role:     "root",
	}, nil)

	assert.ErrorIs(t, err, access.ErrUnknownRole)
	users.AssertExpectations(t)
}

func TestAuthService_RegisterSuperAdminSingleton(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users, new(MockVendorRepository), new(MockStaffRepository))

	// First super-admin bootstraps fine.
	users.On("CountByRole", "super-admin").Return(int64(0), nil).Once()
	users.On("GetByUsername", "root1").Return(nil, notFoundErr("user")).Once()
	users.On("GetByEmail", "root1@example.com").Return(nil, notFoundErr("user")).Once()
	users.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	_, err := svc.Register(services.RegisterInput{
		Username: "root1",
		Email:    "root1@example.com",
		Password: "password123",
		Role:     "super-admin",
	}, nil)
	assert.NoError(t, err)

	// Any later attempt is rejected regardless of actor.
	users.On("CountByRole", "super-admin").Return(int64(1), nil).Once()
	_, err = svc.Register(services.RegisterInput{
		Username: "root2",
		Email:    "root2@example.com",
		Password: "password123",
		Role:     "super-admin",
	}, &access.Identity{ID: "a1", Role: access.RoleSuperAdmin})
	assert.ErrorIs(t, err, access.ErrSuperAdminExists)
	users.AssertExpectations(t)
}

func TestAuthService_RegisterStaffPolicy(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users, new(MockVendorRepository), new(MockStaffRepository))

	// A buyer may not create staff.
	_, err := svc.Register(services.RegisterInput{
		Username: "staff1",
		Email:    "staff1@example.com",
		Password: "password123",
		Role:     "staff",
	}, &access.Identity{ID: "u1", Role: access.RoleBuyer})
	assert.ErrorIs(t, err, access.ErrInsufficientPrivilege)

	// An admin may.
	users.On("GetByUsername", "staff1").Return(nil, notFoundErr("user")).Once()
	users.On("GetByEmail", "staff1@example.com").Return(nil, notFoundErr("user")).Once()
	users.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := svc.Register(services.RegisterInput{
		Username: "staff1",
		Email:    "staff1@example.com",
		Password: "password123",
		Role:     "staff",
	}, &access.Identity{ID: "a1", Role: access.RoleAdmin})
	assert.NoError(t, err)
	assert.Equal(t, string(access.RoleStaff), user.Role)
	users.AssertExpectations(t)
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users, new(MockVendorRepository), new(MockStaffRepository))

	input := services.RegisterInput{
		Username: "dupe",
		Email:    "dupe@example.com",
		Password: "password123",
	}

	users.On("GetByUsername", "dupe").Return(&models.User{ID: "u1"}, nil).Once()
	_, err := svc.Register(input, nil)
	assert.ErrorIs(t, err, services.ErrUsernameTaken)

	users.On("GetByUsername", "dupe").Return(nil, notFoundErr("user")).Once()
	users.On("GetByEmail", "dupe@example.com").Return(&models.User{ID: "u1"}, nil).Once()
	_, err = svc.Register(input, nil)
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	// The unique index remains authoritative when the fast path misses.
	users.On("GetByUsername", "dupe").Return(nil, notFoundErr("user")).Once()
	users.On("GetByEmail", "dupe@example.com").Return(nil, notFoundErr("user")).Once()
	users.On("Create", mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("failed to create user: %w", gorm.ErrDuplicatedKey)).Once()
	_, err = svc.Register(input, nil)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	users.AssertExpectations(t)
}

func TestAuthService_CreateStaff(t *testing.T) {
	users := new(MockUserRepository)
	staff := new(MockStaffRepository)
	svc := newAuthService(users, new(MockVendorRepository), staff)

	users.On("GetByUsername", "staff2").Return(nil, notFoundErr("user")).Once()
	users.On("GetByEmail", "staff2@example.com").Return(nil, notFoundErr("user")).Once()
	users.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	staff.On("Create", mock.AnythingOfType("*models.StaffAssignment")).Return(nil).Once()

	user, err := svc.CreateStaff(services.StaffInput{
		Username: "staff2",
		Email:    "staff2@example.com",
		Password: "password123",
	}, &access.Identity{ID: "a1", Role: access.RoleAdmin})

	assert.NoError(t, err)
	assert.Equal(t, string(access.RoleStaff), user.Role)
	users.AssertExpectations(t)
	staff.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users, new(MockVendorRepository), new(MockStaffRepository))

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashed),
		Role:     "vendor",
	}

	// Unknown email is a distinguishable not-found outcome.
	users.On("GetByEmail", "missing@example.com").Return(nil, notFoundErr("user")).Once()
	_, _, err := svc.Login("missing@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	// Wrong password is a bad-credential outcome.
	users.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, err = svc.Login(user.Email, "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Success issues a token carrying the id and role.
	users.On("GetByEmail", user.Email).Return(user, nil).Once()
	token, loggedIn, err := svc.Login(user.Email, "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	ident, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, ident.ID)
	assert.Equal(t, access.RoleVendor, ident.Role)
	users.AssertExpectations(t)
}

func TestAuthService_TokenRoundTripAndExpiry(t *testing.T) {
	svc := newAuthService(new(MockUserRepository), new(MockVendorRepository), new(MockStaffRepository))

	issuedAt := time.Now()
	token, err := svc.IssueToken("user-123", "admin")
	assert.NoError(t, err)

	defer func() { jwt.TimeFunc = time.Now }()

	// Just inside the 1-hour lifetime.
	jwt.TimeFunc = func() time.Time { return issuedAt.Add(3599 * time.Second) }
	ident, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", ident.ID)
	assert.Equal(t, access.RoleAdmin, ident.Role)

	// Just past it.
	jwt.TimeFunc = func() time.Time { return issuedAt.Add(3601 * time.Second) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, services.ErrTokenExpired)
}

func TestAuthService_ValidateTokenRejectsTampering(t *testing.T) {
	svc := newAuthService(new(MockUserRepository), new(MockVendorRepository), new(MockStaffRepository))

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, services.ErrTokenInvalid)

	// Token signed with a different secret.
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	forged, _ := other.SignedString([]byte("other_secret"))
	_, err = svc.ValidateToken(forged)
	assert.ErrorIs(t, err, services.ErrTokenInvalid)
}

func TestAuthService_ChangePassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthService(users, new(MockVendorRepository), new(MockStaffRepository))

	hashed, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-123", Password: string(hashed)}

	// Wrong old password.
	users.On("GetByID", "user-123").Return(user, nil).Once()
	err := svc.ChangePassword("user-123", "nope", "newpassword")
	assert.ErrorIs(t, err, services.ErrOldPasswordWrong)

	// Success re-hashes and stores.
	users.On("GetByID", "user-123").Return(user, nil).Once()
	users.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("newpassword")) == nil
	})).Return(nil).Once()
	err = svc.ChangePassword("user-123", "oldpassword", "newpassword")
	assert.NoError(t, err)

	// Unknown account.
	users.On("GetByID", "ghost").Return(nil, notFoundErr("user")).Once()
	err = svc.ChangePassword("ghost", "oldpassword", "newpassword")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	users.AssertExpectations(t)
}
