package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/identity"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/auth"
	"github.com/invoicing/backend/internal/infrastructure/cache"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// Verify interface compliance
var _ identity.UserRepository = (*MockUserRepository)(nil)

// MockVerificationStore is a mock implementation of VerificationStore
type MockVerificationStore struct {
	mock.Mock
}

func (m *MockVerificationStore) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockVerificationStore) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// Verify interface compliance
var _ VerificationStore = (*MockVerificationStore)(nil)

// =============================================================================
// Test Helper Functions
// =============================================================================

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key",
		Expiration: time.Hour,
		Issuer:     "invoicing-test",
	})
}

func newTestAuthService(userRepo identity.UserRepository, tokens VerificationStore) *AuthService {
	return NewAuthService(userRepo, newTestJWTService(), tokens, DefaultAuthServiceConfig(), zap.NewNop())
}

func createVerifiedUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("owner@studio.test", "s3cret-pass", "Studio Owner")
	assert.NoError(t, err)
	assert.NoError(t, user.VerifyEmail())
	return user
}

// =============================================================================
// AuthService Tests
// =============================================================================

func TestAuthService_Register_Success(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTokens := new(MockVerificationStore)
	service := newTestAuthService(mockUsers, mockTokens)

	ctx := context.Background()
	req := &RegisterRequest{
		Email:    "owner@studio.test",
		Password: "s3cret-pass",
		Name:     "Studio Owner",
	}

	mockUsers.On("ExistsByEmail", ctx, "owner@studio.test").Return(false, nil)
	mockUsers.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
	mockTokens.On("Issue", ctx, mock.AnythingOfType("uuid.UUID")).Return("tok-abc123", nil)

	result, err := service.Register(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "owner@studio.test", result.User.Email)
	assert.Equal(t, "pending", result.User.Status)
	assert.Equal(t, "tok-abc123", result.VerificationToken)
	mockUsers.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTokens := new(MockVerificationStore)
	service := newTestAuthService(mockUsers, mockTokens)

	ctx := context.Background()
	mockUsers.On("ExistsByEmail", ctx, "owner@studio.test").Return(true, nil)

	result, err := service.Register(ctx, &RegisterRequest{
		Email:    "owner@studio.test",
		Password: "s3cret-pass",
		Name:     "Studio Owner",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockUsers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_VerifyEmail_ActivatesAccount(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTokens := new(MockVerificationStore)
	service := newTestAuthService(mockUsers, mockTokens)

	ctx := context.Background()
	user, _ := identity.NewUser("owner@studio.test", "s3cret-pass", "Studio Owner")

	mockTokens.On("Consume", ctx, "tok-abc123").Return(user.ID, nil)
	mockUsers.On("FindByID", ctx, user.ID).Return(user, nil)
	mockUsers.On("Save", ctx, user).Return(nil)

	result, err := service.VerifyEmail(ctx, "tok-abc123")

	assert.NoError(t, err)
	assert.Equal(t, "active", result.Status)
	assert.NotNil(t, result.EmailVerifiedAt)
}

func TestAuthService_VerifyEmail_UnknownToken(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTokens := new(MockVerificationStore)
	service := newTestAuthService(mockUsers, mockTokens)

	ctx := context.Background()
	mockTokens.On("Consume", ctx, "tok-expired").Return(uuid.Nil, cache.ErrTokenNotFound)

	result, err := service.VerifyEmail(ctx, "tok-expired")

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
}

func TestAuthService_Login_Success(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTokens := new(MockVerificationStore)
	service := newTestAuthService(mockUsers, mockTokens)

	ctx := context.Background()
	user := createVerifiedUser(t)

	mockUsers.On("FindByEmail", ctx, "owner@studio.test").Return(user, nil)
	mockUsers.On("Save", ctx, user).Return(nil)

	result, err := service.Login(ctx, &LoginRequest{
		Email:    "owner@studio.test",
		Password: "s3cret-pass",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.NotNil(t, result.User.LastLoginAt)

	// the issued token round-trips through validation
	claims, err := newTestJWTService().ValidateToken(result.Token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "owner@studio.test", claims.Email)
}

func TestAuthService_Login_Unverified(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTokens := new(MockVerificationStore)
	service := newTestAuthService(mockUsers, mockTokens)

	ctx := context.Background()
	user, _ := identity.NewUser("owner@studio.test", "s3cret-pass", "Studio Owner")

	mockUsers.On("FindByEmail", ctx, "owner@studio.test").Return(user, nil)

	result, err := service.Login(ctx, &LoginRequest{
		Email:    "owner@studio.test",
		Password: "s3cret-pass",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMAIL_NOT_VERIFIED", domainErr.Code)
}

func TestAuthService_Login_WrongPasswordThenLockout(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTokens := new(MockVerificationStore)
	service := newTestAuthService(mockUsers, mockTokens)

	ctx := context.Background()
	user := createVerifiedUser(t)

	mockUsers.On("FindByEmail", ctx, "owner@studio.test").Return(user, nil)
	mockUsers.On("Save", ctx, user).Return(nil)

	req := &LoginRequest{Email: "owner@studio.test", Password: "wrong-pass"}

	for i := 0; i < 4; i++ {
		_, err := service.Login(ctx, req)
		assert.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	}

	// fifth failure trips the lock
	_, err := service.Login(ctx, req)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	assert.True(t, user.IsLocked())

	// even the right password is rejected while locked
	_, err = service.Login(ctx, &LoginRequest{Email: "owner@studio.test", Password: "s3cret-pass"})
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockTokens := new(MockVerificationStore)
	service := newTestAuthService(mockUsers, mockTokens)

	ctx := context.Background()
	mockUsers.On("FindByEmail", ctx, "nobody@studio.test").Return(nil, shared.ErrNotFound)

	result, err := service.Login(ctx, &LoginRequest{
		Email:    "nobody@studio.test",
		Password: "whatever-pass",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	// same message as a bad password so the endpoint does not leak accounts
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

// =============================================================================
// ProfileService Tests
// =============================================================================

func TestProfileService_Update_PartialFields(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := NewProfileService(mockUsers)

	ctx := context.Background()
	user := createVerifiedUser(t)

	businessName := "Studio Pixel"
	currency := "USD"
	mockUsers.On("FindByID", ctx, user.ID).Return(user, nil)
	mockUsers.On("Save", ctx, user).Return(nil)

	result, err := service.Update(ctx, user.ID, &UpdateProfileRequest{
		BusinessName: &businessName,
		Currency:     &currency,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Studio Pixel", result.BusinessName)
	assert.Equal(t, "USD", result.Currency)
	assert.Equal(t, "Studio Owner", result.Name)
}

func TestProfileService_ChangePassword_WrongCurrent(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := NewProfileService(mockUsers)

	ctx := context.Background()
	user := createVerifiedUser(t)

	mockUsers.On("FindByID", ctx, user.ID).Return(user, nil)

	err := service.ChangePassword(ctx, user.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong-pass",
		NewPassword:     "brand-new-pass",
	})

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	mockUsers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProfileService_ChangePassword_Success(t *testing.T) {
	mockUsers := new(MockUserRepository)
	service := NewProfileService(mockUsers)

	ctx := context.Background()
	user := createVerifiedUser(t)

	mockUsers.On("FindByID", ctx, user.ID).Return(user, nil)
	mockUsers.On("Save", ctx, user).Return(nil)

	err := service.ChangePassword(ctx, user.ID, &ChangePasswordRequest{
		CurrentPassword: "s3cret-pass",
		NewPassword:     "brand-new-pass",
	})

	assert.NoError(t, err)
	assert.True(t, user.VerifyPassword("brand-new-pass"))
	assert.False(t, user.VerifyPassword("s3cret-pass"))
}
