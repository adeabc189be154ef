package impl

import (
	"context"
	"log/slog"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userServiceMocks struct {
	txManager    *mockRepo.MockTransactionManager
	userRepo     *mockRepo.MockUserRepository
	txUserRepo   *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func newUserService(t *testing.T) (usecase.UserUsecase, *userServiceMocks) {
	t.Helper()

	m := &userServiceMocks{
		txManager:    mockRepo.NewMockTransactionManager(t),
		userRepo:     mockRepo.NewMockUserRepository(t),
		txUserRepo:   mockRepo.NewMockUserRepository(t),
		hasher:       mockSvc.NewMockPasswordHasher(t),
		tokenService: mockSvc.NewMockTokenService(t),
	}

	service := NewUserService(UserServiceParams{
		TxManager:    m.txManager,
		UserRepo:     m.userRepo,
		Hasher:       m.hasher,
		TokenService: m.tokenService,
		Logger:       slog.Default(),
	})

	return service, m
}

func expectUserTransaction(m *userServiceMocks, t *testing.T) {
	t.Helper()

	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().UserRepo().Return(m.txUserRepo).Maybe()

	m.txManager.EXPECT().
		Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})
}

func TestUserService_Register_Success(t *testing.T) {
	service, m := newUserService(t)
	ctx := context.Background()

	m.hasher.EXPECT().ValidatePasswordStrength("Sup3rSecret!").Return(nil)
	m.hasher.EXPECT().Hash("Sup3rSecret!").Return("hashed_password", nil)

	expectUserTransaction(m, t)

	m.txUserRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	m.txUserRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, repository.ErrUserNotFound)
	m.txUserRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		RunAndReturn(func(_ context.Context, user *entity.User) error {
			user.ID = uuid.New()

			return nil
		})

	output, err := service.Register(ctx, &usecase.RegisterUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3rSecret!",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "alice", output.User.Username)
	assert.Equal(t, "alice@example.com", output.User.Email)
	assert.Equal(t, "hashed_password", output.User.PasswordHash)
	assert.Equal(t, entity.RoleUser, output.User.Role)
	assert.NotEqual(t, uuid.Nil, output.User.ID)
}

func TestUserService_Register_EmailAlreadyRegistered(t *testing.T) {
	service, m := newUserService(t)
	ctx := context.Background()

	m.hasher.EXPECT().ValidatePasswordStrength("Sup3rSecret!").Return(nil)
	m.hasher.EXPECT().Hash("Sup3rSecret!").Return("hashed_password", nil)

	expectUserTransaction(m, t)

	existing := &entity.User{ID: uuid.New(), Email: "alice@example.com"}
	m.txUserRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(existing, nil)

	output, err := service.Register(ctx, &usecase.RegisterUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3rSecret!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyRegistered))
	m.txUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Register_UsernameTaken(t *testing.T) {
	service, m := newUserService(t)
	ctx := context.Background()

	m.hasher.EXPECT().ValidatePasswordStrength("Sup3rSecret!").Return(nil)
	m.hasher.EXPECT().Hash("Sup3rSecret!").Return("hashed_password", nil)

	expectUserTransaction(m, t)

	m.txUserRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	m.txUserRepo.EXPECT().FindByUsername(ctx, "alice").
		Return(&entity.User{ID: uuid.New(), Username: "alice"}, nil)

	output, err := service.Register(ctx, &usecase.RegisterUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3rSecret!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUsernameTaken))
}

func TestUserService_Register_WeakPassword(t *testing.T) {
	service, m := newUserService(t)
	ctx := context.Background()

	m.hasher.EXPECT().
		ValidatePasswordStrength("weak").
		Return(domainerrors.ErrPasswordStrength)

	output, err := service.Register(ctx, &usecase.RegisterUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "weak",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	m.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestUserService_Login_Success(t *testing.T) {
	service, m := newUserService(t)
	ctx := context.Background()

	user := &entity.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed_password",
		Role:         entity.RoleUser,
	}

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(user, nil)
	m.hasher.EXPECT().Check("Sup3rSecret!", "hashed_password").Return(true)
	m.tokenService.EXPECT().
		GenerateAccessToken(user.ID, "alice", entity.RoleUser).
		Return("access_token", nil)

	output, err := service.Login(ctx, &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "Sup3rSecret!",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "access_token", output.AccessToken)
	assert.Equal(t, user.ID, output.User.ID)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	service, m := newUserService(t)
	ctx := context.Background()

	user := &entity.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: "hashed_password"}

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(user, nil)
	m.hasher.EXPECT().Check("wrong", "hashed_password").Return(false)

	output, err := service.Login(ctx, &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	service, m := newUserService(t)
	ctx := context.Background()

	m.userRepo.EXPECT().
		FindByEmail(ctx, "nobody@example.com").
		Return(nil, repository.ErrUserNotFound)

	output, err := service.Login(ctx, &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "Sup3rSecret!",
	})

	// Unknown email and wrong password must be indistinguishable.
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}
