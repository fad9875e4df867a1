package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type AuthValidatorMock struct{ mock.Mock }

func (m *AuthValidatorMock) ValidateRegister(ctx context.Context, username, email, password, password2 string) error {
	args := m.Called(ctx, username, email, password, password2)
	return args.Error(0)
}

func (m *AuthValidatorMock) ValidateLogin(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *AuthValidatorMock) ValidateRefresh(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func okValidator() *AuthValidatorMock {
	v := new(AuthValidatorMock)
	v.On("ValidateRegister", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	v.On("ValidateLogin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	v.On("ValidateRefresh", mock.Anything, mock.Anything).Return(nil)
	return v
}

func testCfg() config.Config {
	return config.Config{JWTSecret: "test-secret"}
}

// パスワードは平文で保存されない
func TestAuthUsecase_Register_StoresBcryptHash(t *testing.T) {
	ctx := context.Background()

	users := new(UserRepoMock)
	rtRepo := new(RefreshTokenRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users, rtRepo, okValidator())

	var saved *model.User
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*model.User)
		}).
		Return(nil)

	out, err := uc.Register(ctx, usecase.RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "password123",
		Password2: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "alice", out.Username)
	assert.Equal(t, "USER", out.Role)

	if assert.NotNil(t, saved) {
		assert.NotEqual(t, "password123", saved.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("password123")))
	}
}

func TestAuthUsecase_Register_Conflict(t *testing.T) {
	ctx := context.Background()

	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users, new(RefreshTokenRepoMock), okValidator())

	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(repo.ErrConflict)

	_, err := uc.Register(ctx, usecase.RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "password123",
		Password2: "password123",
	})
	assertErrContains(t, err, "already used")
}

// 事前チェックで重複を検知した場合も409
func TestAuthUsecase_Register_DuplicateEmail_Conflict(t *testing.T) {
	ctx := context.Background()

	users := new(UserRepoMock)
	v := new(AuthValidatorMock)
	v.On("ValidateRegister", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(usecase.ErrEmailAlreadyUsed)

	uc := usecase.NewAuthUsecase(testCfg(), users, new(RefreshTokenRepoMock), v)

	_, err := uc.Register(ctx, usecase.RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "password123",
		Password2: "password123",
	})

	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusConflict, he.Status)
		assert.Equal(t, "email already used", he.Message)
	}

	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	users := new(UserRepoMock)
	rtRepo := new(RefreshTokenRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users, rtRepo, okValidator())

	users.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
		ID: 1, Username: "alice", Email: "alice@example.com",
		PasswordHash: string(hash), Role: model.RoleUser,
	}, nil)

	//refresh tokenはhashだけが保存される
	rtRepo.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserID == 1 && rt.TokenHash != "" && rt.ExpiresAt.After(time.Now())
	})).Return(nil)

	out, err := uc.Login(ctx, "alice@example.com", "password123", "test-agent")
	assert.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, 86400, out.ExpiresIn)

	rtRepo.AssertExpectations(t)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	users := new(UserRepoMock)
	rtRepo := new(RefreshTokenRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users, rtRepo, okValidator())

	users.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
		ID: 1, PasswordHash: string(hash), Role: model.RoleUser,
	}, nil)

	_, err = uc.Login(ctx, "alice@example.com", "wrong-password", "test-agent")
	assertErrContains(t, err, "invalid credentials")

	//失敗時にrefresh tokenは作られない
	rtRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 使用済みrefresh tokenの再提示で全トークン破棄
func TestAuthUsecase_Refresh_ReuseDetection(t *testing.T) {
	ctx := context.Background()

	users := new(UserRepoMock)
	rtRepo := new(RefreshTokenRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users, rtRepo, okValidator())

	used := time.Now().Add(-time.Hour)
	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(&model.RefreshToken{
		ID:        "token-id",
		UserID:    1,
		UsedAt:    &used,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	rtRepo.On("DeleteAllByUserID", mock.Anything, int64(1)).Return(nil)

	_, err := uc.Refresh(ctx, "reused-token", "test-agent")
	assertErrContains(t, err, "invalid refresh token")

	rtRepo.AssertExpectations(t)
	rtRepo.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_Refresh_Expired(t *testing.T) {
	ctx := context.Background()

	users := new(UserRepoMock)
	rtRepo := new(RefreshTokenRepoMock)
	uc := usecase.NewAuthUsecase(testCfg(), users, rtRepo, okValidator())

	rtRepo.On("FindByTokenHash", mock.Anything, mock.Anything).Return(&model.RefreshToken{
		ID:        "token-id",
		UserID:    1,
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	_, err := uc.Refresh(ctx, "expired-token", "test-agent")
	assertErrContains(t, err, "invalid refresh token")

	rtRepo.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything)
	rtRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
