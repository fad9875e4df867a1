package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/repository"
)

// プロフィールとユーザー一覧
type AccountUsecase struct {
	users repository.UserRepository
}

func NewAccountUsecase(users repository.UserRepository) *AccountUsecase {
	return &AccountUsecase{users: users}
}

type UpdateProfileInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

func (u *AccountUsecase) GetProfile(ctx context.Context, userID int64) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return UserDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

// 自分のプロフィール更新（パスワードはここでは変えない）
func (u *AccountUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return UserDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if v := strings.TrimSpace(in.Username); v != "" {
		user.Username = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		user.Email = v
	}
	user.FirstName = in.FirstName
	user.LastName = in.LastName

	if err := u.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return UserDTO{}, NewHTTPError(http.StatusConflict, "username or email already used")
		}
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

// 管理者用のユーザー一覧
func (u *AccountUsecase) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return []UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]UserDTO, 0, len(users))
	for i := range users {
		outs = append(outs, toUserDTO(&users[i]))
	}
	return outs, nil
}
