package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"app/internal/repository"
	"app/internal/usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	// パスワード確認が一致しない
	ErrPasswordMismatch = errors.New("passwords do not match")

	// emailが既に使用済み（usecase側で409にマップされる）
	ErrEmailAlreadyUsed = usecase.ErrEmailAlreadyUsed

	// usernameが既に使用済み（usecase側で409にマップされる）
	ErrUsernameAlreadyUsed = usecase.ErrUsernameAlreadyUsed
)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, username, email, password, password2 string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// 必須チェック
	if username == "" || email == "" || password == "" {
		return ErrInvalidInput
	}

	// email形式
	if !isEmailLike(email) {
		return ErrInvalidInput
	}

	// パスワード最低文字数
	if len(password) < 8 {
		return ErrInvalidInput
	}

	// 確認用と一致しているか
	if password != password2 {
		return ErrPasswordMismatch
	}

	// 重複チェック（DBのuniqueでも守られる）
	if u, err := v.users.FindByEmail(ctx, email); err == nil && u != nil {
		return ErrEmailAlreadyUsed
	}
	if u, err := v.users.FindByUsername(ctx, username); err == nil && u != nil {
		return ErrUsernameAlreadyUsed
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return ErrInvalidInput
	}
	if !isEmailLike(email) {
		return ErrInvalidInput
	}

	return nil
}

// refresh入力を検証
func (v *authValidator) ValidateRefresh(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrInvalidInput
	}
	return nil
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}
