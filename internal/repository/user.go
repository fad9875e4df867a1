package repository

import (
	"context"

	"app/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（username/email重複はErrConflict）
	Create(ctx context.Context, user *model.User) error

	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	//プロフィール更新など
	Update(ctx context.Context, user *model.User) error

	//全ユーザー一覧（管理者用）
	List(ctx context.Context) ([]model.User, error)
}
