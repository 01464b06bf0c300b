package repository

import (
	"autoparts/internal/domain/model"
	"context"
)

// 保存・取得を約束
type UserRepository interface {
	// email重複は ErrConflict
	Create(ctx context.Context, user *model.User) error
	// 見つからなければ ErrNotFound
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
	SetRole(ctx context.Context, userID int64, role model.Role) error
}
