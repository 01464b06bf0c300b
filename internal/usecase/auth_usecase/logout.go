package auth

import (
	"context"
	"errors"
	"fmt"

	"autoparts/internal/domain/model"
	"autoparts/internal/repository"
	"autoparts/internal/validator"
)

// ログアウト時にメモリ上のカートを捨てる
type SessionForgetter interface {
	Forget(userID int64)
}

// token_version を上げて発行済みトークンを全部無効にする。
type LogoutUsecase struct {
	userRepo repository.UserRepository
	sessions SessionForgetter
}

func NewLogoutUsecase(userRepo repository.UserRepository, sessions SessionForgetter) *LogoutUsecase {
	return &LogoutUsecase{userRepo: userRepo, sessions: sessions}
}

func (u *LogoutUsecase) Execute(ctx context.Context, userID int64) error {
	if err := u.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		return err
	}
	u.sessions.Forget(userID)
	return nil
}

type ForceLogoutOutput struct {
	UserID          int64 `json:"user_id"`
	NewTokenVersion int   `json:"new_token_version"`
}

var ErrCannotForceLogoutSelf = errors.New("cannot force logout yourself")

// 管理者が他ユーザーを強制ログアウトさせる
type ForceLogoutUsecase struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
	sessions  SessionForgetter
	clock     Clock
}

func NewForceLogoutUsecase(
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	sessions SessionForgetter,
	clock Clock,
) *ForceLogoutUsecase {
	return &ForceLogoutUsecase{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		sessions:  sessions,
		clock:     clock,
	}
}

func (u *ForceLogoutUsecase) Execute(ctx context.Context, adminUserID int64, targetUserID int64) (ForceLogoutOutput, error) {
	var out ForceLogoutOutput
	if err := validator.ValidateForceLogout(targetUserID); err != nil {
		return out, err
	}
	if adminUserID == targetUserID {
		return out, ErrCannotForceLogoutSelf
	}

	before, err := u.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		return out, err
	}

	if err := u.userRepo.IncrementTokenVersion(ctx, targetUserID); err != nil {
		return out, err
	}
	u.sessions.Forget(targetUserID)

	err = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionForceLogout,
		ResourceType: model.AuditResourceUser,
		ResourceID:   targetUserID,
		BeforeJSON:   fmt.Sprintf(`{"token_version":%d}`, before.TokenVersion),
		AfterJSON:    fmt.Sprintf(`{"token_version":%d}`, before.TokenVersion+1),
		CreatedAt:    u.clock.Now(),
	})
	if err != nil {
		return out, err
	}

	out.UserID = targetUserID
	out.NewTokenVersion = before.TokenVersion + 1
	return out, nil
}
