package auth

import (
	"context"
	"fmt"

	"autoparts/internal/domain/model"
	"autoparts/internal/repository"
)

// CLI から使う。操作者はシステム（actor_user_id = 0）として監査ログに残す。
type GrantAdminUsecase struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
	clock     Clock
}

func NewGrantAdminUsecase(userRepo repository.UserRepository, auditRepo repository.AuditLogRepository, clock Clock) *GrantAdminUsecase {
	return &GrantAdminUsecase{userRepo: userRepo, auditRepo: auditRepo, clock: clock}
}

// 既に ADMIN なら何もしない
func (u *GrantAdminUsecase) Execute(ctx context.Context, email string) (Profile, error) {
	user, err := u.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return Profile{}, err
	}
	if user.IsAdmin() {
		return toProfile(user), nil
	}

	if err := u.userRepo.SetRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return Profile{}, err
	}

	err = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  0,
		Action:       model.AuditActionGrantAdmin,
		ResourceType: model.AuditResourceUser,
		ResourceID:   user.ID,
		BeforeJSON:   fmt.Sprintf(`{"role":%q}`, user.Role),
		AfterJSON:    fmt.Sprintf(`{"role":%q}`, model.RoleAdmin),
		CreatedAt:    u.clock.Now(),
	})
	if err != nil {
		return Profile{}, err
	}

	user.Role = model.RoleAdmin
	return toProfile(user), nil
}
