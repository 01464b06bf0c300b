package repository

import (
	"context"
	"time"

	"autoparts/internal/domain/model"
)

// 監査ログの絞り込み条件
type AuditLogFilter struct {
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Page         int
	Limit        int
}

// 管理者操作の記録
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error

	// 新しい順。total は絞り込み後の件数
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, int64, error)
}
