package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"autoparts/internal/domain/model"
	repo "autoparts/internal/repository"
)

// 監査ログを1件残す。before/after は JSON にして保存（nil は空）。
func writeAudit(
	ctx context.Context,
	audits repo.AuditLogRepository,
	actorID int64,
	action model.AuditAction,
	resource model.AuditResourceType,
	resourceID int64,
	before any,
	after any,
) error {
	beforeJSON, err := toJSON(before)
	if err != nil {
		return err
	}
	afterJSON, err := toJSON(after)
	if err != nil {
		return err
	}

	return audits.Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    time.Now(),
	})
}

func toJSON(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type AuditLogListInput struct {
	Page         int
	Limit        int
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
}

type AuditLogListOutput struct {
	Items []model.AuditLog `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type AuditLogUsecase struct {
	audits repo.AuditLogRepository
}

func NewAuditLogUsecase(audits repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{audits: audits}
}

func (u *AuditLogUsecase) List(ctx context.Context, in AuditLogListInput) (AuditLogListOutput, error) {
	if in.Page < 1 {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 200 {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		CreatedFrom: in.From,
		CreatedTo:   in.To,
		Page:        in.Page,
		Limit:       in.Limit,
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		f.Action = &a
	}
	if in.ResourceType != "" {
		rt := model.AuditResourceType(in.ResourceType)
		f.ResourceType = &rt
	}

	items, total, err := u.audits.List(ctx, f)
	if err != nil {
		return AuditLogListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return AuditLogListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}
