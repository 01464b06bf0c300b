package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"autoparts/internal/domain/model"
	repo "autoparts/internal/repository"
)

type LookupInput struct {
	Name   string
	NameEN string
}

// LookupUsecase はカテゴリ・ブランド・適合車種の一覧と管理。
type LookupUsecase[T repo.Lookup] struct {
	rows     repo.LookupRepository[T]
	audits   repo.AuditLogRepository
	resource model.AuditResourceType
	build    func(in LookupInput) T
}

func NewCategoryUsecase(rows repo.LookupRepository[model.Category], audits repo.AuditLogRepository) *LookupUsecase[model.Category] {
	return &LookupUsecase[model.Category]{
		rows:     rows,
		audits:   audits,
		resource: model.AuditResourceCategory,
		build: func(in LookupInput) model.Category {
			return model.Category{Name: in.Name, NameEN: in.NameEN}
		},
	}
}

func NewBrandUsecase(rows repo.LookupRepository[model.Brand], audits repo.AuditLogRepository) *LookupUsecase[model.Brand] {
	return &LookupUsecase[model.Brand]{
		rows:     rows,
		audits:   audits,
		resource: model.AuditResourceBrand,
		build: func(in LookupInput) model.Brand {
			return model.Brand{Name: in.Name, NameEN: in.NameEN}
		},
	}
}

func NewCarModelUsecase(rows repo.LookupRepository[model.CarModel], audits repo.AuditLogRepository) *LookupUsecase[model.CarModel] {
	return &LookupUsecase[model.CarModel]{
		rows:     rows,
		audits:   audits,
		resource: model.AuditResourceCarModel,
		build: func(in LookupInput) model.CarModel {
			return model.CarModel{Name: in.Name, NameEN: in.NameEN}
		},
	}
}

// name順
func (u *LookupUsecase[T]) List(ctx context.Context) ([]T, error) {
	rows, err := u.rows.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rows, nil
}

func (u *LookupUsecase[T]) Create(ctx context.Context, adminUserID int64, in LookupInput) (T, error) {
	var zero T
	in, err := normalizeLookup(in)
	if err != nil {
		return zero, err
	}

	row := u.build(in)
	if err := u.rows.Create(ctx, &row); err != nil {
		return zero, lookupError(err)
	}

	if err := writeAudit(ctx, u.audits, adminUserID, model.AuditActionCreate, u.resource, row.LookupID(), nil, row); err != nil {
		return zero, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return row, nil
}

func (u *LookupUsecase[T]) Update(ctx context.Context, adminUserID int64, id int64, in LookupInput) (T, error) {
	var zero T
	if id <= 0 {
		return zero, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	in, err := normalizeLookup(in)
	if err != nil {
		return zero, err
	}

	before, err := u.rows.FindByID(ctx, id)
	if err != nil {
		return zero, lookupError(err)
	}
	if err := u.rows.Update(ctx, id, in.Name, in.NameEN); err != nil {
		return zero, lookupError(err)
	}
	after, err := u.rows.FindByID(ctx, id)
	if err != nil {
		return zero, lookupError(err)
	}

	if err := writeAudit(ctx, u.audits, adminUserID, model.AuditActionUpdate, u.resource, id, before, after); err != nil {
		return zero, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return after, nil
}

// 削除すると商品側の参照は外れる
func (u *LookupUsecase[T]) Delete(ctx context.Context, adminUserID int64, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	before, err := u.rows.FindByID(ctx, id)
	if err != nil {
		return lookupError(err)
	}
	if err := u.rows.Delete(ctx, id); err != nil {
		return lookupError(err)
	}

	if err := writeAudit(ctx, u.audits, adminUserID, model.AuditActionDelete, u.resource, id, before, nil); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func normalizeLookup(in LookupInput) (LookupInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.NameEN = strings.TrimSpace(in.NameEN)
	if in.Name == "" {
		return in, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if len(in.Name) > 255 || len(in.NameEN) > 255 {
		return in, NewHTTPError(http.StatusBadRequest, "name too long")
	}
	return in, nil
}

func lookupError(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, repo.ErrConflict):
		return NewHTTPErrorWithDisplay(http.StatusConflict, "duplicate name", MsgDuplicateName)
	default:
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
}
