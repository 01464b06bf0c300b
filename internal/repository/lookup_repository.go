package repository

import (
	"autoparts/internal/domain/model"
	"context"
)

// カテゴリ・ブランド・適合車種は同じ形（name / name_en）のマスタ。
type Lookup interface {
	model.Category | model.Brand | model.CarModel
	LookupID() int64
}

type LookupRepository[T Lookup] interface {
	// name順
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, id int64, name string, nameEN string) error
	// 商品側の参照も外す
	Delete(ctx context.Context, id int64) error
}
