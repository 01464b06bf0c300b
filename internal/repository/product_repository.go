package repository

import (
	"autoparts/internal/domain/model"
	"context"
)

// 一覧検索
type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	BrandID    *int64
	MinPrice   *int64
	MaxPrice   *int64
	Sort       string

	// 管理画面用。非公開商品も含める
	IncludeInactive bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	// カテゴリ・ブランド・適合車種付きで1件取得
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product, carModelIDs []int64) (model.Product, error)
	// carModelIDs が nil なら適合車種は変更しない
	Update(ctx context.Context, p model.Product, carModelIDs []int64) error
	// 論理削除し、全ユーザーのカートからも外す
	SoftDelete(ctx context.Context, id int64) error
}
