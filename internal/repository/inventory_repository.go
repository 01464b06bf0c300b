package repository

import (
	"context"

	"autoparts/internal/domain/model"
)

// 部品在庫の操作。購入時の引き当てと管理画面の棚卸しで使う。
type InventoryRepository interface {
	// 在庫を newStock にし、変更前の値を返す
	SetStock(ctx context.Context, productID int64, newStock int64) (before int64, err error)

	// 販売中で qty 以上あるときだけ減らす。足りなければ ok=false。
	Reserve(ctx context.Context, productID int64, qty int64) (stockAfter int64, ok bool, err error)

	RecordAdjustment(ctx context.Context, adj *model.InventoryAdjustment) error

	// 新しい順
	ListAdjustments(ctx context.Context, productID int64, limit int) ([]model.InventoryAdjustment, error)
}
