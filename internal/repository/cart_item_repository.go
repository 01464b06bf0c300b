package repository

import (
	"context"

	"autoparts/internal/domain/model"
)

// カート明細。すべて user_id で絞り込む（他人の明細は見えない）。
type CartItemRepository interface {
	// 商品スナップショット（id, name, price, image_url, stock）付き
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)

	// 同一商品は数量加算。在庫チェックと書き込みを1トランザクションで行う。
	AddOrIncrement(ctx context.Context, userID int64, productID int64, addQty int64) error

	// 最新の在庫と比べてから数量を確定する
	SetQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) error

	DeleteByID(ctx context.Context, userID int64, cartItemID int64) error
	DeleteByUserID(ctx context.Context, userID int64) error
}
