package model

import "time"

type AdjustmentSource string

const (
	AdjustmentSourceAdmin    AdjustmentSource = "ADMIN"    // 管理画面での棚卸し
	AdjustmentSourceCheckout AdjustmentSource = "CHECKOUT" // 購入による引き当て
)

// 部品在庫の増減履歴。StockAfter は適用後の在庫数。
// ActorUserID は棚卸しなら管理者、購入なら購入者。
type InventoryAdjustment struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   int64            `gorm:"not null;index:idx_adjustments_product_created,priority:1" json:"product_id"`
	Source      AdjustmentSource `gorm:"type:varchar(16);not null" json:"source"`
	ActorUserID int64            `gorm:"not null;index" json:"actor_user_id"`
	Delta       int64            `gorm:"not null" json:"delta"`
	StockAfter  int64            `gorm:"not null" json:"stock_after"`
	Reason      string           `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt   time.Time        `gorm:"not null;autoCreateTime;index:idx_adjustments_product_created,priority:2" json:"created_at"`
}
