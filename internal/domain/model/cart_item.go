package model

import "time"

// カートの明細。(user_id, product_id) は一意。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_cart_items_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_cart_items_user_product;index" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 明細の小計。商品が取れなかった明細は0として数える。
func (it CartItem) LineTotal() int64 {
	if it.Product == nil {
		return 0
	}
	return it.Product.Price * it.Quantity
}
