package model

import (
	"time"

	"gorm.io/gorm"
)

// 商品（部品）。価格はトマンの整数。
type Product struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"`
	Stock       int64          `gorm:"not null" json:"stock"`
	SKU         string         `gorm:"column:sku;type:varchar(64)" json:"sku"`
	ImageURL    string         `gorm:"column:image_url;type:text" json:"image_url"`
	CategoryID  *int64         `gorm:"index" json:"category_id"`
	BrandID     *int64         `gorm:"index" json:"brand_id"`
	Category    *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Brand       *Brand         `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	CarModels   []CarModel     `gorm:"many2many:product_car_models" json:"car_models,omitempty"`
	IsActive    bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
