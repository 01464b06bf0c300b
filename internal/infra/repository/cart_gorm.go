package repository

import (
	"autoparts/internal/domain/model"
	repo "autoparts/internal/repository"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// スナップショットとして返す商品の列
var productSnapshotColumns = []string{"id", "name", "price", "image_url", "stock"}

// ユーザーのカート明細を商品付きで取得。
// 販売停止中の商品は付けない（Product が nil になり小計は0）。
func (r *CartGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	err := r.db.WithContext(ctx).
		Preload("Product", func(db *gorm.DB) *gorm.DB {
			return db.Select(productSnapshotColumns).Where("is_active = ?", true)
		}).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// 同一商品は数量加算。
// 商品行をロックしてから在庫と既存数量を確認し、ON CONFLICT で加算する。
func (r *CartGormRepository) AddOrIncrement(ctx context.Context, userID int64, productID int64, addQty int64) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockCartProduct(tx, productID)
		if err != nil {
			return err
		}

		var existing model.CartItem
		err = tx.
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 加算してから比べると桁あふれする
		if addQty > p.Stock-existing.Quantity {
			return repo.ErrInsufficientStock
		}

		now := time.Now()
		item := model.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  addQty,
			CreatedAt: now,
			UpdatedAt: now,
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", addQty),
				"updated_at": now,
			}),
		}).Create(&item).Error
	})
}

// 明細の数量を更新（最新在庫で検証）
func (r *CartGormRepository) SetQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) error {
	if qty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem
		if err := tx.Where("id = ? AND user_id = ?", cartItemID, userID).First(&item).Error; err != nil {
			return translate(err)
		}

		// AddOrIncrement と同じく商品行を先にロックする
		p, err := lockCartProduct(tx, item.ProductID)
		if err != nil {
			return err
		}
		if qty > p.Stock {
			return repo.ErrInsufficientStock
		}

		res := tx.Model(&model.CartItem{}).
			Where("id = ? AND user_id = ?", cartItemID, userID).
			Updates(map[string]interface{}{"quantity": qty, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

// 明細を削除
func (r *CartGormRepository) DeleteByID(ctx context.Context, userID int64, cartItemID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", cartItemID, userID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ユーザーの明細を全削除
func (r *CartGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}

// 商品を FOR UPDATE で取得する。販売停止中は ErrProductUnavailable。
func lockCartProduct(tx *gorm.DB, productID int64) (model.Product, error) {
	var p model.Product
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "stock", "is_active").
		Where("id = ?", productID).
		First(&p).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	if !p.IsActive {
		return model.Product{}, repo.ErrProductUnavailable
	}
	return p, nil
}
