package repository

import (
	"context"
	"errors"

	"autoparts/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 行ロックを取って現在の在庫を読む
func (r *InventoryGormRepository) lockProduct(ctx context.Context, productID int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "stock", "is_active").
		Where("id = ?", productID).
		Take(&p).Error
	return p, err
}

func (r *InventoryGormRepository) writeStock(ctx context.Context, productID int64, stock int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", stock).Error
}

func (r *InventoryGormRepository) SetStock(ctx context.Context, productID int64, newStock int64) (int64, error) {
	p, err := r.lockProduct(ctx, productID)
	if err != nil {
		return 0, translate(err)
	}
	if err := r.writeStock(ctx, productID, newStock); err != nil {
		return 0, translate(err)
	}
	return p.Stock, nil
}

// 削除済み・非公開の部品は引き当てない
func (r *InventoryGormRepository) Reserve(ctx context.Context, productID int64, qty int64) (int64, bool, error) {
	p, err := r.lockProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if !p.IsActive || p.Stock < qty {
		return p.Stock, false, nil
	}

	after := p.Stock - qty
	if err := r.writeStock(ctx, productID, after); err != nil {
		return 0, false, err
	}
	return after, true, nil
}

func (r *InventoryGormRepository) RecordAdjustment(ctx context.Context, adj *model.InventoryAdjustment) error {
	return r.db.WithContext(ctx).Create(adj).Error
}

func (r *InventoryGormRepository) ListAdjustments(ctx context.Context, productID int64, limit int) ([]model.InventoryAdjustment, error) {
	var rows []model.InventoryAdjustment
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
