package repository

import (
	"context"

	repo "autoparts/internal/repository"

	"gorm.io/gorm"
)

// tx に束ねたリポジトリ一式
type gormTxRepos struct {
	tx *gorm.DB
}

func (r gormTxRepos) CartItems() repo.CartItemRepository  { return NewCartGormRepository(r.tx) }
func (r gormTxRepos) Inventory() repo.InventoryRepository { return NewInventoryGormRepository(r.tx) }
func (r gormTxRepos) AuditLogs() repo.AuditLogRepository  { return NewAuditLogGormRepository(r.tx) }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fn が nil を返せば commit。panic もロールバックされる。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn repo.TxFunc) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(gormTxRepos{tx: tx})
	})
}
