package repository

import "context"

// 1トランザクションの中で使えるリポジトリ。
// カート確定と在庫調整、監査ログをまとめて commit する。
type TxRepos interface {
	CartItems() CartItemRepository
	Inventory() InventoryRepository
	AuditLogs() AuditLogRepository
}

// TxFunc がエラーを返すとロールバック
type TxFunc func(r TxRepos) error

type TransactionManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
