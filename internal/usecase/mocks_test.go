package usecase

import (
	"context"

	"autoparts/internal/domain/model"
	repo "autoparts/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product, carModelIDs []int64) (model.Product, error) {
	args := m.Called(ctx, p, carModelIDs)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product, carModelIDs []int64) error {
	return m.Called(ctx, p, carModelIDs).Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type LookupRepoMock[T repo.Lookup] struct {
	mock.Mock
	// Create で振るID
	NextID func(row *T)
}

func (m *LookupRepoMock[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]T)
	return rows, args.Error(1)
}

func (m *LookupRepoMock[T]) FindByID(ctx context.Context, id int64) (T, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(T)
	return row, args.Error(1)
}

func (m *LookupRepoMock[T]) Create(ctx context.Context, row *T) error {
	err := m.Called(ctx, *row).Error(0)
	if err == nil && m.NextID != nil {
		m.NextID(row)
	}
	return err
}

func (m *LookupRepoMock[T]) Update(ctx context.Context, id int64, name string, nameEN string) error {
	return m.Called(ctx, id, name, nameEN).Error(0)
}

func (m *LookupRepoMock[T]) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, f)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Get(1).(int64), args.Error(2)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) (int64, error) {
	args := m.Called(ctx, productID, newStock)
	return args.Get(0).(int64), args.Error(1)
}

func (m *InventoryRepoMock) Reserve(ctx context.Context, productID int64, qty int64) (int64, bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *InventoryRepoMock) RecordAdjustment(ctx context.Context, adj *model.InventoryAdjustment) error {
	return m.Called(ctx, *adj).Error(0)
}

func (m *InventoryRepoMock) ListAdjustments(ctx context.Context, productID int64, limit int) ([]model.InventoryAdjustment, error) {
	args := m.Called(ctx, productID, limit)
	rows, _ := args.Get(0).([]model.InventoryAdjustment)
	return rows, args.Error(1)
}

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定する
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn repo.TxFunc) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	cartItems repo.CartItemRepository
	inventory repo.InventoryRepository
	auditLogs repo.AuditLogRepository
}

func (r *TxReposMock) CartItems() repo.CartItemRepository  { return r.cartItems }
func (r *TxReposMock) Inventory() repo.InventoryRepository { return r.inventory }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository  { return r.auditLogs }
