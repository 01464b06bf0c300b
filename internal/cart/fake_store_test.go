package cart

import (
	"context"
	"sort"
	"sync"

	"autoparts/internal/domain/model"
	"autoparts/internal/repository"

	"github.com/stretchr/testify/mock"
)

// メモリ上のカート明細ストア。(user_id, product_id) 一意と在庫チェックを再現する。
type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]model.Product
	rows     map[int64]model.CartItem
	calls    int
}

func newFakeStore(products ...model.Product) *fakeStore {
	f := &fakeStore{
		products: make(map[int64]model.Product),
		rows:     make(map[int64]model.CartItem),
	}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeStore) RowCount(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n
}

func (f *fakeStore) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	out := []model.CartItem{}
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if p, ok := f.products[r.ProductID]; ok {
			p := p
			r.Product = &p
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) AddOrIncrement(ctx context.Context, userID, productID, addQty int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	p, ok := f.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, r := range f.rows {
		if r.UserID == userID && r.ProductID == productID {
			if r.Quantity+addQty > p.Stock {
				return repository.ErrInsufficientStock
			}
			r.Quantity += addQty
			f.rows[id] = r
			return nil
		}
	}
	if addQty > p.Stock {
		return repository.ErrInsufficientStock
	}
	f.nextID++
	f.rows[f.nextID] = model.CartItem{ID: f.nextID, UserID: userID, ProductID: productID, Quantity: addQty}
	return nil
}

func (f *fakeStore) SetQuantity(ctx context.Context, userID, itemID, qty int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	r, ok := f.rows[itemID]
	if !ok || r.UserID != userID {
		return repository.ErrNotFound
	}
	if qty > f.products[r.ProductID].Stock {
		return repository.ErrInsufficientStock
	}
	r.Quantity = qty
	f.rows[itemID] = r
	return nil
}

func (f *fakeStore) DeleteByID(ctx context.Context, userID, itemID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	r, ok := f.rows[itemID]
	if !ok || r.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.rows, itemID)
	return nil
}

func (f *fakeStore) DeleteByUserID(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	for id, r := range f.rows {
		if r.UserID == userID {
			delete(f.rows, id)
		}
	}
	return nil
}

// 失敗を注入するためのモック
type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *mockStore) AddOrIncrement(ctx context.Context, userID, productID, addQty int64) error {
	return m.Called(ctx, userID, productID, addQty).Error(0)
}

func (m *mockStore) SetQuantity(ctx context.Context, userID, itemID, qty int64) error {
	return m.Called(ctx, userID, itemID, qty).Error(0)
}

func (m *mockStore) DeleteByID(ctx context.Context, userID, itemID int64) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *mockStore) DeleteByUserID(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}
