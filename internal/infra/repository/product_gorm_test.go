package repository

import (
	"context"
	"testing"

	"autoparts/internal/domain/model"
	repo "autoparts/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestProductGorm_ListFilters(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	r := NewProductGormRepository(gdb)

	cat := model.Category{Name: "ترمز", NameEN: "Brakes"}
	require.NoError(t, gdb.Create(&cat).Error)
	brand := model.Brand{Name: "بوش", NameEN: "Bosch"}
	require.NoError(t, gdb.Create(&brand).Error)

	pads, err := r.Create(ctx, model.Product{Name: "Brake Pad", Price: 100000, Stock: 5, IsActive: true, CategoryID: &cat.ID, BrandID: &brand.ID}, nil)
	require.NoError(t, err)
	_, err = r.Create(ctx, model.Product{Name: "Brake Disc", Price: 400000, Stock: 2, IsActive: true, CategoryID: &cat.ID}, nil)
	require.NoError(t, err)
	_, err = r.Create(ctx, model.Product{Name: "Oil Filter", Price: 50000, Stock: 9, IsActive: true}, nil)
	require.NoError(t, err)
	_, err = r.Create(ctx, model.Product{Name: "Brake Hidden", Price: 10, Stock: 1, IsActive: false}, nil)
	require.NoError(t, err)

	t.Run("公開商品のみ", func(t *testing.T) {
		rows, total, err := r.List(ctx, repo.ProductListQuery{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, rows, 3)
	})

	t.Run("管理画面は非公開も含む", func(t *testing.T) {
		_, total, err := r.List(ctx, repo.ProductListQuery{Page: 1, Limit: 20, IncludeInactive: true})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("検索は大文字小文字を区別しない", func(t *testing.T) {
		rows, total, err := r.List(ctx, repo.ProductListQuery{Page: 1, Limit: 20, Q: "brake", Sort: "price_asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, rows, 2)
		assert.Equal(t, "Brake Pad", rows[0].Name)
		assert.Equal(t, "Brake Disc", rows[1].Name)
	})

	t.Run("カテゴリ・ブランド", func(t *testing.T) {
		_, total, err := r.List(ctx, repo.ProductListQuery{Page: 1, Limit: 20, CategoryID: &cat.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		rows, total, err := r.List(ctx, repo.ProductListQuery{Page: 1, Limit: 20, BrandID: &brand.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, pads.ID, rows[0].ID)
		require.NotNil(t, rows[0].Brand)
		assert.Equal(t, "Bosch", rows[0].Brand.NameEN)
	})

	t.Run("価格帯と降順", func(t *testing.T) {
		rows, total, err := r.List(ctx, repo.ProductListQuery{Page: 1, Limit: 20, MinPrice: ptr(int64(50000)), MaxPrice: ptr(int64(100000)), Sort: "price_desc"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, rows, 2)
		assert.Equal(t, int64(100000), rows[0].Price)
	})

	t.Run("ページング", func(t *testing.T) {
		rows, total, err := r.List(ctx, repo.ProductListQuery{Page: 2, Limit: 2, Sort: "price_asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(400000), rows[0].Price)
	})
}

func TestProductGorm_CarModels(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	r := NewProductGormRepository(gdb)

	pride := model.CarModel{Name: "پراید", NameEN: "Pride"}
	peugeot := model.CarModel{Name: "پژو ۲۰۶", NameEN: "Peugeot 206"}
	require.NoError(t, gdb.Create(&pride).Error)
	require.NoError(t, gdb.Create(&peugeot).Error)

	p, err := r.Create(ctx, model.Product{Name: "Spark Plug", Price: 30000, Stock: 10, IsActive: true}, []int64{pride.ID, peugeot.ID, pride.ID})
	require.NoError(t, err)

	got, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.CarModels, 2)

	// nil は変更なし
	got.Price = 35000
	require.NoError(t, r.Update(ctx, got, nil))
	got, err = r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(35000), got.Price)
	assert.Len(t, got.CarModels, 2)

	require.NoError(t, r.Update(ctx, got, []int64{peugeot.ID}))
	got, err = r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.CarModels, 1)
	assert.Equal(t, peugeot.ID, got.CarModels[0].ID)

	require.NoError(t, r.Update(ctx, got, []int64{}))
	got, err = r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CarModels)

	_, err = r.Create(ctx, model.Product{Name: "X", Price: 1, Stock: 1}, []int64{9999})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestProductGorm_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	r := NewProductGormRepository(gdb)

	_, err := r.Create(ctx, model.Product{Name: "X", Price: 1, Stock: 1, CategoryID: ptr(int64(42))}, nil)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestProductGorm_SoftDeleteRemovesFromCarts(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	r := NewProductGormRepository(gdb)
	carts := NewCartGormRepository(gdb)

	u := seedUser(t, gdb, "a@example.com")
	p := seedProduct(t, gdb, "کمک فنر", 800000, 4)
	keep := seedProduct(t, gdb, "فنر", 300000, 4)
	require.NoError(t, carts.AddOrIncrement(ctx, u.ID, p.ID, 1))
	require.NoError(t, carts.AddOrIncrement(ctx, u.ID, keep.ID, 1))

	require.NoError(t, r.SoftDelete(ctx, p.ID))

	_, err := r.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	items, err := carts.ListByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keep.ID, items[0].ProductID)

	assert.ErrorIs(t, r.SoftDelete(ctx, p.ID), repo.ErrNotFound)
}

func TestProductGorm_ListSearchIsLiteral(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	r := NewProductGormRepository(gdb)

	for _, name := range []string{"Brake Pad", "Spark_Plug", "Filter 100%"} {
		_, err := r.Create(ctx, model.Product{Name: name, Price: 1000, Stock: 1, IsActive: true}, nil)
		require.NoError(t, err)
	}

	cases := []struct {
		q    string
		want []string
	}{
		{q: "_", want: []string{"Spark_Plug"}},
		{q: "k_p", want: []string{"Spark_Plug"}},
		{q: "%", want: []string{"Filter 100%"}},
		{q: `\`, want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.q, func(t *testing.T) {
			rows, total, err := r.List(ctx, repo.ProductListQuery{Page: 1, Limit: 20, Q: tc.q})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.want)), total)
			var names []string
			for _, p := range rows {
				names = append(names, p.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}
