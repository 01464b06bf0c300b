package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"autoparts/internal/cart"
	"autoparts/internal/domain/model"
	"autoparts/internal/infra/db"
	infrarepo "autoparts/internal/infra/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type cartFixture struct {
	db    *gorm.DB
	uc    *CartUsecase
	users int
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	manager, err := cart.NewManager(infrarepo.NewCartGormRepository(gdb), 8, zerolog.Nop())
	require.NoError(t, err)

	uc := NewCartUsecase(
		manager,
		infrarepo.NewUserGormRepository(gdb),
		infrarepo.NewTxManagerGorm(gdb),
		NewPriceFormatter(language.English),
	)
	return &cartFixture{db: gdb, uc: uc}
}

func (f *cartFixture) user(t *testing.T, withShipping bool) model.User {
	t.Helper()
	f.users++
	u := model.User{Email: fmt.Sprintf("u%d@example.com", f.users), PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	if withShipping {
		u.Phone = "09120000000"
		u.Address = "تهران"
	}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *cartFixture) product(t *testing.T, price, stock int64) model.Product {
	t.Helper()
	p := model.Product{Name: "قطعه", Price: price, Stock: stock, IsActive: true}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func TestCartUsecase_Scenario(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	u := f.user(t, false)
	p := f.product(t, 100000, 5)

	out, err := f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(100000), out.Total)
	assert.Equal(t, "100,000 Toman", out.TotalDisplay)

	out, err = f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(3), out.Items[0].Quantity)
	assert.Equal(t, int64(300000), out.Total)
	assert.Equal(t, int64(300000), out.Items[0].LineTotal)

	out, err = f.uc.UpdateCartItem(ctx, u.ID, out.Items[0].ID, UpdateCartItemInput{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, int64(0), out.Total)
	assert.Equal(t, int64(0), out.Count)
}

func TestCartUsecase_UnauthenticatedAdd(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.uc.AddToCart(context.Background(), 0, AddCartInput{ProductID: 1, Quantity: 1})
	assertHTTPError(t, err, http.StatusUnauthorized, "unauthorized")
	he, _ := AsHTTPError(err)
	assert.Equal(t, MsgSignInRequired, he.Display)
}

func TestCartUsecase_AddErrors(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	u := f.user(t, false)
	p := f.product(t, 1000, 2)

	_, err := f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: p.ID, Quantity: 0})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid quantity")

	_, err = f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: p.ID, Quantity: 3})
	assertHTTPError(t, err, http.StatusConflict, "insufficient stock")

	_, err = f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: 9999, Quantity: 1})
	assertHTTPError(t, err, http.StatusNotFound, "not found")
	he, _ := AsHTTPError(err)
	assert.Equal(t, MsgProductNotFound, he.Display)
}

func TestCartUsecase_GetAndClear(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	u := f.user(t, false)
	a := f.product(t, 1000, 10)
	b := f.product(t, 2500, 10)

	_, err := f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: b.ID, Quantity: 1})
	require.NoError(t, err)

	out, err := f.uc.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), out.Total)
	assert.Equal(t, int64(3), out.Count)

	out, err = f.uc.ClearCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Items)

	var rows int64
	require.NoError(t, f.db.Model(&model.CartItem{}).Where("user_id = ?", u.ID).Count(&rows).Error)
	assert.Equal(t, int64(0), rows)
}

func TestCartUsecase_CheckoutRequiresProfile(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	u := f.user(t, false)
	p := f.product(t, 1000, 10)

	_, err := f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.uc.Checkout(ctx, u.ID)
	assertHTTPError(t, err, http.StatusBadRequest, "profile_incomplete")
	he, _ := AsHTTPError(err)
	assert.Equal(t, MsgProfileIncomplete, he.Display)
}

func TestCartUsecase_CheckoutEmptyCart(t *testing.T) {
	f := newCartFixture(t)
	u := f.user(t, true)

	_, err := f.uc.Checkout(context.Background(), u.ID)
	assertHTTPError(t, err, http.StatusBadRequest, "empty cart")
}

func TestCartUsecase_CheckoutDecrementsStockAndClears(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	u := f.user(t, true)
	p := f.product(t, 100000, 5)

	_, err := f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	out, err := f.uc.Checkout(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300000), out.Total)
	assert.Equal(t, int64(3), out.ItemCount)

	var after model.Product
	require.NoError(t, f.db.First(&after, p.ID).Error)
	assert.Equal(t, int64(2), after.Stock)

	var adj model.InventoryAdjustment
	require.NoError(t, f.db.Where("product_id = ?", p.ID).Take(&adj).Error)
	assert.Equal(t, model.AdjustmentSourceCheckout, adj.Source)
	assert.Equal(t, u.ID, adj.ActorUserID)
	assert.Equal(t, int64(-3), adj.Delta)
	assert.Equal(t, int64(2), adj.StockAfter)

	cartOut, err := f.uc.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cartOut.Items)
}

func TestCartUsecase_CheckoutStockChangedRollsBack(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	u := f.user(t, true)
	a := f.product(t, 1000, 5)
	b := f.product(t, 2000, 5)

	_, err := f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: b.ID, Quantity: 4})
	require.NoError(t, err)

	// 追加後に在庫が減った
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", b.ID).Update("stock", 1).Error)

	_, err = f.uc.Checkout(ctx, u.ID)
	assertHTTPError(t, err, http.StatusConflict, "insufficient stock")

	var pa model.Product
	require.NoError(t, f.db.First(&pa, a.ID).Error)
	assert.Equal(t, int64(5), pa.Stock)

	var adjustments int64
	require.NoError(t, f.db.Model(&model.InventoryAdjustment{}).Count(&adjustments).Error)
	assert.Equal(t, int64(0), adjustments)

	out, err := f.uc.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
}

func TestCartUsecase_Watch(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	u := f.user(t, false)
	p := f.product(t, 1000, 5)

	_, _, err := f.uc.Watch(0)
	assertHTTPError(t, err, http.StatusUnauthorized, "unauthorized")

	ch, cancel, err := f.uc.Watch(u.ID)
	require.NoError(t, err)
	defer cancel()

	_, err = f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	snap := <-ch
	resp := f.uc.ToResponse(snap)
	assert.Equal(t, int64(2000), resp.Total)
	assert.Equal(t, "2,000 Toman", resp.TotalDisplay)
}

func TestCartUsecase_DeactivatedProduct(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	u := f.user(t, true)
	live := f.product(t, 1000, 5)
	gone := f.product(t, 9000, 5)

	_, err := f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: live.ID, Quantity: 1})
	require.NoError(t, err)
	out, err := f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: gone.ID, Quantity: 1})
	require.NoError(t, err)
	goneItemID := out.Items[1].ID

	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", gone.ID).Update("is_active", false).Error)

	// 販売停止の明細は合計に入らない
	out, err = f.uc.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, int64(1000), out.Total)

	_, err = f.uc.AddToCart(ctx, u.ID, AddCartInput{ProductID: gone.ID, Quantity: 1})
	assertHTTPError(t, err, http.StatusConflict, "product unavailable")

	_, err = f.uc.UpdateCartItem(ctx, u.ID, goneItemID, UpdateCartItemInput{Quantity: 2})
	assertHTTPError(t, err, http.StatusConflict, "product unavailable")

	_, err = f.uc.Checkout(ctx, u.ID)
	assertHTTPError(t, err, http.StatusConflict, "product unavailable")
	he, _ := AsHTTPError(err)
	assert.Equal(t, MsgProductUnavailable, he.Display)

	// ロールバックされて在庫はそのまま
	var after model.Product
	require.NoError(t, f.db.First(&after, live.ID).Error)
	assert.Equal(t, int64(5), after.Stock)
}
