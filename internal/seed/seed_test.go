package seed

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"autoparts/internal/domain/model"
	"autoparts/internal/infra/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return gdb
}

func TestParse_RejectsUnknownKeysAndReferences(t *testing.T) {
	_, err := Parse(strings.NewReader("categories:\n  - name: x\n    colour: red\n"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("products:\n  - name: a\n    price: 1\n    stock: 1\n    brand: nope\n"))
	assert.ErrorContains(t, err, `unknown brand "nope"`)

	_, err = Parse(strings.NewReader("products:\n  - name: a\n    price: -1\n    stock: 1\n"))
	assert.ErrorContains(t, err, "price and stock")

	c, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, c.Products)
}

func TestApply_Idempotent(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()

	c, err := LoadFile("testdata/catalog.yaml")
	require.NoError(t, err)
	require.Len(t, c.Products, 3)

	res, err := Apply(ctx, gdb, c)
	require.NoError(t, err)
	assert.Equal(t, Result{Categories: 2, Brands: 2, CarModels: 2, Created: 3}, res)

	res, err = Apply(ctx, gdb, c)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 3, res.Updated)

	var products, categories int64
	require.NoError(t, gdb.Model(&model.Product{}).Count(&products).Error)
	require.NoError(t, gdb.Model(&model.Category{}).Count(&categories).Error)
	assert.Equal(t, int64(3), products)
	assert.Equal(t, int64(2), categories)

	var filter model.Product
	require.NoError(t, gdb.Preload("CarModels").Preload("Brand").Where("sku = ?", "OF-206").First(&filter).Error)
	assert.Equal(t, int64(250000), filter.Price)
	assert.True(t, filter.IsActive)
	assert.Len(t, filter.CarModels, 2)
	require.NotNil(t, filter.Brand)
	assert.Equal(t, "Bosch", filter.Brand.NameEN)

	var old model.Product
	require.NoError(t, gdb.Where("name = ?", "فیلتر هوا قدیمی").First(&old).Error)
	assert.False(t, old.IsActive)
}
