package repository

import (
	"fmt"
	"strings"
	"testing"

	"autoparts/internal/domain/model"
	"autoparts/internal/infra/db"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// テストごとに独立したインメモリDB
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
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

func seedProduct(t *testing.T, gdb *gorm.DB, name string, price int64, stock int64) model.Product {
	t.Helper()

	p := model.Product{Name: name, Price: price, Stock: stock, IsActive: true}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

func seedUser(t *testing.T, gdb *gorm.DB, email string) model.User {
	t.Helper()

	u := model.User{Email: email, PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}
