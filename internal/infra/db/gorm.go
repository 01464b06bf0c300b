package db

import (
	"autoparts/internal/config"
	"autoparts/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
// TranslateError で一意制約違反を gorm.ErrDuplicatedKey に揃える。
func Connect(cfg config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsDev() {
		level = logger.Info
	}

	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
}

// 管理するテーブル一覧
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Brand{},
		&model.CarModel{},
		&model.Product{},
		&model.CartItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
