package repository

import (
	"context"

	"autoparts/internal/domain/model"
	repo "autoparts/internal/repository"

	"gorm.io/gorm"
)

// name / name_en だけを持つマスタの共通実装
type lookupGormRepository[T repo.Lookup] struct {
	db *gorm.DB
	// 削除前に商品側の参照を外す
	detach func(tx *gorm.DB, id int64) error
}

func NewCategoryGormRepository(db *gorm.DB) repo.LookupRepository[model.Category] {
	return &lookupGormRepository[model.Category]{
		db: db,
		detach: func(tx *gorm.DB, id int64) error {
			return tx.Unscoped().Model(&model.Product{}).
				Where("category_id = ?", id).
				Update("category_id", nil).Error
		},
	}
}

func NewBrandGormRepository(db *gorm.DB) repo.LookupRepository[model.Brand] {
	return &lookupGormRepository[model.Brand]{
		db: db,
		detach: func(tx *gorm.DB, id int64) error {
			return tx.Unscoped().Model(&model.Product{}).
				Where("brand_id = ?", id).
				Update("brand_id", nil).Error
		},
	}
}

func NewCarModelGormRepository(db *gorm.DB) repo.LookupRepository[model.CarModel] {
	return &lookupGormRepository[model.CarModel]{
		db: db,
		detach: func(tx *gorm.DB, id int64) error {
			return tx.Exec("DELETE FROM product_car_models WHERE car_model_id = ?", id).Error
		},
	}
}

func (r *lookupGormRepository[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	if err := r.db.WithContext(ctx).Order("name asc").Order("id asc").Find(&rows).Error; err != nil {
		return []T{}, err
	}
	return rows, nil
}

func (r *lookupGormRepository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	var row T
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		var zero T
		return zero, translate(err)
	}
	return row, nil
}

func (r *lookupGormRepository[T]) Create(ctx context.Context, row *T) error {
	return translate(r.db.WithContext(ctx).Create(row).Error)
}

func (r *lookupGormRepository[T]) Update(ctx context.Context, id int64, name string, nameEN string) error {
	res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(map[string]interface{}{
		"name":    name,
		"name_en": nameEN,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *lookupGormRepository[T]) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.detach(tx, id); err != nil {
			return err
		}

		res := tx.Delete(new(T), id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
