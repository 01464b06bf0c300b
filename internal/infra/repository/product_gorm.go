package repository

import (
	"context"
	"strings"

	"autoparts/internal/domain/model"
	repo "autoparts/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 検索/カテゴリ/ブランド/価格帯/ソート/ページング付きで返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	filtered := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&model.Product{})

		if !q.IncludeInactive {
			tx = tx.Where("is_active = ?", true)
		}

		// q nameを対象
		if s := strings.TrimSpace(q.Q); s != "" {
			tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
		}
		if q.CategoryID != nil {
			tx = tx.Where("category_id = ?", *q.CategoryID)
		}
		if q.BrandID != nil {
			tx = tx.Where("brand_id = ?", *q.BrandID)
		}

		//価格帯
		if q.MinPrice != nil {
			tx = tx.Where("price >= ?", *q.MinPrice)
		}
		if q.MaxPrice != nil {
			tx = tx.Where("price <= ?", *q.MaxPrice)
		}
		return tx
	}

	//total（件数）
	if err := filtered().Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	tx := filtered().Preload("Category").Preload("Brand")

	//sort
	switch q.Sort {
	case "price_asc":
		tx = tx.Order("price asc").Order("id asc")
	case "price_desc":
		tx = tx.Order("price desc").Order("id desc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("CarModels", func(db *gorm.DB) *gorm.DB { return db.Order("name asc") }).
		First(&p, id).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product, carModelIDs []int64) (model.Product, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, p); err != nil {
			return err
		}
		models, err := findCarModels(tx, carModelIDs)
		if err != nil {
			return err
		}
		p.CarModels = models

		return tx.Create(&p).Error
	})
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 商品の更新
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product, carModelIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, p); err != nil {
			return err
		}

		res := tx.Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"stock":       p.Stock,
			"sku":         p.SKU,
			"image_url":   p.ImageURL,
			"category_id": p.CategoryID,
			"brand_id":    p.BrandID,
			"is_active":   p.IsActive,
		})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		// nil は「変更なし」
		if carModelIDs == nil {
			return nil
		}
		models, err := findCarModels(tx, carModelIDs)
		if err != nil {
			return err
		}
		assoc := tx.Model(&model.Product{ID: p.ID}).Association("CarModels")
		if len(models) == 0 {
			return assoc.Clear()
		}
		return assoc.Replace(models)
	})
}

// 商品削除。カートに入っている明細も消す。
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		return tx.Where("product_id = ?", id).Delete(&model.CartItem{}).Error
	})
}

// category_id / brand_id が実在するか
func checkReferences(tx *gorm.DB, p model.Product) error {
	if p.CategoryID != nil {
		if err := tx.Select("id").First(&model.Category{}, *p.CategoryID).Error; err != nil {
			return translate(err)
		}
	}
	if p.BrandID != nil {
		if err := tx.Select("id").First(&model.Brand{}, *p.BrandID).Error; err != nil {
			return translate(err)
		}
	}
	return nil
}

func findCarModels(tx *gorm.DB, ids []int64) ([]model.CarModel, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	var models []model.CarModel
	if err := tx.Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	if len(models) != len(ids) {
		return nil, repo.ErrNotFound
	}
	return models, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// LIKE のワイルドカードを文字として扱う
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
