package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"autoparts/internal/domain/model"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Catalog は初期データ（YAML）
type Catalog struct {
	Categories []Lookup  `yaml:"categories"`
	Brands     []Lookup  `yaml:"brands"`
	CarModels  []Lookup  `yaml:"car_models"`
	Products   []Product `yaml:"products"`
}

type Lookup struct {
	Name   string `yaml:"name"`
	NameEN string `yaml:"name_en,omitempty"`
}

// category / brand / car_models は name で参照する
type Product struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Price       int64    `yaml:"price"`
	Stock       int64    `yaml:"stock"`
	SKU         string   `yaml:"sku,omitempty"`
	ImageURL    string   `yaml:"image_url,omitempty"`
	Category    string   `yaml:"category,omitempty"`
	Brand       string   `yaml:"brand,omitempty"`
	CarModels   []string `yaml:"car_models,omitempty"`
	Active      *bool    `yaml:"active,omitempty"`
}

type Result struct {
	Categories int
	Brands     int
	CarModels  int
	Created    int
	Updated    int
}

func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	return Parse(bytes.NewReader(data))
}

// 未知のキーはエラー
func Parse(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return c, nil
		}
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) validate() error {
	categories := names(c.Categories)
	brands := names(c.Brands)
	carModels := names(c.CarModels)

	for i, p := range c.Products {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("products[%d]: name required", i)
		}
		if p.Price < 0 || p.Stock < 0 {
			return fmt.Errorf("products[%d] %q: price and stock must be >= 0", i, p.Name)
		}
		if p.Category != "" && !categories[p.Category] {
			return fmt.Errorf("products[%d] %q: unknown category %q", i, p.Name, p.Category)
		}
		if p.Brand != "" && !brands[p.Brand] {
			return fmt.Errorf("products[%d] %q: unknown brand %q", i, p.Name, p.Brand)
		}
		for _, m := range p.CarModels {
			if !carModels[m] {
				return fmt.Errorf("products[%d] %q: unknown car model %q", i, p.Name, m)
			}
		}
	}
	return nil
}

func names(rows []Lookup) map[string]bool {
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[r.Name] = true
	}
	return out
}

// Apply は1トランザクションで投入する。
// マスタは name、商品は sku（無ければ name）で既存行を探すので何度流しても増えない。
func Apply(ctx context.Context, db *gorm.DB, c Catalog) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryIDs := map[string]int64{}
		for _, l := range c.Categories {
			row := model.Category{Name: l.Name}
			if err := tx.Where(model.Category{Name: l.Name}).Attrs(model.Category{NameEN: l.NameEN}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("category %q: %w", l.Name, err)
			}
			categoryIDs[l.Name] = row.ID
			res.Categories++
		}

		brandIDs := map[string]int64{}
		for _, l := range c.Brands {
			row := model.Brand{Name: l.Name}
			if err := tx.Where(model.Brand{Name: l.Name}).Attrs(model.Brand{NameEN: l.NameEN}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("brand %q: %w", l.Name, err)
			}
			brandIDs[l.Name] = row.ID
			res.Brands++
		}

		carModels := map[string]model.CarModel{}
		for _, l := range c.CarModels {
			row := model.CarModel{Name: l.Name}
			if err := tx.Where(model.CarModel{Name: l.Name}).Attrs(model.CarModel{NameEN: l.NameEN}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("car model %q: %w", l.Name, err)
			}
			carModels[l.Name] = row
			res.CarModels++
		}

		for _, p := range c.Products {
			created, err := applyProduct(tx, p, categoryIDs, brandIDs, carModels)
			if err != nil {
				return fmt.Errorf("product %q: %w", p.Name, err)
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	return res, err
}

func applyProduct(tx *gorm.DB, p Product, categoryIDs, brandIDs map[string]int64, carModels map[string]model.CarModel) (bool, error) {
	var existing model.Product
	q := tx.Model(&model.Product{})
	if p.SKU != "" {
		q = q.Where("sku = ?", p.SKU)
	} else {
		q = q.Where("name = ?", p.Name)
	}
	err := q.First(&existing).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return false, err
	}

	row := model.Product{
		ID:          existing.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		SKU:         p.SKU,
		ImageURL:    p.ImageURL,
		IsActive:    p.Active == nil || *p.Active,
		CreatedAt:   existing.CreatedAt,
	}
	if id, ok := categoryIDs[p.Category]; ok {
		row.CategoryID = &id
	}
	if id, ok := brandIDs[p.Brand]; ok {
		row.BrandID = &id
	}

	// Save は false/nil も書き込む
	if err := tx.Omit("CarModels").Save(&row).Error; err != nil {
		return false, err
	}

	models := make([]model.CarModel, 0, len(p.CarModels))
	for _, n := range p.CarModels {
		models = append(models, carModels[n])
	}
	if err := tx.Model(&row).Association("CarModels").Replace(models); err != nil {
		return false, err
	}
	return created, nil
}
