package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"autoparts/internal/domain/model"
	repo "autoparts/internal/repository"

	"golang.org/x/sync/errgroup"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	categories  repo.LookupRepository[model.Category]
	brands      repo.LookupRepository[model.Brand]
	carModels   repo.LookupRepository[model.CarModel]
	inventory   repo.InventoryRepository
	auditRepo   repo.AuditLogRepository
	tx          repo.TransactionManager
	prices      *PriceFormatter
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categories repo.LookupRepository[model.Category],
	brands repo.LookupRepository[model.Brand],
	carModels repo.LookupRepository[model.CarModel],
	inventory repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
	tx repo.TransactionManager,
	prices *PriceFormatter,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		categories:  categories,
		brands:      brands,
		carModels:   carModels,
		inventory:   inventory,
		auditRepo:   auditRepo,
		tx:          tx,
		prices:      prices,
	}
}

// 商品＋表示用価格
type ProductView struct {
	model.Product
	PriceDisplay string `json:"price_display"`
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	BrandID    *int64
	MinPrice   *int64
	MaxPrice   *int64
	Sort       string
}

type ProductListOutput struct {
	Items []ProductView `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	return u.list(ctx, in, false)
}

// 管理画面用。非公開も含めて新しい順。
func (u *ProductUsecase) AdminListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	return u.list(ctx, in, true)
}

func (u *ProductUsecase) list(ctx context.Context, in ListProductsInput, includeInactive bool) (ProductListOutput, error) {
	if err := validateListInput(in); err != nil {
		return ProductListOutput{}, err
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:            in.Page,
		Limit:           in.Limit,
		Q:               strings.TrimSpace(in.Q),
		CategoryID:      in.CategoryID,
		BrandID:         in.BrandID,
		MinPrice:        in.MinPrice,
		MaxPrice:        in.MaxPrice,
		Sort:            in.Sort,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]ProductView, 0, len(items))
	for _, p := range items {
		views = append(views, u.view(p))
	}

	return ProductListOutput{
		Items: views,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func validateListInput(in ListProductsInput) error {
	if in.Page < 1 {
		return NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid sort")
	}
	return nil
}

// 非公開・存在しない商品は 404
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductView, error) {
	if productID <= 0 {
		return ProductView{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductView{}, NewHTTPErrorWithDisplay(http.StatusNotFound, "not found", MsgProductNotFound)
	}
	if err != nil {
		return ProductView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !p.IsActive {
		return ProductView{}, NewHTTPErrorWithDisplay(http.StatusNotFound, "not found", MsgProductNotFound)
	}
	return u.view(p), nil
}

func (u *ProductUsecase) view(p model.Product) ProductView {
	return ProductView{Product: p, PriceDisplay: u.prices.Format(p.Price)}
}

type AdminProductInput struct {
	Name        string
	Description string
	Price       int64
	Stock       int64
	SKU         string
	ImageURL    string
	CategoryID  *int64
	BrandID     *int64
	// nil なら適合車種は変更しない（作成時は無し）
	CarModelIDs []int64
	// nil なら作成時は公開、更新時は変更しない
	IsActive *bool
}

func validateProductInput(in AdminProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         strings.TrimSpace(in.SKU),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CategoryID:  in.CategoryID,
		BrandID:     in.BrandID,
		IsActive:    active,
	}, in.CarModelIDs)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid reference")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := writeAudit(ctx, u.auditRepo, adminUserID, model.AuditActionCreate, model.AuditResourceProduct, p.ID, nil, p); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	active := before.IsActive
	if in.IsActive != nil {
		active = *in.IsActive
	}

	err = u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         strings.TrimSpace(in.SKU),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CategoryID:  in.CategoryID,
		BrandID:     in.BrandID,
		IsActive:    active,
	}, in.CarModelIDs)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid reference")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	after, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := writeAudit(ctx, u.auditRepo, adminUserID, model.AuditActionUpdate, model.AuditResourceProduct, productID, before, after); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return after, nil
}

// 論理削除。全ユーザーのカートからも外れる。
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.productRepo.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := writeAudit(ctx, u.auditRepo, adminUserID, model.AuditActionDelete, model.AuditResourceProduct, productID, before, nil); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type stockSnapshot struct {
	Stock int64 `json:"stock"`
}

// 在庫の現在値を設定し、調整履歴と監査ログを同じトランザクションで残す。
func (u *ProductUsecase) AdminUpdateInventory(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return NewHTTPError(http.StatusBadRequest, "reason required")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Inventory().SetStock(ctx, productID, newStock)
		if err != nil {
			return err
		}

		//履歴を作成（差分）
		if err := r.Inventory().RecordAdjustment(ctx, &model.InventoryAdjustment{
			ProductID:   productID,
			Source:      model.AdjustmentSourceAdmin,
			ActorUserID: adminUserID,
			Delta:       newStock - before,
			StockAfter:  newStock,
			Reason:      reason,
		}); err != nil {
			return err
		}

		return writeAudit(ctx, r.AuditLogs(), adminUserID, model.AuditActionUpdateStock, model.AuditResourceProduct, productID,
			stockSnapshot{Stock: before}, stockSnapshot{Stock: newStock})
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

const (
	defaultAdjustmentLimit = 50
	maxAdjustmentLimit     = 200
)

// 在庫の増減履歴（新しい順）
func (u *ProductUsecase) AdminListAdjustments(ctx context.Context, productID int64, limit int) ([]model.InventoryAdjustment, error) {
	if productID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if limit <= 0 {
		limit = defaultAdjustmentLimit
	}
	if limit > maxAdjustmentLimit {
		limit = maxAdjustmentLimit
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPErrorWithDisplay(http.StatusNotFound, "not found", MsgProductNotFound)
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rows, err := u.inventory.ListAdjustments(ctx, productID, limit)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rows, nil
}

type AdminOverview struct {
	ProductCount   int64            `json:"product_count"`
	LatestProducts []ProductView    `json:"latest_products"`
	Categories     []model.Category `json:"categories"`
	Brands         []model.Brand    `json:"brands"`
	CarModels      []model.CarModel `json:"car_models"`
}

const overviewLatest = 10

// 管理画面トップ。商品・カテゴリ・ブランド・車種を並行に読む。
func (u *ProductUsecase) AdminOverview(ctx context.Context) (AdminOverview, error) {
	var out AdminOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, total, err := u.productRepo.List(gctx, repo.ProductListQuery{
			Page:            1,
			Limit:           overviewLatest,
			IncludeInactive: true,
		})
		if err != nil {
			return err
		}
		out.ProductCount = total
		out.LatestProducts = make([]ProductView, 0, len(items))
		for _, p := range items {
			out.LatestProducts = append(out.LatestProducts, u.view(p))
		}
		return nil
	})
	g.Go(func() error {
		rows, err := u.categories.List(gctx)
		out.Categories = rows
		return err
	})
	g.Go(func() error {
		rows, err := u.brands.List(gctx)
		out.Brands = rows
		return err
	})
	g.Go(func() error {
		rows, err := u.carModels.List(gctx)
		out.CarModels = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return AdminOverview{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return out, nil
}
