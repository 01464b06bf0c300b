package usecase

import (
	"context"
	"errors"
	"net/http"

	"autoparts/internal/cart"
	"autoparts/internal/domain/model"
	repo "autoparts/internal/repository"
)

var errEmptyCart = errors.New("cart is empty")

// 購入時の在庫履歴に残す理由
const checkoutReason = "checkout"

// CartUsecase は /cart の業務ロジック。
// 状態はユーザーごとの cart.Session が持つ。
type CartUsecase struct {
	carts  *cart.Manager
	users  repo.UserRepository
	tx     repo.TransactionManager
	prices *PriceFormatter
}

func NewCartUsecase(
	carts *cart.Manager,
	users repo.UserRepository,
	tx repo.TransactionManager,
	prices *PriceFormatter,
) *CartUsecase {
	return &CartUsecase{
		carts:  carts,
		users:  users,
		tx:     tx,
		prices: prices,
	}
}

type CartItemResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url"`
	Stock     int64  `json:"stock"`
	Quantity  int64  `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

type CartResponse struct {
	Items        []CartItemResponse `json:"items"`
	Total        int64              `json:"total"`
	Count        int64              `json:"count"`
	TotalDisplay string             `json:"total_display"`
	Loading      bool               `json:"loading"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

type CheckoutResponse struct {
	Message      string `json:"message"`
	ItemCount    int64  `json:"item_count"`
	Total        int64  `json:"total"`
	TotalDisplay string `json:"total_display"`
}

// GetCart はストアから取り直して返す。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	s, err := u.session(userID)
	if err != nil {
		return CartResponse{}, err
	}

	if err := s.Fetch(ctx); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.ToResponse(s.Snapshot()), nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	s, err := u.session(userID)
	if err != nil {
		return CartResponse{}, err
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	if err := s.Add(ctx, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, cartError(err, MsgProductNotFound, MsgAddToCartFailed)
	}
	return u.ToResponse(s.Snapshot()), nil
}

// 数量変更。1未満は削除。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	s, err := u.session(userID)
	if err != nil {
		return CartResponse{}, err
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := s.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		return CartResponse{}, cartError(err, MsgNotFound, MsgCartUpdateFailed)
	}
	return u.ToResponse(s.Snapshot()), nil
}

// 明細削除
func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, cartItemID int64) (CartResponse, error) {
	s, err := u.session(userID)
	if err != nil {
		return CartResponse{}, err
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := s.Remove(ctx, cartItemID); err != nil {
		return CartResponse{}, cartError(err, MsgNotFound, MsgCartUpdateFailed)
	}
	return u.ToResponse(s.Snapshot()), nil
}

// カートを空にする
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (CartResponse, error) {
	s, err := u.session(userID)
	if err != nil {
		return CartResponse{}, err
	}

	if err := s.Clear(ctx); err != nil {
		return CartResponse{}, cartError(err, MsgNotFound, MsgCartUpdateFailed)
	}
	return u.ToResponse(s.Snapshot()), nil
}

// Checkout は在庫を引き当ててカートを空にする。
// 連絡先と住所がプロフィールにないと進めない。
func (u *CartUsecase) Checkout(ctx context.Context, userID int64) (CheckoutResponse, error) {
	s, err := u.session(userID)
	if err != nil {
		return CheckoutResponse{}, err
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return CheckoutResponse{}, NewHTTPErrorWithDisplay(http.StatusUnauthorized, "unauthorized", MsgSignInRequired)
	}
	if err != nil {
		return CheckoutResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.HasShippingInfo() {
		return CheckoutResponse{}, NewHTTPErrorWithDisplay(http.StatusBadRequest, "profile_incomplete", MsgProfileIncomplete)
	}

	var items []model.CartItem
	err = s.ClearWith(ctx, func(ctx context.Context) error {
		return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			var err error
			items, err = r.CartItems().ListByUserID(ctx, userID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return errEmptyCart
			}

			for _, it := range items {
				// 販売停止中の明細は一覧で商品が付かない
				if it.Product == nil {
					return repo.ErrProductUnavailable
				}
				after, ok, err := r.Inventory().Reserve(ctx, it.ProductID, it.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					return repo.ErrInsufficientStock
				}
				if err := r.Inventory().RecordAdjustment(ctx, &model.InventoryAdjustment{
					ProductID:   it.ProductID,
					Source:      model.AdjustmentSourceCheckout,
					ActorUserID: userID,
					Delta:       -it.Quantity,
					StockAfter:  after,
					Reason:      checkoutReason,
				}); err != nil {
					return err
				}
			}

			return r.CartItems().DeleteByUserID(ctx, userID)
		})
	})
	switch {
	case errors.Is(err, errEmptyCart):
		return CheckoutResponse{}, NewHTTPErrorWithDisplay(http.StatusBadRequest, "empty cart", MsgEmptyCart)
	case errors.Is(err, repo.ErrInsufficientStock):
		return CheckoutResponse{}, NewHTTPErrorWithDisplay(http.StatusConflict, "insufficient stock", MsgInsufficientStock)
	case errors.Is(err, repo.ErrProductUnavailable):
		return CheckoutResponse{}, NewHTTPErrorWithDisplay(http.StatusConflict, "product unavailable", MsgProductUnavailable)
	case err != nil:
		return CheckoutResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	total := cart.Total(items)
	return CheckoutResponse{
		Message:      MsgCheckoutSuccessful,
		ItemCount:    cart.Count(items),
		Total:        total,
		TotalDisplay: u.prices.Format(total),
	}, nil
}

// Watch はカートの変化を購読する（SSE 用）。
func (u *CartUsecase) Watch(userID int64) (<-chan cart.Snapshot, func(), error) {
	s, err := u.session(userID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.Subscribe()
	return ch, cancel, nil
}

func (u *CartUsecase) ToResponse(snap cart.Snapshot) CartResponse {
	items := make([]CartItemResponse, 0, len(snap.Items))
	for _, it := range snap.Items {
		row := CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal(),
		}
		if it.Product != nil {
			row.Name = it.Product.Name
			row.Price = it.Product.Price
			row.ImageURL = it.Product.ImageURL
			row.Stock = it.Product.Stock
		}
		items = append(items, row)
	}

	return CartResponse{
		Items:        items,
		Total:        snap.Total,
		Count:        snap.Count,
		TotalDisplay: u.prices.Format(snap.Total),
		Loading:      snap.Loading,
	}
}

func (u *CartUsecase) session(userID int64) (*cart.Session, error) {
	s, err := u.carts.Session(userID)
	if errors.Is(err, cart.ErrNotAuthenticated) {
		return nil, NewHTTPErrorWithDisplay(http.StatusUnauthorized, "unauthorized", MsgSignInRequired)
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return s, nil
}

// cart のエラー種別を HTTPError に変換
func cartError(err error, notFoundMsg string, failedMsg string) error {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	case errors.Is(err, repo.ErrInsufficientStock):
		return NewHTTPErrorWithDisplay(http.StatusConflict, "insufficient stock", MsgInsufficientStock)
	case errors.Is(err, repo.ErrProductUnavailable):
		return NewHTTPErrorWithDisplay(http.StatusConflict, "product unavailable", MsgProductUnavailable)
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPErrorWithDisplay(http.StatusNotFound, "not found", notFoundMsg)
	default:
		return NewHTTPErrorWithDisplay(http.StatusInternalServerError, "db error", failedMsg)
	}
}
