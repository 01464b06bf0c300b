package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// 一意制約違反（email重複など）
	ErrConflict = errors.New("conflict")

	// 在庫より多い数量を確定しようとした
	ErrInsufficientStock = errors.New("insufficient stock")

	// 商品はあるが販売停止中
	ErrProductUnavailable = errors.New("product unavailable")
)
