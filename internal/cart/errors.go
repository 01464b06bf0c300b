package cart

import "errors"

var (
	// 未ログイン。ストアには問い合わせない。
	ErrNotAuthenticated = errors.New("cart: not authenticated")

	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

	// ストア呼び出しの失敗。元のエラーも errors.Is で辿れる。
	ErrRemote = errors.New("cart: remote store error")
)
