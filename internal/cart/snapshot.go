package cart

import "autoparts/internal/domain/model"

// ある時点のカートの状態
type Snapshot struct {
	UserID  int64            `json:"user_id"`
	Items   []model.CartItem `json:"items"`
	Total   int64            `json:"total"`
	Count   int64            `json:"count"`
	Loading bool             `json:"loading"`
}

// 合計金額。商品が取れない明細は0。
func Total(items []model.CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.LineTotal()
	}
	return sum
}

// 合計数量
func Count(items []model.CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Quantity
	}
	return sum
}

func newSnapshot(userID int64, items []model.CartItem, loading bool) Snapshot {
	return Snapshot{
		UserID:  userID,
		Items:   cloneItems(items),
		Total:   Total(items),
		Count:   Count(items),
		Loading: loading,
	}
}

func cloneItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	copy(out, items)
	return out
}
