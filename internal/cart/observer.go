package cart

import "context"

// カートの中身が変わったときに呼ばれる（イベント配信など）。
// ロック外・同期で呼ぶのでブロックしないこと。
type Observer interface {
	CartChanged(ctx context.Context, snap Snapshot)
}

type ObserverFunc func(ctx context.Context, snap Snapshot)

func (f ObserverFunc) CartChanged(ctx context.Context, snap Snapshot) { f(ctx, snap) }
