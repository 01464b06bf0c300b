package kafka

import (
	"context"
	"strconv"
	"time"

	"autoparts/internal/cart"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const CartChangedEvent = "cart.changed"

type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// トピックに流すカート変更イベント
type CartChanged struct {
	EventID    string     `json:"event_id"`
	EventType  string     `json:"event_type"`
	UserID     int64      `json:"user_id"`
	Lines      []CartLine `json:"lines"`
	Total      int64      `json:"total"`
	Count      int64      `json:"count"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// CartPublisher は cart.Observer。キーは user_id なので同じユーザーの順序は保たれる。
type CartPublisher struct {
	producer *Producer
	log      zerolog.Logger
	now      func() time.Time
}

func NewCartPublisher(producer *Producer, log zerolog.Logger) *CartPublisher {
	return &CartPublisher{producer: producer, log: log, now: time.Now}
}

var _ cart.Observer = (*CartPublisher)(nil)

func (p *CartPublisher) CartChanged(ctx context.Context, snap cart.Snapshot) {
	lines := make([]CartLine, 0, len(snap.Items))
	for _, it := range snap.Items {
		lines = append(lines, CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	ev := CartChanged{
		EventID:    uuid.NewString(),
		EventType:  CartChangedEvent,
		UserID:     snap.UserID,
		Lines:      lines,
		Total:      snap.Total,
		Count:      snap.Count,
		OccurredAt: p.now().UTC(),
	}

	// リクエストが終わっても送信は続ける
	if err := p.producer.Publish(context.WithoutCancel(ctx), strconv.FormatInt(snap.UserID, 10), ev); err != nil {
		p.log.Error().Err(err).Int64("user_id", snap.UserID).Msg("publish cart event failed")
	}
}
