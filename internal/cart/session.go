package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"autoparts/internal/domain/model"
	"autoparts/internal/repository"

	"github.com/rs/zerolog"
)

// Session は1ユーザー分のカート。
// 変更と再取得は mu で直列化し、読み取りは stateMu だけで返す。
type Session struct {
	userID    int64
	store     repository.CartItemRepository
	log       zerolog.Logger
	observers []Observer

	mu sync.Mutex

	stateMu sync.RWMutex
	items   []model.CartItem
	loading bool

	subsMu  sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
	closed  bool
}

func newSession(userID int64, store repository.CartItemRepository, log zerolog.Logger, observers []Observer) *Session {
	return &Session{
		userID:    userID,
		store:     store,
		log:       log.With().Int64("user_id", userID).Logger(),
		observers: observers,
		items:     []model.CartItem{},
		subs:      make(map[int]chan Snapshot),
	}
}

func (s *Session) UserID() int64 { return s.userID }

// Fetch はストアの明細で手元の一覧を丸ごと置き換える。
func (s *Session) Fetch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fetchLocked(ctx)
}

// Add は同一商品なら数量を加算する。成功したら再取得。
func (s *Session) Add(ctx context.Context, productID int64, quantity int64) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.AddOrIncrement(ctx, s.userID, productID, quantity); err != nil {
		return s.fail("add", err)
	}
	return s.fetchLocked(ctx)
}

// UpdateQuantity は1未満なら削除として扱う。
func (s *Session) UpdateQuantity(ctx context.Context, itemID int64, quantity int64) error {
	if quantity < 1 {
		return s.Remove(ctx, itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetQuantity(ctx, s.userID, itemID, quantity); err != nil {
		return s.fail("update quantity", err)
	}
	return s.fetchLocked(ctx)
}

func (s *Session) Remove(ctx context.Context, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteByID(ctx, s.userID, itemID); err != nil {
		return s.fail("remove", err)
	}
	return s.fetchLocked(ctx)
}

// Clear は全削除。再取得せずに手元を空にする。
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteByUserID(ctx, s.userID); err != nil {
		return s.fail("clear", err)
	}
	s.replace(ctx, []model.CartItem{})
	return nil
}

// ClearWith は fn（購入確定など）を変更ロックの中で実行し、
// 成功したら Clear と同じく手元を空にする。fn のエラーはそのまま返す。
func (s *Session) ClearWith(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}
	s.replace(ctx, []model.CartItem{})
	return nil
}

func (s *Session) Items() []model.CartItem {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return cloneItems(s.items)
}

func (s *Session) Total() int64 {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return Total(s.items)
}

func (s *Session) Count() int64 {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return Count(s.items)
}

func (s *Session) Loading() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.loading
}

func (s *Session) Snapshot() Snapshot {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return newSnapshot(s.userID, s.items, s.loading)
}

// Subscribe は状態が変わるたびに最新のスナップショットを送る。
// 受信が遅れても古いものは捨てて最新だけが残る。
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	ch := make(chan Snapshot, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// 購読を全部閉じる（LRUから外れたとき）
func (s *Session) close() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Session) fetchLocked(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	items, err := s.store.ListByUserID(ctx, s.userID)
	if err != nil {
		return s.fail("fetch", err)
	}
	if items == nil {
		items = []model.CartItem{}
	}
	s.replace(ctx, items)
	return nil
}

func (s *Session) fail(op string, err error) error {
	ev := s.log.Error()
	if errors.Is(err, repository.ErrInsufficientStock) || errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrProductUnavailable) {
		ev = s.log.Warn()
	}
	ev.Err(err).Str("op", op).Msg("cart operation failed")

	return fmt.Errorf("%w: %s: %w", ErrRemote, op, err)
}

func (s *Session) setLoading(v bool) {
	s.stateMu.Lock()
	if s.loading == v {
		s.stateMu.Unlock()
		return
	}
	s.loading = v
	snap := newSnapshot(s.userID, s.items, s.loading)
	s.stateMu.Unlock()

	s.broadcast(snap)
}

func (s *Session) replace(ctx context.Context, items []model.CartItem) {
	s.stateMu.Lock()
	s.items = items
	snap := newSnapshot(s.userID, s.items, s.loading)
	s.stateMu.Unlock()

	s.broadcast(snap)
	for _, o := range s.observers {
		o.CartChanged(ctx, snap)
	}
}

func (s *Session) broadcast(snap Snapshot) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// 古いものを捨てて入れ直す
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
