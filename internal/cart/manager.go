package cart

import (
	"fmt"
	"sync"

	"autoparts/internal/repository"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// Manager はログイン中ユーザーごとの Session を持つ。
// 数は LRU で制限し、追い出された Session の購読は閉じる。
type Manager struct {
	store     repository.CartItemRepository
	log       zerolog.Logger
	observers []Observer

	mu       sync.Mutex
	sessions *lru.Cache[int64, *Session]
}

func NewManager(store repository.CartItemRepository, size int, log zerolog.Logger, observers ...Observer) (*Manager, error) {
	m := &Manager{
		store:     store,
		log:       log.With().Str("component", "cart").Logger(),
		observers: observers,
	}

	cache, err := lru.NewWithEvict[int64, *Session](size, func(userID int64, s *Session) {
		s.close()
	})
	if err != nil {
		return nil, fmt.Errorf("cart session cache: %w", err)
	}
	m.sessions = cache

	return m, nil
}

// Session はユーザーのカートを返す。未ログイン（userID <= 0）はエラー。
// 初回は空のまま返すので、必要なら Fetch すること。
func (m *Manager) Session(userID int64) (*Session, error) {
	if userID <= 0 {
		return nil, ErrNotAuthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions.Get(userID); ok {
		return s, nil
	}

	s := newSession(userID, m.store, m.log, m.observers)
	m.sessions.Add(userID, s)
	return s, nil
}

// Forget はログアウト時に Session を捨てる。
func (m *Manager) Forget(userID int64) {
	m.sessions.Remove(userID)
}

func (m *Manager) Len() int {
	return m.sessions.Len()
}

// Close は全 Session を捨てて購読を閉じる（シャットダウン時）
func (m *Manager) Close() {
	m.sessions.Purge()
}
