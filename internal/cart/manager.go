package cart

import (
	"context"
	"sync"
)

// Manager opens carts by key and serializes work on the same key, so two
// requests for one cart cannot interleave their load and save.
type Manager struct {
	storage Storage

	mu    sync.Mutex
	locks map[string]*keyLock
}

// keyLock is dropped from the map once no caller holds or waits on it.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
		locks:   make(map[string]*keyLock),
	}
}

// With loads the cart under key and runs fn while holding the key's lock.
func (m *Manager) With(ctx context.Context, key string, fn func(*Store) error) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}

	l := m.acquire(key)
	defer m.release(key, l)

	store, err := Open(ctx, m.storage, key)
	if err != nil {
		return err
	}
	return fn(store)
}

func (m *Manager) acquire(key string) *keyLock {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyLock{}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return l
}

func (m *Manager) release(key string, l *keyLock) {
	l.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
}
