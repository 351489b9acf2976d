package cart

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

// Manager выдаёт по одному Engine на ключ корзины (сессию клиента) и
// сериализует операции над каждой корзиной.
type Manager struct {
	mu      sync.Mutex
	engines map[string]*managedEngine
	store   domain.CartStore
	logger  *log.Entry
}

type managedEngine struct {
	mu     sync.Mutex
	engine *Engine
}

// NewManager создаёт менеджер корзин с общим хранилищем снимков.
func NewManager(store domain.CartStore, logger *log.Entry) *Manager {
	if logger == nil {
		logger = log.WithField("component", "cart-manager")
	}
	return &Manager{
		engines: make(map[string]*managedEngine),
		store:   store,
		logger:  logger,
	}
}

// WithEngine выполняет fn над движком корзины key, удерживая её эксклюзивно.
// Движок создаётся (и восстанавливается из снимка) при первом обращении.
func (m *Manager) WithEngine(key string, fn func(*Engine)) {
	m.mu.Lock()
	managed, ok := m.engines[key]
	if !ok {
		managed = &managedEngine{}
		m.engines[key] = managed
	}
	m.mu.Unlock()

	managed.mu.Lock()
	defer managed.mu.Unlock()

	if managed.engine == nil {
		managed.engine = NewEngine(key, m.store, m.logger)
	}
	fn(managed.engine)
}

// Snapshot возвращает копию состояния корзины key.
func (m *Manager) Snapshot(key string) domain.CartState {
	var state domain.CartState
	m.WithEngine(key, func(e *Engine) {
		state = e.Snapshot()
	})
	return state
}

// Drop выбрасывает движок из памяти и удаляет снимок из хранилища.
// Используется после успешного checkout, когда сессия корзины завершена.
func (m *Manager) Drop(key string) {
	m.mu.Lock()
	delete(m.engines, key)
	m.mu.Unlock()

	if m.store == nil {
		return
	}
	if err := m.store.Delete(key); err != nil {
		m.logger.WithError(err).WithField("cart_key", key).Warn("failed to delete cart snapshot")
	}
}

// ActiveCount возвращает число корзин, загруженных в память.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.engines)
}
