package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

// cartStoreInMemory — key-value хранилище снимков корзин для локальной
// разработки и тестов. Снимки хранятся как непрозрачные байты: формат
// принадлежит движку корзины.
type cartStoreInMemory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewCartStore возвращает in-memory реализацию CartStore.
func NewCartStore() domain.CartStore {
	return &cartStoreInMemory{slots: make(map[string][]byte)}
}

// Load возвращает снимок по ключу; отсутствие снимка — (nil, nil).
func (s *cartStoreInMemory) Load(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.slots[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(snapshot))
	copy(out, snapshot)
	return out, nil
}

// Save перезаписывает снимок по ключу.
func (s *cartStoreInMemory) Save(key string, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	stored := make([]byte, len(snapshot))
	copy(stored, snapshot)
	s.slots[key] = stored
	return nil
}

// Delete удаляет снимок; отсутствие ключа — no-op.
func (s *cartStoreInMemory) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, key)
	return nil
}

var _ domain.CartStore = (*cartStoreInMemory)(nil)
