package cart

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

// Engine владеет состоянием одной корзины и применяет к нему операции.
// Ядро переходов чистое (см. transitions.go); Engine — эффектная оболочка,
// которая после каждой мутации синхронно пишет снимок в CartStore.
//
// Методы Engine не потокобезопасны: одновременный доступ сериализует Manager.
type Engine struct {
	key    string
	state  domain.CartState
	store  domain.CartStore
	logger *log.Entry
}

// NewEngine восстанавливает корзину из хранилища или начинает с пустого
// состояния. Повреждённый или нечитаемый снимок трактуется как отсутствие
// корзины, а не как ошибка.
func NewEngine(key string, store domain.CartStore, logger *log.Entry) *Engine {
	if logger == nil {
		logger = log.WithField("component", "cart-engine")
	}
	logger = logger.WithField("cart_key", key)

	e := &Engine{
		key:    key,
		state:  domain.EmptyCart(),
		store:  store,
		logger: logger,
	}
	e.restore()
	return e
}

func (e *Engine) restore() {
	if e.store == nil {
		return
	}

	snapshot, err := e.store.Load(e.key)
	if err != nil {
		e.logger.WithError(err).Warn("не удалось прочитать снимок корзины, начинаем с пустой")
		return
	}
	if len(snapshot) == 0 {
		return
	}

	var state domain.CartState
	if err := json.Unmarshal(snapshot, &state); err != nil {
		e.logger.WithError(err).Warn("снимок корзины повреждён, начинаем с пустой")
		return
	}
	if errs := state.ValidateInvariants(); len(errs) != 0 {
		e.logger.WithField("violations", len(errs)).Warn("снимок корзины нарушает инварианты, начинаем с пустой")
		return
	}
	if state.Items == nil {
		state.Items = []domain.CartLineItem{}
	}
	e.state = state
}

// persist пишет текущее состояние в хранилище. Запись best-effort: при
// недоступности хранилища in-memory состояние остаётся источником истины
// для текущей сессии.
func (e *Engine) persist() {
	if e.store == nil {
		return
	}

	snapshot, err := json.Marshal(e.state)
	if err != nil {
		e.logger.WithError(err).Warn("failed to marshal cart snapshot")
		return
	}
	if err := e.store.Save(e.key, snapshot); err != nil {
		e.logger.WithError(err).Warn("failed to persist cart snapshot")
	}
}

// Add добавляет позицию меню в корзину (или наращивает количество существующей
// строки) и возвращает новое состояние.
func (e *Engine) Add(in AddInput) domain.CartState {
	e.state = applyAdd(e.state, in)
	e.persist()
	return e.Snapshot()
}

// Remove удаляет строку корзины; отсутствие строки — no-op, не ошибка.
func (e *Engine) Remove(menuItemID string) domain.CartState {
	e.state = applyRemove(e.state, menuItemID)
	e.persist()
	return e.Snapshot()
}

// UpdateQuantity выставляет количество строки; <= 0 удаляет строку.
func (e *Engine) UpdateQuantity(menuItemID string, quantity int32) domain.CartState {
	e.state = applyUpdateQuantity(e.state, menuItemID, quantity)
	e.persist()
	return e.Snapshot()
}

// Clear сбрасывает корзину, сохраняя контекст ресторана.
func (e *Engine) Clear() domain.CartState {
	e.state = applyClear(e.state)
	e.persist()
	return e.Snapshot()
}

// SetRestaurant переключает корзину на ресторан. При смене арендатора строки
// сбрасываются (корзины разных ресторанов никогда не смешиваются).
func (e *Engine) SetRestaurant(restaurantID string) domain.CartState {
	e.state = applySetRestaurant(e.state, restaurantID)
	e.persist()
	return e.Snapshot()
}

// Snapshot возвращает копию состояния для чтения. Мутации копии не влияют
// на внутреннее состояние движка.
func (e *Engine) Snapshot() domain.CartState {
	return e.state.Clone()
}
