package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

// menuRepositoryInMemory хранит каталог: категории и позиции меню.
type menuRepositoryInMemory struct {
	mu         sync.RWMutex
	categories map[string]domain.Category
	items      map[string]domain.MenuItem
}

// NewMenuRepository возвращает in-memory реализацию MenuRepository.
func NewMenuRepository() domain.MenuRepository {
	return &menuRepositoryInMemory{
		categories: make(map[string]domain.Category),
		items:      make(map[string]domain.MenuItem),
	}
}

// ListCategories возвращает категории ресторана в порядке сортировки.
func (r *menuRepositoryInMemory) ListCategories(restaurantID string) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Category, 0)
	for _, c := range r.categories {
		if c.RestaurantID != restaurantID {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// ListMenuItems возвращает позиции меню ресторана.
func (r *menuRepositoryInMemory) ListMenuItems(restaurantID string) ([]domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.MenuItem, 0)
	for _, item := range r.items {
		if item.RestaurantID != restaurantID {
			continue
		}
		result = append(result, cloneMenuItem(item))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CategoryID != result[j].CategoryID {
			return result[i].CategoryID < result[j].CategoryID
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// GetMenuItem возвращает позицию меню или ErrMenuItemNotFound.
func (r *menuRepositoryInMemory) GetMenuItem(id string) (domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return domain.MenuItem{}, domain.ErrMenuItemNotFound
	}
	return cloneMenuItem(item), nil
}

// UpsertCategory сохраняет категорию.
func (r *menuRepositoryInMemory) UpsertCategory(c domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories[c.ID] = c
	return nil
}

// UpsertMenuItem сохраняет позицию меню.
func (r *menuRepositoryInMemory) UpsertMenuItem(item domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneMenuItem(item)
	return nil
}

func cloneMenuItem(src domain.MenuItem) domain.MenuItem {
	dst := src
	if len(src.Options) == 0 {
		return dst
	}
	dst.Options = make([]domain.MenuItemOption, len(src.Options))
	copy(dst.Options, src.Options)
	for i, opt := range src.Options {
		choices := make([]domain.MenuOptionChoice, len(opt.Choices))
		copy(choices, opt.Choices)
		dst.Options[i].Choices = choices
	}
	return dst
}

var _ domain.MenuRepository = (*menuRepositoryInMemory)(nil)
