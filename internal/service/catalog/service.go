package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

// Storefront — публичное представление витрины: ресторан, категории и
// активные позиции меню.
type Storefront struct {
	Restaurant domain.Restaurant
	Categories []domain.Category
	Items      []domain.MenuItem
}

// Service обслуживает каталог: публичную витрину и управление меню
// из панели ресторана.
type Service struct {
	restaurants domain.RestaurantRepository
	menu        domain.MenuRepository
	logger      *log.Entry
}

// NewService создаёт сервис каталога.
func NewService(restaurants domain.RestaurantRepository, menu domain.MenuRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "catalog-service")
	}
	return &Service{
		restaurants: restaurants,
		menu:        menu,
		logger:      logger,
	}
}

// StorefrontBySubdomain собирает витрину по поддомену. Скрытые позиции меню
// не попадают в публичный ответ; приостановленный ресторан недоступен.
func (s *Service) StorefrontBySubdomain(subdomain string) (Storefront, error) {
	restaurant, err := s.restaurants.GetRestaurantBySubdomain(strings.ToLower(strings.TrimSpace(subdomain)))
	if err != nil {
		return Storefront{}, err
	}
	if restaurant.Status == domain.RestaurantStatusSuspended {
		return Storefront{}, domain.ErrRestaurantSuspended
	}

	categories, err := s.menu.ListCategories(restaurant.ID)
	if err != nil {
		return Storefront{}, err
	}
	items, err := s.menu.ListMenuItems(restaurant.ID)
	if err != nil {
		return Storefront{}, err
	}

	active := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if item.IsActive {
			active = append(active, item)
		}
	}

	return Storefront{
		Restaurant: restaurant,
		Categories: categories,
		Items:      active,
	}, nil
}

// GetMenuItem возвращает позицию меню ресторана. Чужие и скрытые позиции
// недоступны клиенту.
func (s *Service) GetMenuItem(restaurantID, itemID string) (domain.MenuItem, error) {
	item, err := s.menu.GetMenuItem(itemID)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if item.RestaurantID != restaurantID {
		return domain.MenuItem{}, domain.ErrMenuItemNotFound
	}
	if !item.IsActive {
		return domain.MenuItem{}, domain.ErrMenuItemInactive
	}
	return item, nil
}

// ListMenu возвращает полное меню ресторана для панели управления,
// включая скрытые позиции.
func (s *Service) ListMenu(restaurantID string) ([]domain.Category, []domain.MenuItem, error) {
	if _, err := s.restaurants.GetRestaurant(restaurantID); err != nil {
		return nil, nil, err
	}
	categories, err := s.menu.ListCategories(restaurantID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.menu.ListMenuItems(restaurantID)
	if err != nil {
		return nil, nil, err
	}
	return categories, items, nil
}

// SaveCategory создаёт или обновляет категорию меню.
func (s *Service) SaveCategory(c domain.Category) (domain.Category, error) {
	if c.RestaurantID == "" {
		return domain.Category{}, domain.ErrRestaurantRequired
	}
	if _, err := s.restaurants.GetRestaurant(c.RestaurantID); err != nil {
		return domain.Category{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Name = strings.TrimSpace(c.Name)
	if err := s.menu.UpsertCategory(c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

// SaveMenuItem создаёт или обновляет позицию меню.
func (s *Service) SaveMenuItem(item domain.MenuItem) (domain.MenuItem, error) {
	if item.RestaurantID == "" {
		return domain.MenuItem{}, domain.ErrRestaurantRequired
	}
	if _, err := s.restaurants.GetRestaurant(item.RestaurantID); err != nil {
		return domain.MenuItem{}, err
	}
	if item.PriceMinor < 0 {
		return domain.MenuItem{}, domain.ErrItemPriceInvalid
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.Name = strings.TrimSpace(item.Name)
	if err := s.menu.UpsertMenuItem(item); err != nil {
		return domain.MenuItem{}, err
	}

	s.logger.WithFields(log.Fields{
		"restaurant_id": item.RestaurantID,
		"menu_item_id":  item.ID,
	}).Debug("menu item saved")
	return item, nil
}

// UpdateTheme сохраняет оформление витрины ресторана.
func (s *Service) UpdateTheme(restaurantID string, theme domain.RestaurantTheme) (domain.Restaurant, error) {
	restaurant, err := s.restaurants.GetRestaurant(restaurantID)
	if err != nil {
		return domain.Restaurant{}, err
	}
	restaurant.Theme = theme
	restaurant.UpdatedAt = time.Now().UTC()
	if err := s.restaurants.SaveRestaurant(restaurant); err != nil {
		return domain.Restaurant{}, err
	}
	return restaurant, nil
}
