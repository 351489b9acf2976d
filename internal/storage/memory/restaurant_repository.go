package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

// restaurantRepositoryInMemory хранит арендаторов и заявки на подключение.
type restaurantRepositoryInMemory struct {
	mu            sync.RWMutex
	restaurants   map[string]domain.Restaurant
	bySubdomain   map[string]string
	registrations map[string]domain.RegistrationRequest
}

// NewRestaurantRepository возвращает in-memory реализацию RestaurantRepository.
func NewRestaurantRepository() domain.RestaurantRepository {
	return &restaurantRepositoryInMemory{
		restaurants:   make(map[string]domain.Restaurant),
		bySubdomain:   make(map[string]string),
		registrations: make(map[string]domain.RegistrationRequest),
	}
}

// CreateRestaurant сохраняет нового арендатора; поддомен должен быть уникален.
func (r *restaurantRepositoryInMemory) CreateRestaurant(restaurant domain.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subdomain := strings.ToLower(restaurant.Subdomain)
	if _, taken := r.bySubdomain[subdomain]; taken {
		return domain.ErrSubdomainTaken
	}
	if _, exists := r.restaurants[restaurant.ID]; exists {
		return domain.ErrSubdomainTaken
	}

	r.restaurants[restaurant.ID] = restaurant
	r.bySubdomain[subdomain] = restaurant.ID
	return nil
}

// GetRestaurant возвращает арендатора или ErrRestaurantNotFound.
func (r *restaurantRepositoryInMemory) GetRestaurant(id string) (domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	restaurant, ok := r.restaurants[id]
	if !ok {
		return domain.Restaurant{}, domain.ErrRestaurantNotFound
	}
	return restaurant, nil
}

// GetRestaurantBySubdomain ищет арендатора по поддомену витрины.
func (r *restaurantRepositoryInMemory) GetRestaurantBySubdomain(subdomain string) (domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySubdomain[strings.ToLower(subdomain)]
	if !ok {
		return domain.Restaurant{}, domain.ErrRestaurantNotFound
	}
	return r.restaurants[id], nil
}

// ListRestaurants возвращает всех арендаторов, отсортированных по дате создания.
func (r *restaurantRepositoryInMemory) ListRestaurants() ([]domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Restaurant, 0, len(r.restaurants))
	for _, restaurant := range r.restaurants {
		result = append(result, restaurant)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// SaveRestaurant перезаписывает арендатора.
func (r *restaurantRepositoryInMemory) SaveRestaurant(restaurant domain.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.restaurants[restaurant.ID]
	if !ok {
		return domain.ErrRestaurantNotFound
	}

	// Поддомен может меняться; поддерживаем индекс в согласованном состоянии.
	if !strings.EqualFold(current.Subdomain, restaurant.Subdomain) {
		newSub := strings.ToLower(restaurant.Subdomain)
		if owner, taken := r.bySubdomain[newSub]; taken && owner != restaurant.ID {
			return domain.ErrSubdomainTaken
		}
		delete(r.bySubdomain, strings.ToLower(current.Subdomain))
		r.bySubdomain[newSub] = restaurant.ID
	}

	r.restaurants[restaurant.ID] = restaurant
	return nil
}

// CreateRegistration сохраняет заявку на подключение.
func (r *restaurantRepositoryInMemory) CreateRegistration(req domain.RegistrationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.registrations[req.ID]; exists {
		return domain.ErrRegistrationDecided
	}
	r.registrations[req.ID] = req
	return nil
}

// GetRegistration возвращает заявку или ErrRegistrationNotFound.
func (r *restaurantRepositoryInMemory) GetRegistration(id string) (domain.RegistrationRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.registrations[id]
	if !ok {
		return domain.RegistrationRequest{}, domain.ErrRegistrationNotFound
	}
	return req, nil
}

// ListRegistrations возвращает заявки с указанным статусом ("" — все).
func (r *restaurantRepositoryInMemory) ListRegistrations(status domain.RegistrationStatus) ([]domain.RegistrationRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.RegistrationRequest, 0, len(r.registrations))
	for _, req := range r.registrations {
		if status != "" && req.Status != status {
			continue
		}
		result = append(result, req)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// SaveRegistration перезаписывает заявку.
func (r *restaurantRepositoryInMemory) SaveRegistration(req domain.RegistrationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.registrations[req.ID]; !ok {
		return domain.ErrRegistrationNotFound
	}
	r.registrations[req.ID] = req
	return nil
}

var _ domain.RestaurantRepository = (*restaurantRepositoryInMemory)(nil)
