package domain

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// ListByRestaurant возвращает заказы ресторана с опциональным ограничением на количество.
	ListByRestaurant(restaurantID string, limit int) ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
}

// RestaurantRepository описывает хранилище арендаторов и заявок на подключение.
type RestaurantRepository interface {
	// CreateRestaurant сохраняет нового арендатора; поддомен должен быть уникален.
	CreateRestaurant(r Restaurant) error
	// GetRestaurant возвращает арендатора по идентификатору.
	GetRestaurant(id string) (Restaurant, error)
	// GetRestaurantBySubdomain возвращает арендатора по поддомену витрины.
	GetRestaurantBySubdomain(subdomain string) (Restaurant, error)
	// ListRestaurants возвращает всех арендаторов платформы.
	ListRestaurants() ([]Restaurant, error)
	// SaveRestaurant перезаписывает арендатора.
	SaveRestaurant(r Restaurant) error

	// CreateRegistration сохраняет заявку на подключение.
	CreateRegistration(req RegistrationRequest) error
	// GetRegistration возвращает заявку по идентификатору.
	GetRegistration(id string) (RegistrationRequest, error)
	// ListRegistrations возвращает заявки с указанным статусом ("" — все).
	ListRegistrations(status RegistrationStatus) ([]RegistrationRequest, error)
	// SaveRegistration перезаписывает заявку.
	SaveRegistration(req RegistrationRequest) error
}

// MenuRepository описывает хранилище каталога: категории и позиции меню.
type MenuRepository interface {
	// ListCategories возвращает категории ресторана в порядке сортировки.
	ListCategories(restaurantID string) ([]Category, error)
	// ListMenuItems возвращает позиции меню ресторана.
	ListMenuItems(restaurantID string) ([]MenuItem, error)
	// GetMenuItem возвращает позицию меню или ErrMenuItemNotFound.
	GetMenuItem(id string) (MenuItem, error)
	// UpsertCategory сохраняет категорию.
	UpsertCategory(c Category) error
	// UpsertMenuItem сохраняет позицию меню.
	UpsertMenuItem(item MenuItem) error
}
