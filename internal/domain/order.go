package domain

import "time"

// OrderStatus описывает жизненный цикл заказа на стороне ресторана.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, ресторан ещё не подтвердил его.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed — ресторан подтвердил заказ.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusPreparing — заказ готовится на кухне.
	OrderStatusPreparing OrderStatus = "preparing"
	// OrderStatusReady — заказ готов к выдаче/доставке.
	OrderStatusReady OrderStatus = "ready"
	// OrderStatusDelivered — заказ передан клиенту.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён до завершения цикла.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// OrderItem представляет одну позицию заказа — дословную копию строки корзины
// на момент оформления.
type OrderItem struct {
	// ID позиции нужен для однозначной идентификации и аудита.
	ID string
	// MenuItemID — идентификатор позиции меню, из которой создана строка.
	MenuItemID string
	// MenuItemName — название позиции на момент добавления в корзину.
	MenuItemName string
	// Quantity — количество единиц.
	Quantity int32
	// UnitPriceMinor — цена за единицу с учётом опций, в сентаво.
	UnitPriceMinor int64
	// TotalPriceMinor — сумма строки: quantity * unit price.
	TotalPriceMinor int64
	// SelectedOptions — снимок выбранных опций.
	SelectedOptions []SelectedOption
	// Notes — свободный комментарий клиента к позиции.
	Notes string
	// CreatedAt фиксирует момент создания позиции.
	CreatedAt time.Time
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID               string
	RestaurantID     string
	Status           OrderStatus
	Items            []OrderItem
	TotalAmountMinor int64
	CustomerName     string
	CustomerPhone    string
	Notes            string
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.RestaurantID == "" {
		errs = append(errs, ErrRestaurantRequired)
	}
	if o.CustomerName == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if o.CustomerPhone == "" {
		errs = append(errs, ErrCustomerPhoneRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.TotalAmountMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrOrderStatusInvalid)
	}

	// Сверяем сумму заказа с суммой позиций.
	var calc int64
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.UnitPriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc += item.TotalPriceMinor
	}
	if calc != o.TotalAmountMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
