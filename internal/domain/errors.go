package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора ресторана.
	ErrRestaurantRequired = errors.New("restaurant_id is required")
	// Ошибка отсутствующего имени клиента при оформлении заказа.
	ErrCustomerNameRequired = errors.New("customer name is required")
	// Ошибка отсутствующего или некорректного телефона клиента.
	ErrCustomerPhoneRequired = errors.New("customer phone is required")
	// Ошибка некорректного бразильского номера телефона.
	ErrCustomerPhoneInvalid = errors.New("customer phone must be a valid brazilian number")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отрицательной суммы.
	ErrAmountNegative = errors.New("amount_minor must be non-negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order amount does not match items sum")
	// Ошибка неподдерживаемого статуса заказа.
	ErrOrderStatusInvalid = errors.New("order status is not supported")
	// Ошибка недопустимого перехода статуса заказа.
	ErrOrderStatusTransition = errors.New("order status transition is not allowed")

	// Ошибка строки корзины без идентификатора позиции меню.
	ErrCartItemIDRequired = errors.New("cart line item requires menu_item_id")
	// Ошибка дублирования позиции меню в корзине.
	ErrCartItemDuplicated = errors.New("cart contains duplicate menu_item_id")
	// Ошибка строки корзины с количеством < 1.
	ErrCartQtyInvalid = errors.New("cart line quantity must be at least one")
	// Ошибка строки корзины с отрицательной ценой.
	ErrCartPriceInvalid = errors.New("cart line price must be non-negative")
	// Ошибка несоответствия суммы строки произведению qty * unit price.
	ErrCartLineTotalMismatch = errors.New("cart line total does not match quantity * unit price")
	// Ошибка несоответствия итога корзины сумме строк.
	ErrCartTotalMismatch = errors.New("cart total does not match items sum")
	// ErrCartEmpty возвращается при попытке оформить пустую корзину.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrRestaurantNotFound возвращается, если ресторан не найден.
	ErrRestaurantNotFound = errors.New("restaurant not found")
	// ErrRestaurantSuspended — ресторан приостановлен и не принимает заказы.
	ErrRestaurantSuspended = errors.New("restaurant is suspended")
	// ErrSubdomainTaken — поддомен уже занят другим рестораном.
	ErrSubdomainTaken = errors.New("subdomain is already taken")
	// ErrMenuItemNotFound возвращается, если позиция меню не найдена.
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrMenuItemInactive — позиция меню скрыта и недоступна для заказа.
	ErrMenuItemInactive = errors.New("menu item is not active")
	// ErrRegistrationNotFound возвращается, если заявка не найдена.
	ErrRegistrationNotFound = errors.New("registration request not found")
	// ErrRegistrationDecided — заявка уже одобрена или отклонена.
	ErrRegistrationDecided = errors.New("registration request already decided")
	// ErrPlanInvalid — неподдерживаемый тарифный план.
	ErrPlanInvalid = errors.New("plan is not supported")

	// Ошибки заявки на регистрацию.
	ErrRestaurantNameRequired = errors.New("restaurant name is required")
	ErrOwnerNameRequired      = errors.New("owner name is required")
	ErrEmailRequired          = errors.New("email is required")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")

	// Ошибки обработки idempotency-key на checkout.
	ErrIdempotencyKeyRequired         = errors.New("idempotency key is required")
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	ErrIdempotencyKeyAlreadyExists    = errors.New("idempotency key already exists")
	ErrIdempotencyHashMismatch        = errors.New("idempotency key reused with different request")
	ErrIdempotencyKeyNotFound         = errors.New("idempotency key not found")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}
