package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderCancelled     EventType = "order.cancelled"

	// Tenant события
	EventTypeTenantRegistered  EventType = "tenant.registered"
	EventTypeTenantApproved    EventType = "tenant.approved"
	EventTypeTenantRejected    EventType = "tenant.rejected"
	EventTypeTenantPlanChanged EventType = "tenant.plan_changed"
	EventTypeTenantSuspended   EventType = "tenant.suspended"
	EventTypeTenantReactivated EventType = "tenant.reactivated"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "cardapio.order.events"
	TopicTenantEvents    = "cardapio.tenant.events"
	TopicDeadLetterQueue = "cardapio.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventType    EventType              `json:"event_type"`
	OrderID      string                 `json:"order_id"`
	RestaurantID string                 `json:"restaurant_id"`
	Status       string                 `json:"status"`
	Timestamp    time.Time              `json:"timestamp"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// TenantEvent представляет событие жизненного цикла арендатора
type TenantEvent struct {
	EventType    EventType              `json:"event_type"`
	RestaurantID string                 `json:"restaurant_id,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Plan         string                 `json:"plan,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, restaurantID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType:    eventType,
		OrderID:      orderID,
		RestaurantID: restaurantID,
		Status:       status,
		Timestamp:    time.Now(),
		Metadata:     metadata,
	}
}

// NewTenantEvent создает новое событие арендатора
func NewTenantEvent(eventType EventType, restaurantID, requestID, plan string, metadata map[string]interface{}) *TenantEvent {
	return &TenantEvent{
		EventType:    eventType,
		RestaurantID: restaurantID,
		RequestID:    requestID,
		Plan:         plan,
		Timestamp:    time.Now(),
		Metadata:     metadata,
	}
}
