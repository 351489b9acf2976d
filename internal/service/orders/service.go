package orders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/cardapio/internal/metrics"
)

// Число повторов Save при конфликте версий.
const maxSaveRetries = 3

// allowedTransitions описывает машину статусов заказа. delivered и cancelled —
// терминальные состояния.
var allowedTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusPending:   {domain.OrderStatusConfirmed, domain.OrderStatusCancelled},
	domain.OrderStatusConfirmed: {domain.OrderStatusPreparing, domain.OrderStatusCancelled},
	domain.OrderStatusPreparing: {domain.OrderStatusReady, domain.OrderStatusCancelled},
	domain.OrderStatusReady:     {domain.OrderStatusDelivered, domain.OrderStatusCancelled},
}

// CanTransition проверяет допустимость перехода from -> to.
func CanTransition(from, to domain.OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Service обслуживает панель ресторана: просмотр заказов и смена статусов.
type Service struct {
	orders   domain.OrderRepository
	timeline domain.TimelineRepository
	outbox   domain.OutboxRepository
	metrics  *metrics.CartMetrics
	logger   *log.Entry
}

// NewService создаёт сервис заказов. timeline, outbox и metrics опциональны.
func NewService(
	orders domain.OrderRepository,
	timeline domain.TimelineRepository,
	outbox domain.OutboxRepository,
	cartMetrics *metrics.CartMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "orders-service")
	}
	return &Service{
		orders:   orders,
		timeline: timeline,
		outbox:   outbox,
		metrics:  cartMetrics,
		logger:   logger,
	}
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(id string) (domain.Order, error) {
	return s.orders.Get(id)
}

// ListByRestaurant возвращает заказы ресторана, новые первыми.
func (s *Service) ListByRestaurant(restaurantID string, limit int) ([]domain.Order, error) {
	if restaurantID == "" {
		return nil, domain.ErrRestaurantRequired
	}
	return s.orders.ListByRestaurant(restaurantID, limit)
}

// Timeline возвращает события жизненного цикла заказа.
func (s *Service) Timeline(orderID string) ([]domain.TimelineEvent, error) {
	if s.timeline == nil {
		return nil, nil
	}
	if _, err := s.orders.Get(orderID); err != nil {
		return nil, err
	}
	return s.timeline.List(orderID)
}

// UpdateStatus переводит заказ в новый статус согласно машине статусов.
// Конфликт версий разрешается перечитыванием заказа и повтором.
func (s *Service) UpdateStatus(orderID string, status domain.OrderStatus, reason string) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, domain.ErrOrderStatusInvalid
	}

	var updated domain.Order
	for attempt := 0; ; attempt++ {
		order, err := s.orders.Get(orderID)
		if err != nil {
			return domain.Order{}, err
		}
		if order.Status == status {
			// Повторное выставление того же статуса идемпотентно.
			return order, nil
		}
		if !CanTransition(order.Status, status) {
			return domain.Order{}, domain.ErrOrderStatusTransition
		}

		order.Status = status
		order.UpdatedAt = time.Now().UTC()
		if err := s.orders.Save(order); err != nil {
			if domain.IsVersionConflict(err) && attempt < maxSaveRetries {
				continue
			}
			return domain.Order{}, err
		}
		updated = order
		updated.Version++
		break
	}

	eventType := kafka.EventTypeOrderStatusChanged
	if status == domain.OrderStatusCancelled {
		eventType = kafka.EventTypeOrderCancelled
	}

	s.appendTimeline(orderID, "order."+string(status), reason)
	s.enqueueOrderEvent(eventType, updated, map[string]interface{}{
		"reason": reason,
	})

	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"status":   status,
	}).Info("order status updated")

	return updated, nil
}

func (s *Service) appendTimeline(orderID, eventType, reason string) {
	if s.timeline == nil {
		return
	}
	err := s.timeline.Append(domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: time.Now().UTC(),
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("failed to append timeline event")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordTimelineEvent()
	}
}

func (s *Service) enqueueOrderEvent(eventType kafka.EventType, order domain.Order, metadata map[string]interface{}) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(kafka.NewOrderEvent(eventType, order.ID, order.RestaurantID, string(order.Status), metadata))
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to marshal order event")
		return
	}

	_, err = s.outbox.Enqueue(domain.OutboxMessage{
		ID:            uuid.NewString(),
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     string(eventType),
		Payload:       payload,
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to enqueue order event to outbox")
	}
}
