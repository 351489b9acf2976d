package checkout

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/cart"
	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/cardapio/internal/metrics"
)

const defaultIdempotencyTTL = 24 * time.Hour

// Input — данные формы оформления заказа.
type Input struct {
	CartKey        string
	RestaurantID   string
	CustomerName   string
	CustomerPhone  string
	Notes          string
	IdempotencyKey string
}

// Result — итог оформления: созданный заказ и ссылка для отправки в WhatsApp.
type Result struct {
	Order       domain.Order `json:"order"`
	Message     string       `json:"message"`
	WhatsAppURL string       `json:"whatsapp_url"`
	// Replayed выставляется, когда ответ восстановлен по idempotency-key
	// без создания нового заказа.
	Replayed bool `json:"-"`
}

// Service оформляет заказ из корзины: валидирует форму, создаёт заказ,
// пишет событие в timeline и outbox, строит WhatsApp-сообщение и завершает
// сессию корзины.
type Service struct {
	carts          *cart.Manager
	orders         domain.OrderRepository
	restaurants    domain.RestaurantRepository
	timeline       domain.TimelineRepository
	outbox         domain.OutboxRepository
	idempotency    domain.IdempotencyRepository
	metrics        *metrics.CartMetrics
	logger         *log.Entry
	idempotencyTTL time.Duration
}

// NewService создаёт сервис оформления заказа. timeline, outbox, idempotency
// и metrics опциональны: nil отключает соответствующий side effect.
func NewService(
	carts *cart.Manager,
	orders domain.OrderRepository,
	restaurants domain.RestaurantRepository,
	timeline domain.TimelineRepository,
	outbox domain.OutboxRepository,
	idempotency domain.IdempotencyRepository,
	cartMetrics *metrics.CartMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "checkout-service")
	}
	return &Service{
		carts:          carts,
		orders:         orders,
		restaurants:    restaurants,
		timeline:       timeline,
		outbox:         outbox,
		idempotency:    idempotency,
		metrics:        cartMetrics,
		logger:         logger,
		idempotencyTTL: defaultIdempotencyTTL,
	}
}

// Checkout оформляет заказ. Повторный вызов с тем же idempotency-key и теми же
// данными возвращает сохранённый результат, не создавая второй заказ.
func (s *Service) Checkout(in Input) (Result, error) {
	started := time.Now()

	result, err := s.checkout(in)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordCheckoutFailed()
		}
		return Result{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordCheckoutDuration(time.Since(started))
		if !result.Replayed {
			s.metrics.RecordOrderCreated()
		}
	}
	return result, nil
}

func (s *Service) checkout(in Input) (Result, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if in.RestaurantID == "" {
		return Result{}, domain.ErrRestaurantRequired
	}
	if in.CustomerName == "" {
		return Result{}, domain.ErrCustomerNameRequired
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		return Result{}, domain.ErrCustomerPhoneRequired
	}

	phone, err := NormalizePhone(in.CustomerPhone)
	if err != nil {
		return Result{}, err
	}
	in.CustomerPhone = phone

	restaurant, err := s.restaurants.GetRestaurant(in.RestaurantID)
	if err != nil {
		return Result{}, err
	}
	if restaurant.Status == domain.RestaurantStatusSuspended {
		return Result{}, domain.ErrRestaurantSuspended
	}

	// Idempotency-key защищает от двойной отправки формы.
	if s.idempotency != nil && in.IdempotencyKey != "" {
		replayed, found, err := s.replayIdempotent(in)
		if err != nil {
			return Result{}, err
		}
		if found {
			return replayed, nil
		}
	}

	result, err := s.createOrder(in, restaurant)
	if s.idempotency != nil && in.IdempotencyKey != "" {
		s.finishIdempotent(in.IdempotencyKey, result, err)
	}
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// replayIdempotent регистрирует ключ как processing либо восстанавливает
// сохранённый результат. found=true означает, что результат взят из записи.
func (s *Service) replayIdempotent(in Input) (Result, bool, error) {
	hash := requestHash(in)

	_, err := s.idempotency.CreateProcessing(in.IdempotencyKey, hash, time.Now().UTC().Add(s.idempotencyTTL))
	if err == nil {
		return Result{}, false, nil
	}
	if !errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists) {
		return Result{}, false, err
	}

	record, err := s.idempotency.Get(in.IdempotencyKey)
	if err != nil {
		return Result{}, false, err
	}
	if record.RequestHash != hash {
		return Result{}, false, domain.ErrIdempotencyHashMismatch
	}

	switch record.Status {
	case domain.IdempotencyStatusDone:
		var result Result
		if err := json.Unmarshal(record.ResponseBody, &result); err != nil {
			return Result{}, false, fmt.Errorf("decode stored checkout result: %w", err)
		}
		result.Replayed = true
		return result, true, nil
	case domain.IdempotencyStatusFailed:
		var stored struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(record.ResponseBody, &stored); err != nil || stored.Error == "" {
			return Result{}, false, domain.ErrIdempotencyKeyAlreadyExists
		}
		return Result{}, false, errors.New(stored.Error)
	default:
		// Первый запрос ещё в полёте.
		return Result{}, false, domain.ErrIdempotencyKeyAlreadyExists
	}
}

func (s *Service) finishIdempotent(key string, result Result, cause error) {
	if cause != nil {
		body, _ := json.Marshal(struct {
			Error string `json:"error"`
		}{Error: cause.Error()})
		if err := s.idempotency.MarkFailed(key, body, http.StatusUnprocessableEntity); err != nil {
			s.logger.WithError(err).WithField("idempotency_key", key).Warn("failed to mark idempotency record failed")
		}
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		s.logger.WithError(err).Warn("failed to marshal checkout result for idempotency record")
		return
	}
	if err := s.idempotency.MarkDone(key, body, http.StatusCreated); err != nil {
		s.logger.WithError(err).WithField("idempotency_key", key).Warn("failed to mark idempotency record done")
	}
}

func (s *Service) createOrder(in Input, restaurant domain.Restaurant) (Result, error) {
	state := s.carts.Snapshot(in.CartKey)

	// Корзина другого ресторана для этого арендатора неотличима от пустой.
	if state.RestaurantID != "" && state.RestaurantID != in.RestaurantID {
		return Result{}, domain.ErrCartEmpty
	}
	if len(state.Items) == 0 {
		return Result{}, domain.ErrCartEmpty
	}
	if errs := state.ValidateInvariants(); len(errs) != 0 {
		s.logger.WithFields(log.Fields{
			"cart_key":   in.CartKey,
			"violations": len(errs),
		}).Error("cart state violates invariants, refusing checkout")
		return Result{}, domain.ErrCartTotalMismatch
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:               uuid.NewString(),
		RestaurantID:     in.RestaurantID,
		Status:           domain.OrderStatusPending,
		Items:            make([]domain.OrderItem, 0, len(state.Items)),
		TotalAmountMinor: state.TotalAmountMinor,
		CustomerName:     in.CustomerName,
		CustomerPhone:    in.CustomerPhone,
		Notes:            strings.TrimSpace(in.Notes),
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, line := range state.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:              uuid.NewString(),
			MenuItemID:      line.MenuItemID,
			MenuItemName:    line.MenuItemName,
			Quantity:        line.Quantity,
			UnitPriceMinor:  line.UnitPriceMinor,
			TotalPriceMinor: line.TotalPriceMinor,
			SelectedOptions: line.SelectedOptions,
			Notes:           line.Notes,
			CreatedAt:       now,
		})
	}

	if errs := order.ValidateInvariants(); len(errs) != 0 {
		return Result{}, errs[0]
	}

	if err := s.orders.Create(order); err != nil {
		return Result{}, fmt.Errorf("create order: %w", err)
	}

	s.appendTimeline(order.ID, "order.created", "")
	s.enqueueOrderEvent(kafka.EventTypeOrderCreated, order, map[string]interface{}{
		"total_amount_minor": order.TotalAmountMinor,
		"items_count":        len(order.Items),
	})

	// Сессия корзины завершена: движок и снимок больше не нужны.
	s.carts.Drop(in.CartKey)

	message := BuildWhatsAppMessage(restaurant, order)
	s.logger.WithFields(log.Fields{
		"order_id":      order.ID,
		"restaurant_id": order.RestaurantID,
		"amount_minor":  order.TotalAmountMinor,
	}).Info("order created")

	return Result{
		Order:       order,
		Message:     message,
		WhatsAppURL: WhatsAppLink(restaurant, message),
	}, nil
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

// requestHash вычисляет стабильный хэш значимых полей запроса: один и тот же
// idempotency-key с другими данными считается конфликтом.
func requestHash(in Input) string {
	payload, _ := json.Marshal(struct {
		CartKey       string `json:"cart_key"`
		RestaurantID  string `json:"restaurant_id"`
		CustomerName  string `json:"customer_name"`
		CustomerPhone string `json:"customer_phone"`
		Notes         string `json:"notes"`
	}{
		CartKey:       in.CartKey,
		RestaurantID:  in.RestaurantID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Notes:         in.Notes,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
