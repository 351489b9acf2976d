package tenant

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/messaging/kafka"
)

// Поддомен витрины: строчные латинские буквы, цифры и дефис, 3-40 символов,
// без дефиса по краям.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{1,38}[a-z0-9])$`)

// RegistrationInput — данные заявки владельца ресторана.
type RegistrationInput struct {
	RestaurantName string
	OwnerName      string
	Email          string
	Phone          string
	CNPJ           string
	Address        string
}

// ApproveInput — параметры одобрения заявки: поддомен витрины и стартовый план.
type ApproveInput struct {
	RegistrationID string
	Subdomain      string
	Plan           domain.PlanType
	WhatsAppNumber string
}

// Service управляет жизненным циклом арендаторов: заявки на подключение,
// создание ресторанов, тарифы, приостановка.
type Service struct {
	restaurants domain.RestaurantRepository
	outbox      domain.OutboxRepository
	logger      *log.Entry
}

// NewService создаёт сервис арендаторов. outbox опционален.
func NewService(restaurants domain.RestaurantRepository, outbox domain.OutboxRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "tenant-service")
	}
	return &Service{
		restaurants: restaurants,
		outbox:      outbox,
		logger:      logger,
	}
}

// SubmitRegistration принимает заявку на подключение ресторана.
func (s *Service) SubmitRegistration(in RegistrationInput) (domain.RegistrationRequest, error) {
	now := time.Now().UTC()
	req := domain.RegistrationRequest{
		ID:             uuid.NewString(),
		RestaurantName: strings.TrimSpace(in.RestaurantName),
		OwnerName:      strings.TrimSpace(in.OwnerName),
		Email:          strings.TrimSpace(strings.ToLower(in.Email)),
		Phone:          strings.TrimSpace(in.Phone),
		CNPJ:           strings.TrimSpace(in.CNPJ),
		Address:        strings.TrimSpace(in.Address),
		Status:         domain.RegistrationStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if errs := req.ValidateInvariants(); len(errs) != 0 {
		return domain.RegistrationRequest{}, errs[0]
	}

	if err := s.restaurants.CreateRegistration(req); err != nil {
		return domain.RegistrationRequest{}, err
	}

	s.enqueueTenantEvent(kafka.EventTypeTenantRegistered, "", req.ID, "", map[string]interface{}{
		"restaurant_name": req.RestaurantName,
	})

	s.logger.WithField("registration_id", req.ID).Info("registration request submitted")
	return req, nil
}

// GetRegistration возвращает заявку по идентификатору.
func (s *Service) GetRegistration(id string) (domain.RegistrationRequest, error) {
	return s.restaurants.GetRegistration(id)
}

// ListRegistrations возвращает заявки с указанным статусом ("" — все).
func (s *Service) ListRegistrations(status domain.RegistrationStatus) ([]domain.RegistrationRequest, error) {
	return s.restaurants.ListRegistrations(status)
}

// ApproveRegistration одобряет заявку и создаёт арендатора с витриной
// на выбранном поддомене. Повторное решение по заявке запрещено.
func (s *Service) ApproveRegistration(in ApproveInput) (domain.Restaurant, error) {
	req, err := s.restaurants.GetRegistration(in.RegistrationID)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if req.Status != domain.RegistrationStatusPending {
		return domain.Restaurant{}, domain.ErrRegistrationDecided
	}

	subdomain := strings.ToLower(strings.TrimSpace(in.Subdomain))
	if !subdomainPattern.MatchString(subdomain) {
		return domain.Restaurant{}, domain.ErrSubdomainTaken
	}

	plan := in.Plan
	if plan == "" {
		plan = domain.PlanTrial
	}
	if !plan.Valid() {
		return domain.Restaurant{}, domain.ErrPlanInvalid
	}

	now := time.Now().UTC()
	restaurant := domain.Restaurant{
		ID:             uuid.NewString(),
		Name:           req.RestaurantName,
		Subdomain:      subdomain,
		WhatsAppNumber: in.WhatsAppNumber,
		Plan:           plan,
		PlanStartedAt:  now,
		PlanExpiresAt:  planExpiry(plan, now),
		Status:         domain.RestaurantStatusActive,
		Theme:          defaultTheme(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if restaurant.WhatsAppNumber == "" {
		restaurant.WhatsAppNumber = req.Phone
	}

	if err := s.restaurants.CreateRestaurant(restaurant); err != nil {
		return domain.Restaurant{}, err
	}

	req.Status = domain.RegistrationStatusApproved
	req.RestaurantID = restaurant.ID
	req.UpdatedAt = now
	if err := s.restaurants.SaveRegistration(req); err != nil {
		return domain.Restaurant{}, err
	}

	s.enqueueTenantEvent(kafka.EventTypeTenantApproved, restaurant.ID, req.ID, string(plan), nil)

	s.logger.WithFields(log.Fields{
		"registration_id": req.ID,
		"restaurant_id":   restaurant.ID,
		"subdomain":       subdomain,
	}).Info("registration approved, restaurant created")
	return restaurant, nil
}

// RejectRegistration отклоняет заявку с указанием причины.
func (s *Service) RejectRegistration(id, reason string) (domain.RegistrationRequest, error) {
	req, err := s.restaurants.GetRegistration(id)
	if err != nil {
		return domain.RegistrationRequest{}, err
	}
	if req.Status != domain.RegistrationStatusPending {
		return domain.RegistrationRequest{}, domain.ErrRegistrationDecided
	}

	req.Status = domain.RegistrationStatusRejected
	req.Reason = strings.TrimSpace(reason)
	req.UpdatedAt = time.Now().UTC()
	if err := s.restaurants.SaveRegistration(req); err != nil {
		return domain.RegistrationRequest{}, err
	}

	s.enqueueTenantEvent(kafka.EventTypeTenantRejected, "", req.ID, "", map[string]interface{}{
		"reason": req.Reason,
	})

	s.logger.WithField("registration_id", req.ID).Info("registration rejected")
	return req, nil
}

// ChangePlan переводит ресторан на другой тарифный план.
func (s *Service) ChangePlan(restaurantID string, plan domain.PlanType) (domain.Restaurant, error) {
	if !plan.Valid() {
		return domain.Restaurant{}, domain.ErrPlanInvalid
	}

	restaurant, err := s.restaurants.GetRestaurant(restaurantID)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if restaurant.Plan == plan {
		return restaurant, nil
	}

	now := time.Now().UTC()
	restaurant.Plan = plan
	restaurant.PlanStartedAt = now
	restaurant.PlanExpiresAt = planExpiry(plan, now)
	restaurant.UpdatedAt = now
	if err := s.restaurants.SaveRestaurant(restaurant); err != nil {
		return domain.Restaurant{}, err
	}

	s.enqueueTenantEvent(kafka.EventTypeTenantPlanChanged, restaurant.ID, "", string(plan), nil)

	s.logger.WithFields(log.Fields{
		"restaurant_id": restaurant.ID,
		"plan":          plan,
	}).Info("restaurant plan changed")
	return restaurant, nil
}

// Suspend приостанавливает ресторан: витрина перестаёт принимать заказы.
func (s *Service) Suspend(restaurantID string) (domain.Restaurant, error) {
	return s.setStatus(restaurantID, domain.RestaurantStatusSuspended, kafka.EventTypeTenantSuspended)
}

// Reactivate возвращает приостановленный ресторан в работу.
func (s *Service) Reactivate(restaurantID string) (domain.Restaurant, error) {
	return s.setStatus(restaurantID, domain.RestaurantStatusActive, kafka.EventTypeTenantReactivated)
}

func (s *Service) setStatus(restaurantID string, status domain.RestaurantStatus, eventType kafka.EventType) (domain.Restaurant, error) {
	restaurant, err := s.restaurants.GetRestaurant(restaurantID)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if restaurant.Status == status {
		return restaurant, nil
	}

	restaurant.Status = status
	restaurant.UpdatedAt = time.Now().UTC()
	if err := s.restaurants.SaveRestaurant(restaurant); err != nil {
		return domain.Restaurant{}, err
	}

	s.enqueueTenantEvent(eventType, restaurant.ID, "", string(restaurant.Plan), nil)

	s.logger.WithFields(log.Fields{
		"restaurant_id": restaurant.ID,
		"status":        status,
	}).Info("restaurant status changed")
	return restaurant, nil
}

// ListRestaurants возвращает всех арендаторов платформы.
func (s *Service) ListRestaurants() ([]domain.Restaurant, error) {
	return s.restaurants.ListRestaurants()
}

// GetRestaurant возвращает арендатора по идентификатору.
func (s *Service) GetRestaurant(id string) (domain.Restaurant, error) {
	return s.restaurants.GetRestaurant(id)
}

func (s *Service) enqueueTenantEvent(eventType kafka.EventType, restaurantID, requestID, plan string, metadata map[string]interface{}) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(kafka.NewTenantEvent(eventType, restaurantID, requestID, plan, metadata))
	if err != nil {
		s.logger.WithError(err).Error("failed to marshal tenant event")
		return
	}

	aggregateID := restaurantID
	if aggregateID == "" {
		aggregateID = requestID
	}

	_, err = s.outbox.Enqueue(domain.OutboxMessage{
		ID:            uuid.NewString(),
		AggregateType: "tenant",
		AggregateID:   aggregateID,
		EventType:     string(eventType),
		Payload:       payload,
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to enqueue tenant event to outbox")
	}
}

// planExpiry возвращает дату окончания оплаченного периода или триала.
func planExpiry(plan domain.PlanType, from time.Time) time.Time {
	if plan == domain.PlanTrial {
		days := domain.Plans[domain.PlanTrial].TrialDays
		return from.AddDate(0, 0, days)
	}
	return from.AddDate(0, 1, 0)
}

// defaultTheme — стартовое оформление витрины нового ресторана.
func defaultTheme() domain.RestaurantTheme {
	return domain.RestaurantTheme{
		PrimaryColor:    "#3B82F6",
		SecondaryColor:  "#1E40AF",
		AccentColor:     "#F59E0B",
		BackgroundColor: "#F9FAFB",
		TextColor:       "#111827",
	}
}
