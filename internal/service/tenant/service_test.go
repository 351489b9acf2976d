package tenant

import (
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/storage/memory"
)

func newTenantService() (*Service, domain.RestaurantRepository, domain.OutboxRepository) {
	restaurants := memory.NewRestaurantRepository()
	outbox := memory.NewOutboxRepository()
	service := NewService(restaurants, outbox, log.New().WithField("test", "tenant"))
	return service, restaurants, outbox
}

func registrationInput() RegistrationInput {
	return RegistrationInput{
		RestaurantName: "Pizzaria do Bairro",
		OwnerName:      "Carlos Pereira",
		Email:          "Carlos@Example.com",
		Phone:          "11988887777",
		CNPJ:           "12.345.678/0001-90",
		Address:        "Rua das Flores, 10",
	}
}

func submitAndApprove(t *testing.T, service *Service, subdomain string) domain.Restaurant {
	t.Helper()

	req, err := service.SubmitRegistration(registrationInput())
	if err != nil {
		t.Fatalf("submit registration: %v", err)
	}

	restaurant, err := service.ApproveRegistration(ApproveInput{
		RegistrationID: req.ID,
		Subdomain:      subdomain,
		Plan:           domain.PlanBasic,
		WhatsAppNumber: "11999990000",
	})
	if err != nil {
		t.Fatalf("approve registration: %v", err)
	}
	return restaurant
}

func TestSubmitRegistration(t *testing.T) {
	service, _, outbox := newTenantService()

	req, err := service.SubmitRegistration(registrationInput())
	if err != nil {
		t.Fatalf("submit registration: %v", err)
	}

	if req.ID == "" {
		t.Fatal("expected registration id")
	}
	if req.Status != domain.RegistrationStatusPending {
		t.Fatalf("expected pending status, got %s", req.Status)
	}
	// Email нормализуется к нижнему регистру.
	if req.Email != "carlos@example.com" {
		t.Fatalf("unexpected email: %q", req.Email)
	}

	pending, _ := outbox.PullPending(10)
	if len(pending) != 1 || pending[0].EventType != "tenant.registered" {
		t.Fatalf("expected tenant.registered event, got %+v", pending)
	}
}

func TestSubmitRegistration_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(in *RegistrationInput)
		want error
	}{
		{
			name: "missing restaurant name",
			mut:  func(in *RegistrationInput) { in.RestaurantName = "  " },
			want: domain.ErrRestaurantNameRequired,
		},
		{
			name: "missing owner name",
			mut:  func(in *RegistrationInput) { in.OwnerName = "" },
			want: domain.ErrOwnerNameRequired,
		},
		{
			name: "missing email",
			mut:  func(in *RegistrationInput) { in.Email = "" },
			want: domain.ErrEmailRequired,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			service, _, _ := newTenantService()

			in := registrationInput()
			tc.mut(&in)

			if _, err := service.SubmitRegistration(in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestApproveRegistration(t *testing.T) {
	service, restaurants, outbox := newTenantService()

	restaurant := submitAndApprove(t, service, "pizzaria")

	if restaurant.Subdomain != "pizzaria" {
		t.Fatalf("unexpected subdomain: %q", restaurant.Subdomain)
	}
	if restaurant.Status != domain.RestaurantStatusActive {
		t.Fatalf("expected active restaurant, got %s", restaurant.Status)
	}
	if restaurant.Plan != domain.PlanBasic {
		t.Fatalf("unexpected plan: %s", restaurant.Plan)
	}
	if restaurant.PlanExpiresAt.Before(restaurant.PlanStartedAt) {
		t.Fatal("plan expiry must be after plan start")
	}
	if restaurant.Theme.PrimaryColor == "" {
		t.Fatal("new restaurant must get a default theme")
	}

	// Витрина доступна по поддомену.
	bySubdomain, err := restaurants.GetRestaurantBySubdomain("pizzaria")
	if err != nil {
		t.Fatalf("get by subdomain: %v", err)
	}
	if bySubdomain.ID != restaurant.ID {
		t.Fatalf("subdomain lookup returned wrong restaurant: %s", bySubdomain.ID)
	}

	regs, err := service.ListRegistrations(domain.RegistrationStatusApproved)
	if err != nil {
		t.Fatalf("list registrations: %v", err)
	}
	if len(regs) != 1 || regs[0].RestaurantID != restaurant.ID {
		t.Fatalf("registration must reference created restaurant, got %+v", regs)
	}

	pending, _ := outbox.PullPending(10)
	var hasApproved bool
	for _, msg := range pending {
		if msg.EventType == "tenant.approved" && msg.AggregateID == restaurant.ID {
			hasApproved = true
		}
	}
	if !hasApproved {
		t.Fatalf("expected tenant.approved event, got %+v", pending)
	}
}

func TestApproveRegistration_DefaultsToTrial(t *testing.T) {
	service, _, _ := newTenantService()

	req, err := service.SubmitRegistration(registrationInput())
	if err != nil {
		t.Fatalf("submit registration: %v", err)
	}

	restaurant, err := service.ApproveRegistration(ApproveInput{
		RegistrationID: req.ID,
		Subdomain:      "pizzaria",
	})
	if err != nil {
		t.Fatalf("approve registration: %v", err)
	}

	if restaurant.Plan != domain.PlanTrial {
		t.Fatalf("expected trial plan by default, got %s", restaurant.Plan)
	}
	// Без явного WhatsApp берётся телефон из заявки.
	if restaurant.WhatsAppNumber != "11988887777" {
		t.Fatalf("unexpected whatsapp number: %q", restaurant.WhatsAppNumber)
	}

	wantExpiry := restaurant.PlanStartedAt.AddDate(0, 0, domain.Plans[domain.PlanTrial].TrialDays)
	if !restaurant.PlanExpiresAt.Equal(wantExpiry) {
		t.Fatalf("unexpected trial expiry: %s want %s", restaurant.PlanExpiresAt, wantExpiry)
	}
}

func TestApproveRegistration_InvalidSubdomain(t *testing.T) {
	service, _, _ := newTenantService()

	req, err := service.SubmitRegistration(registrationInput())
	if err != nil {
		t.Fatalf("submit registration: %v", err)
	}

	for _, subdomain := range []string{"", "ab", "-pizzaria", "pizzaria-", "Pizza ria", "piz_zaria"} {
		_, err := service.ApproveRegistration(ApproveInput{RegistrationID: req.ID, Subdomain: subdomain})
		if !errors.Is(err, domain.ErrSubdomainTaken) {
			t.Fatalf("subdomain %q: expected ErrSubdomainTaken, got %v", subdomain, err)
		}
	}

	// Регистр нормализуется, а не отклоняется.
	if _, err := service.ApproveRegistration(ApproveInput{RegistrationID: req.ID, Subdomain: "  PIZZARIA  "}); err != nil {
		t.Fatalf("uppercase subdomain must be normalized: %v", err)
	}
}

func TestApproveRegistration_SubdomainTaken(t *testing.T) {
	service, _, _ := newTenantService()

	submitAndApprove(t, service, "pizzaria")

	req, err := service.SubmitRegistration(registrationInput())
	if err != nil {
		t.Fatalf("submit second registration: %v", err)
	}

	_, err = service.ApproveRegistration(ApproveInput{RegistrationID: req.ID, Subdomain: "pizzaria"})
	if !errors.Is(err, domain.ErrSubdomainTaken) {
		t.Fatalf("expected ErrSubdomainTaken, got %v", err)
	}
}

func TestApproveRegistration_AlreadyDecided(t *testing.T) {
	service, _, _ := newTenantService()

	req, err := service.SubmitRegistration(registrationInput())
	if err != nil {
		t.Fatalf("submit registration: %v", err)
	}
	if _, err := service.ApproveRegistration(ApproveInput{RegistrationID: req.ID, Subdomain: "pizzaria"}); err != nil {
		t.Fatalf("approve registration: %v", err)
	}

	_, err = service.ApproveRegistration(ApproveInput{RegistrationID: req.ID, Subdomain: "outra"})
	if !errors.Is(err, domain.ErrRegistrationDecided) {
		t.Fatalf("expected ErrRegistrationDecided, got %v", err)
	}
}

func TestRejectRegistration(t *testing.T) {
	service, _, outbox := newTenantService()

	req, err := service.SubmitRegistration(registrationInput())
	if err != nil {
		t.Fatalf("submit registration: %v", err)
	}

	rejected, err := service.RejectRegistration(req.ID, "dados incompletos")
	if err != nil {
		t.Fatalf("reject registration: %v", err)
	}
	if rejected.Status != domain.RegistrationStatusRejected {
		t.Fatalf("expected rejected status, got %s", rejected.Status)
	}
	if rejected.Reason != "dados incompletos" {
		t.Fatalf("unexpected reason: %q", rejected.Reason)
	}

	// Решение окончательно.
	if _, err := service.ApproveRegistration(ApproveInput{RegistrationID: req.ID, Subdomain: "pizzaria"}); !errors.Is(err, domain.ErrRegistrationDecided) {
		t.Fatalf("expected ErrRegistrationDecided, got %v", err)
	}
	if _, err := service.RejectRegistration(req.ID, "de novo"); !errors.Is(err, domain.ErrRegistrationDecided) {
		t.Fatalf("expected ErrRegistrationDecided, got %v", err)
	}

	pending, _ := outbox.PullPending(10)
	var hasRejected bool
	for _, msg := range pending {
		if msg.EventType == "tenant.rejected" {
			hasRejected = true
		}
	}
	if !hasRejected {
		t.Fatalf("expected tenant.rejected event, got %+v", pending)
	}
}

func TestChangePlan(t *testing.T) {
	service, _, outbox := newTenantService()
	restaurant := submitAndApprove(t, service, "pizzaria")

	updated, err := service.ChangePlan(restaurant.ID, domain.PlanPro)
	if err != nil {
		t.Fatalf("change plan: %v", err)
	}
	if updated.Plan != domain.PlanPro {
		t.Fatalf("expected pro plan, got %s", updated.Plan)
	}
	if !updated.PlanStartedAt.After(restaurant.PlanStartedAt.Add(-time.Second)) {
		t.Fatal("plan start must be refreshed")
	}

	// Смена на тот же план — no-op.
	same, err := service.ChangePlan(restaurant.ID, domain.PlanPro)
	if err != nil {
		t.Fatalf("repeat change plan: %v", err)
	}
	if !same.PlanStartedAt.Equal(updated.PlanStartedAt) {
		t.Fatal("repeated plan change must not refresh the period")
	}

	if _, err := service.ChangePlan(restaurant.ID, "golden"); !errors.Is(err, domain.ErrPlanInvalid) {
		t.Fatalf("expected ErrPlanInvalid, got %v", err)
	}

	pending, _ := outbox.PullPending(20)
	var planEvents int
	for _, msg := range pending {
		if msg.EventType == "tenant.plan_changed" {
			planEvents++
		}
	}
	if planEvents != 1 {
		t.Fatalf("expected exactly 1 plan_changed event, got %d", planEvents)
	}
}

func TestSuspendAndReactivate(t *testing.T) {
	service, _, outbox := newTenantService()
	restaurant := submitAndApprove(t, service, "pizzaria")

	suspended, err := service.Suspend(restaurant.ID)
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if suspended.Status != domain.RestaurantStatusSuspended {
		t.Fatalf("expected suspended, got %s", suspended.Status)
	}

	// Повторная приостановка — no-op.
	if _, err := service.Suspend(restaurant.ID); err != nil {
		t.Fatalf("repeat suspend: %v", err)
	}

	reactivated, err := service.Reactivate(restaurant.ID)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if reactivated.Status != domain.RestaurantStatusActive {
		t.Fatalf("expected active, got %s", reactivated.Status)
	}

	pending, _ := outbox.PullPending(20)
	var suspendedEvents, reactivatedEvents int
	for _, msg := range pending {
		switch msg.EventType {
		case "tenant.suspended":
			suspendedEvents++
		case "tenant.reactivated":
			reactivatedEvents++
		}
	}
	if suspendedEvents != 1 || reactivatedEvents != 1 {
		t.Fatalf("expected 1 suspended and 1 reactivated event, got %d/%d", suspendedEvents, reactivatedEvents)
	}
}

func TestSuspend_UnknownRestaurant(t *testing.T) {
	service, _, _ := newTenantService()

	if _, err := service.Suspend("missing"); !errors.Is(err, domain.ErrRestaurantNotFound) {
		t.Fatalf("expected ErrRestaurantNotFound, got %v", err)
	}
}
