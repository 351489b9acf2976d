package checkout

import (
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/cart"
	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/storage/memory"
)

// checkoutFixture собирает сервис оформления на in-memory хранилищах.
type checkoutFixture struct {
	service     *Service
	carts       *cart.Manager
	orders      domain.OrderRepository
	restaurants domain.RestaurantRepository
	timeline    domain.TimelineRepository
	outbox      domain.OutboxRepository
	idempotency domain.IdempotencyRepository
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	f := &checkoutFixture{
		carts:       cart.NewManager(memory.NewCartStore(), nil),
		orders:      memory.NewOrderRepository(),
		restaurants: memory.NewRestaurantRepository(),
		timeline:    memory.NewTimelineRepository(),
		outbox:      memory.NewOutboxRepository(),
		idempotency: memory.NewIdempotencyRepository(),
	}

	now := time.Now().UTC()
	err := f.restaurants.CreateRestaurant(domain.Restaurant{
		ID:             "rest-1",
		Name:           "Pizzaria do Bairro",
		Subdomain:      "pizzaria",
		WhatsAppNumber: "11988887777",
		Plan:           domain.PlanBasic,
		Status:         domain.RestaurantStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}

	f.service = NewService(
		f.carts,
		f.orders,
		f.restaurants,
		f.timeline,
		f.outbox,
		f.idempotency,
		nil,
		log.New().WithField("test", t.Name()),
	)
	return f
}

func (f *checkoutFixture) fillCart(t *testing.T, cartKey string) {
	t.Helper()

	f.carts.WithEngine(cartKey, func(e *cart.Engine) {
		e.SetRestaurant("rest-1")
		e.Add(cart.AddInput{
			MenuItemID:     "menu-margherita",
			MenuItemName:   "Pizza Margherita",
			BasePriceMinor: 4490,
			Quantity:       2,
			SelectedOptions: []domain.SelectedOption{
				{Name: "Tamanho", OptionLabel: "Grande", PriceMinor: 1000},
			},
		})
	})
}

func checkoutInput(cartKey, idempotencyKey string) Input {
	return Input{
		CartKey:        cartKey,
		RestaurantID:   "rest-1",
		CustomerName:   "Maria Silva",
		CustomerPhone:  "(11) 99999-8888",
		Notes:          "entregar na portaria",
		IdempotencyKey: idempotencyKey,
	}
}

func TestCheckout_CreatesOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "cart-1")

	result, err := f.service.Checkout(checkoutInput("cart-1", ""))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if result.Order.ID == "" {
		t.Fatal("expected order id")
	}
	if result.Order.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", result.Order.Status)
	}
	if result.Order.TotalAmountMinor != 2*5490 {
		t.Fatalf("unexpected total: %d", result.Order.TotalAmountMinor)
	}
	if result.Order.CustomerPhone != "11999998888" {
		t.Fatalf("phone must be normalized, got %q", result.Order.CustomerPhone)
	}
	if result.Replayed {
		t.Fatal("first checkout must not be a replay")
	}

	stored, err := f.orders.Get(result.Order.ID)
	if err != nil {
		t.Fatalf("order must be persisted: %v", err)
	}
	if errs := stored.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("stored order violates invariants: %v", errs)
	}

	// Сессия корзины завершена.
	if state := f.carts.Snapshot("cart-1"); len(state.Items) != 0 {
		t.Fatalf("cart must be dropped after checkout, got %+v", state)
	}

	events, err := f.timeline.List(result.Order.ID)
	if err != nil {
		t.Fatalf("list timeline: %v", err)
	}
	if len(events) != 1 || events[0].Type != "order.created" {
		t.Fatalf("expected single order.created event, got %+v", events)
	}

	pending, err := f.outbox.PullPending(10)
	if err != nil {
		t.Fatalf("pull outbox: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(pending))
	}
	if pending[0].AggregateID != result.Order.ID || pending[0].EventType != "order.created" {
		t.Fatalf("unexpected outbox event: %+v", pending[0])
	}
}

func TestCheckout_BuildsWhatsAppHandoff(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "cart-1")

	result, err := f.service.Checkout(checkoutInput("cart-1", ""))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if result.Message == "" {
		t.Fatal("expected whatsapp message")
	}
	wantPrefix := "https://wa.me/5511988887777?text="
	if len(result.WhatsAppURL) <= len(wantPrefix) || result.WhatsAppURL[:len(wantPrefix)] != wantPrefix {
		t.Fatalf("unexpected whatsapp url: %s", result.WhatsAppURL)
	}
}

func TestCheckout_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(in *Input)
		want error
	}{
		{
			name: "missing restaurant",
			mut:  func(in *Input) { in.RestaurantID = "" },
			want: domain.ErrRestaurantRequired,
		},
		{
			name: "missing name",
			mut:  func(in *Input) { in.CustomerName = "   " },
			want: domain.ErrCustomerNameRequired,
		},
		{
			name: "missing phone",
			mut:  func(in *Input) { in.CustomerPhone = "" },
			want: domain.ErrCustomerPhoneRequired,
		},
		{
			name: "invalid phone",
			mut:  func(in *Input) { in.CustomerPhone = "123" },
			want: domain.ErrCustomerPhoneInvalid,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckoutFixture(t)
			f.fillCart(t, "cart-1")

			in := checkoutInput("cart-1", "")
			tc.mut(&in)

			if _, err := f.service.Checkout(in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}

			// Неудачное оформление не трогает корзину.
			if state := f.carts.Snapshot("cart-1"); len(state.Items) != 1 {
				t.Fatalf("cart must survive failed checkout, got %+v", state)
			}
		})
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	if _, err := f.service.Checkout(checkoutInput("cart-1", "")); !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCheckout_CartFromAnotherRestaurant(t *testing.T) {
	f := newCheckoutFixture(t)

	// Корзина привязана к другому ресторану: для rest-1 она пуста.
	f.carts.WithEngine("cart-1", func(e *cart.Engine) {
		e.SetRestaurant("rest-2")
		e.Add(cart.AddInput{
			MenuItemID:     "menu-other",
			MenuItemName:   "Sushi",
			BasePriceMinor: 3000,
			Quantity:       1,
		})
	})

	if _, err := f.service.Checkout(checkoutInput("cart-1", "")); !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCheckout_SuspendedRestaurant(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "cart-1")

	restaurant, err := f.restaurants.GetRestaurant("rest-1")
	if err != nil {
		t.Fatalf("get restaurant: %v", err)
	}
	restaurant.Status = domain.RestaurantStatusSuspended
	if err := f.restaurants.SaveRestaurant(restaurant); err != nil {
		t.Fatalf("save restaurant: %v", err)
	}

	if _, err := f.service.Checkout(checkoutInput("cart-1", "")); !errors.Is(err, domain.ErrRestaurantSuspended) {
		t.Fatalf("expected ErrRestaurantSuspended, got %v", err)
	}
}

func TestCheckout_UnknownRestaurant(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "cart-1")

	in := checkoutInput("cart-1", "")
	in.RestaurantID = "rest-missing"

	if _, err := f.service.Checkout(in); !errors.Is(err, domain.ErrRestaurantNotFound) {
		t.Fatalf("expected ErrRestaurantNotFound, got %v", err)
	}
}

func TestCheckout_IdempotentReplay(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "cart-1")

	first, err := f.service.Checkout(checkoutInput("cart-1", "key-1"))
	if err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	// Повторная отправка формы с тем же ключом: тот же результат, без
	// второго заказа.
	second, err := f.service.Checkout(checkoutInput("cart-1", "key-1"))
	if err != nil {
		t.Fatalf("replayed checkout: %v", err)
	}

	if !second.Replayed {
		t.Fatal("expected replayed result")
	}
	if second.Order.ID != first.Order.ID {
		t.Fatalf("replay must return the same order: %s vs %s", second.Order.ID, first.Order.ID)
	}
	if second.WhatsAppURL != first.WhatsAppURL {
		t.Fatal("replay must return the same whatsapp url")
	}

	orders, err := f.orders.ListByRestaurant("rest-1", 0)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected exactly 1 order, got %d", len(orders))
	}
}

func TestCheckout_IdempotencyHashMismatch(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "cart-1")

	if _, err := f.service.Checkout(checkoutInput("cart-1", "key-1")); err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	// Тот же ключ с другими данными — конфликт, а не повтор.
	in := checkoutInput("cart-1", "key-1")
	in.CustomerName = "João Souza"

	if _, err := f.service.Checkout(in); !errors.Is(err, domain.ErrIdempotencyHashMismatch) {
		t.Fatalf("expected ErrIdempotencyHashMismatch, got %v", err)
	}
}

func TestCheckout_IdempotencyInFlight(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "cart-1")

	in := checkoutInput("cart-1", "key-1")

	// Первый запрос ещё обрабатывается: запись висит в processing.
	if _, err := f.idempotency.CreateProcessing("key-1", requestHash(in), time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("create processing record: %v", err)
	}

	if _, err := f.service.Checkout(in); !errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists) {
		t.Fatalf("expected ErrIdempotencyKeyAlreadyExists, got %v", err)
	}
}

func TestCheckout_FailedAttemptIsReplayedAsFailure(t *testing.T) {
	f := newCheckoutFixture(t)

	// Пустая корзина: первая попытка падает и фиксируется в idempotency.
	in := checkoutInput("cart-1", "key-1")
	if _, err := f.service.Checkout(in); !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}

	record, err := f.idempotency.Get("key-1")
	if err != nil {
		t.Fatalf("get idempotency record: %v", err)
	}
	if record.Status != domain.IdempotencyStatusFailed {
		t.Fatalf("expected failed record, got %s", record.Status)
	}

	// Повтор с тем же ключом возвращает сохранённую ошибку, даже если корзина
	// уже наполнена.
	f.fillCart(t, "cart-1")

	_, err = f.service.Checkout(in)
	if err == nil {
		t.Fatal("expected stored failure on replay")
	}
	if err.Error() != domain.ErrCartEmpty.Error() {
		t.Fatalf("expected stored cart empty error, got %v", err)
	}
}

func TestCheckout_WithoutOptionalDependencies(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, "cart-1")

	// timeline, outbox и idempotency опциональны.
	service := NewService(f.carts, f.orders, f.restaurants, nil, nil, nil, nil, nil)

	result, err := service.Checkout(checkoutInput("cart-1", "key-1"))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if result.Order.ID == "" {
		t.Fatal("expected order id")
	}
}
