package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

func integrationRestaurant() domain.Restaurant {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Restaurant{
		ID:             uuid.NewString(),
		Name:           "Pizzaria Integração",
		Subdomain:      "integ-" + uuid.NewString()[:8],
		WhatsAppNumber: "11988887777",
		Plan:           domain.PlanBasic,
		PlanStartedAt:  now,
		PlanExpiresAt:  now.AddDate(0, 1, 0),
		Status:         domain.RestaurantStatusActive,
		Theme: domain.RestaurantTheme{
			PrimaryColor: "#FF0000",
			TextColor:    "#111111",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderRepository_Integration_CreateGetList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := domain.Order{
		ID:               uuid.NewString(),
		RestaurantID:     uuid.NewString(),
		Status:           domain.OrderStatusPending,
		TotalAmountMinor: 8980,
		CustomerName:     "Maria Silva",
		CustomerPhone:    "11999998888",
		Notes:            "sem cebola",
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
		Items: []domain.OrderItem{
			{
				ID:              uuid.NewString(),
				MenuItemID:      "item-margherita",
				MenuItemName:    "Pizza Margherita",
				Quantity:        2,
				UnitPriceMinor:  4490,
				TotalPriceMinor: 8980,
				SelectedOptions: []domain.SelectedOption{
					{Name: "Tamanho", OptionLabel: "Grande", PriceMinor: 1000},
				},
				Notes:     "bem assada",
				CreatedAt: now,
			},
		},
	}

	require.NoError(t, repo.Create(order))

	got, err := repo.Get(order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)
	require.Equal(t, order.TotalAmountMinor, got.TotalAmountMinor)
	require.Len(t, got.Items, 1)
	require.Equal(t, order.Items[0].SelectedOptions, got.Items[0].SelectedOptions)

	list, err := repo.ListByRestaurant(order.RestaurantID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = repo.Get(uuid.NewString())
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderRepository_Integration_OptimisticLocking(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := domain.Order{
		ID:               uuid.NewString(),
		RestaurantID:     uuid.NewString(),
		Status:           domain.OrderStatusPending,
		TotalAmountMinor: 1000,
		CustomerName:     "João",
		CustomerPhone:    "11911112222",
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
		Items: []domain.OrderItem{
			{
				ID:              uuid.NewString(),
				MenuItemID:      "item-1",
				MenuItemName:    "Guaraná",
				Quantity:        1,
				UnitPriceMinor:  1000,
				TotalPriceMinor: 1000,
				CreatedAt:       now,
			},
		},
	}
	require.NoError(t, repo.Create(order))

	order.Status = domain.OrderStatusConfirmed
	require.NoError(t, repo.Save(order))

	// Повтор с устаревшей версией должен конфликтовать.
	order.Status = domain.OrderStatusPreparing
	require.ErrorIs(t, repo.Save(order), domain.ErrOrderVersionConflict)
}

func TestRestaurantRepository_Integration_CRUDAndRegistrations(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewRestaurantRepository(store)

	restaurant := integrationRestaurant()
	require.NoError(t, repo.CreateRestaurant(restaurant))

	bySub, err := repo.GetRestaurantBySubdomain(restaurant.Subdomain)
	require.NoError(t, err)
	require.Equal(t, restaurant.ID, bySub.ID)
	require.Equal(t, restaurant.Theme, bySub.Theme)

	dup := integrationRestaurant()
	dup.Subdomain = restaurant.Subdomain
	require.ErrorIs(t, repo.CreateRestaurant(dup), domain.ErrSubdomainTaken)

	restaurant.Status = domain.RestaurantStatusSuspended
	restaurant.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.SaveRestaurant(restaurant))

	got, err := repo.GetRestaurant(restaurant.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RestaurantStatusSuspended, got.Status)

	now := time.Now().UTC().Truncate(time.Microsecond)
	req := domain.RegistrationRequest{
		ID:             uuid.NewString(),
		RestaurantName: "Novo Restaurante",
		OwnerName:      "Ana",
		Email:          "ana@example.com",
		Phone:          "11933334444",
		Status:         domain.RegistrationStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, repo.CreateRegistration(req))

	pending, err := repo.ListRegistrations(domain.RegistrationStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	req.Status = domain.RegistrationStatusApproved
	req.RestaurantID = restaurant.ID
	req.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.SaveRegistration(req))

	gotReq, err := repo.GetRegistration(req.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RegistrationStatusApproved, gotReq.Status)
	require.Equal(t, restaurant.ID, gotReq.RestaurantID)
}

func TestMenuRepository_Integration_UpsertAndList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	restaurants := NewRestaurantRepository(store)
	menu := NewMenuRepository(store)

	restaurant := integrationRestaurant()
	require.NoError(t, restaurants.CreateRestaurant(restaurant))

	category := domain.Category{
		ID:           uuid.NewString(),
		RestaurantID: restaurant.ID,
		Name:         "Pizzas",
		SortOrder:    1,
	}
	require.NoError(t, menu.UpsertCategory(category))

	item := domain.MenuItem{
		ID:           uuid.NewString(),
		RestaurantID: restaurant.ID,
		CategoryID:   category.ID,
		Name:         "Pizza Calabresa",
		PriceMinor:   4290,
		IsActive:     true,
		Options: []domain.MenuItemOption{
			{
				Name: "Borda",
				Choices: []domain.MenuOptionChoice{
					{ID: "borda-catupiry", Name: "Catupiry", PriceMinor: 800},
				},
			},
		},
	}
	require.NoError(t, menu.UpsertMenuItem(item))

	got, err := menu.GetMenuItem(item.ID)
	require.NoError(t, err)
	require.Equal(t, item.Options, got.Options)

	// Повторный upsert обновляет, а не дублирует.
	item.PriceMinor = 4590
	require.NoError(t, menu.UpsertMenuItem(item))

	items, err := menu.ListMenuItems(restaurant.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(4590), items[0].PriceMinor)

	categories, err := menu.ListCategories(restaurant.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
}

func TestCartStore_Integration_RoundTrip(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	carts := NewCartStore(store)

	key := "session-" + uuid.NewString()

	snapshot, err := carts.Load(key)
	require.NoError(t, err)
	require.Nil(t, snapshot)

	payload := []byte(`{"items":[],"total_amount_minor":0}`)
	require.NoError(t, carts.Save(key, payload))

	loaded, err := carts.Load(key)
	require.NoError(t, err)
	require.JSONEq(t, string(payload), string(loaded))

	require.NoError(t, carts.Delete(key))

	gone, err := carts.Load(key)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestOutboxRepository_Integration_Flow(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	outbox := NewOutboxRepository(store)

	msg, err := outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   uuid.NewString(),
		EventType:     "order.created",
		Payload:       []byte(`{"event_type":"order.created"}`),
	})
	require.NoError(t, err)
	require.NotEmpty(t, msg.ID)

	pending, err := outbox.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	stats, err := outbox.Stats()
	require.NoError(t, err)
	require.Equal(t, 1, stats.PendingCount)
	require.False(t, stats.OldestPendingAt.IsZero())

	require.NoError(t, outbox.MarkSent(msg.ID))

	pending, err = outbox.PullPending(10)
	require.NoError(t, err)
	require.Empty(t, pending)

	require.ErrorIs(t, outbox.MarkSent(uuid.NewString()), domain.ErrOutboxPublish)
}

func TestIdempotencyRepository_Integration_Lifecycle(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewIdempotencyRepository(store)

	key := "checkout-" + uuid.NewString()
	ttl := time.Now().UTC().Add(time.Hour)

	_, err := repo.CreateProcessing(key, "hash-1", ttl)
	require.NoError(t, err)

	_, err = repo.CreateProcessing(key, "hash-1", ttl)
	require.ErrorIs(t, err, domain.ErrIdempotencyKeyAlreadyExists)

	_, err = repo.CreateProcessing(key, "hash-2", ttl)
	require.ErrorIs(t, err, domain.ErrIdempotencyHashMismatch)

	require.NoError(t, repo.MarkDone(key, []byte(`{"order_id":"o-1"}`), 201))

	record, err := repo.Get(key)
	require.NoError(t, err)
	require.Equal(t, domain.IdempotencyStatusDone, record.Status)
	require.Equal(t, 201, record.HTTPStatus)
	require.JSONEq(t, `{"order_id":"o-1"}`, string(record.ResponseBody))

	deleted, err := repo.DeleteExpired(time.Now().UTC().Add(2*time.Hour), 0)
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	_, err = repo.Get(key)
	require.ErrorIs(t, err, domain.ErrIdempotencyKeyNotFound)
}

func TestTimelineRepository_Integration_AppendList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	timeline := NewTimelineRepository(store)

	orderID := uuid.NewString()
	base := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, timeline.Append(domain.TimelineEvent{
		OrderID:  orderID,
		Type:     "order.created",
		Occurred: base,
	}))
	require.NoError(t, timeline.Append(domain.TimelineEvent{
		OrderID:  orderID,
		Type:     "order.confirmed",
		Reason:   "kitchen accepted",
		Occurred: base.Add(time.Minute),
	}))

	events, err := timeline.List(orderID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "order.created", events[0].Type)
	require.Equal(t, "order.confirmed", events[1].Type)
}
