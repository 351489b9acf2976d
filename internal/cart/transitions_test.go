package cart

import (
	"testing"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

func margheritaInput() AddInput {
	return AddInput{
		MenuItemID:     "item-margherita",
		MenuItemName:   "Pizza Margherita",
		BasePriceMinor: 4490,
		Quantity:       1,
		SelectedOptions: []domain.SelectedOption{
			{Name: "Tamanho", OptionLabel: "Grande", PriceMinor: 1000},
		},
	}
}

func TestApplyAdd_NewLine(t *testing.T) {
	state := domain.EmptyCart()

	next := applyAdd(state, margheritaInput())

	if len(next.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(next.Items))
	}
	line := next.Items[0]
	if line.UnitPriceMinor != 5490 {
		t.Fatalf("unexpected unit price: %d", line.UnitPriceMinor)
	}
	if line.TotalPriceMinor != 5490 {
		t.Fatalf("unexpected line total: %d", line.TotalPriceMinor)
	}
	if next.TotalAmountMinor != 5490 {
		t.Fatalf("unexpected cart total: %d", next.TotalAmountMinor)
	}
	if len(state.Items) != 0 {
		t.Fatal("source state must not be mutated")
	}
}

func TestApplyAdd_AggregatesQuantity(t *testing.T) {
	state := applyAdd(domain.EmptyCart(), margheritaInput())

	// Повторное добавление с другой ценой и опциями: цена первого
	// добавления выигрывает, накапливается только количество.
	repeat := margheritaInput()
	repeat.BasePriceMinor = 9999
	repeat.SelectedOptions = nil
	repeat.Quantity = 2

	next := applyAdd(state, repeat)

	if len(next.Items) != 1 {
		t.Fatalf("expected 1 aggregated line, got %d", len(next.Items))
	}
	line := next.Items[0]
	if line.Quantity != 3 {
		t.Fatalf("unexpected quantity: %d", line.Quantity)
	}
	if line.UnitPriceMinor != 5490 {
		t.Fatalf("first-add price must win, got %d", line.UnitPriceMinor)
	}
	if next.TotalAmountMinor != 3*5490 {
		t.Fatalf("unexpected cart total: %d", next.TotalAmountMinor)
	}
}

func TestApplyAdd_ClampsQuantityToOne(t *testing.T) {
	in := margheritaInput()
	in.Quantity = 0

	next := applyAdd(domain.EmptyCart(), in)

	if next.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", next.Items[0].Quantity)
	}
}

func TestApplyRemove(t *testing.T) {
	state := applyAdd(domain.EmptyCart(), margheritaInput())

	next := applyRemove(state, "item-margherita")
	if len(next.Items) != 0 || next.TotalAmountMinor != 0 {
		t.Fatalf("expected empty cart, got %+v", next)
	}

	// Отсутствующая строка — no-op.
	same := applyRemove(state, "item-missing")
	if len(same.Items) != 1 || same.TotalAmountMinor != state.TotalAmountMinor {
		t.Fatalf("remove of missing line must be no-op, got %+v", same)
	}
}

func TestApplyUpdateQuantity(t *testing.T) {
	state := applyAdd(domain.EmptyCart(), margheritaInput())

	next := applyUpdateQuantity(state, "item-margherita", 4)
	if next.Items[0].Quantity != 4 {
		t.Fatalf("unexpected quantity: %d", next.Items[0].Quantity)
	}
	if next.Items[0].TotalPriceMinor != 4*5490 {
		t.Fatalf("unexpected line total: %d", next.Items[0].TotalPriceMinor)
	}
	if next.TotalAmountMinor != 4*5490 {
		t.Fatalf("unexpected cart total: %d", next.TotalAmountMinor)
	}

	// Ноль и меньше эквивалентны удалению.
	removed := applyUpdateQuantity(state, "item-margherita", 0)
	if len(removed.Items) != 0 {
		t.Fatalf("expected line removed, got %+v", removed.Items)
	}

	// Отсутствующая строка — no-op.
	same := applyUpdateQuantity(state, "item-missing", 2)
	if len(same.Items) != 1 || same.Items[0].Quantity != 1 {
		t.Fatalf("update of missing line must be no-op, got %+v", same)
	}
}

func TestApplyClear_KeepsRestaurant(t *testing.T) {
	state := applyAdd(domain.EmptyCart(), margheritaInput())
	state.RestaurantID = "rest-1"

	next := applyClear(state)

	if len(next.Items) != 0 || next.TotalAmountMinor != 0 {
		t.Fatalf("expected empty cart, got %+v", next)
	}
	if next.RestaurantID != "rest-1" {
		t.Fatalf("restaurant context must survive clear, got %q", next.RestaurantID)
	}
}

func TestApplySetRestaurant(t *testing.T) {
	state := applySetRestaurant(domain.EmptyCart(), "rest-1")
	state = applyAdd(state, margheritaInput())

	// Тот же ресторан — позиции сохраняются.
	same := applySetRestaurant(state, "rest-1")
	if len(same.Items) != 1 {
		t.Fatalf("same restaurant must keep items, got %+v", same.Items)
	}

	// Другой ресторан — корзина сбрасывается.
	switched := applySetRestaurant(state, "rest-2")
	if len(switched.Items) != 0 || switched.TotalAmountMinor != 0 {
		t.Fatalf("tenant switch must clear cart, got %+v", switched)
	}
	if switched.RestaurantID != "rest-2" {
		t.Fatalf("unexpected restaurant: %q", switched.RestaurantID)
	}
}

func TestTransitions_PreserveInvariants(t *testing.T) {
	state := domain.EmptyCart()
	state = applySetRestaurant(state, "rest-1")
	state = applyAdd(state, margheritaInput())

	second := margheritaInput()
	second.MenuItemID = "item-calabresa"
	second.MenuItemName = "Pizza Calabresa"
	second.BasePriceMinor = 4290
	second.SelectedOptions = nil
	second.Quantity = 2
	state = applyAdd(state, second)

	state = applyUpdateQuantity(state, "item-margherita", 3)
	state = applyRemove(state, "item-calabresa")

	if errs := state.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("invariants violated after transitions: %v", errs)
	}
	if state.TotalAmountMinor != 3*5490 {
		t.Fatalf("unexpected final total: %d", state.TotalAmountMinor)
	}
}
