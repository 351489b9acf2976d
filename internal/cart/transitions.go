package cart

import "github.com/vladislavdragonenkov/cardapio/internal/domain"

// Чистые функции переходов над CartState. Исходное состояние никогда не
// мутируется: каждая операция возвращает новое состояние с пересчитанным
// итогом. Побочный эффект (запись снимка) живёт в Engine.

// AddInput описывает позицию меню и выбор клиента для добавления в корзину.
type AddInput struct {
	MenuItemID      string
	MenuItemName    string
	BasePriceMinor  int64
	Quantity        int32
	SelectedOptions []domain.SelectedOption
	Notes           string
}

// applyAdd добавляет позицию в корзину либо увеличивает количество существующей
// строки. При повторном добавлении действует цена первого добавления: новые
// опции и цена игнорируются, накапливается только количество.
func applyAdd(state domain.CartState, in AddInput) domain.CartState {
	qty := in.Quantity
	if qty < 1 {
		// Нарушение контракта вызывающей стороны нормализуем, а не роняем.
		qty = 1
	}

	next := state.Clone()

	for i, item := range next.Items {
		if item.MenuItemID != in.MenuItemID {
			continue
		}
		newQty := item.Quantity + qty
		next.Items[i].Quantity = newQty
		next.Items[i].TotalPriceMinor = int64(newQty) * item.UnitPriceMinor
		next.TotalAmountMinor = sumItems(next.Items)
		return next
	}

	var optionsTotal int64
	for _, opt := range in.SelectedOptions {
		optionsTotal += opt.PriceMinor
	}
	unitPrice := in.BasePriceMinor + optionsTotal

	options := make([]domain.SelectedOption, len(in.SelectedOptions))
	copy(options, in.SelectedOptions)

	next.Items = append(next.Items, domain.CartLineItem{
		MenuItemID:      in.MenuItemID,
		MenuItemName:    in.MenuItemName,
		Quantity:        qty,
		UnitPriceMinor:  unitPrice,
		TotalPriceMinor: unitPrice * int64(qty),
		SelectedOptions: options,
		Notes:           in.Notes,
	})
	next.TotalAmountMinor = sumItems(next.Items)
	return next
}

// applyRemove удаляет строку корзины; отсутствие строки — no-op.
func applyRemove(state domain.CartState, menuItemID string) domain.CartState {
	next := state.Clone()
	items := next.Items[:0]
	for _, item := range next.Items {
		if item.MenuItemID == menuItemID {
			continue
		}
		items = append(items, item)
	}
	next.Items = items
	next.TotalAmountMinor = sumItems(next.Items)
	return next
}

// applyUpdateQuantity выставляет количество строки; значение <= 0 эквивалентно
// удалению строки. Отсутствие строки — no-op.
func applyUpdateQuantity(state domain.CartState, menuItemID string, quantity int32) domain.CartState {
	if quantity <= 0 {
		return applyRemove(state, menuItemID)
	}

	next := state.Clone()
	for i, item := range next.Items {
		if item.MenuItemID != menuItemID {
			continue
		}
		next.Items[i].Quantity = quantity
		next.Items[i].TotalPriceMinor = int64(quantity) * item.UnitPriceMinor
		next.TotalAmountMinor = sumItems(next.Items)
		return next
	}
	return next
}

// applyClear сбрасывает корзину, сохраняя контекст ресторана.
func applyClear(state domain.CartState) domain.CartState {
	cleared := domain.EmptyCart()
	cleared.RestaurantID = state.RestaurantID
	return cleared
}

// applySetRestaurant переключает корзину на другой ресторан. Корзина не может
// смешивать позиции двух арендаторов: при смене контекста строки сбрасываются.
func applySetRestaurant(state domain.CartState, restaurantID string) domain.CartState {
	if state.RestaurantID != "" && state.RestaurantID != restaurantID {
		cleared := domain.EmptyCart()
		cleared.RestaurantID = restaurantID
		return cleared
	}
	next := state.Clone()
	next.RestaurantID = restaurantID
	return next
}

func sumItems(items []domain.CartLineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.TotalPriceMinor
	}
	return total
}
