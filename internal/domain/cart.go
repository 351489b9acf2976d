package domain

// SelectedOption — снимок выбранной опции позиции на момент добавления в корзину.
// После добавления опции неизменяемы: повторное добавление той же позиции
// с другими опциями не пересчитывает цену (цена первого добавления выигрывает).
type SelectedOption struct {
	Name        string `json:"name"`
	OptionLabel string `json:"option"`
	PriceMinor  int64  `json:"price_minor"`
}

// CartLineItem — одна строка корзины. На каждый menu_item_id существует
// не более одной строки; количество агрегируется.
type CartLineItem struct {
	MenuItemID      string           `json:"menu_item_id"`
	MenuItemName    string           `json:"menu_item_name"`
	Quantity        int32            `json:"quantity"`
	UnitPriceMinor  int64            `json:"unit_price_minor"`
	TotalPriceMinor int64            `json:"total_price_minor"`
	SelectedOptions []SelectedOption `json:"selected_options,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// CartState — агрегат корзины одного клиента в контексте одного ресторана.
// Суммы хранятся в минимальных денежных единицах (сентаво).
type CartState struct {
	Items            []CartLineItem `json:"items"`
	TotalAmountMinor int64          `json:"total_amount_minor"`
	RestaurantID     string         `json:"restaurant_id,omitempty"`
}

// EmptyCart возвращает начальное состояние корзины.
func EmptyCart() CartState {
	return CartState{Items: []CartLineItem{}}
}

// Clone возвращает глубокую копию состояния, чтобы внешние потребители
// не могли мутировать внутренние слайсы движка.
func (s CartState) Clone() CartState {
	out := s
	out.Items = make([]CartLineItem, len(s.Items))
	copy(out.Items, s.Items)
	for i, item := range s.Items {
		if len(item.SelectedOptions) == 0 {
			continue
		}
		opts := make([]SelectedOption, len(item.SelectedOptions))
		copy(opts, item.SelectedOptions)
		out.Items[i].SelectedOptions = opts
	}
	return out
}

// ValidateInvariants проверяет инварианты корзины и возвращает список замечаний.
func (s CartState) ValidateInvariants() []error {
	var errs []error

	seen := make(map[string]bool, len(s.Items))
	var calc int64
	for _, item := range s.Items {
		if item.MenuItemID == "" {
			errs = append(errs, ErrCartItemIDRequired)
		}
		if seen[item.MenuItemID] {
			errs = append(errs, ErrCartItemDuplicated)
		}
		seen[item.MenuItemID] = true

		if item.Quantity < 1 {
			errs = append(errs, ErrCartQtyInvalid)
		}
		if item.UnitPriceMinor < 0 {
			errs = append(errs, ErrCartPriceInvalid)
		}
		// Сверяем сумму строки: qty * unit price.
		if item.TotalPriceMinor != int64(item.Quantity)*item.UnitPriceMinor {
			errs = append(errs, ErrCartLineTotalMismatch)
		}
		calc += item.TotalPriceMinor
	}

	if s.TotalAmountMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}
	if calc != s.TotalAmountMinor {
		errs = append(errs, ErrCartTotalMismatch)
	}

	return errs
}
