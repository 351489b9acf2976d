package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/cardapio/internal/cart"
	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/money"
)

// cartResponse — состояние корзины с отформатированным итогом.
type cartResponse struct {
	Items            []domain.CartLineItem `json:"items"`
	TotalAmountMinor int64                 `json:"total_amount_minor"`
	TotalFormatted   string                `json:"total_formatted"`
	RestaurantID     string                `json:"restaurant_id,omitempty"`
}

func newCartResponse(state domain.CartState) cartResponse {
	return cartResponse{
		Items:            state.Items,
		TotalAmountMinor: state.TotalAmountMinor,
		TotalFormatted:   money.FormatBRL(state.TotalAmountMinor),
		RestaurantID:     state.RestaurantID,
	}
}

type addItemRequest struct {
	RestaurantID string              `json:"restaurant_id"`
	MenuItemID   string              `json:"menu_item_id"`
	Quantity     int32               `json:"quantity"`
	Notes        string              `json:"notes"`
	Options      []selectedOptionRef `json:"options"`
}

// selectedOptionRef ссылается на выбор клиента внутри группы опций позиции.
type selectedOptionRef struct {
	Name     string `json:"name"`
	ChoiceID string `json:"choice_id"`
}

func (a *API) handleCartGet(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	state := a.deps.Carts.Snapshot(cartID)
	a.recordCartOp("get")
	writeJSON(w, http.StatusOK, newCartResponse(state))
}

func (a *API) handleCartAddItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")

	var req addItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.RestaurantID == "" {
		writeError(w, domain.ErrRestaurantRequired)
		return
	}

	item, err := a.deps.Catalog.GetMenuItem(req.RestaurantID, req.MenuItemID)
	if err != nil {
		writeError(w, err)
		return
	}

	selected, err := resolveOptions(item, req.Options)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var state domain.CartState
	a.deps.Carts.WithEngine(cartID, func(e *cart.Engine) {
		e.SetRestaurant(req.RestaurantID)
		state = e.Add(cart.AddInput{
			MenuItemID:      item.ID,
			MenuItemName:    item.Name,
			BasePriceMinor:  item.PriceMinor,
			Quantity:        req.Quantity,
			SelectedOptions: selected,
			Notes:           req.Notes,
		})
	})

	a.recordCartOp("add")
	writeJSON(w, http.StatusOK, newCartResponse(state))
}

func (a *API) handleCartUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	menuItemID := chi.URLParam(r, "menuItemID")

	var req struct {
		Quantity int32 `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	var state domain.CartState
	a.deps.Carts.WithEngine(cartID, func(e *cart.Engine) {
		state = e.UpdateQuantity(menuItemID, req.Quantity)
	})

	a.recordCartOp("update_quantity")
	writeJSON(w, http.StatusOK, newCartResponse(state))
}

func (a *API) handleCartRemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	menuItemID := chi.URLParam(r, "menuItemID")

	var state domain.CartState
	a.deps.Carts.WithEngine(cartID, func(e *cart.Engine) {
		state = e.Remove(menuItemID)
	})

	a.recordCartOp("remove")
	writeJSON(w, http.StatusOK, newCartResponse(state))
}

func (a *API) handleCartClear(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")

	var state domain.CartState
	a.deps.Carts.WithEngine(cartID, func(e *cart.Engine) {
		state = e.Clear()
	})

	a.recordCartOp("clear")
	writeJSON(w, http.StatusOK, newCartResponse(state))
}

func (a *API) handleCartSetRestaurant(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")

	var req struct {
		RestaurantID string `json:"restaurant_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.RestaurantID == "" {
		writeError(w, domain.ErrRestaurantRequired)
		return
	}
	if _, err := a.deps.Tenants.GetRestaurant(req.RestaurantID); err != nil {
		writeError(w, err)
		return
	}

	var state domain.CartState
	a.deps.Carts.WithEngine(cartID, func(e *cart.Engine) {
		state = e.SetRestaurant(req.RestaurantID)
	})

	a.recordCartOp("set_restaurant")
	writeJSON(w, http.StatusOK, newCartResponse(state))
}

func (a *API) recordCartOp(op string) {
	if a.deps.Metrics == nil {
		return
	}
	a.deps.Metrics.RecordCartOperation(op)
	if a.deps.Carts != nil {
		a.deps.Metrics.SetActiveCarts(a.deps.Carts.ActiveCount())
	}
}

// resolveOptions сопоставляет выбор клиента с группами опций позиции меню
// и снимает цену доплаты из каталога, а не из запроса.
func resolveOptions(item domain.MenuItem, refs []selectedOptionRef) ([]domain.SelectedOption, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	selected := make([]domain.SelectedOption, 0, len(refs))
	for _, ref := range refs {
		group, ok := findOptionGroup(item, ref.Name)
		if !ok {
			return nil, &optionError{option: ref.Name}
		}
		choice, ok := findChoice(group, ref.ChoiceID)
		if !ok {
			return nil, &optionError{option: ref.Name, choice: ref.ChoiceID}
		}
		selected = append(selected, domain.SelectedOption{
			Name:        group.Name,
			OptionLabel: choice.Name,
			PriceMinor:  choice.PriceMinor,
		})
	}
	return selected, nil
}

func findOptionGroup(item domain.MenuItem, name string) (domain.MenuItemOption, bool) {
	for _, group := range item.Options {
		if group.Name == name {
			return group, true
		}
	}
	return domain.MenuItemOption{}, false
}

func findChoice(group domain.MenuItemOption, choiceID string) (domain.MenuOptionChoice, bool) {
	for _, choice := range group.Choices {
		if choice.ID == choiceID || choice.Name == choiceID {
			return choice, true
		}
	}
	return domain.MenuOptionChoice{}, false
}

type optionError struct {
	option string
	choice string
}

func (e *optionError) Error() string {
	if e.choice == "" {
		return "unknown menu item option: " + e.option
	}
	return "unknown choice " + e.choice + " for option " + e.option
}
