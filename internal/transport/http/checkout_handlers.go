package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/money"
	"github.com/vladislavdragonenkov/cardapio/internal/service/checkout"
)

type checkoutRequest struct {
	RestaurantID  string `json:"restaurant_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Notes         string `json:"notes"`
}

type checkoutResponse struct {
	OrderID        string       `json:"order_id"`
	Status         string       `json:"status"`
	TotalFormatted string       `json:"total_formatted"`
	Order          domain.Order `json:"order"`
	Message        string       `json:"message"`
	WhatsAppURL    string       `json:"whatsapp_url"`
}

// handleCheckout оформляет заказ из корзины. Повторная отправка с тем же
// заголовком Idempotency-Key возвращает прежний заказ со статусом 200.
func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")

	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	result, err := a.deps.Checkout.Checkout(checkout.Input{
		CartKey:        cartID,
		RestaurantID:   req.RestaurantID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Notes:          req.Notes,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, checkoutResponse{
		OrderID:        result.Order.ID,
		Status:         string(result.Order.Status),
		TotalFormatted: money.FormatBRL(result.Order.TotalAmountMinor),
		Order:          result.Order,
		Message:        result.Message,
		WhatsAppURL:    result.WhatsAppURL,
	})
}
