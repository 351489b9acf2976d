package http

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

// errorEnvelope — единый формат ошибки API.
type errorEnvelope struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

// writeError отображает доменную ошибку в HTTP-статус и JSON-конверт.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorEnvelope{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrRestaurantNotFound),
		errors.Is(err, domain.ErrMenuItemNotFound),
		errors.Is(err, domain.ErrRegistrationNotFound),
		errors.Is(err, domain.ErrIdempotencyKeyNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrRestaurantSuspended):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrSubdomainTaken),
		errors.Is(err, domain.ErrRegistrationDecided),
		errors.Is(err, domain.ErrOrderVersionConflict),
		errors.Is(err, domain.ErrOrderStatusTransition),
		errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists),
		errors.Is(err, domain.ErrIdempotencyHashMismatch):
		return http.StatusConflict

	case errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrCartTotalMismatch):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrRestaurantRequired),
		errors.Is(err, domain.ErrCustomerNameRequired),
		errors.Is(err, domain.ErrCustomerPhoneRequired),
		errors.Is(err, domain.ErrCustomerPhoneInvalid),
		errors.Is(err, domain.ErrItemsRequired),
		errors.Is(err, domain.ErrItemQtyInvalid),
		errors.Is(err, domain.ErrItemPriceInvalid),
		errors.Is(err, domain.ErrOrderStatusInvalid),
		errors.Is(err, domain.ErrPlanInvalid),
		errors.Is(err, domain.ErrMenuItemInactive),
		errors.Is(err, domain.ErrRestaurantNameRequired),
		errors.Is(err, domain.ErrOwnerNameRequired),
		errors.Is(err, domain.ErrEmailRequired):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// decodeBody читает JSON-тело запроса в dst.
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: msg})
}
