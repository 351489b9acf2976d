package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/service/tenant"
)

func (a *API) handleRegistrationSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RestaurantName string `json:"restaurant_name"`
		OwnerName      string `json:"owner_name"`
		Email          string `json:"email"`
		Phone          string `json:"phone"`
		CNPJ           string `json:"cnpj"`
		Address        string `json:"address"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := a.deps.Tenants.SubmitRegistration(tenant.RegistrationInput{
		RestaurantName: req.RestaurantName,
		OwnerName:      req.OwnerName,
		Email:          req.Email,
		Phone:          req.Phone,
		CNPJ:           req.CNPJ,
		Address:        req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleRegistrationList(w http.ResponseWriter, r *http.Request) {
	status := domain.RegistrationStatus(r.URL.Query().Get("status"))
	list, err := a.deps.Tenants.ListRegistrations(status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) handleRegistrationApprove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subdomain      string `json:"subdomain"`
		Plan           string `json:"plan"`
		WhatsAppNumber string `json:"whatsapp_number"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	restaurant, err := a.deps.Tenants.ApproveRegistration(tenant.ApproveInput{
		RegistrationID: chi.URLParam(r, "id"),
		Subdomain:      req.Subdomain,
		Plan:           domain.PlanType(req.Plan),
		WhatsAppNumber: req.WhatsAppNumber,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, restaurant)
}

func (a *API) handleRegistrationReject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	rejected, err := a.deps.Tenants.RejectRegistration(chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rejected)
}

func (a *API) handleRestaurantList(w http.ResponseWriter, r *http.Request) {
	list, err := a.deps.Tenants.ListRestaurants()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) handleRestaurantGet(w http.ResponseWriter, r *http.Request) {
	restaurant, err := a.deps.Tenants.GetRestaurant(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (a *API) handleRestaurantChangePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plan string `json:"plan"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	restaurant, err := a.deps.Tenants.ChangePlan(chi.URLParam(r, "id"), domain.PlanType(req.Plan))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (a *API) handleRestaurantSuspend(w http.ResponseWriter, r *http.Request) {
	restaurant, err := a.deps.Tenants.Suspend(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (a *API) handleRestaurantReactivate(w http.ResponseWriter, r *http.Request) {
	restaurant, err := a.deps.Tenants.Reactivate(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (a *API) handleRestaurantUpdateTheme(w http.ResponseWriter, r *http.Request) {
	var theme domain.RestaurantTheme
	if err := decodeBody(r, &theme); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	restaurant, err := a.deps.Catalog.UpdateTheme(chi.URLParam(r, "id"), theme)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (a *API) handleMenuList(w http.ResponseWriter, r *http.Request) {
	categories, items, err := a.deps.Catalog.ListMenu(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Categories []domain.Category `json:"categories"`
		Items      []domain.MenuItem `json:"items"`
	}{Categories: categories, Items: items})
}

func (a *API) handleCategorySave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		SortOrder int32  `json:"sort_order"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	category, err := a.deps.Catalog.SaveCategory(domain.Category{
		ID:           req.ID,
		RestaurantID: chi.URLParam(r, "id"),
		Name:         req.Name,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (a *API) handleMenuItemSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          string                  `json:"id"`
		CategoryID  string                  `json:"category_id"`
		Name        string                  `json:"name"`
		Description string                  `json:"description"`
		ImageURL    string                  `json:"image_url"`
		PriceMinor  int64                   `json:"price_minor"`
		IsActive    *bool                   `json:"is_active"`
		Options     []domain.MenuItemOption `json:"options"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	item, err := a.deps.Catalog.SaveMenuItem(domain.MenuItem{
		ID:           req.ID,
		RestaurantID: chi.URLParam(r, "id"),
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		PriceMinor:   req.PriceMinor,
		IsActive:     isActive,
		Options:      req.Options,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (a *API) handleOrderList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	list, err := a.deps.Orders.ListByRestaurant(chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) handleOrderGet(w http.ResponseWriter, r *http.Request) {
	order, err := a.deps.Orders.Get(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *API) handleOrderTimeline(w http.ResponseWriter, r *http.Request) {
	events, err := a.deps.Orders.Timeline(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (a *API) handleOrderUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	order, err := a.deps.Orders.UpdateStatus(chi.URLParam(r, "orderID"), domain.OrderStatus(req.Status), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
