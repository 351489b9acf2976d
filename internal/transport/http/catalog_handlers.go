package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/money"
)

// storefrontRestaurant — публичный вид ресторана без служебных полей тарифа.
type storefrontRestaurant struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Subdomain      string                 `json:"subdomain"`
	LogoURL        string                 `json:"logo_url,omitempty"`
	Theme          domain.RestaurantTheme `json:"theme"`
	WhatsAppNumber string                 `json:"whatsapp_number"`
}

type storefrontMenuItem struct {
	ID             string                  `json:"id"`
	CategoryID     string                  `json:"category_id"`
	Name           string                  `json:"name"`
	Description    string                  `json:"description,omitempty"`
	ImageURL       string                  `json:"image_url,omitempty"`
	PriceMinor     int64                   `json:"price_minor"`
	PriceFormatted string                  `json:"price_formatted"`
	Options        []domain.MenuItemOption `json:"options,omitempty"`
}

type storefrontCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int32  `json:"sort_order"`
}

func newStorefrontRestaurant(r domain.Restaurant) storefrontRestaurant {
	return storefrontRestaurant{
		ID:             r.ID,
		Name:           r.Name,
		Subdomain:      r.Subdomain,
		LogoURL:        r.LogoURL,
		Theme:          r.Theme,
		WhatsAppNumber: r.WhatsAppNumber,
	}
}

func (a *API) handleStorefront(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	front, err := a.deps.Catalog.StorefrontBySubdomain(slug)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newStorefrontRestaurant(front.Restaurant))
}

func (a *API) handleStorefrontMenu(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	front, err := a.deps.Catalog.StorefrontBySubdomain(slug)
	if err != nil {
		writeError(w, err)
		return
	}

	categories := make([]storefrontCategory, 0, len(front.Categories))
	for _, c := range front.Categories {
		categories = append(categories, storefrontCategory{
			ID:        c.ID,
			Name:      c.Name,
			SortOrder: c.SortOrder,
		})
	}

	items := make([]storefrontMenuItem, 0, len(front.Items))
	for _, item := range front.Items {
		items = append(items, storefrontMenuItem{
			ID:             item.ID,
			CategoryID:     item.CategoryID,
			Name:           item.Name,
			Description:    item.Description,
			ImageURL:       item.ImageURL,
			PriceMinor:     item.PriceMinor,
			PriceFormatted: money.FormatBRL(item.PriceMinor),
			Options:        item.Options,
		})
	}

	writeJSON(w, http.StatusOK, struct {
		Restaurant storefrontRestaurant `json:"restaurant"`
		Categories []storefrontCategory `json:"categories"`
		Items      []storefrontMenuItem `json:"items"`
	}{
		Restaurant: newStorefrontRestaurant(front.Restaurant),
		Categories: categories,
		Items:      items,
	})
}
