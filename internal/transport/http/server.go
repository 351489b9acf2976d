package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cardapio/internal/cart"
	"github.com/vladislavdragonenkov/cardapio/internal/metrics"
	"github.com/vladislavdragonenkov/cardapio/internal/service/catalog"
	"github.com/vladislavdragonenkov/cardapio/internal/service/checkout"
	"github.com/vladislavdragonenkov/cardapio/internal/service/orders"
	"github.com/vladislavdragonenkov/cardapio/internal/service/tenant"
)

// Dependencies — сервисы, которые обслуживают HTTP API.
type Dependencies struct {
	Carts    *cart.Manager
	Catalog  *catalog.Service
	Checkout *checkout.Service
	Orders   *orders.Service
	Tenants  *tenant.Service
	Metrics  *metrics.CartMetrics
	Logger   *log.Entry
}

// API агрегирует handlers публичной витрины, корзины и админки.
type API struct {
	deps Dependencies
}

// NewAPI создаёт API поверх сервисов.
func NewAPI(deps Dependencies) *API {
	if deps.Logger == nil {
		deps.Logger = log.WithField("component", "http-api")
	}
	return &API{deps: deps}
}

// Router собирает chi-роутер со стеком middleware и всеми маршрутами.
func (a *API) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(requestLogger(a.deps.Logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(30 * time.Second))

	router.Route("/api", func(r chi.Router) {
		// Публичная витрина.
		r.Get("/restaurants/{slug}", a.handleStorefront)
		r.Get("/restaurants/{slug}/menu", a.handleStorefrontMenu)

		// Корзина клиента.
		r.Route("/carts/{cartID}", func(r chi.Router) {
			r.Get("/", a.handleCartGet)
			r.Delete("/", a.handleCartClear)
			r.Put("/restaurant", a.handleCartSetRestaurant)
			r.Post("/items", a.handleCartAddItem)
			r.Patch("/items/{menuItemID}", a.handleCartUpdateQuantity)
			r.Delete("/items/{menuItemID}", a.handleCartRemoveItem)
			r.Post("/checkout", a.handleCheckout)
		})

		// Заявки на подключение ресторана.
		r.Post("/registrations", a.handleRegistrationSubmit)

		// Админка платформы и панель ресторана.
		r.Route("/admin", func(r chi.Router) {
			r.Get("/registrations", a.handleRegistrationList)
			r.Post("/registrations/{id}/approve", a.handleRegistrationApprove)
			r.Post("/registrations/{id}/reject", a.handleRegistrationReject)

			r.Get("/restaurants", a.handleRestaurantList)
			r.Get("/restaurants/{id}", a.handleRestaurantGet)
			r.Patch("/restaurants/{id}/plan", a.handleRestaurantChangePlan)
			r.Post("/restaurants/{id}/suspend", a.handleRestaurantSuspend)
			r.Post("/restaurants/{id}/reactivate", a.handleRestaurantReactivate)
			r.Put("/restaurants/{id}/theme", a.handleRestaurantUpdateTheme)

			r.Get("/restaurants/{id}/menu", a.handleMenuList)
			r.Post("/restaurants/{id}/categories", a.handleCategorySave)
			r.Post("/restaurants/{id}/menu-items", a.handleMenuItemSave)

			r.Get("/restaurants/{id}/orders", a.handleOrderList)
			r.Get("/orders/{orderID}", a.handleOrderGet)
			r.Get("/orders/{orderID}/timeline", a.handleOrderTimeline)
			r.Patch("/orders/{orderID}/status", a.handleOrderUpdateStatus)
		})
	})

	return router
}

// NewServer оборачивает роутер в http.Server с консервативными таймаутами.
func NewServer(addr string, api *API) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      api.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
