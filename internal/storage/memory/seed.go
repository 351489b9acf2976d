package memory

import (
	"time"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

// SeedDemoData наполняет in-memory хранилища демонстрационным арендатором и
// меню для локальной разработки без базы данных.
func SeedDemoData(restaurants domain.RestaurantRepository, menu domain.MenuRepository) error {
	now := time.Now().UTC()

	bella := domain.Restaurant{
		ID:        "rest-bella",
		Name:      "Pizzaria Bella",
		Subdomain: "pizzaria-bella",
		Theme: domain.RestaurantTheme{
			PrimaryColor:    "#B91C1C",
			SecondaryColor:  "#FEF3C7",
			AccentColor:     "#F59E0B",
			BackgroundColor: "#FFFBEB",
			TextColor:       "#1F2937",
		},
		WhatsAppNumber: "(11) 99999-9999",
		Plan:           domain.PlanPro,
		PlanStartedAt:  now,
		PlanExpiresAt:  now.AddDate(1, 0, 0),
		Status:         domain.RestaurantStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := restaurants.CreateRestaurant(bella); err != nil {
		return err
	}

	categories := []domain.Category{
		{ID: "cat-pizzas", RestaurantID: bella.ID, Name: "Pizzas", SortOrder: 1},
		{ID: "cat-drinks", RestaurantID: bella.ID, Name: "Bebidas", SortOrder: 2},
	}
	for _, c := range categories {
		if err := menu.UpsertCategory(c); err != nil {
			return err
		}
	}

	items := []domain.MenuItem{
		{
			ID:           "item-margherita",
			RestaurantID: bella.ID,
			CategoryID:   "cat-pizzas",
			Name:         "Pizza Margherita",
			Description:  "Molho de tomate, mussarela e manjericão",
			PriceMinor:   4590,
			IsActive:     true,
			Options: []domain.MenuItemOption{
				{
					Name: "Tamanho",
					Choices: []domain.MenuOptionChoice{
						{ID: "opt-media", Name: "Média", PriceMinor: 0},
						{ID: "opt-grande", Name: "Grande", PriceMinor: 1000},
					},
				},
				{
					Name: "Borda",
					Choices: []domain.MenuOptionChoice{
						{ID: "opt-borda-normal", Name: "Tradicional", PriceMinor: 0},
						{ID: "opt-borda-catupiry", Name: "Catupiry", PriceMinor: 800},
					},
				},
			},
		},
		{
			ID:           "item-calabresa",
			RestaurantID: bella.ID,
			CategoryID:   "cat-pizzas",
			Name:         "Pizza Calabresa",
			Description:  "Calabresa fatiada com cebola",
			PriceMinor:   4990,
			IsActive:     true,
		},
		{
			ID:           "item-guarana",
			RestaurantID: bella.ID,
			CategoryID:   "cat-drinks",
			Name:         "Guaraná 2L",
			PriceMinor:   1200,
			IsActive:     true,
		},
	}
	for _, item := range items {
		if err := menu.UpsertMenuItem(item); err != nil {
			return err
		}
	}

	return nil
}
