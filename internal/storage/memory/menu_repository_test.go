package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
	"github.com/vladislavdragonenkov/cardapio/internal/storage/memory"
)

func TestMenuRepository_Categories(t *testing.T) {
	repo := memory.NewMenuRepository()

	if err := repo.UpsertCategory(domain.Category{ID: "cat-drinks", RestaurantID: "rest-1", Name: "Bebidas", SortOrder: 2}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.UpsertCategory(domain.Category{ID: "cat-pizzas", RestaurantID: "rest-1", Name: "Pizzas", SortOrder: 1}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.UpsertCategory(domain.Category{ID: "cat-foreign", RestaurantID: "rest-2", Name: "Sushi", SortOrder: 1}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	categories, err := repo.ListCategories("rest-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	// Отсортированы по SortOrder.
	if categories[0].ID != "cat-pizzas" {
		t.Fatalf("expected cat-pizzas first, got %s", categories[0].ID)
	}
}

func TestMenuRepository_Items(t *testing.T) {
	repo := memory.NewMenuRepository()

	item := domain.MenuItem{
		ID:           "item-margherita",
		RestaurantID: "rest-1",
		CategoryID:   "cat-pizzas",
		Name:         "Pizza Margherita",
		PriceMinor:   4490,
		IsActive:     true,
		Options: []domain.MenuItemOption{
			{Name: "Tamanho", Choices: []domain.MenuOptionChoice{
				{ID: "opt-grande", Name: "Grande", PriceMinor: 1000},
			}},
		},
	}
	if err := repo.UpsertMenuItem(item); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	stored, err := repo.GetMenuItem("item-margherita")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.PriceMinor != 4490 {
		t.Fatalf("unexpected price: %d", stored.PriceMinor)
	}

	if _, err := repo.GetMenuItem("missing"); !errors.Is(err, domain.ErrMenuItemNotFound) {
		t.Fatalf("expected ErrMenuItemNotFound, got %v", err)
	}

	items, err := repo.ListMenuItems("rest-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	// Upsert с тем же ID перезаписывает позицию.
	item.PriceMinor = 4990
	if err := repo.UpsertMenuItem(item); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	updated, _ := repo.GetMenuItem("item-margherita")
	if updated.PriceMinor != 4990 {
		t.Fatalf("expected updated price, got %d", updated.PriceMinor)
	}
}

func TestMenuRepository_GetReturnsCopy(t *testing.T) {
	repo := memory.NewMenuRepository()

	if err := repo.UpsertMenuItem(domain.MenuItem{
		ID:           "item-margherita",
		RestaurantID: "rest-1",
		Name:         "Pizza Margherita",
		PriceMinor:   4490,
		Options: []domain.MenuItemOption{
			{Name: "Tamanho", Choices: []domain.MenuOptionChoice{
				{ID: "opt-grande", Name: "Grande", PriceMinor: 1000},
			}},
		},
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	stored, _ := repo.GetMenuItem("item-margherita")
	stored.Options[0].Choices[0].PriceMinor = 0

	fresh, _ := repo.GetMenuItem("item-margherita")
	if fresh.Options[0].Choices[0].PriceMinor != 1000 {
		t.Fatalf("mutation leaked into repository: %+v", fresh.Options)
	}
}

func TestSeedDemoData(t *testing.T) {
	restaurants := memory.NewRestaurantRepository()
	menu := memory.NewMenuRepository()

	if err := memory.SeedDemoData(restaurants, menu); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	bella, err := restaurants.GetRestaurantBySubdomain("pizzaria-bella")
	if err != nil {
		t.Fatalf("demo restaurant missing: %v", err)
	}
	if bella.Status != domain.RestaurantStatusActive {
		t.Fatalf("demo restaurant must be active, got %s", bella.Status)
	}

	categories, err := menu.ListCategories(bella.ID)
	if err != nil {
		t.Fatalf("list categories failed: %v", err)
	}
	if len(categories) == 0 {
		t.Fatal("expected demo categories")
	}

	items, err := menu.ListMenuItems(bella.ID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected demo menu items")
	}
	for _, item := range items {
		if !item.IsActive {
			t.Fatalf("demo item %s must be active", item.ID)
		}
	}

	// Повторный посев падает на занятом поддомене, а не дублирует данные.
	if err := memory.SeedDemoData(restaurants, menu); !errors.Is(err, domain.ErrSubdomainTaken) {
		t.Fatalf("expected ErrSubdomainTaken on repeated seed, got %v", err)
	}
}
