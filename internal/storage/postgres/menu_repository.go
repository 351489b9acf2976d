package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository создаёт PostgreSQL-реализацию MenuRepository.
func NewMenuRepository(store *Store) domain.MenuRepository {
	return &menuRepository{db: store.DB()}
}

func (r *menuRepository) ListCategories(restaurantID string) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, restaurant_id, name, sort_order
		FROM categories
		WHERE restaurant_id = $1
		ORDER BY sort_order ASC, name ASC
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, nil
}

func (r *menuRepository) ListMenuItems(restaurantID string) ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, restaurant_id, category_id, name, description, image_url,
		       price_minor, is_active, options
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY name ASC, id ASC
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu item rows: %w", err)
	}

	return items, nil
}

func (r *menuRepository) GetMenuItem(id string) (domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	item, err := scanMenuItem(r.db.QueryRowContext(ctx, `
		SELECT id, restaurant_id, category_id, name, description, image_url,
		       price_minor, is_active, options
		FROM menu_items
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MenuItem{}, domain.ErrMenuItemNotFound
		}
		return domain.MenuItem{}, err
	}
	return item, nil
}

func (r *menuRepository) UpsertCategory(c domain.Category) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, restaurant_id, name, sort_order)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    sort_order = EXCLUDED.sort_order
	`, c.ID, c.RestaurantID, c.Name, c.SortOrder)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}

	return nil
}

func (r *menuRepository) UpsertMenuItem(item domain.MenuItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	options, err := json.Marshal(item.Options)
	if err != nil {
		return fmt.Errorf("marshal menu item options: %w", err)
	}
	if item.Options == nil {
		options = []byte("[]")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO menu_items (
			id, restaurant_id, category_id, name, description, image_url,
			price_minor, is_active, options
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE
		SET category_id = EXCLUDED.category_id,
		    name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    image_url = EXCLUDED.image_url,
		    price_minor = EXCLUDED.price_minor,
		    is_active = EXCLUDED.is_active,
		    options = EXCLUDED.options
	`,
		item.ID, item.RestaurantID, item.CategoryID, item.Name, item.Description,
		item.ImageURL, item.PriceMinor, item.IsActive, options,
	)
	if err != nil {
		return fmt.Errorf("upsert menu item: %w", err)
	}

	return nil
}

func scanMenuItem(row scanner) (domain.MenuItem, error) {
	var (
		item    domain.MenuItem
		options []byte
	)
	if err := row.Scan(
		&item.ID, &item.RestaurantID, &item.CategoryID, &item.Name,
		&item.Description, &item.ImageURL, &item.PriceMinor, &item.IsActive, &options,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MenuItem{}, err
		}
		return domain.MenuItem{}, fmt.Errorf("scan menu item row: %w", err)
	}

	if len(options) > 0 {
		if err := json.Unmarshal(options, &item.Options); err != nil {
			return domain.MenuItem{}, fmt.Errorf("unmarshal menu item options: %w", err)
		}
	}
	if len(item.Options) == 0 {
		item.Options = nil
	}
	return item, nil
}

var _ domain.MenuRepository = (*menuRepository)(nil)
