package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

type cartStore struct {
	db *sql.DB
}

// NewCartStore создаёт PostgreSQL-реализацию CartStore. Снимки корзины
// хранятся как JSONB и перезаписываются целиком при каждой мутации.
func NewCartStore(store *Store) domain.CartStore {
	return &cartStore{db: store.DB()}
}

func (s *cartStore) Load(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var snapshot []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT snapshot
		FROM cart_snapshots
		WHERE key = $1
	`, key).Scan(&snapshot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}

	return snapshot, nil
}

func (s *cartStore) Save(key string, snapshot []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_snapshots (key, snapshot, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE
		SET snapshot = EXCLUDED.snapshot,
		    updated_at = EXCLUDED.updated_at
	`, key, snapshot, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}

	return nil
}

func (s *cartStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM cart_snapshots
		WHERE key = $1
	`, key); err != nil {
		return fmt.Errorf("delete cart snapshot: %w", err)
	}

	return nil
}

var _ domain.CartStore = (*cartStore)(nil)
