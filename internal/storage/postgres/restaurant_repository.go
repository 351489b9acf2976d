package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/cardapio/internal/domain"
)

type restaurantRepository struct {
	db *sql.DB
}

// NewRestaurantRepository создаёт PostgreSQL-реализацию RestaurantRepository.
func NewRestaurantRepository(store *Store) domain.RestaurantRepository {
	return &restaurantRepository{db: store.DB()}
}

const restaurantColumns = `
	id, name, subdomain, logo_url, theme, whatsapp_number,
	plan, plan_started_at, plan_expires_at, status, created_at, updated_at`

func (r *restaurantRepository) CreateRestaurant(restaurant domain.Restaurant) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	theme, err := json.Marshal(restaurant.Theme)
	if err != nil {
		return fmt.Errorf("marshal restaurant theme: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO restaurants (`+restaurantColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		restaurant.ID, restaurant.Name, restaurant.Subdomain, restaurant.LogoURL,
		theme, restaurant.WhatsAppNumber, string(restaurant.Plan),
		restaurant.PlanStartedAt, restaurant.PlanExpiresAt, string(restaurant.Status),
		restaurant.CreatedAt, restaurant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSubdomainTaken
		}
		return fmt.Errorf("insert restaurant: %w", err)
	}

	return nil
}

func (r *restaurantRepository) GetRestaurant(id string) (domain.Restaurant, error) {
	return r.getRestaurantBy("id", id)
}

func (r *restaurantRepository) GetRestaurantBySubdomain(subdomain string) (domain.Restaurant, error) {
	return r.getRestaurantBy("subdomain", subdomain)
}

func (r *restaurantRepository) getRestaurantBy(column, value string) (domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE `+column+` = $1
	`, value)

	restaurant, err := scanRestaurant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Restaurant{}, domain.ErrRestaurantNotFound
		}
		return domain.Restaurant{}, err
	}
	return restaurant, nil
}

func (r *restaurantRepository) ListRestaurants() ([]domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := make([]domain.Restaurant, 0)
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurant rows: %w", err)
	}

	return restaurants, nil
}

func (r *restaurantRepository) SaveRestaurant(restaurant domain.Restaurant) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	theme, err := json.Marshal(restaurant.Theme)
	if err != nil {
		return fmt.Errorf("marshal restaurant theme: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE restaurants
		SET name = $1,
		    subdomain = $2,
		    logo_url = $3,
		    theme = $4,
		    whatsapp_number = $5,
		    plan = $6,
		    plan_started_at = $7,
		    plan_expires_at = $8,
		    status = $9,
		    updated_at = $10
		WHERE id = $11
	`,
		restaurant.Name, restaurant.Subdomain, restaurant.LogoURL, theme,
		restaurant.WhatsAppNumber, string(restaurant.Plan),
		restaurant.PlanStartedAt, restaurant.PlanExpiresAt, string(restaurant.Status),
		restaurant.UpdatedAt, restaurant.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSubdomainTaken
		}
		return fmt.Errorf("update restaurant: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrRestaurantNotFound
	}

	return nil
}

func (r *restaurantRepository) CreateRegistration(req domain.RegistrationRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO registration_requests (
			id, restaurant_name, owner_name, email, phone, cnpj, address,
			status, restaurant_id, reason, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		req.ID, req.RestaurantName, req.OwnerName, req.Email, req.Phone,
		req.CNPJ, req.Address, string(req.Status), req.RestaurantID, req.Reason,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert registration request: %w", err)
	}

	return nil
}

func (r *restaurantRepository) GetRegistration(id string) (domain.RegistrationRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	req, err := scanRegistration(r.db.QueryRowContext(ctx, `
		SELECT id, restaurant_name, owner_name, email, phone, cnpj, address,
		       status, restaurant_id, reason, created_at, updated_at
		FROM registration_requests
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RegistrationRequest{}, domain.ErrRegistrationNotFound
		}
		return domain.RegistrationRequest{}, err
	}
	return req, nil
}

func (r *restaurantRepository) ListRegistrations(status domain.RegistrationStatus) ([]domain.RegistrationRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT id, restaurant_name, owner_name, email, phone, cnpj, address,
		       status, restaurant_id, reason, created_at, updated_at
		FROM registration_requests
	`

	var (
		rows *sql.Rows
		err  error
	)
	if status != "" {
		rows, err = r.db.QueryContext(ctx, query+` WHERE status = $1 ORDER BY created_at ASC, id ASC`, string(status))
	} else {
		rows, err = r.db.QueryContext(ctx, query+` ORDER BY created_at ASC, id ASC`)
	}
	if err != nil {
		return nil, fmt.Errorf("list registration requests: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.RegistrationRequest, 0)
	for rows.Next() {
		req, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registration rows: %w", err)
	}

	return requests, nil
}

func (r *restaurantRepository) SaveRegistration(req domain.RegistrationRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE registration_requests
		SET restaurant_name = $1,
		    owner_name = $2,
		    email = $3,
		    phone = $4,
		    cnpj = $5,
		    address = $6,
		    status = $7,
		    restaurant_id = $8,
		    reason = $9,
		    updated_at = $10
		WHERE id = $11
	`,
		req.RestaurantName, req.OwnerName, req.Email, req.Phone, req.CNPJ,
		req.Address, string(req.Status), req.RestaurantID, req.Reason,
		req.UpdatedAt, req.ID,
	)
	if err != nil {
		return fmt.Errorf("update registration request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrRegistrationNotFound
	}

	return nil
}

// scanner покрывает *sql.Row и *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRestaurant(row scanner) (domain.Restaurant, error) {
	var (
		restaurant domain.Restaurant
		theme      []byte
		plan       string
		status     string
	)
	if err := row.Scan(
		&restaurant.ID, &restaurant.Name, &restaurant.Subdomain, &restaurant.LogoURL,
		&theme, &restaurant.WhatsAppNumber, &plan,
		&restaurant.PlanStartedAt, &restaurant.PlanExpiresAt, &status,
		&restaurant.CreatedAt, &restaurant.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Restaurant{}, err
		}
		return domain.Restaurant{}, fmt.Errorf("scan restaurant row: %w", err)
	}

	restaurant.Plan = domain.PlanType(plan)
	restaurant.Status = domain.RestaurantStatus(status)
	if len(theme) > 0 {
		if err := json.Unmarshal(theme, &restaurant.Theme); err != nil {
			return domain.Restaurant{}, fmt.Errorf("unmarshal restaurant theme: %w", err)
		}
	}
	return restaurant, nil
}

func scanRegistration(row scanner) (domain.RegistrationRequest, error) {
	var (
		req    domain.RegistrationRequest
		status string
	)
	if err := row.Scan(
		&req.ID, &req.RestaurantName, &req.OwnerName, &req.Email, &req.Phone,
		&req.CNPJ, &req.Address, &status, &req.RestaurantID, &req.Reason,
		&req.CreatedAt, &req.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RegistrationRequest{}, err
		}
		return domain.RegistrationRequest{}, fmt.Errorf("scan registration row: %w", err)
	}
	req.Status = domain.RegistrationStatus(status)
	return req, nil
}

var _ domain.RestaurantRepository = (*restaurantRepository)(nil)
