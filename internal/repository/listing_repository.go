package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository/common"
)

var ErrListingNotFound = errors.New("listing not found")

// ListingFilter carrega os filtros de listagem de anúncios.
type ListingFilter struct {
	Type        string
	ServiceType string
	Category    string
	City        string
	OwnerID     *uuid.UUID
	Search      string
	Limit       int
	Offset      int
}

type ListingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (owner_id, type, title, description, price, service_type, category, city, photo_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		listing.OwnerID, listing.Type, listing.Title, listing.Description, listing.Price,
		listing.ServiceType, listing.Category, listing.City, listing.PhotoID, listing.Status,
	).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
}

func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return common.GetByID[models.Listing](ctx, r.db, "listings", id, ErrListingNotFound)
}

// List devolve anúncios ativos aplicando os filtros informados. A listagem
// do próprio dono (OwnerID preenchido) inclui também os inativos.
func (r *ListingRepository) List(ctx context.Context, filter ListingFilter) ([]models.Listing, error) {
	conditions := []string{}
	args := []interface{}{}
	idx := 1

	if filter.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", idx))
		args = append(args, *filter.OwnerID)
		idx++
	} else {
		conditions = append(conditions, fmt.Sprintf("status = $%d", idx))
		args = append(args, models.ListingStatusActive)
		idx++
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", idx))
		args = append(args, filter.Type)
		idx++
	}
	if filter.ServiceType != "" {
		conditions = append(conditions, fmt.Sprintf("service_type = $%d", idx))
		args = append(args, filter.ServiceType)
		idx++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", idx))
		args = append(args, filter.Category)
		idx++
	}
	if filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("city ILIKE $%d", idx))
		args = append(args, filter.City)
		idx++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", idx, idx))
		args = append(args, "%"+filter.Search+"%")
		idx++
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`
		SELECT * FROM listings
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(conditions, " AND "), idx, idx+1)
	args = append(args, limit, filter.Offset)

	var listings []models.Listing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("listing repository: list %w", err)
	}
	return listings, nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *models.Listing) error {
	query := `
		UPDATE listings
		SET title = $2, description = $3, price = $4, category = $5, city = $6, photo_id = $7, status = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		listing.ID, listing.Title, listing.Description, listing.Price,
		listing.Category, listing.City, listing.PhotoID, listing.Status,
	).Scan(&listing.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrListingNotFound
	}
	return err
}

// Deactivate desativa um anúncio (dono ou moderação).
func (r *ListingRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE listings SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, models.ListingStatusInactive)
	if err != nil {
		return fmt.Errorf("listing repository: deactivate %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrListingNotFound
	}
	return nil
}
