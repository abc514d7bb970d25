package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
)

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (reviewer_id, reviewed_id, listing_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRowxContext(ctx, query,
		review.ReviewerID, review.ReviewedID, review.ListingID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
}

// ListByReviewed devolve as avaliações recebidas por um usuário, mais
// recentes primeiro.
func (r *ReviewRepository) ListByReviewed(ctx context.Context, reviewedID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews WHERE reviewed_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, reviewedID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("review repository: list by reviewed %w", err)
	}
	return reviews, nil
}

// GetRatingSummary agrega média e total de avaliações na leitura. Sem
// avaliações o resultado é {0, 0}.
func (r *ReviewRepository) GetRatingSummary(ctx context.Context, reviewedID uuid.UUID) (*models.RatingSummary, error) {
	var summary models.RatingSummary
	err := r.db.QueryRowxContext(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE reviewed_id = $1
	`, reviewedID).Scan(&summary.Average, &summary.Count)
	if err != nil {
		return nil, fmt.Errorf("review repository: rating summary %w", err)
	}
	return &summary, nil
}
