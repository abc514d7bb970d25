package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/validation"
)

type ReviewService struct {
	reviews  ReviewRepo
	users    UserRepo
	notifier Notifier
}

func NewReviewService(reviews ReviewRepo, users UserRepo, notifier Notifier) *ReviewService {
	return &ReviewService{reviews: reviews, users: users, notifier: notifier}
}

// Submit registra uma avaliação de um usuário sobre outro. Autoavaliação
// não é permitida.
func (s *ReviewService) Submit(ctx context.Context, reviewerID, reviewedID uuid.UUID, listingID *uuid.UUID, rating int, comment *string) (*models.Review, error) {
	if reviewerID == reviewedID {
		return nil, apperror.ErrSelfReview
	}
	if rating < 1 || rating > 5 {
		return nil, apperror.New(apperror.ErrCodeValidation, "a nota deve estar entre 1 e 5")
	}
	if err := validation.ValidateReviewComment(comment); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if _, err := s.users.GetByID(ctx, reviewedID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao registrar avaliação")
	}

	review := &models.Review{
		ReviewerID: reviewerID,
		ReviewedID: reviewedID,
		ListingID:  listingID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao registrar avaliação")
	}
	s.notifier.Notify(ctx, reviewedID, "review.received", review)
	return review, nil
}

// ListForUser devolve as avaliações recebidas por um usuário.
func (s *ReviewService) ListForUser(ctx context.Context, reviewedID uuid.UUID, limit, offset int) ([]models.Review, error) {
	reviews, err := s.reviews.ListByReviewed(ctx, reviewedID, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao listar avaliações")
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// GetRating agrega a reputação na leitura. Sem avaliações o resultado é
// {0, 0}; a média é arredondada para uma casa decimal.
func (s *ReviewService) GetRating(ctx context.Context, reviewedID uuid.UUID) (*models.RatingSummary, error) {
	summary, err := s.reviews.GetRatingSummary(ctx, reviewedID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao calcular reputação")
	}
	summary.Average = roundRating(summary.Average)
	return summary, nil
}

// roundRating arredonda a média para uma casa decimal.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
