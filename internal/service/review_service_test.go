package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
)

type reviewFixture struct {
	svc        *ReviewService
	reviewRepo *mockReviewRepo
	users      *mockUserStore
	notifier   *stubNotifier
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		reviewRepo: &mockReviewRepo{},
		users:      newMockUserStore(),
		notifier:   &stubNotifier{},
	}
	f.svc = NewReviewService(f.reviewRepo, f.users, f.notifier)
	return f
}

func TestReviewService_Submit_Success(t *testing.T) {
	f := newReviewFixture()
	reviewed := &models.User{Email: "prestador@exemplo.com", Role: models.RoleUser, Status: models.UserStatusActive}
	f.users.add(reviewed)
	comment := "Serviço excelente, recomendo"
	f.reviewRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.ReviewedID == reviewed.ID && r.Rating == 5
	})).Return(nil)

	review, err := f.svc.Submit(context.Background(), uuid.New(), reviewed.ID, nil, 5, &comment)
	assert.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	assert.Contains(t, f.notifier.events, "review.received")
	assert.Equal(t, []uuid.UUID{reviewed.ID}, f.notifier.users)
}

func TestReviewService_Submit_SelfReview(t *testing.T) {
	f := newReviewFixture()
	userID := uuid.New()

	_, err := f.svc.Submit(context.Background(), userID, userID, nil, 4, nil)
	assert.ErrorIs(t, err, apperror.ErrSelfReview)
}

func TestReviewService_Submit_RatingOutOfRange(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.Submit(context.Background(), uuid.New(), uuid.New(), nil, 0, nil)
	assert.True(t, apperror.IsValidation(err))

	_, err = f.svc.Submit(context.Background(), uuid.New(), uuid.New(), nil, 6, nil)
	assert.True(t, apperror.IsValidation(err))
}

func TestReviewService_Submit_UnknownUser(t *testing.T) {
	f := newReviewFixture()

	_, err := f.svc.Submit(context.Background(), uuid.New(), uuid.New(), nil, 3, nil)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReviewService_GetRating_RoundsAverage(t *testing.T) {
	f := newReviewFixture()
	reviewedID := uuid.New()
	f.reviewRepo.On("GetRatingSummary", mock.Anything, reviewedID).
		Return(&models.RatingSummary{Average: 4.666666, Count: 3}, nil)

	summary, err := f.svc.GetRating(context.Background(), reviewedID)
	assert.NoError(t, err)
	assert.Equal(t, 4.7, summary.Average)
	assert.Equal(t, 3, summary.Count)
}

func TestReviewService_GetRating_NoReviews(t *testing.T) {
	f := newReviewFixture()
	reviewedID := uuid.New()
	f.reviewRepo.On("GetRatingSummary", mock.Anything, reviewedID).
		Return(&models.RatingSummary{Average: 0, Count: 0}, nil)

	summary, err := f.svc.GetRating(context.Background(), reviewedID)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, summary.Average)
	assert.Equal(t, 0, summary.Count)
}
