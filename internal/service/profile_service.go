package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/validation"
)

// ProfileService expõe leitura e edição de perfis públicos.
type ProfileService struct {
	users   UserRepo
	reviews ReviewRepo
}

func NewProfileService(users UserRepo, reviews ReviewRepo) *ProfileService {
	return &ProfileService{users: users, reviews: reviews}
}

// PublicProfile agrega o perfil e a reputação de um usuário.
type PublicProfile struct {
	UserID      uuid.UUID             `json:"user_id"`
	Username    string                `json:"username"`
	DisplayName string                `json:"display_name"`
	Bio         *string               `json:"bio,omitempty"`
	City        *string               `json:"city,omitempty"`
	PhotoID     *uuid.UUID            `json:"photo_id,omitempty"`
	Rating      *models.RatingSummary `json:"rating"`
}

// GetPublicProfile devolve o perfil com a reputação agregada na leitura.
func (s *ProfileService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*PublicProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao carregar perfil")
	}
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao carregar perfil")
	}
	rating, err := s.reviews.GetRatingSummary(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao carregar reputação")
	}
	rating.Average = roundRating(rating.Average)

	result := &PublicProfile{UserID: user.ID, Username: user.Username, DisplayName: user.Username, Rating: rating}
	if profile != nil {
		result.DisplayName = profile.DisplayName
		result.Bio = profile.Bio
		result.City = profile.City
		result.PhotoID = profile.PhotoID
	}
	return result, nil
}

// UpdateProfileInput carrega os campos editáveis do perfil.
type UpdateProfileInput struct {
	DisplayName string
	Bio         *string
	Phone       *string
	City        *string
	PhotoID     *uuid.UUID
}

// UpdateProfile valida e grava o perfil do próprio usuário.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.Profile, error) {
	if err := validation.ValidateDisplayName(input.DisplayName); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateBio(input.Bio); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateCity(input.City); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	profile := &models.Profile{
		UserID:      userID,
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
		Phone:       input.Phone,
		City:        input.City,
		PhotoID:     input.PhotoID,
	}
	if err := s.users.UpsertProfile(ctx, profile); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao salvar perfil")
	}
	return profile, nil
}
