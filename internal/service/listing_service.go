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

// ListingRepo é a visão que os serviços têm do repositório de anúncios.
type ListingRepo interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	List(ctx context.Context, filter repository.ListingFilter) ([]models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type ListingService struct {
	listings ListingRepo
}

func NewListingService(listings ListingRepo) *ListingService {
	return &ListingService{listings: listings}
}

// CreateListingInput carrega os campos de criação de um anúncio.
type CreateListingInput struct {
	Type        string
	Title       string
	Description string
	Price       *float64
	ServiceType *string
	Category    *string
	City        *string
	PhotoID     *uuid.UUID
}

func (s *ListingService) Create(ctx context.Context, ownerID uuid.UUID, input CreateListingInput) (*models.Listing, error) {
	if _, ok := models.ValidListingTypes[input.Type]; !ok {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "tipo de anúncio inválido: %s", input.Type)
	}
	if input.Type == models.ListingTypeService {
		if input.ServiceType == nil {
			return nil, apperror.New(apperror.ErrCodeValidation, "serviços exigem a modalidade local ou digital")
		}
		if _, ok := models.ValidServiceTypes[*input.ServiceType]; !ok {
			return nil, apperror.Newf(apperror.ErrCodeValidation, "modalidade de serviço inválida: %s", *input.ServiceType)
		}
	} else if input.ServiceType != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "modalidade de serviço só se aplica a anúncios de serviço")
	}
	if err := validation.ValidateListingTitle(input.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateListingDescription(input.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrice(input.Price); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateCity(input.City); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	listing := &models.Listing{
		OwnerID:     ownerID,
		Type:        input.Type,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		ServiceType: input.ServiceType,
		Category:    input.Category,
		City:        input.City,
		PhotoID:     input.PhotoID,
		Status:      models.ListingStatusActive,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao criar anúncio")
	}
	return listing, nil
}

func (s *ListingService) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao carregar anúncio")
	}
	return listing, nil
}

func (s *ListingService) List(ctx context.Context, filter repository.ListingFilter) ([]models.Listing, error) {
	listings, err := s.listings.List(ctx, filter)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao listar anúncios")
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, nil
}

// UpdateListingInput carrega os campos editáveis de um anúncio.
type UpdateListingInput struct {
	Title       string
	Description string
	Price       *float64
	Category    *string
	City        *string
	PhotoID     *uuid.UUID
	Status      string
}

// Update altera um anúncio do próprio dono.
func (s *ListingService) Update(ctx context.Context, id, requesterID uuid.UUID, input UpdateListingInput) (*models.Listing, error) {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != requesterID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "apenas o dono pode editar o anúncio")
	}
	if err := validation.ValidateListingTitle(input.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateListingDescription(input.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrice(input.Price); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if input.Status != models.ListingStatusActive && input.Status != models.ListingStatusInactive {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "status de anúncio inválido: %s", input.Status)
	}

	listing.Title = input.Title
	listing.Description = input.Description
	listing.Price = input.Price
	listing.Category = input.Category
	listing.City = input.City
	listing.PhotoID = input.PhotoID
	listing.Status = input.Status
	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao atualizar anúncio")
	}
	return listing, nil
}

// Deactivate desativa um anúncio. O dono pode desativar o próprio anúncio;
// administradores podem desativar qualquer um.
func (s *ListingService) Deactivate(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) error {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.OwnerID != requesterID && requesterRole != models.RoleAdmin {
		return apperror.New(apperror.ErrCodeForbidden, "apenas o dono ou a moderação pode desativar o anúncio")
	}
	if err := s.listings.Deactivate(ctx, id); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao desativar anúncio")
	}
	return nil
}
