package service

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/storage"
)

// MediaRepo é a visão que os serviços têm do repositório de mídia.
type MediaRepo interface {
	Create(ctx context.Context, file *models.MediaFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error)
}

// MediaService persiste fotos de perfil e de anúncio no armazenamento
// local e registra os metadados no banco.
type MediaService struct {
	media   MediaRepo
	storage *storage.FileStorage
}

func NewMediaService(media MediaRepo, fileStorage *storage.FileStorage) *MediaService {
	return &MediaService{media: media, storage: fileStorage}
}

// UploadPhoto valida e grava uma foto (apenas imagens, até o limite de
// fotos).
func (s *MediaService) UploadPhoto(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (*models.MediaFile, error) {
	saved, err := s.storage.SavePhoto(ctx, userID, originalName, r)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	file := &models.MediaFile{
		UserID:   &userID,
		FilePath: saved.RelativePath,
		FileType: saved.Kind,
		FileSize: saved.Size,
		IsPublic: true,
	}
	if err := s.media.Create(ctx, file); err != nil {
		// Arquivo órfão no disco não pode ficar para trás.
		_ = s.storage.Delete(ctx, saved.RelativePath)
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao registrar arquivo")
	}
	return file, nil
}

// GetByID devolve os metadados de um arquivo.
func (s *MediaService) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	file, err := s.media.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			return nil, apperror.New(apperror.ErrCodeNotFound, "arquivo não encontrado")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao carregar arquivo")
	}
	return file, nil
}
