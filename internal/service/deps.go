package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/storage"
)

// Broadcaster entrega eventos em tempo real aos clientes conectados.
type Broadcaster interface {
	BroadcastToConversation(conversationID uuid.UUID, event string, data interface{})
	SendToUser(userID uuid.UUID, event string, data interface{})
}

// Uploader persiste anexos de chat no armazenamento de mídia.
type Uploader interface {
	SaveChatAttachment(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (*storage.SavedFile, error)
}

// EventPublisher propaga eventos de domínio para consumidores externos.
// Implementações não devem bloquear o fluxo da requisição.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{})
}

// Notifier grava notificações persistentes para entrega posterior.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, payload interface{})
}

// ReviewRepo é a visão que os serviços têm do repositório de avaliações.
type ReviewRepo interface {
	Create(ctx context.Context, review *models.Review) error
	ListByReviewed(ctx context.Context, reviewedID uuid.UUID, limit, offset int) ([]models.Review, error)
	GetRatingSummary(ctx context.Context, reviewedID uuid.UUID) (*models.RatingSummary, error)
}
