package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
)

// NotificationRepo é a visão que os serviços têm do repositório de
// notificações.
type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, onlyUnread bool, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// NotificationService persiste notificações e as empurra em tempo real
// para o destinatário quando ele está conectado.
type NotificationService struct {
	notifications NotificationRepo
	broadcaster   Broadcaster
	log           *logrus.Logger
}

func NewNotificationService(notifications NotificationRepo, broadcaster Broadcaster, log *logrus.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, broadcaster: broadcaster, log: log}
}

// Notify grava a notificação e tenta a entrega em tempo real. Falhas de
// gravação são registradas e não propagadas: notificação nunca derruba a
// operação que a originou.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, event string, payload interface{}) {
	body, err := json.Marshal(map[string]interface{}{"event": event, "data": payload})
	if err != nil {
		s.log.WithError(err).WithField("event", event).Error("notification: falha ao serializar")
		return
	}
	n := &models.Notification{UserID: userID, Payload: body}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("notification: falha ao gravar")
		return
	}
	s.broadcaster.SendToUser(userID, "notification", n)
}

// ListForUser devolve as notificações do usuário.
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, onlyUnread bool, limit, offset int) ([]models.Notification, error) {
	notifications, err := s.notifications.ListForUser(ctx, userID, onlyUnread, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao listar notificações")
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead marca uma notificação como lida.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notifications.MarkRead(ctx, id, userID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao marcar notificação")
	}
	return nil
}

// MarkAllRead marca todas as notificações do usuário como lidas.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notifications.MarkAllRead(ctx, userID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao marcar notificações")
	}
	return nil
}
