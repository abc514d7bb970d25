package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/validation"
)

// ModerationService concentra as ações administrativas sobre conversas e
// usuários. Todas as operações exigem papel admin, verificado aqui e não
// no banco.
type ModerationService struct {
	conversations ConversationRepo
	users         UserRepo
	broadcaster   Broadcaster
	publisher     EventPublisher
	log           *logrus.Logger
}

func NewModerationService(
	conversations ConversationRepo,
	users UserRepo,
	broadcaster Broadcaster,
	publisher EventPublisher,
	log *logrus.Logger,
) *ModerationService {
	return &ModerationService{
		conversations: conversations,
		users:         users,
		broadcaster:   broadcaster,
		publisher:     publisher,
		log:           log,
	}
}

func (s *ModerationService) requireAdmin(role string) error {
	if role != models.RoleAdmin {
		return apperror.New(apperror.ErrCodeForbidden, "ação restrita à moderação")
	}
	return nil
}

// ListConversations devolve todas as conversas para a visão de moderação.
func (s *ModerationService) ListConversations(ctx context.Context, requesterRole string, limit, offset int) ([]models.Conversation, error) {
	if err := s.requireAdmin(requesterRole); err != nil {
		return nil, err
	}
	conversations, err := s.conversations.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao listar conversas")
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}
	return conversations, nil
}

// SetParticipation liga ou desliga a participação ativa do administrador em
// uma conversa. Com a participação ligada o administrador pode enviar
// mensagens visíveis às partes.
func (s *ModerationService) SetParticipation(ctx context.Context, conversationID uuid.UUID, requesterRole string, participating bool) error {
	if err := s.requireAdmin(requesterRole); err != nil {
		return err
	}
	if err := s.conversations.SetAdminParticipating(ctx, conversationID, participating); err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return apperror.ErrConversationNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao alterar participação")
	}
	s.broadcaster.BroadcastToConversation(conversationID, "admin_participation", map[string]interface{}{
		"conversation_id": conversationID,
		"participating":   participating,
	})
	s.publisher.Publish(ctx, "moderation.participation", map[string]interface{}{
		"conversation_id": conversationID,
		"participating":   participating,
	})
	return nil
}

// SendMessage grava uma mensagem administrativa (admin ou warning) em uma
// conversa. O envio independe da flag de participação, que só muda como a
// moderação aparece para as partes. Diferente das mensagens comuns,
// conteúdo acima do limite é rejeitado, não truncado.
func (s *ModerationService) SendMessage(ctx context.Context, conversationID, adminID uuid.UUID, requesterRole, kind, content string) (*models.Message, error) {
	if err := s.requireAdmin(requesterRole); err != nil {
		return nil, err
	}
	if kind != models.MessageKindAdmin && kind != models.MessageKindWarning {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "tipo de mensagem administrativa inválido: %s", kind)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "a mensagem não pode ser vazia")
	}
	if utf8.RuneCountInString(content) > validation.MaxMessageLength {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "a mensagem não pode ultrapassar %d caracteres", validation.MaxMessageLength)
	}

	if _, err := s.conversations.GetByID(ctx, conversationID); err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao enviar mensagem")
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       &adminID,
		Kind:           kind,
		Content:        content,
	}
	if err := s.conversations.AddMessage(ctx, msg); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao enviar mensagem")
	}
	msg.ReadBy = []uuid.UUID{}

	s.broadcaster.BroadcastToConversation(conversationID, "message", msg)
	s.publisher.Publish(ctx, "moderation.message", msg)
	return msg, nil
}

// SetUserStatus suspende, bloqueia ou reativa um usuário. Administradores
// não podem alterar o próprio status.
func (s *ModerationService) SetUserStatus(ctx context.Context, targetID, adminID uuid.UUID, requesterRole, status string) error {
	if err := s.requireAdmin(requesterRole); err != nil {
		return err
	}
	if targetID == adminID {
		return apperror.New(apperror.ErrCodeSelfAction, "você não pode alterar o próprio status")
	}
	switch status {
	case models.UserStatusActive, models.UserStatusSuspended, models.UserStatusBlocked:
	default:
		return apperror.Newf(apperror.ErrCodeValidation, "status de usuário inválido: %s", status)
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.ErrUserNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao alterar status")
	}
	if target.Role == models.RoleAdmin {
		return apperror.New(apperror.ErrCodeForbidden, "não é possível moderar outro administrador")
	}
	if err := s.users.UpdateStatus(ctx, targetID, status); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao alterar status")
	}
	s.log.WithFields(logrus.Fields{
		"target_id": targetID,
		"admin_id":  adminID,
		"status":    status,
	}).Info("moderation: status de usuário alterado")
	s.publisher.Publish(ctx, "moderation.user_status", map[string]interface{}{
		"user_id": targetID,
		"status":  status,
	})
	return nil
}
