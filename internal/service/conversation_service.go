package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/validation"
)

// ConversationRepo é a visão que os serviços têm do repositório de conversas.
type ConversationRepo interface {
	GetByKey(ctx context.Context, kind string, listingID, clientID, providerID uuid.UUID) (*models.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	CreateWithWarning(ctx context.Context, conv *models.Conversation, warningContent string) (*models.Conversation, error)
	AddMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Conversation, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Conversation, error)
	SetAdminParticipating(ctx context.Context, conversationID uuid.UUID, participating bool) error
	UpdateStatus(ctx context.Context, conversationID uuid.UUID, status string) error
}

// Textos de aviso gravados como primeira mensagem de cada conversa. O texto
// varia com o tipo de negociação.
var conversationWarnings = map[string]string{
	models.ConversationKindRequest:        "Atenção: combine os detalhes do pedido por aqui. Nunca realize pagamentos fora da plataforma.",
	models.ConversationKindLocalService:   "Atenção: para serviços presenciais, confirme endereço e horário por aqui. Nunca realize pagamentos fora da plataforma.",
	models.ConversationKindDigitalService: "Atenção: esta negociação de serviço digital é acompanhada pela moderação. Nunca realize pagamentos fora da plataforma.",
	models.ConversationKindProduct:        "Atenção: confira as condições do produto antes de fechar negócio. Nunca realize pagamentos fora da plataforma.",
}

type ConversationService struct {
	conversations ConversationRepo
	listings      ListingRepo
	uploader      Uploader
	broadcaster   Broadcaster
	publisher     EventPublisher
	notifier      Notifier
	log           *logrus.Logger
}

func NewConversationService(
	conversations ConversationRepo,
	listings ListingRepo,
	uploader Uploader,
	broadcaster Broadcaster,
	publisher EventPublisher,
	notifier Notifier,
	log *logrus.Logger,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		listings:      listings,
		uploader:      uploader,
		broadcaster:   broadcaster,
		publisher:     publisher,
		notifier:      notifier,
		log:           log,
	}
}

// Start abre (ou reaproveita) a conversa entre o interessado e o dono do
// anúncio. A operação é idempotente: repetir a chamada devolve a conversa
// ativa existente sem criar nada. Conversas encerradas não entram na
// busca, então o mesmo par pode renegociar o anúncio do zero.
func (s *ConversationService) Start(ctx context.Context, listingID, initiatorID uuid.UUID) (*models.Conversation, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao abrir conversa")
	}
	if listing.OwnerID == initiatorID {
		return nil, apperror.ErrSelfNegotiation
	}
	if listing.Status != models.ListingStatusActive {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "o anúncio não está mais ativo")
	}

	kind := listing.ConversationKind()
	existing, err := s.conversations.GetByKey(ctx, kind, listingID, initiatorID, listing.OwnerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrConversationNotFound) {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao abrir conversa")
	}

	conv := &models.Conversation{
		Kind:       kind,
		ListingID:  listingID,
		ClientID:   initiatorID,
		ProviderID: listing.OwnerID,
		Status:     models.ConversationStatusActive,
		// Serviços digitais nascem com acompanhamento da moderação.
		AdminParticipating: listing.IsDigitalService(),
	}
	created, err := s.conversations.CreateWithWarning(ctx, conv, conversationWarnings[kind])
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao abrir conversa")
	}

	s.publisher.Publish(ctx, "conversation.started", created)
	s.notifier.Notify(ctx, created.ProviderID, "conversation.started", created)
	return created, nil
}

// Attachment descreve um anexo recebido junto com uma mensagem.
type Attachment struct {
	Filename string
	Reader   io.Reader
}

// SendMessage grava uma mensagem de um participante. Conteúdo acima do
// limite é truncado; o anexo, quando presente, é persistido antes da
// gravação e uma falha de upload aborta o envio inteiro.
func (s *ConversationService) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, content string, attachment *Attachment) (*models.Message, error) {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "você não participa desta conversa")
	}
	if conv.Status == models.ConversationStatusClosed {
		return nil, apperror.ErrConversationClosed
	}

	content = strings.TrimSpace(content)
	if content == "" && attachment == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "a mensagem não pode ser vazia")
	}
	content = validation.TruncateRunes(content, validation.MaxMessageLength)

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       &senderID,
		Kind:           models.MessageKindNormal,
		Content:        content,
	}
	if attachment != nil {
		saved, err := s.uploader.SaveChatAttachment(ctx, senderID, attachment.Filename, attachment.Reader)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeUpstream, "falha ao enviar o anexo")
		}
		msg.FileURL = &saved.RelativePath
		msg.FileType = &saved.Kind
	}

	if err := s.conversations.AddMessage(ctx, msg); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao enviar mensagem")
	}
	msg.ReadBy = []uuid.UUID{}

	s.broadcaster.BroadcastToConversation(conversationID, "message", msg)
	s.publisher.Publish(ctx, "message.sent", msg)
	s.notifier.Notify(ctx, conv.OtherParticipant(senderID), "message.received", msg)
	return msg, nil
}

// ListMessages devolve o histórico para um participante ou administrador.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID, requesterID uuid.UUID, requesterRole string, limit, offset int) ([]models.Message, error) {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(requesterID) && requesterRole != models.RoleAdmin {
		return nil, apperror.New(apperror.ErrCodeForbidden, "você não participa desta conversa")
	}
	messages, err := s.conversations.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao carregar mensagens")
	}
	return messages, nil
}

// MarkAsRead acrescenta o leitor ao conjunto de leitura de todas as
// mensagens da conversa que não são dele. Pensado para a abertura da
// conversa e o refoco do cliente. A operação é idempotente; o evento só sai
// quando algum conjunto cresceu.
func (s *ConversationService) MarkAsRead(ctx context.Context, conversationID, readerID uuid.UUID, readerRole string) error {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(readerID) && readerRole != models.RoleAdmin {
		return apperror.New(apperror.ErrCodeForbidden, "você não participa desta conversa")
	}

	grown, err := s.conversations.MarkRead(ctx, conversationID, readerID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao marcar leitura")
	}
	if grown {
		s.broadcaster.BroadcastToConversation(conv.ID, "message_read", map[string]interface{}{
			"conversation_id": conv.ID,
			"reader_id":       readerID,
		})
	}
	return nil
}

// ListForUser devolve as conversas em que o usuário participa.
func (s *ConversationService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Conversation, error) {
	conversations, err := s.conversations.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao listar conversas")
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}
	return conversations, nil
}

// Get devolve uma conversa para um participante ou administrador.
func (s *ConversationService) Get(ctx context.Context, conversationID, requesterID uuid.UUID, requesterRole string) (*models.Conversation, error) {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(requesterID) && requesterRole != models.RoleAdmin {
		return nil, apperror.New(apperror.ErrCodeForbidden, "você não participa desta conversa")
	}
	return conv, nil
}

// Close encerra a conversa. Encerrar uma conversa já encerrada é um no-op.
func (s *ConversationService) Close(ctx context.Context, conversationID, requesterID uuid.UUID, requesterRole string) error {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(requesterID) && requesterRole != models.RoleAdmin {
		return apperror.New(apperror.ErrCodeForbidden, "você não participa desta conversa")
	}
	if conv.Status == models.ConversationStatusClosed {
		return nil
	}
	if err := s.conversations.UpdateStatus(ctx, conversationID, models.ConversationStatusClosed); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao encerrar conversa")
	}
	s.broadcaster.BroadcastToConversation(conversationID, "conversation_closed", map[string]interface{}{
		"conversation_id": conversationID,
	})
	s.publisher.Publish(ctx, "conversation.closed", conv)
	return nil
}

// CanJoin autoriza a assinatura de uma sala de tempo real: participantes e
// administradores entram, o resto não.
func (s *ConversationService) CanJoin(ctx context.Context, conversationID, userID uuid.UUID, role string) bool {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return false
	}
	return conv.HasParticipant(userID) || role == models.RoleAdmin
}

func (s *ConversationService) getConversation(ctx context.Context, conversationID uuid.UUID) (*models.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao carregar conversa")
	}
	return conv, nil
}
