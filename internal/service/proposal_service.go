package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/validation"
)

// ProposalRepo é a visão que os serviços têm do repositório de propostas.
type ProposalRepo interface {
	CreateWithMessage(ctx context.Context, proposal *models.Proposal, msg *models.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	Resolve(ctx context.Context, id uuid.UUID, status string) (*models.Proposal, error)
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Proposal, error)
}

type ProposalService struct {
	proposals     ProposalRepo
	conversations ConversationRepo
	broadcaster   Broadcaster
	publisher     EventPublisher
	notifier      Notifier
	log           *logrus.Logger
}

func NewProposalService(
	proposals ProposalRepo,
	conversations ConversationRepo,
	broadcaster Broadcaster,
	publisher EventPublisher,
	notifier Notifier,
	log *logrus.Logger,
) *ProposalService {
	return &ProposalService{
		proposals:     proposals,
		conversations: conversations,
		broadcaster:   broadcaster,
		publisher:     publisher,
		notifier:      notifier,
		log:           log,
	}
}

// Create registra uma proposta de um participante para a contraparte,
// ancorada em uma mensagem do tipo proposal no histórico.
func (s *ProposalService) Create(ctx context.Context, conversationID, senderID uuid.UUID, description string, price float64) (*models.Proposal, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao criar proposta")
	}
	if !conv.HasParticipant(senderID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "você não participa desta conversa")
	}
	if conv.Status == models.ConversationStatusClosed {
		return nil, apperror.ErrConversationClosed
	}
	if err := validation.ValidateProposalDescription(description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if price <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "o preço da proposta deve ser maior que zero")
	}

	proposal := &models.Proposal{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     conv.OtherParticipant(senderID),
		Description:    description,
		Price:          price,
		Status:         models.ProposalStatusPending,
	}
	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       &senderID,
		Kind:           models.MessageKindProposal,
		Content:        fmt.Sprintf("Proposta enviada: %s — R$ %.2f", description, price),
	}
	if err := s.proposals.CreateWithMessage(ctx, proposal, msg); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao criar proposta")
	}
	msg.ReadBy = []uuid.UUID{}

	s.broadcaster.BroadcastToConversation(conversationID, "message", msg)
	s.broadcaster.BroadcastToConversation(conversationID, "proposal", proposal)
	s.publisher.Publish(ctx, "proposal.created", proposal)
	s.notifier.Notify(ctx, proposal.ReceiverID, "proposal.created", proposal)
	return proposal, nil
}

// Accept aceita uma proposta pendente. Apenas o destinatário pode aceitar.
func (s *ProposalService) Accept(ctx context.Context, proposalID, requesterID uuid.UUID) (*models.Proposal, error) {
	return s.resolve(ctx, proposalID, requesterID, models.ProposalStatusAccepted)
}

// Reject recusa uma proposta pendente. Apenas o destinatário pode recusar.
func (s *ProposalService) Reject(ctx context.Context, proposalID, requesterID uuid.UUID) (*models.Proposal, error) {
	return s.resolve(ctx, proposalID, requesterID, models.ProposalStatusRejected)
}

// Cancel retira uma proposta pendente. Apenas quem enviou pode cancelar.
func (s *ProposalService) Cancel(ctx context.Context, proposalID, requesterID uuid.UUID) (*models.Proposal, error) {
	return s.resolve(ctx, proposalID, requesterID, models.ProposalStatusCancelled)
}

// ListByConversation devolve as propostas de uma conversa para um
// participante ou administrador.
func (s *ProposalService) ListByConversation(ctx context.Context, conversationID, requesterID uuid.UUID, requesterRole string) ([]models.Proposal, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao listar propostas")
	}
	if !conv.HasParticipant(requesterID) && requesterRole != models.RoleAdmin {
		return nil, apperror.New(apperror.ErrCodeForbidden, "você não participa desta conversa")
	}
	proposals, err := s.proposals.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao listar propostas")
	}
	if proposals == nil {
		proposals = []models.Proposal{}
	}
	return proposals, nil
}

var resolutionLabels = map[string]string{
	models.ProposalStatusAccepted:  "aceita",
	models.ProposalStatusRejected:  "recusada",
	models.ProposalStatusCancelled: "cancelada",
}

// resolve aplica a transição pending -> terminal. Propostas já resolvidas
// são imutáveis; a segunda resolução concorrente perde.
func (s *ProposalService) resolve(ctx context.Context, proposalID, requesterID uuid.UUID, status string) (*models.Proposal, error) {
	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, repository.ErrProposalNotFound) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao resolver proposta")
	}

	switch status {
	case models.ProposalStatusAccepted, models.ProposalStatusRejected:
		if proposal.ReceiverID != requesterID {
			return nil, apperror.New(apperror.ErrCodeForbidden, "apenas o destinatário pode aceitar ou recusar a proposta")
		}
	case models.ProposalStatusCancelled:
		if proposal.SenderID != requesterID {
			return nil, apperror.New(apperror.ErrCodeForbidden, "apenas quem enviou pode cancelar a proposta")
		}
	default:
		return nil, apperror.Newf(apperror.ErrCodeValidation, "status de proposta inválido: %s", status)
	}
	if proposal.IsTerminal() {
		return nil, apperror.ErrProposalResolved
	}

	resolved, err := s.proposals.Resolve(ctx, proposalID, status)
	if err != nil {
		if errors.Is(err, repository.ErrProposalResolved) {
			return nil, apperror.ErrProposalResolved
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao resolver proposta")
	}

	sysMsg := &models.Message{
		ConversationID: resolved.ConversationID,
		Kind:           models.MessageKindSystem,
		Content:        fmt.Sprintf("Proposta %s.", resolutionLabels[status]),
	}
	if err := s.conversations.AddMessage(ctx, sysMsg); err != nil {
		s.log.WithError(err).WithField("proposal_id", proposalID).Error("proposal: falha ao registrar mensagem de sistema")
	} else {
		sysMsg.ReadBy = []uuid.UUID{}
		s.broadcaster.BroadcastToConversation(resolved.ConversationID, "message", sysMsg)
	}

	s.broadcaster.BroadcastToConversation(resolved.ConversationID, "proposal", resolved)
	s.publisher.Publish(ctx, "proposal."+status, resolved)

	counterpart := resolved.SenderID
	if requesterID == resolved.SenderID {
		counterpart = resolved.ReceiverID
	}
	s.notifier.Notify(ctx, counterpart, "proposal."+status, resolved)
	return resolved, nil
}
