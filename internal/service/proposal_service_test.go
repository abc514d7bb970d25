package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
)

type proposalFixture struct {
	svc          *ProposalService
	proposalRepo *mockProposalRepo
	convRepo     *mockConversationRepo
	broadcaster  *stubBroadcaster
	publisher    *stubPublisher
	notifier     *stubNotifier
}

func newProposalFixture() *proposalFixture {
	f := &proposalFixture{
		proposalRepo: &mockProposalRepo{},
		convRepo:     &mockConversationRepo{},
		broadcaster:  &stubBroadcaster{},
		publisher:    &stubPublisher{},
		notifier:     &stubNotifier{},
	}
	f.svc = NewProposalService(f.proposalRepo, f.convRepo, f.broadcaster, f.publisher, f.notifier, logrus.New())
	return f
}

func pendingProposal(sender, receiver uuid.UUID) *models.Proposal {
	return &models.Proposal{
		ID:             uuid.New(),
		ConversationID: uuid.New(),
		SenderID:       sender,
		ReceiverID:     receiver,
		Description:    "Reforma da cozinha",
		Price:          350,
		Status:         models.ProposalStatusPending,
	}
}

func TestProposalService_Create_Success(t *testing.T) {
	f := newProposalFixture()
	client := uuid.New()
	provider := uuid.New()
	conv := activeConversation(client, provider)
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)
	f.proposalRepo.On("CreateWithMessage", mock.Anything, mock.MatchedBy(func(p *models.Proposal) bool {
		return p.ReceiverID == client && p.Status == models.ProposalStatusPending
	}), mock.MatchedBy(func(msg *models.Message) bool {
		return msg.Kind == models.MessageKindProposal
	})).Return(nil)

	proposal, err := f.svc.Create(context.Background(), conv.ID, provider, "Reforma da cozinha", 350)
	assert.NoError(t, err)
	assert.Equal(t, client, proposal.ReceiverID)
	assert.Contains(t, f.broadcaster.convEvents, "proposal")
	assert.Contains(t, f.publisher.keys, "proposal.created")
	assert.Equal(t, []uuid.UUID{client}, f.notifier.users)
}

func TestProposalService_Create_InvalidPrice(t *testing.T) {
	f := newProposalFixture()
	client := uuid.New()
	conv := activeConversation(client, uuid.New())
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

	_, err := f.svc.Create(context.Background(), conv.ID, client, "Reforma da cozinha", 0)
	assert.True(t, apperror.IsValidation(err))
	f.proposalRepo.AssertNotCalled(t, "CreateWithMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestProposalService_Create_NotParticipant(t *testing.T) {
	f := newProposalFixture()
	conv := activeConversation(uuid.New(), uuid.New())
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

	_, err := f.svc.Create(context.Background(), conv.ID, uuid.New(), "Reforma da cozinha", 100)
	assert.True(t, apperror.IsForbidden(err))
}

func TestProposalService_Create_ClosedConversation(t *testing.T) {
	f := newProposalFixture()
	client := uuid.New()
	conv := activeConversation(client, uuid.New())
	conv.Status = models.ConversationStatusClosed
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

	_, err := f.svc.Create(context.Background(), conv.ID, client, "Reforma da cozinha", 100)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestProposalService_Accept_Success(t *testing.T) {
	f := newProposalFixture()
	sender := uuid.New()
	receiver := uuid.New()
	proposal := pendingProposal(sender, receiver)
	resolved := *proposal
	resolved.Status = models.ProposalStatusAccepted

	f.proposalRepo.On("GetByID", mock.Anything, proposal.ID).Return(proposal, nil)
	f.proposalRepo.On("Resolve", mock.Anything, proposal.ID, models.ProposalStatusAccepted).Return(&resolved, nil)
	f.convRepo.On("AddMessage", mock.Anything, mock.MatchedBy(func(msg *models.Message) bool {
		return msg.Kind == models.MessageKindSystem && msg.Content == "Proposta aceita."
	})).Return(nil)

	got, err := f.svc.Accept(context.Background(), proposal.ID, receiver)
	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusAccepted, got.Status)
	assert.Contains(t, f.publisher.keys, "proposal.accepted")
	assert.Equal(t, []uuid.UUID{sender}, f.notifier.users)
}

func TestProposalService_Accept_OnlyReceiver(t *testing.T) {
	f := newProposalFixture()
	sender := uuid.New()
	proposal := pendingProposal(sender, uuid.New())
	f.proposalRepo.On("GetByID", mock.Anything, proposal.ID).Return(proposal, nil)

	_, err := f.svc.Accept(context.Background(), proposal.ID, sender)
	assert.True(t, apperror.IsForbidden(err))
	f.proposalRepo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestProposalService_Cancel_OnlySender(t *testing.T) {
	f := newProposalFixture()
	receiver := uuid.New()
	proposal := pendingProposal(uuid.New(), receiver)
	f.proposalRepo.On("GetByID", mock.Anything, proposal.ID).Return(proposal, nil)

	_, err := f.svc.Cancel(context.Background(), proposal.ID, receiver)
	assert.True(t, apperror.IsForbidden(err))
	f.proposalRepo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestProposalService_Reject_AlreadyResolved(t *testing.T) {
	f := newProposalFixture()
	receiver := uuid.New()
	proposal := pendingProposal(uuid.New(), receiver)
	proposal.Status = models.ProposalStatusAccepted
	f.proposalRepo.On("GetByID", mock.Anything, proposal.ID).Return(proposal, nil)

	_, err := f.svc.Reject(context.Background(), proposal.ID, receiver)
	assert.ErrorIs(t, err, apperror.ErrProposalResolved)
	f.proposalRepo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestProposalService_Accept_LosesRace(t *testing.T) {
	f := newProposalFixture()
	receiver := uuid.New()
	proposal := pendingProposal(uuid.New(), receiver)
	f.proposalRepo.On("GetByID", mock.Anything, proposal.ID).Return(proposal, nil)
	f.proposalRepo.On("Resolve", mock.Anything, proposal.ID, models.ProposalStatusAccepted).
		Return(nil, repository.ErrProposalResolved)

	_, err := f.svc.Accept(context.Background(), proposal.ID, receiver)
	assert.ErrorIs(t, err, apperror.ErrProposalResolved)
	assert.Empty(t, f.broadcaster.convEvents)
}

func TestProposalService_ListByConversation_NotParticipant(t *testing.T) {
	f := newProposalFixture()
	conv := activeConversation(uuid.New(), uuid.New())
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

	_, err := f.svc.ListByConversation(context.Background(), conv.ID, uuid.New(), models.RoleUser)
	assert.True(t, apperror.IsForbidden(err))
}
