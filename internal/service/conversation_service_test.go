package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/storage"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/validation"
)

type conversationFixture struct {
	svc         *ConversationService
	convRepo    *mockConversationRepo
	listingRepo *mockListingRepo
	uploader    *stubUploader
	broadcaster *stubBroadcaster
	publisher   *stubPublisher
	notifier    *stubNotifier
}

func newConversationFixture() *conversationFixture {
	f := &conversationFixture{
		convRepo:    &mockConversationRepo{},
		listingRepo: &mockListingRepo{},
		uploader:    &stubUploader{saved: &storage.SavedFile{RelativePath: "chat/a.png", Size: 10, Kind: models.MessageFileImage}},
		broadcaster: &stubBroadcaster{},
		publisher:   &stubPublisher{},
		notifier:    &stubNotifier{},
	}
	f.svc = NewConversationService(f.convRepo, f.listingRepo, f.uploader, f.broadcaster, f.publisher, f.notifier, logrus.New())
	return f
}

func activeListing(ownerID uuid.UUID) *models.Listing {
	return &models.Listing{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Type:        models.ListingTypeService,
		Title:       "Instalação elétrica",
		Description: "Serviço residencial completo",
		ServiceType: strPtr(models.ServiceTypeLocal),
		Status:      models.ListingStatusActive,
	}
}

func strPtr(s string) *string { return &s }

func TestConversationService_Start_ReturnsExisting(t *testing.T) {
	f := newConversationFixture()
	owner := uuid.New()
	client := uuid.New()
	listing := activeListing(owner)
	existing := &models.Conversation{ID: uuid.New(), Kind: models.ConversationKindLocalService, ListingID: listing.ID, ClientID: client, ProviderID: owner}

	f.listingRepo.On("GetByID", mock.Anything, listing.ID).Return(listing, nil)
	f.convRepo.On("GetByKey", mock.Anything, models.ConversationKindLocalService, listing.ID, client, owner).Return(existing, nil)

	conv, err := f.svc.Start(context.Background(), listing.ID, client)
	assert.NoError(t, err)
	assert.Equal(t, existing.ID, conv.ID)
	f.convRepo.AssertNotCalled(t, "CreateWithWarning", mock.Anything, mock.Anything, mock.Anything)
}

func TestConversationService_Start_SelfNegotiation(t *testing.T) {
	f := newConversationFixture()
	owner := uuid.New()
	listing := activeListing(owner)
	f.listingRepo.On("GetByID", mock.Anything, listing.ID).Return(listing, nil)

	_, err := f.svc.Start(context.Background(), listing.ID, owner)
	assert.True(t, apperror.IsSelfAction(err))
}

func TestConversationService_Start_InactiveListing(t *testing.T) {
	f := newConversationFixture()
	listing := activeListing(uuid.New())
	listing.Status = models.ListingStatusInactive
	f.listingRepo.On("GetByID", mock.Anything, listing.ID).Return(listing, nil)

	_, err := f.svc.Start(context.Background(), listing.ID, uuid.New())
	assert.True(t, apperror.IsInvalidState(err))
}

func TestConversationService_Start_DigitalServiceAdminWatch(t *testing.T) {
	f := newConversationFixture()
	owner := uuid.New()
	client := uuid.New()
	listing := activeListing(owner)
	listing.ServiceType = strPtr(models.ServiceTypeDigital)

	f.listingRepo.On("GetByID", mock.Anything, listing.ID).Return(listing, nil)
	f.convRepo.On("GetByKey", mock.Anything, models.ConversationKindDigitalService, listing.ID, client, owner).
		Return(nil, repository.ErrConversationNotFound)
	f.convRepo.On("CreateWithWarning", mock.Anything, mock.MatchedBy(func(conv *models.Conversation) bool {
		return conv.AdminParticipating && conv.Kind == models.ConversationKindDigitalService
	}), mock.MatchedBy(func(warning string) bool {
		return strings.Contains(warning, "moderação")
	})).Return(&models.Conversation{ID: uuid.New(), Kind: models.ConversationKindDigitalService, ClientID: client, ProviderID: owner, AdminParticipating: true}, nil)

	conv, err := f.svc.Start(context.Background(), listing.ID, client)
	assert.NoError(t, err)
	assert.True(t, conv.AdminParticipating)
	assert.Contains(t, f.publisher.keys, "conversation.started")
	assert.Contains(t, f.notifier.events, "conversation.started")
}

func TestConversationService_Start_AfterClose_CreatesNewConversation(t *testing.T) {
	f := newConversationFixture()
	owner := uuid.New()
	client := uuid.New()
	listing := activeListing(owner)

	// a conversa encerrada não aparece na busca pela chave natural, então
	// o par renegocia o mesmo anúncio numa conversa nova
	f.listingRepo.On("GetByID", mock.Anything, listing.ID).Return(listing, nil)
	f.convRepo.On("GetByKey", mock.Anything, models.ConversationKindLocalService, listing.ID, client, owner).
		Return(nil, repository.ErrConversationNotFound)
	fresh := &models.Conversation{ID: uuid.New(), Kind: models.ConversationKindLocalService, ListingID: listing.ID, ClientID: client, ProviderID: owner, Status: models.ConversationStatusActive}
	f.convRepo.On("CreateWithWarning", mock.Anything, mock.MatchedBy(func(conv *models.Conversation) bool {
		return conv.Status == models.ConversationStatusActive
	}), mock.Anything).Return(fresh, nil)

	conv, err := f.svc.Start(context.Background(), listing.ID, client)
	assert.NoError(t, err)
	assert.Equal(t, fresh.ID, conv.ID)
	assert.Equal(t, models.ConversationStatusActive, conv.Status)
}

func activeConversation(client, provider uuid.UUID) *models.Conversation {
	return &models.Conversation{
		ID:         uuid.New(),
		Kind:       models.ConversationKindLocalService,
		ListingID:  uuid.New(),
		ClientID:   client,
		ProviderID: provider,
		Status:     models.ConversationStatusActive,
	}
}

func TestConversationService_SendMessage_Empty(t *testing.T) {
	f := newConversationFixture()
	client := uuid.New()
	conv := activeConversation(client, uuid.New())
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

	_, err := f.svc.SendMessage(context.Background(), conv.ID, client, "   ", nil)
	assert.True(t, apperror.IsValidation(err))
}

func TestConversationService_SendMessage_TruncatesLongContent(t *testing.T) {
	f := newConversationFixture()
	client := uuid.New()
	conv := activeConversation(client, uuid.New())
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)
	f.convRepo.On("AddMessage", mock.Anything, mock.MatchedBy(func(msg *models.Message) bool {
		return utf8.RuneCountInString(msg.Content) == validation.MaxMessageLength
	})).Return(nil)

	long := strings.Repeat("ã", validation.MaxMessageLength+200)
	msg, err := f.svc.SendMessage(context.Background(), conv.ID, client, long, nil)
	assert.NoError(t, err)
	assert.Equal(t, validation.MaxMessageLength, utf8.RuneCountInString(msg.Content))
	assert.Contains(t, f.broadcaster.convEvents, "message")
}

func TestConversationService_SendMessage_UploadFailureAborts(t *testing.T) {
	f := newConversationFixture()
	f.uploader.err = errors.New("disk full")
	client := uuid.New()
	conv := activeConversation(client, uuid.New())
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

	_, err := f.svc.SendMessage(context.Background(), conv.ID, client, "orçamento em anexo", &Attachment{
		Filename: "orcamento.pdf",
		Reader:   strings.NewReader("dados"),
	})
	assert.True(t, apperror.IsUpstream(err))
	f.convRepo.AssertNotCalled(t, "AddMessage", mock.Anything, mock.Anything)
	assert.Empty(t, f.broadcaster.convEvents)
}

func TestConversationService_SendMessage_ClosedConversation(t *testing.T) {
	f := newConversationFixture()
	client := uuid.New()
	conv := activeConversation(client, uuid.New())
	conv.Status = models.ConversationStatusClosed
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

	_, err := f.svc.SendMessage(context.Background(), conv.ID, client, "olá", nil)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestConversationService_SendMessage_NotParticipant(t *testing.T) {
	f := newConversationFixture()
	conv := activeConversation(uuid.New(), uuid.New())
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

	_, err := f.svc.SendMessage(context.Background(), conv.ID, uuid.New(), "olá", nil)
	assert.True(t, apperror.IsForbidden(err))
}

func TestConversationService_MarkAsRead_FirstReadBroadcasts(t *testing.T) {
	f := newConversationFixture()
	client := uuid.New()
	provider := uuid.New()
	conv := activeConversation(client, provider)

	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)
	f.convRepo.On("MarkRead", mock.Anything, conv.ID, provider).Return(true, nil)

	err := f.svc.MarkAsRead(context.Background(), conv.ID, provider, models.RoleUser)
	assert.NoError(t, err)
	assert.Contains(t, f.broadcaster.convEvents, "message_read")
}

func TestConversationService_MarkAsRead_Idempotent(t *testing.T) {
	f := newConversationFixture()
	client := uuid.New()
	provider := uuid.New()
	conv := activeConversation(client, provider)

	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)
	f.convRepo.On("MarkRead", mock.Anything, conv.ID, provider).Return(false, nil)

	err := f.svc.MarkAsRead(context.Background(), conv.ID, provider, models.RoleUser)
	assert.NoError(t, err)
	assert.NotContains(t, f.broadcaster.convEvents, "message_read")
}

func TestConversationService_MarkAsRead_NotParticipant(t *testing.T) {
	f := newConversationFixture()
	conv := activeConversation(uuid.New(), uuid.New())
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

	err := f.svc.MarkAsRead(context.Background(), conv.ID, uuid.New(), models.RoleUser)
	assert.True(t, apperror.IsForbidden(err))
	f.convRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestConversationService_Close_AlreadyClosedNoop(t *testing.T) {
	f := newConversationFixture()
	client := uuid.New()
	conv := activeConversation(client, uuid.New())
	conv.Status = models.ConversationStatusClosed
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

	err := f.svc.Close(context.Background(), conv.ID, client, models.RoleUser)
	assert.NoError(t, err)
	f.convRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestConversationService_CanJoin(t *testing.T) {
	f := newConversationFixture()
	client := uuid.New()
	conv := activeConversation(client, uuid.New())
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)

	assert.True(t, f.svc.CanJoin(context.Background(), conv.ID, client, models.RoleUser))
	assert.True(t, f.svc.CanJoin(context.Background(), conv.ID, uuid.New(), models.RoleAdmin))
	assert.False(t, f.svc.CanJoin(context.Background(), conv.ID, uuid.New(), models.RoleUser))
}
