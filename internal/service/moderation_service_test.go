package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/validation"
)

type moderationFixture struct {
	svc         *ModerationService
	convRepo    *mockConversationRepo
	users       *mockUserStore
	broadcaster *stubBroadcaster
	publisher   *stubPublisher
}

func newModerationFixture() *moderationFixture {
	f := &moderationFixture{
		convRepo:    &mockConversationRepo{},
		users:       newMockUserStore(),
		broadcaster: &stubBroadcaster{},
		publisher:   &stubPublisher{},
	}
	f.svc = NewModerationService(f.convRepo, f.users, f.broadcaster, f.publisher, logrus.New())
	return f
}

func TestModerationService_ListConversations_RequiresAdmin(t *testing.T) {
	f := newModerationFixture()
	_, err := f.svc.ListConversations(context.Background(), models.RoleUser, 20, 0)
	assert.True(t, apperror.IsForbidden(err))
}

func TestModerationService_SetParticipation_Broadcasts(t *testing.T) {
	f := newModerationFixture()
	convID := uuid.New()
	f.convRepo.On("SetAdminParticipating", mock.Anything, convID, true).Return(nil)

	err := f.svc.SetParticipation(context.Background(), convID, models.RoleAdmin, true)
	assert.NoError(t, err)
	assert.Contains(t, f.broadcaster.convEvents, "admin_participation")
	assert.Contains(t, f.publisher.keys, "moderation.participation")
}

func TestModerationService_SendMessage_RejectsLongContent(t *testing.T) {
	f := newModerationFixture()

	long := strings.Repeat("a", validation.MaxMessageLength+1)
	_, err := f.svc.SendMessage(context.Background(), uuid.New(), uuid.New(), models.RoleAdmin, models.MessageKindAdmin, long)
	assert.True(t, apperror.IsValidation(err))
	f.convRepo.AssertNotCalled(t, "AddMessage", mock.Anything, mock.Anything)
}

func TestModerationService_SendMessage_InvalidKind(t *testing.T) {
	f := newModerationFixture()

	_, err := f.svc.SendMessage(context.Background(), uuid.New(), uuid.New(), models.RoleAdmin, models.MessageKindNormal, "aviso")
	assert.True(t, apperror.IsValidation(err))
}

// O envio de mensagens administrativas independe da flag de participação.
func TestModerationService_SendMessage_WorksWhileObserving(t *testing.T) {
	f := newModerationFixture()
	conv := activeConversation(uuid.New(), uuid.New())
	adminID := uuid.New()
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)
	f.convRepo.On("AddMessage", mock.Anything, mock.Anything).Return(nil)

	msg, err := f.svc.SendMessage(context.Background(), conv.ID, adminID, models.RoleAdmin, models.MessageKindAdmin, "aviso da moderação")
	assert.NoError(t, err)
	assert.Equal(t, models.MessageKindAdmin, msg.Kind)
}

func TestModerationService_SendMessage_Success(t *testing.T) {
	f := newModerationFixture()
	conv := activeConversation(uuid.New(), uuid.New())
	conv.AdminParticipating = true
	adminID := uuid.New()
	f.convRepo.On("GetByID", mock.Anything, conv.ID).Return(conv, nil)
	f.convRepo.On("AddMessage", mock.Anything, mock.MatchedBy(func(msg *models.Message) bool {
		return msg.Kind == models.MessageKindWarning && *msg.SenderID == adminID
	})).Return(nil)

	msg, err := f.svc.SendMessage(context.Background(), conv.ID, adminID, models.RoleAdmin, models.MessageKindWarning, "Cuidado com pagamentos fora da plataforma")
	assert.NoError(t, err)
	assert.Equal(t, models.MessageKindWarning, msg.Kind)
	assert.Contains(t, f.broadcaster.convEvents, "message")
	assert.Contains(t, f.publisher.keys, "moderation.message")
}

func TestModerationService_SetUserStatus_Self(t *testing.T) {
	f := newModerationFixture()
	adminID := uuid.New()

	err := f.svc.SetUserStatus(context.Background(), adminID, adminID, models.RoleAdmin, models.UserStatusSuspended)
	assert.True(t, apperror.IsSelfAction(err))
}

func TestModerationService_SetUserStatus_AdminTarget(t *testing.T) {
	f := newModerationFixture()
	target := &models.User{Email: "chefe@exemplo.com", Role: models.RoleAdmin, Status: models.UserStatusActive}
	f.users.add(target)

	err := f.svc.SetUserStatus(context.Background(), target.ID, uuid.New(), models.RoleAdmin, models.UserStatusBlocked)
	assert.True(t, apperror.IsForbidden(err))
}

func TestModerationService_SetUserStatus_InvalidStatus(t *testing.T) {
	f := newModerationFixture()

	err := f.svc.SetUserStatus(context.Background(), uuid.New(), uuid.New(), models.RoleAdmin, "banido")
	assert.True(t, apperror.IsValidation(err))
}

func TestModerationService_SetUserStatus_Success(t *testing.T) {
	f := newModerationFixture()
	target := &models.User{Email: "usuario@exemplo.com", Role: models.RoleUser, Status: models.UserStatusActive}
	f.users.add(target)

	err := f.svc.SetUserStatus(context.Background(), target.ID, uuid.New(), models.RoleAdmin, models.UserStatusSuspended)
	assert.NoError(t, err)
	assert.Equal(t, models.UserStatusSuspended, f.users.statuses[target.ID])
	assert.Contains(t, f.publisher.keys, "moderation.user_status")
}
