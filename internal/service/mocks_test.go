package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/storage"
)

type mockConversationRepo struct {
	mock.Mock
}

func (m *mockConversationRepo) GetByKey(ctx context.Context, kind string, listingID, clientID, providerID uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, kind, listingID, clientID, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *mockConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *mockConversationRepo) CreateWithWarning(ctx context.Context, conv *models.Conversation, warningContent string) (*models.Conversation, error) {
	args := m.Called(ctx, conv, warningContent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *mockConversationRepo) AddMessage(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockConversationRepo) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockConversationRepo) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockConversationRepo) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Conversation, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *mockConversationRepo) ListAll(ctx context.Context, limit, offset int) ([]models.Conversation, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *mockConversationRepo) SetAdminParticipating(ctx context.Context, conversationID uuid.UUID, participating bool) error {
	args := m.Called(ctx, conversationID, participating)
	return args.Error(0)
}

func (m *mockConversationRepo) UpdateStatus(ctx context.Context, conversationID uuid.UUID, status string) error {
	args := m.Called(ctx, conversationID, status)
	return args.Error(0)
}

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	args := m.Called(ctx, listing)
	if args.Error(0) == nil {
		listing.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *mockListingRepo) List(ctx context.Context, filter repository.ListingFilter) ([]models.Listing, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *mockListingRepo) Update(ctx context.Context, listing *models.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProposalRepo struct {
	mock.Mock
}

func (m *mockProposalRepo) CreateWithMessage(ctx context.Context, proposal *models.Proposal, msg *models.Message) error {
	args := m.Called(ctx, proposal, msg)
	if args.Error(0) == nil {
		proposal.ID = uuid.New()
		msg.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockProposalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) Resolve(ctx context.Context, id uuid.UUID, status string) (*models.Proposal, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Proposal, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).([]models.Proposal), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	if args.Error(0) == nil {
		review.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockReviewRepo) ListByReviewed(ctx context.Context, reviewedID uuid.UUID, limit, offset int) ([]models.Review, error) {
	args := m.Called(ctx, reviewedID, limit, offset)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewRepo) GetRatingSummary(ctx context.Context, reviewedID uuid.UUID) (*models.RatingSummary, error) {
	args := m.Called(ctx, reviewedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingSummary), args.Error(1)
}

// mockUserStore é um UserRepo em memória no estilo dos testes de
// autenticação.
type mockUserStore struct {
	mu           sync.Mutex
	usersByID    map[uuid.UUID]*models.User
	usersByEmail map[string]*models.User
	profiles     map[uuid.UUID]*models.Profile
	sessions     map[string]*models.Session
	statuses     map[uuid.UUID]string
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		usersByID:    make(map[uuid.UUID]*models.User),
		usersByEmail: make(map[string]*models.User),
		profiles:     make(map[uuid.UUID]*models.Profile),
		sessions:     make(map[string]*models.Session),
		statuses:     make(map[uuid.UUID]string),
	}
}

func (m *mockUserStore) add(user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.usersByEmail[user.Email]; exists {
		return errors.New("duplicate email")
	}
	user.ID = uuid.New()
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserStore) UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Status = status
	m.statuses[userID] = status
	return nil
}

func (m *mockUserStore) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (m *mockUserStore) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile, ok := m.profiles[userID]; ok {
		return profile, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserStore) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockUserStore) CreateSession(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.ID = uuid.New()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockUserStore) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[refreshToken]; ok {
		return session, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserStore) DeleteSession(ctx context.Context, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, refreshToken)
	return nil
}

func (m *mockUserStore) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sessions []models.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			sessions = append(sessions, *s)
		}
	}
	return sessions, nil
}

func (m *mockUserStore) DeleteSessionByID(ctx context.Context, sessionID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.ID == sessionID && s.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}

// stubBroadcaster registra os eventos emitidos.
type stubBroadcaster struct {
	mu         sync.Mutex
	convEvents []string
	userEvents []string
}

func (s *stubBroadcaster) BroadcastToConversation(conversationID uuid.UUID, event string, data interface{}) {
	s.mu.Lock()
	s.convEvents = append(s.convEvents, event)
	s.mu.Unlock()
}

func (s *stubBroadcaster) SendToUser(userID uuid.UUID, event string, data interface{}) {
	s.mu.Lock()
	s.userEvents = append(s.userEvents, event)
	s.mu.Unlock()
}

// stubPublisher registra as routing keys publicadas.
type stubPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (s *stubPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) {
	s.mu.Lock()
	s.keys = append(s.keys, routingKey)
	s.mu.Unlock()
}

// stubNotifier registra as notificações emitidas.
type stubNotifier struct {
	mu     sync.Mutex
	events []string
	users  []uuid.UUID
}

func (s *stubNotifier) Notify(ctx context.Context, userID uuid.UUID, event string, payload interface{}) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.users = append(s.users, userID)
	s.mu.Unlock()
}

// stubUploader devolve um arquivo fixo ou o erro configurado.
type stubUploader struct {
	saved *storage.SavedFile
	err   error
	calls int
}

func (s *stubUploader) SaveChatAttachment(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (*storage.SavedFile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.saved, nil
}
