package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/validation"
)

// UserRepo é a visão que os serviços têm do repositório de usuários.
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error)
	DeleteSession(ctx context.Context, refreshToken string) error
	ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error)
	DeleteSessionByID(ctx context.Context, sessionID, userID uuid.UUID) error
}

// TokenPair agrupa os tokens devolvidos no login e no refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService struct {
	users      UserRepo
	tokens     *TokenManager
	refreshTTL time.Duration
	log        *logrus.Logger
}

func NewAuthService(users UserRepo, tokens *TokenManager, refreshTTL time.Duration, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, refreshTTL: refreshTTL, log: log}
}

// Register cria o usuário com o papel padrão e o perfil inicial.
func (s *AuthService) Register(ctx context.Context, email, username, password, displayName string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if displayName == "" {
		displayName = username
	}
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao processar a senha")
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperror.New(apperror.ErrCodeConflict, "email ou nome de usuário já cadastrado")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao criar usuário")
	}

	profile := &models.Profile{UserID: user.ID, DisplayName: displayName}
	if err := s.users.UpsertProfile(ctx, profile); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("auth: falha ao criar perfil inicial")
	}
	return user, nil
}

// Login valida as credenciais e abre uma sessão. Usuários suspensos ou
// bloqueados não entram.
func (s *AuthService) Login(ctx context.Context, email, password string, userAgent, ipAddress *string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, apperror.ErrInvalidCredentials
		}
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao autenticar")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperror.ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		return nil, nil, apperror.New(apperror.ErrCodeForbidden, "conta suspensa ou bloqueada")
	}

	pair, err := s.issueSession(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, nil, err
	}
	if err := s.users.UpdateLastLoginAt(ctx, user.ID); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("auth: falha ao registrar último login")
	}
	return user, pair, nil
}

// Refresh troca um refresh token válido por um novo par de tokens. O token
// antigo é revogado (rotação).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, userAgent, ipAddress *string) (*TokenPair, error) {
	hashed := s.tokens.HashRefreshToken(refreshToken)
	session, err := s.users.GetSessionByToken(ctx, hashed)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.users.DeleteSession(ctx, hashed)
		return nil, apperror.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	if user.Status != models.UserStatusActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "conta suspensa ou bloqueada")
	}
	if err := s.users.DeleteSession(ctx, hashed); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao renovar sessão")
	}
	return s.issueSession(ctx, user, userAgent, ipAddress)
}

// Logout revoga a sessão do refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.users.DeleteSession(ctx, s.tokens.HashRefreshToken(refreshToken)); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao encerrar sessão")
	}
	return nil
}

// ListSessions devolve as sessões ativas do usuário.
func (s *AuthService) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	sessions, err := s.users.ListSessions(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao listar sessões")
	}
	return sessions, nil
}

// RevokeSession encerra uma sessão específica do próprio usuário.
func (s *AuthService) RevokeSession(ctx context.Context, sessionID, userID uuid.UUID) error {
	if err := s.users.DeleteSessionByID(ctx, sessionID, userID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao encerrar sessão")
	}
	return nil
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User, userAgent, ipAddress *string) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao emitir token")
	}
	refresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao emitir token")
	}
	// Persistimos apenas o HMAC; o token em claro vai só para o cliente.
	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: s.tokens.HashRefreshToken(refresh),
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
		ExpiresAt:    time.Now().Add(s.refreshTTL),
	}
	if err := s.users.CreateSession(ctx, session); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "falha ao abrir sessão")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
