package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
)

func newAuthFixture() (*AuthService, *mockUserStore) {
	store := newMockUserStore()
	tokens := NewTokenManager("segredo-de-teste", "refresh-de-teste", 15*time.Minute)
	svc := NewAuthService(store, tokens, 24*time.Hour, logrus.New())
	return svc, store
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, store := newAuthFixture()

	user, err := svc.Register(context.Background(), "Maria@Exemplo.com", "maria_silva", "SenhaForte123", "Maria Silva")
	assert.NoError(t, err)
	assert.Equal(t, "maria@exemplo.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.NotEqual(t, "SenhaForte123", user.PasswordHash)

	profile, err := store.GetProfile(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Maria Silva", profile.DisplayName)
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "nao-é-email", "maria_silva", "SenhaForte123", "")
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "maria@exemplo.com", "maria_silva", "123", "")
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), "joao@exemplo.com", "joao_santos", "SenhaForte123", "")
	assert.NoError(t, err)

	user, pair, err := svc.Login(context.Background(), "joao@exemplo.com", "SenhaForte123", nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, "joao@exemplo.com", user.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), "joao@exemplo.com", "joao_santos", "SenhaForte123", "")
	assert.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "joao@exemplo.com", "senha-errada", nil, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, _, err := svc.Login(context.Background(), "ninguem@exemplo.com", "SenhaForte123", nil, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_SuspendedUser(t *testing.T) {
	svc, store := newAuthFixture()
	user, err := svc.Register(context.Background(), "joao@exemplo.com", "joao_santos", "SenhaForte123", "")
	assert.NoError(t, err)
	assert.NoError(t, store.UpdateStatus(context.Background(), user.ID, models.UserStatusSuspended))

	_, _, err = svc.Login(context.Background(), "joao@exemplo.com", "SenhaForte123", nil, nil)
	assert.True(t, apperror.IsForbidden(err))
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), "ana@exemplo.com", "ana_costa", "SenhaForte123", "")
	assert.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), "ana@exemplo.com", "SenhaForte123", nil, nil)
	assert.NoError(t, err)

	renewed, err := svc.Refresh(context.Background(), pair.RefreshToken, nil, nil)
	assert.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, renewed.RefreshToken)

	// o token antigo foi revogado na rotação
	_, err = svc.Refresh(context.Background(), pair.RefreshToken, nil, nil)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthService_Login_StoresHashedRefreshToken(t *testing.T) {
	svc, store := newAuthFixture()
	_, err := svc.Register(context.Background(), "ana@exemplo.com", "ana_costa", "SenhaForte123", "")
	assert.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), "ana@exemplo.com", "SenhaForte123", nil, nil)
	assert.NoError(t, err)

	// o banco guarda apenas o HMAC do refresh token, nunca o valor em claro
	_, ok := store.sessions[pair.RefreshToken]
	assert.False(t, ok)
	_, ok = store.sessions[svc.tokens.HashRefreshToken(pair.RefreshToken)]
	assert.True(t, ok)

	// e o token em claro continua válido para renovar a sessão
	_, err = svc.Refresh(context.Background(), pair.RefreshToken, nil, nil)
	assert.NoError(t, err)
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), "ana@exemplo.com", "ana_costa", "SenhaForte123", "")
	assert.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), "ana@exemplo.com", "SenhaForte123", nil, nil)
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))
	_, err = svc.Refresh(context.Background(), pair.RefreshToken, nil, nil)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestTokenManager_ParseAccessToken(t *testing.T) {
	tokens := NewTokenManager("segredo-de-teste", "refresh-de-teste", 15*time.Minute)
	userID := uuid.New()
	token, err := tokens.GenerateAccessToken(userID, models.RoleAdmin)
	assert.NoError(t, err)

	claims, err := tokens.ParseAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenManager_ParseAccessToken_WrongSecret(t *testing.T) {
	tokens := NewTokenManager("segredo-de-teste", "refresh-de-teste", 15*time.Minute)
	token, err := tokens.GenerateAccessToken(uuid.New(), models.RoleUser)
	assert.NoError(t, err)

	other := NewTokenManager("outro-segredo", "outro-refresh", 15*time.Minute)
	_, err = other.ParseAccessToken(token)
	assert.Error(t, err)
}
