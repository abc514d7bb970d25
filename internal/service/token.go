package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims são as claims do token de acesso.
type AccessClaims struct {
	UserID uuid.UUID `json:"uid"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager emite e valida tokens de acesso e gera refresh tokens
// opacos. Apenas o HMAC do refresh token é persistido em sessions; o
// valor em claro nunca toca o banco.
type TokenManager struct {
	secret        []byte
	refreshSecret []byte
	accessTTL     time.Duration
}

func NewTokenManager(secret, refreshSecret string, accessTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:        []byte(secret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
	}
}

// GenerateAccessToken emite um JWT assinado com HS256.
func (m *TokenManager) GenerateAccessToken(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token: assinar %w", err)
	}
	return signed, nil
}

// ParseAccessToken valida o JWT e devolve as claims.
func (m *TokenManager) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token inválido")
	}
	return claims, nil
}

// GenerateRefreshToken devolve um token opaco de 256 bits.
func (m *TokenManager) GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: gerar refresh %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashRefreshToken deriva a chave persistida a partir do refresh token
// apresentado pelo cliente (HMAC-SHA256 com REFRESH_SECRET).
func (m *TokenManager) HashRefreshToken(token string) string {
	mac := hmac.New(sha256.New, m.refreshSecret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
