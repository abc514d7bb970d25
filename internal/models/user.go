package models

import (
	"time"

	"github.com/google/uuid"
)

// User descreve a entidade de usuário da plataforma.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	Status       string     `db:"status" json:"status"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile descreve o perfil público de um usuário.
type Profile struct {
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	DisplayName string     `db:"display_name" json:"display_name"`
	Bio         *string    `db:"bio" json:"bio,omitempty"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	City        *string    `db:"city" json:"city,omitempty"`
	PhotoID     *uuid.UUID `db:"photo_id" json:"photo_id,omitempty"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Session representa uma sessão persistida do usuário.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
