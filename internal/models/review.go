package models

import (
	"time"

	"github.com/google/uuid"
)

// Review descreve a avaliação de um usuário sobre outro após uma negociação.
type Review struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ReviewerID uuid.UUID  `db:"reviewer_id" json:"reviewer_id"`
	ReviewedID uuid.UUID  `db:"reviewed_id" json:"reviewed_id"`
	ListingID  *uuid.UUID `db:"listing_id" json:"listing_id,omitempty"`
	Rating     int        `db:"rating" json:"rating"`
	Comment    *string    `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// RatingSummary agrega a reputação de um usuário, calculada na leitura.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
