package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing descreve um anúncio publicado: pedido, serviço ou produto.
// Qualquer anúncio pode ancorar uma conversa entre interessado e dono.
type Listing struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	OwnerID     uuid.UUID  `db:"owner_id" json:"owner_id"`
	Type        string     `db:"type" json:"type"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Price       *float64   `db:"price" json:"price,omitempty"`
	ServiceType *string    `db:"service_type" json:"service_type,omitempty"`
	Category    *string    `db:"category" json:"category,omitempty"`
	City        *string    `db:"city" json:"city,omitempty"`
	PhotoID     *uuid.UUID `db:"photo_id" json:"photo_id,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// IsDigitalService indica se o anúncio é um serviço digital. Serviços
// digitais entram com observação administrativa habilitada por padrão.
func (l *Listing) IsDigitalService() bool {
	return l.Type == ListingTypeService && l.ServiceType != nil && *l.ServiceType == ServiceTypeDigital
}

// ConversationKind deriva o tipo de conversa a partir do tipo do anúncio.
func (l *Listing) ConversationKind() string {
	switch l.Type {
	case ListingTypeRequest:
		return ConversationKindRequest
	case ListingTypeProduct:
		return ConversationKindProduct
	case ListingTypeService:
		if l.IsDigitalService() {
			return ConversationKindDigitalService
		}
		return ConversationKindLocalService
	default:
		return ConversationKindRequest
	}
}
