package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Conversation descreve a negociação entre cliente e prestador/vendedor
// ancorada em um anúncio. Um administrador pode observar ou participar.
type Conversation struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Kind               string    `db:"kind" json:"kind"`
	ListingID          uuid.UUID `db:"listing_id" json:"listing_id"`
	ClientID           uuid.UUID `db:"client_id" json:"client_id"`
	ProviderID         uuid.UUID `db:"provider_id" json:"provider_id"`
	Status             string    `db:"status" json:"status"`
	AdminParticipating bool      `db:"admin_participating" json:"admin_participating"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// HasParticipant indica se o usuário é uma das duas partes da conversa.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.ClientID == userID || c.ProviderID == userID
}

// OtherParticipant devolve a contraparte de um participante.
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.ClientID == userID {
		return c.ProviderID
	}
	return c.ClientID
}

// Message descreve uma entrada no histórico de uma conversa. O histórico é
// append-only: mensagens nunca são editadas nem removidas; a única mutação
// permitida é o crescimento do conjunto ReadBy.
type Message struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ConversationID uuid.UUID  `db:"conversation_id" json:"conversation_id"`
	SenderID       *uuid.UUID `db:"sender_id" json:"sender_id,omitempty"`
	Kind           string     `db:"kind" json:"kind"`
	Content        string     `db:"content" json:"content"`
	FileURL        *string    `db:"file_url" json:"file_url,omitempty"`
	FileType       *string    `db:"file_type" json:"file_type,omitempty"`
	ProposalID     *uuid.UUID `db:"proposal_id" json:"proposal_id,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	// Carregado separadamente a partir de message_reads.
	ReadBy []uuid.UUID `db:"-" json:"read_by"`
}

// Notification descreve um evento entregue a um usuário.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
