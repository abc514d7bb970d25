package models

import (
	"time"

	"github.com/google/uuid"
)

// Proposal descreve uma oferta com preço embutida no fluxo de mensagens de
// uma conversa. Cada proposta está ligada 1:1 a uma mensagem âncora de tipo
// proposal.
type Proposal struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID `db:"sender_id" json:"sender_id"`
	ReceiverID     uuid.UUID `db:"receiver_id" json:"receiver_id"`
	Description    string    `db:"description" json:"description"`
	Price          float64   `db:"price" json:"price"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// IsTerminal indica se a proposta já foi resolvida.
func (p *Proposal) IsTerminal() bool {
	_, ok := ProposalTerminalStatuses[p.Status]
	return ok
}
