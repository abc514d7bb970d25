package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository/common"
)

var (
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrProposalResolved indica que a transição falhou porque a proposta já
	// saiu do estado pending.
	ErrProposalResolved = errors.New("proposal already resolved")
)

type ProposalRepository struct {
	db *sqlx.DB
}

func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// CreateWithMessage grava a proposta e a sua mensagem âncora na mesma
// transação, e atualiza o updated_at da conversa.
func (r *ProposalRepository) CreateWithMessage(ctx context.Context, proposal *models.Proposal, msg *models.Message) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		insertProposal := `
			INSERT INTO proposals (conversation_id, sender_id, receiver_id, description, price, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`
		if err := tx.QueryRowxContext(ctx, insertProposal,
			proposal.ConversationID, proposal.SenderID, proposal.ReceiverID,
			proposal.Description, proposal.Price, proposal.Status,
		).Scan(&proposal.ID, &proposal.CreatedAt, &proposal.UpdatedAt); err != nil {
			return err
		}

		msg.ProposalID = &proposal.ID
		insertMsg := `
			INSERT INTO messages (conversation_id, sender_id, kind, content, proposal_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`
		if err := tx.QueryRowxContext(ctx, insertMsg,
			msg.ConversationID, msg.SenderID, msg.Kind, msg.Content, msg.ProposalID,
		).Scan(&msg.ID, &msg.CreatedAt); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE conversations SET updated_at = NOW() WHERE id = $1`, proposal.ConversationID)
		return err
	})
	if err != nil {
		return fmt.Errorf("proposal repository: create %w", err)
	}
	return nil
}

func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return common.GetByID[models.Proposal](ctx, r.db, "proposals", id, ErrProposalNotFound)
}

// Resolve move a proposta de pending para um estado terminal. A cláusula
// WHERE status = 'pending' garante que duas resoluções concorrentes não se
// atropelem: a segunda recebe ErrProposalResolved.
func (r *ProposalRepository) Resolve(ctx context.Context, id uuid.UUID, status string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.GetContext(ctx, &proposal, `
		UPDATE proposals
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING *
	`, id, status, models.ProposalStatusPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrProposalResolved
		}
		return nil, fmt.Errorf("proposal repository: resolve %w", err)
	}
	return &proposal, nil
}

// ListByConversation devolve as propostas de uma conversa, mais recentes
// primeiro.
func (r *ProposalRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.SelectContext(ctx, &proposals, `
		SELECT * FROM proposals WHERE conversation_id = $1 ORDER BY created_at DESC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: list by conversation %w", err)
	}
	return proposals, nil
}
