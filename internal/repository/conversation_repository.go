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

var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository concentra o acesso às tabelas conversations,
// messages e message_reads.
type ConversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetByKey devolve a conversa ativa pela chave natural (kind, anúncio,
// partes). Conversas encerradas não contam: o par pode abrir uma nova
// negociação sobre o mesmo anúncio.
func (r *ConversationRepository) GetByKey(ctx context.Context, kind string, listingID, clientID, providerID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `
		SELECT * FROM conversations
		WHERE kind = $1 AND listing_id = $2 AND client_id = $3 AND provider_id = $4
		  AND status = 'active'
	`, kind, listingID, clientID, providerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("conversation repository: get by key %w", err)
	}
	return &conv, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	return common.GetByID[models.Conversation](ctx, r.db, "conversations", id, ErrConversationNotFound)
}

// CreateWithWarning cria a conversa e grava a mensagem de aviso inicial na
// mesma transação. Em corrida com outra criação da mesma chave, o índice
// único dispara e a conversa existente é devolvida.
func (r *ConversationRepository) CreateWithWarning(ctx context.Context, conv *models.Conversation, warningContent string) (*models.Conversation, error) {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		insertConv := `
			INSERT INTO conversations (kind, listing_id, client_id, provider_id, status, admin_participating)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`
		if err := tx.QueryRowxContext(ctx, insertConv,
			conv.Kind, conv.ListingID, conv.ClientID, conv.ProviderID, conv.Status, conv.AdminParticipating,
		).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return err
		}

		insertMsg := `
			INSERT INTO messages (conversation_id, sender_id, kind, content)
			VALUES ($1, NULL, $2, $3)
		`
		_, err := tx.ExecContext(ctx, insertMsg, conv.ID, models.MessageKindWarning, warningContent)
		return err
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return r.GetByKey(ctx, conv.Kind, conv.ListingID, conv.ClientID, conv.ProviderID)
		}
		return nil, fmt.Errorf("conversation repository: create %w", err)
	}
	return conv, nil
}

// AddMessage insere a mensagem e atualiza o updated_at da conversa na mesma
// transação, de modo que a ordenação da caixa de entrada nunca fique defasada.
func (r *ConversationRepository) AddMessage(ctx context.Context, msg *models.Message) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO messages (conversation_id, sender_id, kind, content, file_url, file_type, proposal_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`
		if err := tx.QueryRowxContext(ctx, query,
			msg.ConversationID, msg.SenderID, msg.Kind, msg.Content, msg.FileURL, msg.FileType, msg.ProposalID,
		).Scan(&msg.ID, &msg.CreatedAt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE conversations SET updated_at = NOW() WHERE id = $1`, msg.ConversationID)
		return err
	})
	if err != nil {
		return fmt.Errorf("conversation repository: add message %w", err)
	}
	return nil
}

// ListMessages devolve o histórico em ordem cronológica, com os conjuntos
// de leitura carregados.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var messages []models.Message
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("conversation repository: list messages %w", err)
	}

	ids := make([]uuid.UUID, 0, len(messages))
	for i := range messages {
		ids = append(ids, messages[i].ID)
	}
	readBy, err := r.listReaders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range messages {
		messages[i].ReadBy = readBy[messages[i].ID]
		if messages[i].ReadBy == nil {
			messages[i].ReadBy = []uuid.UUID{}
		}
	}
	return messages, nil
}

func (r *ConversationRepository) listReaders(ctx context.Context, messageIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(messageIDs))
	if len(messageIDs) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(`
		SELECT message_id, user_id FROM message_reads WHERE message_id IN (?)
	`, messageIDs)
	if err != nil {
		return nil, fmt.Errorf("conversation repository: list readers %w", err)
	}
	query = r.db.Rebind(query)
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("conversation repository: list readers %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var messageID, userID uuid.UUID
		if err := rows.Scan(&messageID, &userID); err != nil {
			return nil, err
		}
		result[messageID] = append(result[messageID], userID)
	}
	return result, rows.Err()
}

// MarkRead acrescenta o leitor ao conjunto de leitura de todas as mensagens
// da conversa que não são dele. A operação é idempotente: releituras não
// alteram nada e não devolvem erro. Retorna true quando algum conjunto
// cresceu.
func (r *ConversationRepository) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO message_reads (message_id, user_id)
		SELECT m.id, $2
		FROM messages m
		WHERE m.conversation_id = $1
		  AND (m.sender_id IS NULL OR m.sender_id <> $2)
		ON CONFLICT (message_id, user_id) DO NOTHING
	`, conversationID, userID)
	if err != nil {
		return false, fmt.Errorf("conversation repository: mark read %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListForUser devolve as conversas em que o usuário é parte, mais recentes
// primeiro.
func (r *ConversationRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Conversation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var conversations []models.Conversation
	err := r.db.SelectContext(ctx, &conversations, `
		SELECT * FROM conversations
		WHERE client_id = $1 OR provider_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("conversation repository: list for user %w", err)
	}
	return conversations, nil
}

// ListAll devolve todas as conversas para a visão de moderação.
func (r *ConversationRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Conversation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var conversations []models.Conversation
	err := r.db.SelectContext(ctx, &conversations, `
		SELECT * FROM conversations
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("conversation repository: list all %w", err)
	}
	return conversations, nil
}

// SetAdminParticipating liga ou desliga a participação ativa do administrador.
func (r *ConversationRepository) SetAdminParticipating(ctx context.Context, conversationID uuid.UUID, participating bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE conversations SET admin_participating = $2, updated_at = NOW() WHERE id = $1
	`, conversationID, participating)
	if err != nil {
		return fmt.Errorf("conversation repository: set admin participating %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// UpdateStatus altera o status da conversa (open, closed).
func (r *ConversationRepository) UpdateStatus(ctx context.Context, conversationID uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE conversations SET status = $2, updated_at = NOW() WHERE id = $1
	`, conversationID, status)
	if err != nil {
		return fmt.Errorf("conversation repository: update status %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConversationNotFound
	}
	return nil
}
