package repository

import (
	"context"

	"github.com/bnetpineda/PawScan-sub001/internal/models"
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) CreateOrGet(
	ctx context.Context,
	ownerID int64,
	vetID int64,
) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (owner_id, vet_id)
		VALUES ($1, $2)
		ON CONFLICT (owner_id, vet_id)
		DO UPDATE SET updated_at = conversations.updated_at
		RETURNING id, owner_id, vet_id, created_at, updated_at
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, ownerID, vetID).Scan(
		&conversation.ID,
		&conversation.OwnerID,
		&conversation.VetID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) GetByIDForParticipant(
	ctx context.Context,
	conversationID int64,
	participantID int64,
) (*models.Conversation, error) {
	query := `
		SELECT id, owner_id, vet_id, created_at, updated_at
		FROM conversations
		WHERE id = $1 AND (owner_id = $2 OR vet_id = $2)
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, conversationID, participantID).Scan(
		&conversation.ID,
		&conversation.OwnerID,
		&conversation.VetID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Conversation, error) {
	query := `
		SELECT id, owner_id, vet_id, created_at, updated_at
		FROM conversations
		WHERE owner_id = $1
		ORDER BY updated_at DESC, id DESC
	`
	return r.list(ctx, query, ownerID)
}

func (r *ConversationRepository) ListByVet(ctx context.Context, vetID int64) ([]models.Conversation, error) {
	query := `
		SELECT id, owner_id, vet_id, created_at, updated_at
		FROM conversations
		WHERE vet_id = $1
		ORDER BY updated_at DESC, id DESC
	`
	return r.list(ctx, query, vetID)
}

func (r *ConversationRepository) list(ctx context.Context, query string, participantID int64) ([]models.Conversation, error) {
	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var conversation models.Conversation
		if err := rows.Scan(
			&conversation.ID,
			&conversation.OwnerID,
			&conversation.VetID,
			&conversation.CreatedAt,
			&conversation.UpdatedAt,
		); err != nil {
			return nil, err
		}
		conversations = append(conversations, conversation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return conversations, nil
}

func (r *ConversationRepository) Touch(ctx context.Context, conversationID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE conversations
		SET updated_at = NOW()
		WHERE id = $1
	`, conversationID)
	return err
}

func (r *ConversationRepository) Delete(ctx context.Context, conversationID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM conversations
		WHERE id = $1
	`, conversationID)
	return err
}
