package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ycfang/orderbot/internal/domain/entity"
	"go.uber.org/zap"
)

// MessageRepository appends the inbound message audit trail. Rows are
// never read back by business logic.
type MessageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *sql.DB, logger *zap.Logger) *MessageRepository {
	return &MessageRepository{db: db, logger: logger}
}

// Create appends an audit row
func (r *MessageRepository) Create(ctx context.Context, msg *entity.LineMessage) error {
	query := `
		INSERT INTO line_messages (message_type, message_content, user_id, group_id, processed)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		msg.Type, msg.Content, msg.UserID, msg.GroupID, msg.Processed)
	if err != nil {
		r.logger.Error("Failed to record message", zap.Error(err))
		return fmt.Errorf("failed to record message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	msg.ID = id
	return nil
}

// MarkProcessed flips the processed flag, the only mutation the audit
// trail allows.
func (r *MessageRepository) MarkProcessed(ctx context.Context, id int64) error {
	_, err := executorFrom(ctx, r.db).ExecContext(ctx, `UPDATE line_messages SET processed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark message processed: %w", err)
	}
	return nil
}
