package store

import (
	"context"
	"fmt"

	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

type messageRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewMessageRepository creates a SQLite-backed MessageRepository.
func NewMessageRepository(db *DB) MessageRepository {
	return &messageRepository{
		db:     db,
		logger: db.logger.GetChildLogger("messageRepository"),
	}
}

func (r *messageRepository) GetThreadMessages(ctx context.Context, threadID string) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, getThreadMessages, threadID)
	if err != nil {
		r.logger.Err(err).Str("func", "GetThreadMessages").Str("threadID", threadID).Msg("error querying messages")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		var members, monitors, pendingMembers string

		err = rows.Scan(
			&m.ID,
			&m.ThreadID,
			&m.Type,
			&m.Sender,
			&m.SenderDevice,
			&m.Sent,
			&m.Received,
			&m.Expiration,
			&m.Plain,
			&m.HTML,
			&members,
			&monitors,
			&pendingMembers,
			&m.UserAgent,
		)
		if err != nil {
			r.logger.Err(err).Str("func", "GetThreadMessages").Msg("error scanning message row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		if m.Members, err = decodeStringSlice(members); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if m.Monitors, err = decodeStringSlice(monitors); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if m.PendingMembers, err = decodeStringSlice(pendingMembers); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	for i := range messages {
		messages[i].Attachments, err = r.messageAttachments(ctx, messages[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return messages, nil
}

func (r *messageRepository) SaveMessage(ctx context.Context, message models.Message) error {
	members, err := encodeStringSlice(message.Members)
	if err != nil {
		return fmt.Errorf("failed to encode members: %w", err)
	}
	monitors, err := encodeStringSlice(message.Monitors)
	if err != nil {
		return fmt.Errorf("failed to encode monitors: %w", err)
	}
	pendingMembers, err := encodeStringSlice(message.PendingMembers)
	if err != nil {
		return fmt.Errorf("failed to encode pending members: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Err(err).Str("func", "SaveMessage").Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, saveMessage,
		message.ID,
		message.ThreadID,
		message.Type,
		message.Sender,
		message.SenderDevice,
		message.Sent,
		message.Received,
		message.Expiration,
		message.Plain,
		message.HTML,
		members,
		monitors,
		pendingMembers,
		message.UserAgent,
	)
	if err != nil {
		r.logger.Err(err).Str("func", "SaveMessage").Str("messageID", message.ID).Msg("error saving message")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	// attachments are replaced wholesale with the message
	if _, err = tx.ExecContext(ctx, deleteMessageAttachments, message.ID); err != nil {
		r.logger.Err(err).Str("func", "SaveMessage").Str("messageID", message.ID).Msg("error clearing attachments")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	for idx, a := range message.Attachments {
		_, err = tx.ExecContext(ctx, saveAttachment, message.ID, idx, a.Name, a.Type, a.Size, a.Data)
		if err != nil {
			r.logger.Err(err).Str("func", "SaveMessage").Str("messageID", message.ID).Msg("error saving attachment")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.logger.Err(err).Str("func", "SaveMessage").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *messageRepository) messageAttachments(ctx context.Context, messageID string) ([]models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, getMessageAttachments, messageID)
	if err != nil {
		r.logger.Err(err).Str("func", "messageAttachments").Str("messageID", messageID).Msg("error querying attachments")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.Name, &a.Type, &a.Size, &a.Data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return attachments, nil
}
