package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

type threadRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewThreadRepository creates a SQLite-backed ThreadRepository.
func NewThreadRepository(db *DB) ThreadRepository {
	return &threadRepository{
		db:     db,
		logger: db.logger.GetChildLogger("threadRepository"),
	}
}

func (r *threadRepository) GetThread(ctx context.Context, id string) (models.Thread, error) {
	row := r.db.QueryRowContext(ctx, getSingleThread, id)

	thread, err := scanThread(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Thread{}, ErrThreadNotFound
		}
		r.logger.Err(err).Str("func", "GetThread").Str("threadID", id).Msg("error scanning thread row")
		return models.Thread{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return thread, nil
}

func (r *threadRepository) GetAllThreads(ctx context.Context) ([]models.Thread, error) {
	rows, err := r.db.QueryContext(ctx, getAllThreads)
	if err != nil {
		r.logger.Err(err).Str("func", "GetAllThreads").Msg("error querying threads")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var threads []models.Thread
	for rows.Next() {
		thread, err := scanThread(rows.Scan)
		if err != nil {
			r.logger.Err(err).Str("func", "GetAllThreads").Msg("error scanning thread row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		threads = append(threads, thread)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return threads, nil
}

func (r *threadRepository) SaveThread(ctx context.Context, thread models.Thread) error {
	pendingMembers, err := encodeStringSlice(thread.PendingMembers)
	if err != nil {
		return fmt.Errorf("failed to encode pending members: %w", err)
	}

	_, err = r.db.ExecContext(ctx, saveThread,
		thread.ID,
		thread.Type,
		thread.Distribution,
		thread.LastMessage,
		thread.Left,
		pendingMembers,
		thread.Pinned,
		thread.Position,
		thread.Sender,
		thread.Started,
		thread.Timestamp,
		thread.UnreadCount,
	)
	if err != nil {
		r.logger.Err(err).Str("func", "SaveThread").Str("threadID", thread.ID).Msg("error saving thread")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func scanThread(scan func(dest ...any) error) (models.Thread, error) {
	var thread models.Thread
	var pendingMembers string

	err := scan(
		&thread.ID,
		&thread.Type,
		&thread.Distribution,
		&thread.LastMessage,
		&thread.Left,
		&pendingMembers,
		&thread.Pinned,
		&thread.Position,
		&thread.Sender,
		&thread.Started,
		&thread.Timestamp,
		&thread.UnreadCount,
	)
	if err != nil {
		return models.Thread{}, err
	}

	thread.PendingMembers, err = decodeStringSlice(pendingMembers)
	if err != nil {
		return models.Thread{}, err
	}

	return thread, nil
}
