package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &DB{DB: conn, logger: logger.Nop()}, mock
}

func threadColumns() []string {
	return []string{
		"id", "type", "distribution", "last_message", "has_left",
		"pending_members", "pinned", "position", "sender", "started",
		"timestamp", "unread_count",
	}
}

func TestThreadRepository_GetThread(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewThreadRepository(db)

	rows := sqlmock.NewRows(threadColumns()).
		AddRow("thread-1", "conversation", "(<a> + <b>)", "see you there", false,
			`["carol"]`, true, 2, "alice", int64(1700000000000),
			int64(1700000500000), 4)
	mock.ExpectQuery(regexp.QuoteMeta(getSingleThread)).
		WithArgs("thread-1").
		WillReturnRows(rows)

	thread, err := repo.GetThread(context.Background(), "thread-1")
	require.NoError(t, err)

	assert.Equal(t, "thread-1", thread.ID)
	assert.Equal(t, "conversation", thread.Type)
	assert.Equal(t, []string{"carol"}, thread.PendingMembers)
	assert.Equal(t, int64(1700000500000), thread.Timestamp)
	assert.True(t, thread.Pinned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepository_GetThread_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewThreadRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(getSingleThread)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(threadColumns()))

	_, err := repo.GetThread(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrThreadNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepository_GetAllThreads(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewThreadRepository(db)

	rows := sqlmock.NewRows(threadColumns()).
		AddRow("thread-1", "conversation", "(<a>)", "hi", false, `[]`,
			false, 0, "alice", int64(1), int64(2), 0).
		AddRow("thread-2", "announcement", "(<b>)", "bye", true, `[]`,
			false, 1, "bob", int64(3), int64(4), 7)
	mock.ExpectQuery(regexp.QuoteMeta(getAllThreads)).WillReturnRows(rows)

	threads, err := repo.GetAllThreads(context.Background())
	require.NoError(t, err)

	require.Len(t, threads, 2)
	assert.Equal(t, "thread-2", threads[1].ID)
	assert.True(t, threads[1].Left)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepository_SaveThread(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewThreadRepository(db)

	thread := models.Thread{
		ID:             "thread-1",
		Type:           "conversation",
		Distribution:   "(<a> + <b>)",
		LastMessage:    "see you there",
		PendingMembers: []string{"carol"},
		Pinned:         true,
		Position:       2,
		Sender:         "alice",
		Started:        1700000000000,
		Timestamp:      1700000500000,
		UnreadCount:    4,
	}

	mock.ExpectExec(regexp.QuoteMeta(saveThread)).
		WithArgs(thread.ID, thread.Type, thread.Distribution, thread.LastMessage,
			thread.Left, `["carol"]`, thread.Pinned, thread.Position,
			thread.Sender, thread.Started, thread.Timestamp, thread.UnreadCount).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveThread(context.Background(), thread))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepository_SaveThread_ExecError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewThreadRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(saveThread)).
		WillReturnError(assert.AnError)

	err := repo.SaveThread(context.Background(), models.Thread{ID: "thread-1"})
	assert.ErrorIs(t, err, ErrExecutingStatement)
}
