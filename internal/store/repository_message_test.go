package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solace-im/devicesync/models"
)

func TestMessageRepository_SaveMessage_WithAttachments(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db)

	message := models.Message{
		ID:           "msg-1",
		ThreadID:     "thread-1",
		Type:         "content",
		Sender:       "alice",
		SenderDevice: "dev-2",
		Sent:         1700000000000,
		Received:     1700000000100,
		Plain:        "photo attached",
		Attachments: []models.Attachment{
			{Name: "photo.jpg", Type: "image/jpeg", Size: 3, Data: []byte{1, 2, 3}},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(saveMessage)).
		WithArgs(message.ID, message.ThreadID, message.Type, message.Sender,
			message.SenderDevice, message.Sent, message.Received,
			message.Expiration, message.Plain, message.HTML,
			`[]`, `[]`, `[]`, message.UserAgent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteMessageAttachments)).
		WithArgs(message.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(saveAttachment)).
		WithArgs(message.ID, 0, "photo.jpg", "image/jpeg", int64(3), []byte{1, 2, 3}).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveMessage(context.Background(), message))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_SaveMessage_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(saveMessage)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.SaveMessage(context.Background(), models.Message{ID: "msg-1"})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_GetThreadMessages(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db)

	messageRows := sqlmock.NewRows([]string{
		"id", "thread_id", "type", "sender", "sender_device", "sent",
		"received", "expiration", "plain", "html", "members", "monitors",
		"pending_members", "user_agent",
	}).AddRow("msg-1", "thread-1", "content", "alice", "dev-2",
		int64(1700000000000), int64(1700000000100), int64(0),
		"photo attached", "", `["alice","bob"]`, `[]`, `[]`, "librelay")
	mock.ExpectQuery(regexp.QuoteMeta(getThreadMessages)).
		WithArgs("thread-1").
		WillReturnRows(messageRows)

	attachmentRows := sqlmock.NewRows([]string{"name", "type", "size", "data"}).
		AddRow("photo.jpg", "image/jpeg", int64(3), []byte{1, 2, 3})
	mock.ExpectQuery(regexp.QuoteMeta(getMessageAttachments)).
		WithArgs("msg-1").
		WillReturnRows(attachmentRows)

	messages, err := repo.GetThreadMessages(context.Background(), "thread-1")
	require.NoError(t, err)

	require.Len(t, messages, 1)
	assert.Equal(t, []string{"alice", "bob"}, messages[0].Members)
	require.Len(t, messages[0].Attachments, 1)
	assert.Equal(t, []byte{1, 2, 3}, messages[0].Attachments[0].Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}
