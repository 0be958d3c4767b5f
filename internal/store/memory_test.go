package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solace-im/devicesync/models"
)

func TestMemoryStorages_Threads(t *testing.T) {
	ctx := context.Background()
	storages := NewMemoryStorages()

	_, err := storages.Threads.GetThread(ctx, "missing")
	assert.ErrorIs(t, err, ErrThreadNotFound)

	thread := models.Thread{ID: "thread-1", Timestamp: 100}
	require.NoError(t, storages.Threads.SaveThread(ctx, thread))

	got, err := storages.Threads.GetThread(ctx, "thread-1")
	require.NoError(t, err)
	assert.Equal(t, thread, got)

	// save is an upsert
	thread.Timestamp = 200
	require.NoError(t, storages.Threads.SaveThread(ctx, thread))

	all, err := storages.Threads.GetAllThreads(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(200), all[0].Timestamp)
}

func TestMemoryStorages_Messages(t *testing.T) {
	ctx := context.Background()
	storages := NewMemoryStorages()

	first := models.Message{ID: "msg-1", ThreadID: "thread-1", Plain: "hi"}
	second := models.Message{ID: "msg-2", ThreadID: "thread-1", Plain: "there"}
	require.NoError(t, storages.Messages.SaveMessage(ctx, first))
	require.NoError(t, storages.Messages.SaveMessage(ctx, second))

	// re-saving the same id replaces in place
	first.Plain = "hello"
	require.NoError(t, storages.Messages.SaveMessage(ctx, first))

	messages, err := storages.Messages.GetThreadMessages(ctx, "thread-1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Plain)

	other, err := storages.Messages.GetThreadMessages(ctx, "thread-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStorages_State(t *testing.T) {
	ctx := context.Background()
	storages := NewMemoryStorages()

	last, err := storages.State.LastSync(ctx)
	require.NoError(t, err)
	assert.Zero(t, last)

	require.NoError(t, storages.State.SetLastSync(ctx, 1700000000000))
	last, err = storages.State.LastSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), last)

	registry, err := storages.State.DeviceRegistry(ctx)
	require.NoError(t, err)
	assert.Empty(t, registry)

	registry["dev-1"] = models.DeviceInfo{ID: "dev-1", Name: "laptop"}
	require.NoError(t, storages.State.SaveDeviceRegistry(ctx, registry))

	// mutating the saved map must not affect the stored copy
	registry["dev-1"] = models.DeviceInfo{ID: "dev-1", Name: "tampered"}

	stored, err := storages.State.DeviceRegistry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "laptop", stored["dev-1"].Name)
}

func TestMemoryStorages_DevicesAndContacts(t *testing.T) {
	ctx := context.Background()
	storages := NewMemoryStorages()

	require.NoError(t, storages.Devices.SaveDevice(ctx, models.Device{ID: "dev-1", Created: 10}))
	require.NoError(t, storages.Devices.SaveDevice(ctx, models.Device{ID: "dev-2", Created: 20}))

	devices, err := storages.Devices.GetDevices(ctx)
	require.NoError(t, err)
	assert.Len(t, devices, 2)

	require.NoError(t, storages.Contacts.SaveContact(ctx, models.Contact{ID: "c-1", Tag: "@alice"}))
	contacts, err := storages.Contacts.GetAllContacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "@alice", contacts[0].Tag)
}
