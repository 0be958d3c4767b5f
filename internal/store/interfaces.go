package store

import (
	"context"

	"github.com/solace-im/devicesync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ThreadRepository is the local store of conversation threads. SaveThread is
// an upsert keyed by thread id; sync never deletes threads.
type ThreadRepository interface {
	GetThread(ctx context.Context, id string) (models.Thread, error)
	GetAllThreads(ctx context.Context) ([]models.Thread, error)
	SaveThread(ctx context.Context, thread models.Thread) error
}

// MessageRepository is the local store of messages, including their inline
// attachment payloads. SaveMessage is an upsert keyed by message id.
type MessageRepository interface {
	GetThreadMessages(ctx context.Context, threadID string) ([]models.Message, error)
	SaveMessage(ctx context.Context, message models.Message) error
}

// ContactRepository is the local address book. SaveContact is an upsert
// keyed by contact id.
type ContactRepository interface {
	GetAllContacts(ctx context.Context) ([]models.Contact, error)
	SaveContact(ctx context.Context, contact models.Contact) error
}

// DeviceDirectory lists the user's provisioned devices as last reported by
// the account directory.
type DeviceDirectory interface {
	GetDevices(ctx context.Context) ([]models.Device, error)
	SaveDevice(ctx context.Context, device models.Device) error
}

// StateRepository is a small durable key/value state holding the observed
// device registry and sync bookkeeping.
type StateRepository interface {
	DeviceRegistry(ctx context.Context) (map[string]models.DeviceInfo, error)
	SaveDeviceRegistry(ctx context.Context, registry map[string]models.DeviceInfo) error
	LastSync(ctx context.Context) (int64, error) // epoch milliseconds, 0 when never synced
	SetLastSync(ctx context.Context, millis int64) error
}
