package store

// Storages groups every repository the sync engine needs behind one handle.
type Storages struct {
	Threads  ThreadRepository
	Messages MessageRepository
	Contacts ContactRepository
	Devices  DeviceDirectory
	State    StateRepository
}

// NewSQLiteStorages wires all repositories onto a single SQLite connection.
func NewSQLiteStorages(db *DB) *Storages {
	return &Storages{
		Threads:  NewThreadRepository(db),
		Messages: NewMessageRepository(db),
		Contacts: NewContactRepository(db),
		Devices:  NewDeviceDirectory(db),
		State:    NewStateRepository(db),
	}
}

// NewMemoryStorages returns Storages backed by a single process-local store.
func NewMemoryStorages() *Storages {
	mem := newMemoryStore()
	return &Storages{
		Threads:  mem,
		Messages: mem,
		Contacts: mem,
		Devices:  mem,
		State:    mem,
	}
}
