// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"

	"github.com/solace-im/devicesync/models"
)

// memoryStore is a process-local implementation of all repository interfaces.
// It backs tests and the loopback transport harness where no durable storage
// is wanted. All maps are guarded by a single RWMutex; values are copied on
// the way in and out so callers cannot alias internal state.
type memoryStore struct {
	mu       sync.RWMutex
	threads  map[string]models.Thread
	messages map[string][]models.Message // keyed by thread id
	contacts map[string]models.Contact
	devices  map[string]models.Device
	registry map[string]models.DeviceInfo
	lastSync int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		threads:  map[string]models.Thread{},
		messages: map[string][]models.Message{},
		contacts: map[string]models.Contact{},
		devices:  map[string]models.Device{},
		registry: map[string]models.DeviceInfo{},
	}
}

func (s *memoryStore) GetThread(_ context.Context, id string) (models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	thread, ok := s.threads[id]
	if !ok {
		return models.Thread{}, ErrThreadNotFound
	}
	return thread, nil
}

func (s *memoryStore) GetAllThreads(_ context.Context) ([]models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	threads := make([]models.Thread, 0, len(s.threads))
	for _, thread := range s.threads {
		threads = append(threads, thread)
	}
	return threads, nil
}

func (s *memoryStore) SaveThread(_ context.Context, thread models.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.threads[thread.ID] = thread
	return nil
}

func (s *memoryStore) GetThreadMessages(_ context.Context, threadID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]models.Message, len(s.messages[threadID]))
	copy(messages, s.messages[threadID])
	return messages, nil
}

func (s *memoryStore) SaveMessage(_ context.Context, message models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.messages[message.ThreadID]
	for i, m := range existing {
		if m.ID == message.ID {
			existing[i] = message
			return nil
		}
	}
	s.messages[message.ThreadID] = append(existing, message)
	return nil
}

func (s *memoryStore) GetAllContacts(_ context.Context) ([]models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contacts := make([]models.Contact, 0, len(s.contacts))
	for _, contact := range s.contacts {
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

func (s *memoryStore) SaveContact(_ context.Context, contact models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts[contact.ID] = contact
	return nil
}

func (s *memoryStore) GetDevices(_ context.Context) ([]models.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	devices := make([]models.Device, 0, len(s.devices))
	for _, device := range s.devices {
		devices = append(devices, device)
	}
	return devices, nil
}

func (s *memoryStore) SaveDevice(_ context.Context, device models.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices[device.ID] = device
	return nil
}

func (s *memoryStore) DeviceRegistry(_ context.Context) (map[string]models.DeviceInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	registry := make(map[string]models.DeviceInfo, len(s.registry))
	for id, info := range s.registry {
		registry[id] = info
	}
	return registry, nil
}

func (s *memoryStore) SaveDeviceRegistry(_ context.Context, registry map[string]models.DeviceInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry = make(map[string]models.DeviceInfo, len(registry))
	for id, info := range registry {
		s.registry[id] = info
	}
	return nil
}

func (s *memoryStore) LastSync(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastSync, nil
}

func (s *memoryStore) SetLastSync(_ context.Context, millis int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSync = millis
	return nil
}
