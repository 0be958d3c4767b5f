// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Config is the top-level configuration container for the devicesync daemon.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, an optional JSON file, and
// built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type Config struct {
	// App holds the local device identity reported during deviceInfo sync.
	App App `envPrefix:"APP_"`

	// Sync holds the tuning knobs of the reconciliation protocol.
	Sync Sync `envPrefix:"SYNC_"`

	// Transport holds network settings of the control-exchange transport.
	Transport Transport `envPrefix:"TRANSPORT_"`

	// Storage holds configuration for the local persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App identifies the local device among the user's provisioned devices.
type App struct {
	// DeviceID is the stable id of this device in the user's device
	// directory. Required.
	// Env: APP_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// DeviceName is the human-readable name reported in deviceInfo
	// snapshots (e.g. "laptop", "phone").
	// Env: APP_DEVICE_NAME
	DeviceName string `env:"DEVICE_NAME"`

	// UserAgent is the client identification string reported in deviceInfo
	// snapshots and stamped on synchronized messages.
	// Env: APP_USER_AGENT
	UserAgent string `env:"USER_AGENT"`

	// Version is the semantic version string of the running daemon.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Sync holds the tuning knobs of the reconciliation protocol. All values
// have working defaults; they exist so operators and tests can tighten or
// relax the protocol's timing without code changes.
type Sync struct {
	// DefaultTTL is the time-to-live stamped on outgoing sync requests.
	// Responders receiving the request after this much time has elapsed
	// since it was sent drop it silently.
	// Env: SYNC_DEFAULT_TTL
	DefaultTTL time.Duration `env:"DEFAULT_TTL"`

	// MessageBatchSize caps how many messages a responder packs into a
	// single syncResponse exchange.
	// Env: SYNC_MESSAGE_BATCH_SIZE
	MessageBatchSize int `env:"MESSAGE_BATCH_SIZE"`

	// StaggerStep is the per-position delay a responder waits before
	// answering: a device at index i of the request's device list sleeps
	// i × StaggerStep, giving higher-priority devices a head start.
	// Env: SYNC_STAGGER_STEP
	StaggerStep time.Duration `env:"STAGGER_STEP"`

	// DeviceStaleAfter excludes devices not seen for longer than this from
	// automatic target resolution.
	// Env: SYNC_DEVICE_STALE_AFTER
	DeviceStaleAfter time.Duration `env:"DEVICE_STALE_AFTER"`

	// LocationTimeout bounds the geolocation query during deviceInfo
	// responses; on timeout the location field is omitted.
	// Env: SYNC_LOCATION_TIMEOUT
	LocationTimeout time.Duration `env:"LOCATION_TIMEOUT"`

	// FreshWindow is how recently a full sync must have completed for the
	// periodic job to consider the local state fresh and skip a round.
	// Env: SYNC_FRESH_WINDOW
	FreshWindow time.Duration `env:"FRESH_WINDOW"`

	// Interval defines how often the periodic sync job wakes up.
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`
}

// Transport holds network settings for the control-exchange transport.
type Transport struct {
	// ListenAddress is the TCP address on which the inbound exchange
	// endpoint listens, in "host:port" format.
	// Env: TRANSPORT_LISTEN_ADDRESS
	ListenAddress string `env:"LISTEN_ADDRESS"`

	// RelayAddress is the base URL of the relay that forwards control
	// exchanges between the user's devices.
	// Env: TRANSPORT_RELAY_ADDRESS
	RelayAddress string `env:"RELAY_ADDRESS"`

	// RequestTimeout is the maximum duration of one outbound send before
	// the transport cancels it.
	// Env: TRANSPORT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryCount is how many times the transport retries a failed send
	// before giving up. Responders rely on this instead of re-computing
	// failed batches themselves.
	// Env: TRANSPORT_RETRY_COUNT
	RetryCount int `env:"RETRY_COUNT"`
}

// Storage holds connection settings for the local database backend.
type Storage struct {
	// DSN is the SQLite data source name of the local content store
	// (e.g. "file:devicesync.db" or a plain path).
	// Env: STORAGE_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// defaults returns the built-in fallback configuration merged in last, so
// it only fills fields left unset by every other source.
func defaults() *Config {
	return &Config{
		Sync: Sync{
			DefaultTTL:       time.Minute,
			MessageBatchSize: 100,
			StaggerStep:      15 * time.Second,
			DeviceStaleAfter: 3 * 24 * time.Hour,
			LocationTimeout:  30 * time.Second,
			FreshWindow:      5 * 24 * time.Hour,
			Interval:         time.Hour,
		},
		Transport: Transport{
			ListenAddress:  "localhost:8480",
			RequestTimeout: 30 * time.Second,
			RetryCount:     3,
		},
		Storage: Storage{
			DSN: "devicesync.db",
		},
	}
}

// GetConfig loads, merges, and validates the daemon configuration from all
// available sources in the following priority order (earlier sources win for
// non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *Config or an error if any source fails to load
// or the final config fails validation.
func GetConfig() (*Config, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
