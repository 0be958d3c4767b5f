package config

import "errors"

// Validation errors returned by [Config.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid device identity settings
	// (for example, a missing device id).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidTransportConfigs indicates invalid transport settings
	// (for example, missing listen address or request timeout).
	ErrInvalidTransportConfigs = errors.New("invalid transport configuration")
	// ErrInvalidSyncConfigs indicates invalid sync protocol settings
	// (for example, a zero message batch size or sync interval).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
