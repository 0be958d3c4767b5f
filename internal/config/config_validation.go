// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [Config] satisfies the daemon's
// invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *Config) validate() error {
	if cfg.App.DeviceID == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DSN == "" || strings.Contains(cfg.Storage.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Transport.ListenAddress == "" || cfg.Transport.RequestTimeout == 0 {
		return ErrInvalidTransportConfigs
	}

	if cfg.Sync.MessageBatchSize <= 0 || cfg.Sync.Interval <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
