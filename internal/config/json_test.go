package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_FullConfig(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"app": map[string]any{
			"device_id":   "dev-7",
			"device_name": "tablet",
			"user_agent":  "devicesync/2.0.0",
			"version":     "2.0.0",
		},
		"sync": map[string]any{
			"default_ttl":        "1m",
			"message_batch_size": 100,
			"stagger_step":       "15s",
			"device_stale_after": "72h",
			"location_timeout":   "30s",
			"fresh_window":       "120h",
			"interval":           "1h",
		},
		"transport": map[string]any{
			"listen_address":  "localhost:8480",
			"relay_address":   "https://relay.example.com",
			"request_timeout": "30s",
			"retry_count":     3,
		},
		"storage": map[string]any{"dsn": "/var/lib/devicesync/content.db"},
	})

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "dev-7", cfg.App.DeviceID)
	assert.Equal(t, "tablet", cfg.App.DeviceName)
	assert.Equal(t, time.Minute, cfg.Sync.DefaultTTL)
	assert.Equal(t, 100, cfg.Sync.MessageBatchSize)
	assert.Equal(t, 15*time.Second, cfg.Sync.StaggerStep)
	assert.Equal(t, 72*time.Hour, cfg.Sync.DeviceStaleAfter)
	assert.Equal(t, 30*time.Second, cfg.Sync.LocationTimeout)
	assert.Equal(t, 120*time.Hour, cfg.Sync.FreshWindow)
	assert.Equal(t, time.Hour, cfg.Sync.Interval)
	assert.Equal(t, "localhost:8480", cfg.Transport.ListenAddress)
	assert.Equal(t, 3, cfg.Transport.RetryCount)
	assert.Equal(t, "/var/lib/devicesync/content.db", cfg.Storage.DSN)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	f := writeTempJSONConfig(t, "not an object")

	_, err := parseJSON(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "string duration", input: `"1h30m"`, expected: 90 * time.Minute},
		{name: "numeric nanoseconds", input: `1000000000`, expected: time.Second},
		{name: "bad string", input: `"soon"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, time.Duration(d))
		})
	}
}
