package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{
			name:     "empty address",
			addr:     NetAddress{},
			expected: "",
		},
		{
			name:     "localhost with port",
			addr:     NetAddress{Host: "localhost", Port: 8480},
			expected: "localhost:8480",
		},
		{
			name:     "IP address with port",
			addr:     NetAddress{Host: "127.0.0.1", Port: 9090},
			expected: "127.0.0.1:9090",
		},
		{
			name:     "only port no host",
			addr:     NetAddress{Host: "", Port: 8480},
			expected: ":8480",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

// TestNetAddress_Set tests parsing of host:port strings
func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		host    string
		port    int
	}{
		{name: "valid localhost", input: "localhost:8480", host: "localhost", port: 8480},
		{name: "valid ip", input: "127.0.0.1:9000", host: "127.0.0.1", port: 9000},
		{name: "missing port", input: "localhost", wantErr: true},
		{name: "bad port", input: "localhost:abc", wantErr: true},
		{name: "negative port", input: "localhost:-1", wantErr: true},
		{name: "bad host", input: "not-an-ip:8080", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, a.Host)
			assert.Equal(t, tt.port, a.Port)
		})
	}
}

// resetFlags replaces the global flag set and os.Args so ParseFlags can be
// called more than once per test binary.
func resetFlags(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	oldCommandLine := flag.CommandLine
	t.Cleanup(func() {
		os.Args = oldArgs
		flag.CommandLine = oldCommandLine
	})
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	os.Args = append([]string{os.Args[0]}, args...)
}

func TestParseFlags_AllFlags(t *testing.T) {
	resetFlags(t,
		"-a", "localhost:8585",
		"-relay", "https://relay.example.com",
		"-d", "/tmp/content.db",
		"-c", "/tmp/config.json",
		"-device-id", "dev-42",
		"-device-name", "phone",
		"-sync-interval", "30m",
		"-request-timeout", "15s",
	)

	cfg := ParseFlags()

	assert.Equal(t, "dev-42", cfg.App.DeviceID)
	assert.Equal(t, "phone", cfg.App.DeviceName)
	assert.Equal(t, "localhost:8585", cfg.Transport.ListenAddress)
	assert.Equal(t, "https://relay.example.com", cfg.Transport.RelayAddress)
	assert.Equal(t, 15*time.Second, cfg.Transport.RequestTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, "/tmp/content.db", cfg.Storage.DSN)
	assert.Equal(t, "/tmp/config.json", cfg.JSONFilePath)
}

func TestParseFlags_NoFlags(t *testing.T) {
	resetFlags(t)

	cfg := ParseFlags()

	assert.Empty(t, cfg.App.DeviceID)
	assert.Empty(t, cfg.Transport.ListenAddress)
	assert.Zero(t, cfg.Sync.Interval)
	assert.Empty(t, cfg.Storage.DSN)
}
