package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solace-im/devicesync/internal/config"
	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

func TestRelaySender_Send(t *testing.T) {
	var received models.Envelope
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/exchange", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer relay.Close()

	sender := NewRelaySender(config.Transport{RelayAddress: relay.URL}, logger.Nop())

	envelope := models.Envelope{
		ThreadID:     "session-1",
		Control:      models.ControlSyncRequest,
		SenderDevice: "dev-1",
		Sent:         1700000000000,
		Devices:      []string{"dev-2", "dev-3"},
		Request:      &models.SyncRequest{Type: models.SyncTypeContentHistory, TTL: 60000},
	}
	require.NoError(t, sender.Send(context.Background(), envelope))

	assert.Equal(t, "session-1", received.ThreadID)
	assert.Equal(t, []string{"dev-2", "dev-3"}, received.Devices)
	require.NotNil(t, received.Request)
	assert.Equal(t, models.SyncTypeContentHistory, received.Request.Type)
}

func TestRelaySender_Send_RelayError(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer relay.Close()

	sender := NewRelaySender(config.Transport{RelayAddress: relay.URL}, logger.Nop())

	err := sender.Send(context.Background(), models.Envelope{ThreadID: "session-1"})
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestRelaySender_Send_ConnectionRefused(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	relay.Close() // nothing listening anymore

	sender := NewRelaySender(config.Transport{RelayAddress: relay.URL}, logger.Nop())

	err := sender.Send(context.Background(), models.Envelope{ThreadID: "session-1"})
	assert.ErrorIs(t, err, ErrSendFailed)
}
