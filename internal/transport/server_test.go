package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

func newTestExchangeHandler(handler Handler) http.Handler {
	s := &Server{handler: handler, logger: logger.Nop()}
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Post(exchangePath, s.handleExchange)
	return router
}

func TestServer_HandleExchange(t *testing.T) {
	var got models.Envelope
	router := newTestExchangeHandler(func(_ context.Context, envelope models.Envelope) error {
		got = envelope
		return nil
	})

	body, err := json.Marshal(models.Envelope{
		ThreadID:     "session-1",
		Control:      models.ControlSyncResponse,
		SenderDevice: "dev-2",
		Response:     &models.SyncResponse{Device: "dev-2", Contacts: []string{"c-1"}},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, exchangePath, bytes.NewReader(body)))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "session-1", got.ThreadID)
	require.NotNil(t, got.Response)
	assert.Equal(t, []string{"c-1"}, got.Response.Contacts)
}

func TestServer_HandleExchange_MalformedBody(t *testing.T) {
	router := newTestExchangeHandler(func(context.Context, models.Envelope) error {
		t.Fatal("handler must not be called for malformed envelopes")
		return nil
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, exchangePath, bytes.NewReader([]byte("{not json"))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_HandleExchange_HandlerErrorStaysLocal(t *testing.T) {
	router := newTestExchangeHandler(func(context.Context, models.Envelope) error {
		return assert.AnError
	})

	body, err := json.Marshal(models.Envelope{ThreadID: "session-1"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, exchangePath, bytes.NewReader(body)))

	// processing failures are not surfaced to the relay
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
