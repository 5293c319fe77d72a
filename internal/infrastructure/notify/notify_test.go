package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuscrm/hygiene/internal/domain/models"
)

func testAlert() models.Alert {
	return models.Alert{
		ID:        "alert-1",
		Recipient: "rep@example.com",
		Subject:   "CRM hygiene: stale",
		Message:   "Record 3 is stale",
		Kind:      "stale",
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	require.NoError(t, n.Notify(context.Background(), testAlert()))
	assert.Contains(t, buf.String(), `"recipient":"rep@example.com"`)
	assert.Contains(t, buf.String(), "Record 3 is stale")
}

func TestWebhookNotifier(t *testing.T) {
	var got models.Alert
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	defer func() { _ = n.Close() }()

	require.NoError(t, n.Notify(context.Background(), testAlert()))
	assert.Equal(t, "alert-1", got.ID)
	assert.Equal(t, "Record 3 is stale", got.Message)
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	defer func() { _ = n.Close() }()

	err := n.Notify(context.Background(), testAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, models.Alert) error {
	return errors.New("down")
}

func TestFanout(t *testing.T) {
	mem := NewMemorySink()
	f := NewFanout(failingNotifier{}, mem)

	err := f.Deliver(context.Background(), testAlert())
	assert.ErrorContains(t, err, "down")
	assert.Len(t, mem.Alerts(), 1, "later notifiers still run")

	assert.NoError(t, NewFanout(mem).Notify(context.Background(), testAlert()))
	assert.Len(t, mem.Alerts(), 2)
}
