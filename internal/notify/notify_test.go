package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	path string
	body map[string]any
}

func newTelegramAPI(t *testing.T) (*httptest.Server, func() []capturedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []capturedRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		requests = append(requests, capturedRequest{path: r.URL.Path, body: body})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`))
	}))
	t.Cleanup(server.Close)

	return server, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest{}, requests...)
	}
}

func TestNewTelegramNotifierRequiresSettings(t *testing.T) {
	_, err := NewTelegramNotifier(TelegramSettings{Token: "token"})
	assert.ErrorIs(t, err, ErrTelegramNotConfigured)
}

func TestTelegramNotifierSendsToConfiguredChat(t *testing.T) {
	server, requests := newTelegramAPI(t)
	notifier, err := NewTelegramNotifier(TelegramSettings{Token: "test-token", ChatID: 42, APIURL: server.URL})
	require.NoError(t, err)

	require.NoError(t, notifier.Notify(context.Background(), "Flowers is due today"))

	captured := requests()
	require.Len(t, captured, 1)
	assert.True(t, strings.HasSuffix(captured[0].path, "/sendMessage"), "unexpected path %s", captured[0].path)
	assert.Equal(t, "42", fmt.Sprint(captured[0].body["chat_id"]))
	assert.Equal(t, "Flowers is due today", captured[0].body["text"])
}

func TestTelegramNotifierHonoursCancelledContext(t *testing.T) {
	server, requests := newTelegramAPI(t)
	notifier, err := NewTelegramNotifier(TelegramSettings{Token: "test-token", ChatID: 42, APIURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, notifier.Notify(ctx, "hello"), context.Canceled)
	assert.Empty(t, requests())
}

func TestLogNotifierNeverFails(t *testing.T) {
	assert.NoError(t, LogNotifier{}.Notify(context.Background(), "hello"))
}
